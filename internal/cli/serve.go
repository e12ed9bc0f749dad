package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dennisohere/quickform/internal/config"
	"github.com/dennisohere/quickform/internal/handler"
	"github.com/dennisohere/quickform/internal/middleware"
	"github.com/dennisohere/quickform/internal/scheduler"
	"github.com/dennisohere/quickform/internal/service"
	"github.com/dennisohere/quickform/internal/service/reminder"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd runs the HTTP API, the delivery queue and the job scheduler in
// one process.
func NewServeCmd(configPath *string) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server, delivery workers and scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath, migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply database migrations before starting")
	return cmd
}

func runServe(ctx context.Context, path string, migrate bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx, path)
	if err != nil {
		return err
	}
	defer rt.Close()

	if migrate {
		if err := config.Migrate(ctx, rt.db); err != nil {
			return err
		}
		rt.log.Info("migrations applied")
	}

	app := newHTTPApp(rt)

	sched := scheduler.New(scheduler.NewLocker(rt.redis), rt.cfg.Schedule.LockTTL, rt.log)
	if err := registerJobs(sched, rt.cfg.Schedule, rt.services); err != nil {
		return err
	}

	queue := rt.services.Queue
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rt.log.WithField("port", rt.cfg.Port).Info("server starting")
		return app.Listen(":" + rt.cfg.Port)
	})

	g.Go(func() error {
		<-gctx.Done()
		rt.log.Info("shutting down")
		err := app.ShutdownWithTimeout(shutdownTimeout)
		queue.Close()
		return err
	})

	// The queue drains after Close instead of stopping on the signal.
	g.Go(func() error {
		return queue.Run(context.WithoutCancel(gctx))
	})

	g.Go(func() error {
		return sched.Run(gctx)
	})

	return g.Wait()
}

func newHTTPApp(rt *runtime) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.NewErrorHandler(rt.log),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: rt.cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, OPTIONS",
	}))

	handler.NewHandlers(rt.services).Register(app, rt.cfg.JWTSecret)
	return app
}

func registerJobs(sched *scheduler.Scheduler, cfg config.ScheduleConfig, services *service.Services) error {
	if cfg.Pending != "" {
		err := sched.Add(scheduler.JobSendPending, cfg.Pending, func(ctx context.Context) error {
			_, err := services.Delivery.SendAllPending(ctx)
			return err
		})
		if err != nil {
			return err
		}
	}

	if cfg.Digest != "" {
		err := sched.Add(scheduler.JobDigest, cfg.Digest, func(ctx context.Context) error {
			_, err := services.Delivery.SendDailyDigestAll(ctx)
			return err
		})
		if err != nil {
			return err
		}
	}

	if cfg.Reminders != "" {
		err := sched.Add(scheduler.JobReminders, cfg.Reminders, func(ctx context.Context) error {
			_, err := services.Reminder.Run(ctx, reminder.ModeAll)
			return err
		})
		if err != nil {
			return err
		}
	}

	return nil
}
