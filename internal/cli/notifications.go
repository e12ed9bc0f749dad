package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dennisohere/quickform/internal/scheduler"
	"github.com/dennisohere/quickform/internal/service/reminder"
)

// NewNotificationsCmd groups the one-shot notification jobs. They share the
// scheduler's job locks, so a manual run never overlaps a scheduled one.
func NewNotificationsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Send pending notifications, digests and reminders",
	}

	cmd.AddCommand(newSendCmd(configPath))
	cmd.AddCommand(newRemindersCmd(configPath))
	return cmd
}

func newSendCmd(configPath *string) *cobra.Command {
	var digest bool

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Email every unsent notification, or the daily digest with --digest",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			if digest {
				return runLocked(cmd.Context(), rt, scheduler.JobDigest, func(ctx context.Context) error {
					return sendDigests(ctx, rt, cmd.OutOrStdout())
				})
			}
			return runLocked(cmd.Context(), rt, scheduler.JobSendPending, func(ctx context.Context) error {
				return sendPending(ctx, rt, cmd.OutOrStdout())
			})
		},
	}

	cmd.Flags().BoolVar(&digest, "digest", false, "send the daily digest instead of individual notifications")
	return cmd
}

func newRemindersCmd(configPath *string) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Remind owners about unpublished surveys and surveys without responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := reminder.ParseMode(mode)
			if err != nil {
				return err
			}

			rt, err := bootstrap(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			return runLocked(cmd.Context(), rt, scheduler.JobReminders, func(ctx context.Context) error {
				count, err := rt.services.Reminder.Run(ctx, parsed)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sent %d reminder notifications\n", count)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&mode, "type", string(reminder.ModeAll), "reminder type: all, unpublished or no-responses")
	return cmd
}

func sendPending(ctx context.Context, rt *runtime, out io.Writer) error {
	result, err := rt.services.Delivery.SendAllPending(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Attempted %d notifications: %d sent, %d skipped, %d failed\n",
		result.Attempted, result.Sent, result.Skipped, result.Failed)
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d notifications failed: %w", result.Failed, result.Attempted, result.Failures)
	}
	return nil
}

func sendDigests(ctx context.Context, rt *runtime, out io.Writer) error {
	result, err := rt.services.Delivery.SendDailyDigestAll(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Sent %d daily digests to %d users, %d failed\n", result.Sent, result.Users, result.Failed)
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d digests failed: %w", result.Failed, result.Users, result.Failures)
	}
	return nil
}

func runLocked(ctx context.Context, rt *runtime, job string, fn func(ctx context.Context) error) error {
	locker := scheduler.NewLocker(rt.redis)

	release, acquired, err := locker.Acquire(ctx, job, rt.cfg.Schedule.LockTTL)
	if err != nil {
		return fmt.Errorf("acquire lock for %s: %w", job, err)
	}
	if !acquired {
		rt.log.WithField("job", job).Info("job already running elsewhere, skipping")
		return nil
	}
	defer release()

	return fn(ctx)
}
