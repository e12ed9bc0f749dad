package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/dennisohere/quickform/internal/config"
	"github.com/dennisohere/quickform/internal/repository"
	"github.com/dennisohere/quickform/internal/service/archive"
	"github.com/dennisohere/quickform/internal/service/email"
	"github.com/dennisohere/quickform/internal/service/notification"
	"github.com/dennisohere/quickform/internal/service/reminder"
	"github.com/dennisohere/quickform/internal/service/response"
)

type Services struct {
	Email        email.Service
	Notification notification.Service
	Delivery     *notification.Delivery
	Queue        *notification.Queue
	Response     response.Service
	Reminder     *reminder.Service
}

func NewServices(repos *repository.Repositories, redis *redis.Client, minioClient *minio.Client, cfg *config.Config, log *logrus.Logger) (*Services, error) {
	emailService, err := email.NewService(email.NewResendMailer(cfg), cfg)
	if err != nil {
		return nil, err
	}

	notificationService := notification.NewService(repos.Notification, redis)
	archiver := archive.NewArchiver(minioClient, cfg.MinIOBucket)
	delivery := notification.NewDelivery(repos.Notification, repos.User, emailService, archiver, log)
	queue := notification.NewQueue(delivery, cfg.Queue, log)
	dispatcher := notification.NewDispatcher(notificationService, queue)

	responseService := response.NewService(repos, dispatcher)
	reminderService := reminder.NewService(repos.Survey, repos.Notification, delivery, notificationService, log)

	return &Services{
		Email:        emailService,
		Notification: notificationService,
		Delivery:     delivery,
		Queue:        queue,
		Response:     responseService,
		Reminder:     reminderService,
	}, nil
}
