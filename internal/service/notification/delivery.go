package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/dennisohere/quickform/internal/domain"
	"github.com/dennisohere/quickform/internal/repository"
	"github.com/dennisohere/quickform/internal/service/archive"
	"github.com/dennisohere/quickform/internal/service/email"
)

const (
	digestWindow = 24 * time.Hour
	// claimLease bounds how long a crashed sender can hold a notification.
	claimLease = 5 * time.Minute
)

// Sender delivers a single notification synchronously.
type Sender interface {
	SendNow(ctx context.Context, notif *domain.Notification) error
}

type Archiver interface {
	Store(ctx context.Context, key, html string) error
}

type BatchResult struct {
	Attempted int
	Sent      int
	Skipped   int
	Failed    int
	// Failures aggregates every per-notification error.
	Failures error
}

type DigestResult struct {
	Users    int
	Sent     int
	Failed   int
	Failures error
}

type Delivery struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	emailSvc  email.Service
	archive   Archiver
	log       *logrus.Logger
	now       func() time.Time
}

func NewDelivery(
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	emailSvc email.Service,
	archiver Archiver,
	log *logrus.Logger,
) *Delivery {
	return &Delivery{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		emailSvc:  emailSvc,
		archive:   archiver,
		log:       log,
		now:       time.Now,
	}
}

// SendNow emails the owner and records sent_at. A transport failure returns a
// *domain.DeliveryError and leaves the notification unsent. Notifications
// already sent, or currently claimed by another sender, are skipped.
func (d *Delivery) SendNow(ctx context.Context, notif *domain.Notification) error {
	_, err := d.sendNow(ctx, notif)
	return err
}

func (d *Delivery) sendNow(ctx context.Context, notif *domain.Notification) (bool, error) {
	if notif.IsSent() {
		return false, nil
	}

	claimed, err := d.notifRepo.Claim(ctx, notif.ID, d.now(), claimLease)
	if err != nil {
		return false, domain.NewStorageError("claim notification", err)
	}
	if !claimed {
		return false, nil
	}

	owner, err := d.userRepo.GetByID(ctx, notif.UserID)
	if err != nil || owner == nil {
		d.release(ctx, notif.ID)
		if err != nil {
			return false, domain.NewStorageError("get notification owner", err)
		}
		return false, fmt.Errorf("notification %s: %w", notif.ID, domain.ErrUserNotFound)
	}

	body, err := d.emailSvc.SendNotificationEmail(ctx, owner.Email, owner.FullName, notif)
	if err != nil {
		d.release(ctx, notif.ID)
		return false, &domain.DeliveryError{NotificationID: notif.ID, Err: err}
	}

	sentAt := d.now()
	if err := d.notifRepo.MarkSent(ctx, notif.ID, sentAt); err != nil {
		d.log.WithFields(logrus.Fields{
			"notification_id": notif.ID,
			"user_id":         notif.UserID,
		}).WithError(err).Error("email sent but marking notification sent failed")
		return false, domain.NewStorageError("mark notification sent", err)
	}
	notif.SentAt = &sentAt

	d.store(ctx, archive.EmailKey(sentAt, notif.ID.String()), body)
	return true, nil
}

// release drops the claim so a later attempt can retry right away. It runs
// even when ctx has expired.
func (d *Delivery) release(ctx context.Context, id uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := d.notifRepo.ReleaseClaim(ctx, id); err != nil {
		d.log.WithField("notification_id", id).WithError(err).Warn("failed to release notification claim")
	}
}

func (d *Delivery) store(ctx context.Context, key, body string) {
	if d.archive == nil {
		return
	}
	if err := d.archive.Store(ctx, key, body); err != nil {
		d.log.WithField("key", key).WithError(err).Warn("failed to archive email")
	}
}

// SendAllPending attempts every unsent notification in the current snapshot.
// Per-notification failures are collected in the result and never abort the
// batch; the returned error only reports a failure to load the snapshot.
func (d *Delivery) SendAllPending(ctx context.Context) (BatchResult, error) {
	var result BatchResult

	pending, err := d.notifRepo.ListPending(ctx)
	if err != nil {
		return result, domain.NewStorageError("list pending notifications", err)
	}

	for i := range pending {
		notif := &pending[i]
		result.Attempted++

		sent, err := d.sendNow(ctx, notif)
		switch {
		case err != nil:
			result.Failed++
			result.Failures = multierr.Append(result.Failures, err)
			d.log.WithFields(logrus.Fields{
				"notification_id": notif.ID,
				"user_id":         notif.UserID,
			}).WithError(err).Error("failed to send notification")
		case sent:
			result.Sent++
		default:
			result.Skipped++
		}
	}

	return result, nil
}

// SendDailyDigest emails one summary of the user's last 24 hours of
// notifications, reminders excluded. It reports false when there was nothing
// to send. sent_at is left untouched.
func (d *Delivery) SendDailyDigest(ctx context.Context, user *domain.User) (bool, error) {
	now := d.now()

	notifications, err := d.notifRepo.ListForDigest(ctx, user.ID, now.Add(-digestWindow))
	if err != nil {
		return false, domain.NewStorageError("list digest notifications", err)
	}
	if len(notifications) == 0 {
		return false, nil
	}

	body, err := d.emailSvc.SendDailyDigestEmail(ctx, user.Email, user.FullName, notifications)
	if err != nil {
		return false, &domain.DeliveryError{UserID: user.ID, Err: err}
	}

	d.store(ctx, archive.EmailKey(now, "digest-"+user.ID.String()), body)
	return true, nil
}

func (d *Delivery) SendDailyDigestAll(ctx context.Context) (DigestResult, error) {
	var result DigestResult

	users, err := d.userRepo.GetAllUsers(ctx)
	if err != nil {
		return result, domain.NewStorageError("list users", err)
	}

	for i := range users {
		user := &users[i]
		result.Users++

		sent, err := d.SendDailyDigest(ctx, user)
		if err != nil {
			result.Failed++
			result.Failures = multierr.Append(result.Failures, err)
			d.log.WithField("user_id", user.ID).WithError(err).Error("failed to send daily digest")
			continue
		}
		if sent {
			result.Sent++
		}
	}

	return result, nil
}
