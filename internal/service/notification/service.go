package notification

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dennisohere/quickform/internal/domain"
	"github.com/dennisohere/quickform/internal/repository"
)

const unreadCountTTL = time.Minute

// Service is the owner-facing read state of notifications.
type Service interface {
	List(ctx context.Context, ownerID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkAsRead(ctx context.Context, ownerID, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, ownerID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, ownerID uuid.UUID) (int64, error)
	InvalidateUnreadCount(ctx context.Context, ownerID uuid.UUID)
}

type service struct {
	notifRepo repository.NotificationRepository
	redis     *redis.Client
}

func NewService(notifRepo repository.NotificationRepository, redis *redis.Client) Service {
	return &service{
		notifRepo: notifRepo,
		redis:     redis,
	}
}

func unreadCountKey(ownerID uuid.UUID) string {
	return "notifications:unread:" + ownerID.String()
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	params.Validate()

	notifications, total, err := s.notifRepo.ListByUser(ctx, ownerID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, domain.NewStorageError("list notifications", err)
	}

	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) MarkAsRead(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.notifRepo.MarkAsRead(ctx, ownerID, id); err != nil {
		if domain.IsNotFound(err) {
			return err
		}
		return domain.NewStorageError("mark notification read", err)
	}

	s.InvalidateUnreadCount(ctx, ownerID)
	return nil
}

func (s *service) MarkAllAsRead(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	updated, err := s.notifRepo.MarkAllAsRead(ctx, ownerID)
	if err != nil {
		return 0, domain.NewStorageError("mark all notifications read", err)
	}

	s.InvalidateUnreadCount(ctx, ownerID)
	return updated, nil
}

func (s *service) UnreadCount(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	cacheKey := unreadCountKey(ownerID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			if count, err := strconv.ParseInt(cached, 10, 64); err == nil {
				return count, nil
			}
		}
	}

	count, err := s.notifRepo.CountUnread(ctx, ownerID)
	if err != nil {
		return 0, domain.NewStorageError("count unread notifications", err)
	}

	if s.redis != nil {
		_ = s.redis.Set(ctx, cacheKey, fmt.Sprint(count), unreadCountTTL).Err()
	}
	return count, nil
}

func (s *service) InvalidateUnreadCount(ctx context.Context, ownerID uuid.UUID) {
	if s.redis != nil {
		_ = s.redis.Del(ctx, unreadCountKey(ownerID)).Err()
	}
}
