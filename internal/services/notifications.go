package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/AnshRaj112/safespace-backend/internal/models"
	"github.com/AnshRaj112/safespace-backend/internal/store"
)

const notificationListLimit = 30

// NotificationService owns the notification inbox of every account.
type NotificationService struct {
	store     store.Store
	publisher NotificationPublisher
}

func NewNotificationService(s store.Store, publisher NotificationPublisher) *NotificationService {
	return &NotificationService{store: s, publisher: publisher}
}

// Create writes a notification through q so it commits with the caller's transaction.
func (s *NotificationService) Create(ctx context.Context, q store.Queries, accountID uuid.UUID, message string) (*models.Notification, error) {
	n := &models.Notification{AccountID: accountID, Message: message}
	if err := q.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

// Push sends a committed notification to live listeners. Failures are logged only.
func (s *NotificationService) Push(ctx context.Context, n *models.Notification) {
	if s.publisher == nil || n == nil {
		return
	}
	event := NotificationEvent{
		Type:         EventTypeNotification,
		AccountID:    n.AccountID,
		Notification: *n,
		Timestamp:    time.Now().UTC(),
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		log.Warn().Err(err).
			Str("account_id", n.AccountID.String()).
			Int64("notification_id", n.ID).
			Msg("failed to publish notification")
	}
}

// List returns the newest notifications of the account.
func (s *NotificationService) List(ctx context.Context, accountID uuid.UUID) ([]models.Notification, error) {
	list, err := s.store.ListNotifications(ctx, accountID, notificationListLimit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}

// MarkRead flags one of the account's own notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, accountID uuid.UUID, id int64) error {
	err := s.store.MarkNotificationRead(ctx, id, accountID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

// Delete removes one of the account's own notifications.
func (s *NotificationService) Delete(ctx context.Context, accountID uuid.UUID, id int64) error {
	err := s.store.DeleteNotification(ctx, id, accountID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}
