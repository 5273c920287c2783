package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/AnshRaj112/safespace-backend/internal/models"
)

const (
	EventTypeNotification = "notification"

	notificationChannelPrefix = "notifications:"
	subscriberBuffer          = 16
)

// NotificationEvent is the payload broadcast over Redis and WebSocket.
type NotificationEvent struct {
	Type         string              `json:"type"`
	AccountID    uuid.UUID           `json:"account_id"`
	Notification models.Notification `json:"notification"`
	Timestamp    time.Time           `json:"timestamp"`
}

// NotificationPublisher delivers an event to whoever is listening for the account.
type NotificationPublisher interface {
	Publish(ctx context.Context, event NotificationEvent) error
}

// NotificationHub is the per-instance registry of live subscribers.
type NotificationHub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[chan NotificationEvent]struct{}
}

func NewNotificationHub() *NotificationHub {
	return &NotificationHub{subs: make(map[uuid.UUID]map[chan NotificationEvent]struct{})}
}

// Subscribe registers a listener for one account. The returned func must be
// called to release it.
func (h *NotificationHub) Subscribe(accountID uuid.UUID) (<-chan NotificationEvent, func()) {
	ch := make(chan NotificationEvent, subscriberBuffer)

	h.mu.Lock()
	if h.subs[accountID] == nil {
		h.subs[accountID] = make(map[chan NotificationEvent]struct{})
	}
	h.subs[accountID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[accountID], ch)
			if len(h.subs[accountID]) == 0 {
				delete(h.subs, accountID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers reports how many live listeners the account has on this instance.
func (h *NotificationHub) Subscribers(accountID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[accountID])
}

// FanOut delivers the event to local subscribers of the account. Slow
// subscribers miss events rather than block the publisher.
func (h *NotificationHub) FanOut(event NotificationEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[event.AccountID] {
		select {
		case ch <- event:
		default:
			log.Warn().Str("account_id", event.AccountID.String()).Msg("notification subscriber is full; dropping event")
		}
	}
}

// Publish makes the hub usable as a single-instance publisher.
func (h *NotificationHub) Publish(_ context.Context, event NotificationEvent) error {
	h.FanOut(event)
	return nil
}

// RedisNotificationBus publishes on notifications:<accountId> and feeds every
// instance's local hub from a shared pattern subscription.
type RedisNotificationBus struct {
	client  *redis.Client
	hub     *NotificationHub
	started sync.Once
}

func NewRedisNotificationBus(client *redis.Client, hub *NotificationHub) *RedisNotificationBus {
	return &RedisNotificationBus{client: client, hub: hub}
}

func (b *RedisNotificationBus) Publish(ctx context.Context, event NotificationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, notificationChannelPrefix+event.AccountID.String(), data).Err()
}

// Start ensures a single shared Redis listener per instance.
func (b *RedisNotificationBus) Start(ctx context.Context) {
	b.started.Do(func() {
		go b.run(ctx)
	})
}

func (b *RedisNotificationBus) run(ctx context.Context) {
	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := b.client.PSubscribe(ctx, notificationChannelPrefix+"*")
			defer pubsub.Close()

			log.Info().Msg("✅ Notification Redis subscriber started (pattern: notifications:*)")

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					log.Error().Err(err).Dur("backoff", backoff).Msg("Redis subscriber error")
					time.Sleep(backoff)
					backoff = min(backoff*2, 30*time.Second)
					return
				}

				backoff = time.Second

				var event NotificationEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Warn().Err(err).Str("channel", msg.Channel).Msg("failed to unmarshal notification event")
					continue
				}
				if id, err := uuid.Parse(strings.TrimPrefix(msg.Channel, notificationChannelPrefix)); err == nil {
					event.AccountID = id
				}

				b.hub.FanOut(event)
			}
		}()
	}
}
