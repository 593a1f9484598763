package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/promoboard/internal/domain/models"
	"github.com/mamadbah2/promoboard/pkg/clients/webhook"
)

const forwardTimeout = 5 * time.Second

// Center keeps the transient operator notifications. Each one dismisses itself
// after the TTL; nothing fires once the center is closed.
type Center struct {
	mu        sync.Mutex
	items     []models.Notification
	timers    map[string]*time.Timer
	closed    bool
	ttl       time.Duration
	forwarder webhook.Client
	forwards  sync.WaitGroup
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewCenter creates a notification center. forwarder may be nil.
func NewCenter(ttl time.Duration, forwarder webhook.Client, logger *zap.Logger) *Center {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Center{
		timers:    make(map[string]*time.Timer),
		ttl:       ttl,
		forwarder: forwarder,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Success pushes a success notification.
func (c *Center) Success(message string) {
	c.Push(models.NotifySuccess, message)
}

// Error pushes an error notification.
func (c *Center) Error(message string) {
	c.Push(models.NotifyError, message)
}

// Push records a notification and schedules its dismissal.
func (c *Center) Push(kind models.NotificationKind, message string) models.Notification {
	now := c.now()
	n := models.Notification{
		ID:        c.newID(),
		Message:   message,
		Kind:      kind,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.logger.Debug("notification dropped after close", zap.String("message", message))
		return n
	}
	c.items = append(c.items, n)
	id := n.ID
	c.timers[id] = time.AfterFunc(c.ttl, func() { c.expire(id) })
	if c.forwarder != nil {
		c.forwards.Add(1)
		go c.forward(n)
	}
	c.mu.Unlock()

	c.logger.Info("notification", zap.String("type", string(kind)), zap.String("message", message))
	return n
}

func (c *Center) forward(n models.Notification) {
	defer c.forwards.Done()

	ctx, cancel := context.WithTimeout(context.Background(), forwardTimeout)
	defer cancel()

	err := c.forwarder.Send(ctx, webhook.Event{
		ID:        n.ID,
		Type:      string(n.Kind),
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	})
	if err != nil {
		c.logger.Warn("failed to forward notification", zap.String("id", n.ID), zap.Error(err))
	}
}

func (c *Center) expire(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.remove(id)
}

// List returns the live notifications, oldest first.
func (c *Center) List() []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	out := make([]models.Notification, 0, len(c.items))
	for _, n := range c.items {
		if now.Before(n.ExpiresAt) {
			out = append(out, n)
		}
	}
	return out
}

// Dismiss removes a notification before its TTL. Unknown ids report false.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remove(id)
}

// Sweep drops every notification past its expiry and returns how many were dropped.
func (c *Center) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var expired []string
	for _, n := range c.items {
		if !now.Before(n.ExpiresAt) {
			expired = append(expired, n.ID)
		}
	}
	for _, id := range expired {
		c.remove(id)
	}
	return len(expired)
}

// Close stops pending dismissals and waits for in-flight forwards.
func (c *Center) Close() {
	c.mu.Lock()
	c.closed = true
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	c.mu.Unlock()

	c.forwards.Wait()
}

// remove must be called with mu held.
func (c *Center) remove(id string) bool {
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}
