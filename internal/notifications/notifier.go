// Package notifications delivers admin console events in real time: a Redis
// pub/sub channel fans events out across instances, and a websocket hub pushes
// them to connected admin sessions.
package notifications

import (
	"context"
	"encoding/json"
	"log"
	"runtime/debug"

	"github.com/redis/go-redis/v9"
)

// AdminChannel is the Redis pub/sub channel carrying admin console events.
const AdminChannel = "notifications:admin"

// Event is the payload published for every admin-visible occurrence.
type Event struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message,omitempty"`
	// RefID points at the row the event concerns (application, component, ...).
	RefID uint `json:"ref_id,omitempty"`
}

// Notifier provides helpers to publish admin events into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishAdmin sends an event to the admin channel. A nil Redis client makes
// this a no-op so the application degrades gracefully without Redis.
func (n *Notifier) PublishAdmin(ctx context.Context, event Event) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return n.rdb.Publish(ctx, AdminChannel, string(payload)).Err()
}

// StartAdminSubscriber subscribes to the admin channel and calls onMessage for
// each incoming payload. The goroutine stops when ctx is cancelled.
func (n *Notifier) StartAdminSubscriber(
	ctx context.Context, onMessage func(payload string),
) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, AdminChannel)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in AdminSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Payload)
				}()
			}
		}
	}()

	return nil
}
