package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Store is the durable half of dispatch; *Repository satisfies it.
type Store interface {
	Create(ctx context.Context, n *Notification) error
}

// Pusher delivers an ephemeral event to a recipient if they are online.
// Delivery is best-effort and never returns an error: an offline
// recipient is simply a no-op.
type Pusher interface {
	Push(recipientID int, event string, payload any)
}

// Dispatcher fans notifications out: every recipient gets a persisted
// row so they see it on their next visit, online recipients additionally
// get a live push.
type Dispatcher struct {
	store  Store
	pusher Pusher
	logger *zap.Logger
}

func NewDispatcher(store Store, pusher Pusher, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{store: store, pusher: pusher, logger: logger}
}

// Broadcast notifies every member except the sender. A failed write for
// one recipient is logged and does not stop the others; the live push
// for that recipient is skipped since they'd have no durable copy to
// reconcile against.
func (d *Dispatcher) Broadcast(ctx context.Context, memberIDs []int, senderID int, senderName, notifType, message string) {
	for _, memberID := range memberIDs {
		if memberID == senderID {
			continue
		}
		d.deliver(ctx, memberID, senderName, notifType, message)
	}
}

// Direct notifies a single recipient.
func (d *Dispatcher) Direct(ctx context.Context, recipientID int, senderName, notifType, message string) {
	d.deliver(ctx, recipientID, senderName, notifType, message)
}

func (d *Dispatcher) deliver(ctx context.Context, recipientID int, senderName, notifType, message string) {
	n := &Notification{
		RecipientID: recipientID,
		SenderName:  senderName,
		Type:        notifType,
		Message:     message,
	}
	if err := d.store.Create(ctx, n); err != nil {
		d.logger.Error("persist notification",
			zap.Int("recipient", recipientID),
			zap.String("type", notifType),
			zap.Error(err))
		return
	}

	createdAt := n.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	d.pusher.Push(recipientID, "notification", Event{
		SenderName: senderName,
		Type:       notifType,
		Message:    message,
		CreatedAt:  createdAt,
	})
}
