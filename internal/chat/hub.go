package chat

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// eventsChannel is the redis pub/sub channel every instance shares.
// Publishing locally and delivering from the subscription keeps delivery
// identical whether sender and receiver sit on the same instance or not.
const eventsChannel = "mindbridge:events"

// Hub owns the presence registry and routes realtime events. Its run
// loop is the only goroutine that touches the registry, so connect,
// disconnect and delivery are serialized without locks.
type Hub struct {
	registry *registry

	register   chan *Client
	unregister chan *Client
	publish    chan Envelope // local events headed to redis
	deliver    chan Envelope // events from redis headed to local clients

	redis  *redis.Client
	logger *zap.Logger
}

func NewHub(redisClient *redis.Client, logger *zap.Logger) *Hub {
	return &Hub{
		registry:   newRegistry(),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan Envelope, 64),
		deliver:    make(chan Envelope, 64),
		redis:      redisClient,
		logger:     logger,
	}
}

// Push queues an event for the recipient. Best-effort: if they are not
// connected anywhere, the event evaporates. Callers that need durability
// persist first (the dispatcher and the message write path both do).
func (h *Hub) Push(recipientID int, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("marshal push payload", zap.String("event", event), zap.Error(err))
		return
	}
	h.publish <- Envelope{RecipientID: recipientID, Event: event, Data: data}
}

// Run processes connection lifecycle and delivery events one at a time.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registry.register(client)
			h.logger.Info("client connected",
				zap.String("username", client.Username),
				zap.String("session", client.SessionID),
				zap.Int("online", h.registry.size()))

		case client := <-h.unregister:
			if h.registry.remove(client) {
				close(client.send)
				h.logger.Info("client disconnected",
					zap.String("username", client.Username),
					zap.Int("online", h.registry.size()))
			}

		case env := <-h.publish:
			raw, err := json.Marshal(env)
			if err != nil {
				h.logger.Error("marshal envelope", zap.Error(err))
				continue
			}
			if err := h.redis.Publish(context.Background(), eventsChannel, raw).Err(); err != nil {
				h.logger.Error("redis publish", zap.Error(err))
			}

		case env := <-h.deliver:
			client, ok := h.registry.byUser(env.RecipientID)
			if !ok {
				continue // recipient not on this instance
			}
			frame, err := json.Marshal(Envelope{Event: env.Event, Data: env.Data})
			if err != nil {
				h.logger.Error("marshal frame", zap.Error(err))
				continue
			}
			select {
			case client.send <- frame:
			default:
				// Slow consumer: drop the connection, the registry
				// record goes with it.
				h.registry.remove(client)
				close(client.send)
			}
		}
	}
}

// SubscribeToRedis feeds events published by any instance into the local
// delivery path.
func (h *Hub) SubscribeToRedis(ctx context.Context) {
	pubsub := h.redis.Subscribe(ctx, eventsChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for msg := range ch {
		var env Envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			h.logger.Warn("bad event envelope", zap.Error(err))
			continue
		}
		h.deliver <- env
	}
}
