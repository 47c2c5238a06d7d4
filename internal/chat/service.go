package chat

import (
	"context"
	"sort"

	"github.com/Arpitag110/mindbridge/internal/user"
)

// MessageStore is the persistence the service needs; *Repository
// satisfies it.
type MessageStore interface {
	Save(ctx context.Context, m *Message) (*Message, error)
	History(ctx context.Context, a, b int) ([]Message, error)
	Conversations(ctx context.Context, userID int) ([]Conversation, error)
	MarkConversationRead(ctx context.Context, userID, partnerID int) error
}

// ProfileLookup resolves display info for conversation partners.
type ProfileLookup interface {
	Profiles(ctx context.Context, ids []int) (map[int]user.Profile, error)
}

// Pusher is the live-delivery half; the hub satisfies it.
type Pusher interface {
	Push(recipientID int, event string, payload any)
}

type Service struct {
	store    MessageStore
	profiles ProfileLookup
	pusher   Pusher
}

func NewService(store MessageStore, profiles ProfileLookup, pusher Pusher) *Service {
	return &Service{store: store, profiles: profiles, pusher: pusher}
}

// Send persists the message, then pushes it live to the receiver if they
// are connected. Durability never depends on the push: an offline
// receiver picks the message up from history.
func (s *Service) Send(ctx context.Context, senderID int, req *SendRequest) (*Message, error) {
	m := &Message{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Text:       req.Text,
	}
	m, err := s.store.Save(ctx, m)
	if err != nil {
		return nil, err
	}

	s.pusher.Push(m.ReceiverID, "message", MessageEvent{
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Text:       m.Text,
		CreatedAt:  m.CreatedAt,
	})
	return m, nil
}

func (s *Service) History(ctx context.Context, userID, partnerID int) ([]Message, error) {
	messages, err := s.store.History(ctx, userID, partnerID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []Message{}
	}
	return messages, nil
}

// Conversations returns the recent-chats list, newest activity first,
// enriched with partner display info. A user with no messages gets an
// empty list.
func (s *Service) Conversations(ctx context.Context, userID int) ([]Conversation, error) {
	conversations, err := s.store.Conversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(conversations) == 0 {
		return []Conversation{}, nil
	}

	ids := make([]int, 0, len(conversations))
	for _, c := range conversations {
		ids = append(ids, c.PartnerID)
	}
	profiles, err := s.profiles.Profiles(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range conversations {
		if p, ok := profiles[conversations[i].PartnerID]; ok {
			conversations[i].Username = p.Username
			conversations[i].Avatar = p.Avatar
		}
	}

	// The store already orders by recency; re-sorting here keeps the
	// guarantee independent of the store implementation.
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastMessageAt.After(conversations[j].LastMessageAt)
	})
	return conversations, nil
}

func (s *Service) MarkConversationRead(ctx context.Context, userID, partnerID int) error {
	return s.store.MarkConversationRead(ctx, userID, partnerID)
}
