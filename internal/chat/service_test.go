package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arpitag110/mindbridge/internal/user"
)

type fakeMessageStore struct {
	messages      []Message
	conversations []Conversation
	readCalls     []int
}

func (f *fakeMessageStore) Save(_ context.Context, m *Message) (*Message, error) {
	m.ID = len(f.messages) + 1
	m.CreatedAt = time.Now()
	f.messages = append(f.messages, *m)
	return m, nil
}

func (f *fakeMessageStore) History(_ context.Context, a, b int) ([]Message, error) {
	var out []Message
	for _, m := range f.messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageStore) Conversations(_ context.Context, userID int) ([]Conversation, error) {
	return f.conversations, nil
}

func (f *fakeMessageStore) MarkConversationRead(_ context.Context, userID, partnerID int) error {
	f.readCalls = append(f.readCalls, partnerID)
	return nil
}

type fakeProfiles struct {
	byID map[int]user.Profile
}

func (f *fakeProfiles) Profiles(_ context.Context, ids []int) (map[int]user.Profile, error) {
	out := make(map[int]user.Profile)
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakePusher struct {
	pushes []struct {
		recipientID int
		event       string
		payload     any
	}
}

func (f *fakePusher) Push(recipientID int, event string, payload any) {
	f.pushes = append(f.pushes, struct {
		recipientID int
		event       string
		payload     any
	}{recipientID, event, payload})
}

func TestSendPersistsThenPushes(t *testing.T) {
	store := &fakeMessageStore{}
	pusher := &fakePusher{}
	svc := NewService(store, &fakeProfiles{}, pusher)

	m, err := svc.Send(context.Background(), 1, &SendRequest{ReceiverID: 2, Text: "hey, how are you holding up?"})
	require.NoError(t, err)
	assert.NotZero(t, m.ID)

	require.Len(t, store.messages, 1)
	require.Len(t, pusher.pushes, 1)
	assert.Equal(t, 2, pusher.pushes[0].recipientID)
	assert.Equal(t, "message", pusher.pushes[0].event)

	event, ok := pusher.pushes[0].payload.(MessageEvent)
	require.True(t, ok)
	assert.Equal(t, 1, event.SenderID)
	assert.Equal(t, "hey, how are you holding up?", event.Text)
}

func TestConversationsEmpty(t *testing.T) {
	svc := NewService(&fakeMessageStore{}, &fakeProfiles{}, &fakePusher{})

	conversations, err := svc.Conversations(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, conversations)
	assert.Empty(t, conversations)
}

func TestConversationsEnrichedAndOrdered(t *testing.T) {
	now := time.Now()
	store := &fakeMessageStore{
		// Deliberately out of order; the service owns the final ordering.
		conversations: []Conversation{
			{PartnerID: 3, LastMessage: "see you", LastMessageAt: now.Add(-2 * time.Hour), UnreadCount: 1},
			{PartnerID: 2, LastMessage: "thanks!", LastMessageAt: now, UnreadCount: 0},
			{PartnerID: 4, LastMessage: "call me", LastMessageAt: now.Add(-time.Hour), UnreadCount: 3},
		},
	}
	profiles := &fakeProfiles{byID: map[int]user.Profile{
		2: {ID: 2, Username: "meera", Avatar: "m.png"},
		3: {ID: 3, Username: "dev"},
	}}
	svc := NewService(store, profiles, &fakePusher{})

	conversations, err := svc.Conversations(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, conversations, 3)

	assert.Equal(t, []int{2, 4, 3}, []int{conversations[0].PartnerID, conversations[1].PartnerID, conversations[2].PartnerID})
	assert.Equal(t, "meera", conversations[0].Username)
	assert.Equal(t, "m.png", conversations[0].Avatar)
	assert.Equal(t, "dev", conversations[2].Username)
	// A partner with no profile row still shows up with the counters intact.
	assert.Empty(t, conversations[1].Username)
	assert.Equal(t, 3, conversations[1].UnreadCount)
}

func TestMarkConversationRead(t *testing.T) {
	store := &fakeMessageStore{}
	svc := NewService(store, &fakeProfiles{}, &fakePusher{})

	require.NoError(t, svc.MarkConversationRead(context.Background(), 1, 2))
	require.NoError(t, svc.MarkConversationRead(context.Background(), 1, 2))
	assert.Equal(t, []int{2, 2}, store.readCalls)
}
