package question

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Arpitag110/mindbridge/internal/errs"
	"github.com/Arpitag110/mindbridge/internal/notify"
)

type fakeStore struct {
	questions map[int]*Question
	answers   map[int]*Answer
	upvotes   map[int]map[int]bool
	nextID    int
	deleted   []int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		questions: make(map[int]*Question),
		answers:   make(map[int]*Answer),
		upvotes:   make(map[int]map[int]bool),
	}
}

func (f *fakeStore) Create(_ context.Context, q *Question) (*Question, error) {
	f.nextID++
	q.ID = f.nextID
	f.questions[q.ID] = q
	return q, nil
}

func (f *fakeStore) ListByCircle(_ context.Context, circleID int) ([]Question, error) {
	var out []Question
	for _, q := range f.questions {
		if q.CircleID == circleID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id int) (*Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, errs.NotFound("question")
	}
	cp := *q
	return &cp, nil
}

func (f *fakeStore) AddAnswer(_ context.Context, a *Answer) (*Answer, error) {
	f.nextID++
	a.ID = f.nextID
	f.answers[a.ID] = a
	return a, nil
}

func (f *fakeStore) GetAnswer(_ context.Context, id int) (*Answer, error) {
	a, ok := f.answers[id]
	if !ok {
		return nil, errs.NotFound("answer")
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) ToggleUpvote(_ context.Context, answerID, userID int) (bool, error) {
	if f.upvotes[answerID] == nil {
		f.upvotes[answerID] = make(map[int]bool)
	}
	if f.upvotes[answerID][userID] {
		delete(f.upvotes[answerID], userID)
		return false, nil
	}
	f.upvotes[answerID][userID] = true
	return true, nil
}

func (f *fakeStore) Update(_ context.Context, id int, title, body string) error {
	f.questions[id].Title = title
	f.questions[id].Body = body
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id int) error {
	delete(f.questions, id)
	return nil
}

func (f *fakeStore) DeleteAnswer(_ context.Context, id int) error {
	delete(f.answers, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCircles struct {
	members    []int
	membersErr error
}

func (f *fakeCircles) MemberIDs(_ context.Context, circleID int) ([]int, error) {
	if f.membersErr != nil {
		return nil, f.membersErr
	}
	return f.members, nil
}

type directCall struct {
	recipientID int
	notifType   string
}

type fakeNotifier struct {
	broadcasts int
	directs    []directCall
}

func (f *fakeNotifier) Broadcast(_ context.Context, memberIDs []int, senderID int, senderName, notifType, message string) {
	f.broadcasts++
}

func (f *fakeNotifier) Direct(_ context.Context, recipientID int, senderName, notifType, message string) {
	f.directs = append(f.directs, directCall{recipientID, notifType})
}

func newTestService() (*Service, *fakeStore, *fakeNotifier) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	return NewService(store, &fakeCircles{members: []int{1, 2, 3}}, notifier, zap.NewNop()), store, notifier
}

func ask(t *testing.T, svc *Service) *Question {
	t.Helper()
	q, err := svc.Create(context.Background(), 1, "meera", &CreateRequest{CircleID: 1, Title: "How do you handle bad days?", Body: "Looking for coping strategies."})
	require.NoError(t, err)
	return q
}

func TestCreateBroadcasts(t *testing.T) {
	svc, _, notifier := newTestService()

	q := ask(t, svc)
	assert.NotNil(t, q.Answers)
	assert.Equal(t, 1, notifier.broadcasts)
}

func TestCreateSurvivesMembershipReadFailure(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	core, logs := observer.New(zap.ErrorLevel)
	svc := NewService(store, &fakeCircles{membersErr: errors.New("connection reset")}, notifier, zap.New(core))

	q, err := svc.Create(context.Background(), 1, "meera", &CreateRequest{CircleID: 1, Title: "Anyone else?", Body: "Struggling with sleep."})
	require.NoError(t, err)
	assert.NotZero(t, q.ID)

	assert.Zero(t, notifier.broadcasts)
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "fan-out")
}

func TestAnswerNotifiesAsker(t *testing.T) {
	svc, _, notifier := newTestService()
	q := ask(t, svc)

	a, err := svc.Answer(context.Background(), q.ID, 2, "dev", &AnswerRequest{Text: "Long walks help me."})
	require.NoError(t, err)
	assert.NotNil(t, a.Upvotes)

	require.Len(t, notifier.directs, 1)
	assert.Equal(t, directCall{recipientID: 1, notifType: notify.TypeAnswer}, notifier.directs[0])

	// Answering your own question is silent.
	_, err = svc.Answer(context.Background(), q.ID, 1, "meera", &AnswerRequest{Text: "Adding context."})
	require.NoError(t, err)
	assert.Len(t, notifier.directs, 1)
}

func TestToggleUpvote(t *testing.T) {
	svc, _, _ := newTestService()
	q := ask(t, svc)
	a, err := svc.Answer(context.Background(), q.ID, 2, "dev", &AnswerRequest{Text: "Sleep."})
	require.NoError(t, err)

	up, err := svc.ToggleUpvote(context.Background(), a.ID, 3)
	require.NoError(t, err)
	assert.True(t, up)

	up, err = svc.ToggleUpvote(context.Background(), a.ID, 3)
	require.NoError(t, err)
	assert.False(t, up)

	_, err = svc.ToggleUpvote(context.Background(), 999, 3)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestDeleteAnswerAuthorization(t *testing.T) {
	svc, store, _ := newTestService()
	q := ask(t, svc)
	a, err := svc.Answer(context.Background(), q.ID, 2, "dev", &AnswerRequest{Text: "Sleep."})
	require.NoError(t, err)

	// A third party can't remove it.
	err = svc.DeleteAnswer(context.Background(), a.ID, 3)
	assert.True(t, errors.Is(err, errs.ErrUnauthorized))

	// The question's owner can moderate answers under their question.
	require.NoError(t, svc.DeleteAnswer(context.Background(), a.ID, 1))
	assert.Equal(t, []int{a.ID}, store.deleted)

	// The answer's author can remove their own.
	a2, err := svc.Answer(context.Background(), q.ID, 2, "dev", &AnswerRequest{Text: "Music."})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteAnswer(context.Background(), a2.ID, 2))
}

func TestUpdateOwnerOnly(t *testing.T) {
	svc, store, _ := newTestService()
	q := ask(t, svc)

	err := svc.Update(context.Background(), q.ID, 2, &UpdateRequest{Title: "edited", Body: "edited"})
	assert.True(t, errors.Is(err, errs.ErrUnauthorized))

	require.NoError(t, svc.Update(context.Background(), q.ID, 1, &UpdateRequest{Title: "Bad days", Body: "updated body"}))
	assert.Equal(t, "Bad days", store.questions[q.ID].Title)
}
