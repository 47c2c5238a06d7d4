package post

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
	"github.com/Arpitag110/mindbridge/internal/policy"
)

type fakeStore struct {
	posts   map[int]*Post
	likes   map[int]map[int]bool
	nextID  int
	deleted []int
	reports []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{posts: make(map[int]*Post), likes: make(map[int]map[int]bool)}
}

func (f *fakeStore) Create(_ context.Context, p *Post) (*Post, error) {
	f.nextID++
	p.ID = f.nextID
	f.posts[p.ID] = p
	return p, nil
}

func (f *fakeStore) ListByCircle(_ context.Context, circleID int) ([]Post, error) {
	var out []Post
	for _, p := range f.posts {
		if p.CircleID == circleID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id int) (*Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, errs.NotFound("post")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) ToggleLike(_ context.Context, postID, userID int) (bool, error) {
	if f.likes[postID] == nil {
		f.likes[postID] = make(map[int]bool)
	}
	if f.likes[postID][userID] {
		delete(f.likes[postID], userID)
		return false, nil
	}
	f.likes[postID][userID] = true
	return true, nil
}

func (f *fakeStore) AddComment(_ context.Context, c *Comment) (*Comment, error) {
	c.ID = 1
	return c, nil
}

func (f *fakeStore) UpdateContent(_ context.Context, id int, content string) error {
	f.posts[id].Content = content
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id int) error {
	delete(f.posts, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) Report(_ context.Context, postID, userID int, reason string) error {
	f.reports = append(f.reports, reason)
	return nil
}

type fakeCircles struct {
	members    map[int][]int
	admins     map[int][]int
	membersErr error
}

func (f *fakeCircles) MemberIDs(_ context.Context, circleID int) ([]int, error) {
	if f.membersErr != nil {
		return nil, f.membersErr
	}
	return f.members[circleID], nil
}

func (f *fakeCircles) SharesCircle(_ context.Context, a, b int) (bool, error) { return false, nil }
func (f *fakeCircles) BothInCircle(_ context.Context, circleID, a, b int) (bool, error) {
	return false, nil
}

func (f *fakeCircles) IsAdmin(_ context.Context, circleID, userID int) (bool, error) {
	for _, id := range f.admins[circleID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

type broadcastCall struct {
	memberIDs  []int
	senderID   int
	senderName string
	notifType  string
}

type directCall struct {
	recipientID int
	senderName  string
	notifType   string
}

type fakeNotifier struct {
	broadcasts []broadcastCall
	directs    []directCall
}

func (f *fakeNotifier) Broadcast(_ context.Context, memberIDs []int, senderID int, senderName, notifType, message string) {
	f.broadcasts = append(f.broadcasts, broadcastCall{memberIDs, senderID, senderName, notifType})
}

func (f *fakeNotifier) Direct(_ context.Context, recipientID int, senderName, notifType, message string) {
	f.directs = append(f.directs, directCall{recipientID, senderName, notifType})
}

func newTestService() (*Service, *fakeStore, *fakeNotifier) {
	store := newFakeStore()
	circles := &fakeCircles{
		members: map[int][]int{1: {1, 2, 3}},
		admins:  map[int][]int{1: {3}},
	}
	notifier := &fakeNotifier{}
	return NewService(store, circles, notifier, policy.NewService(circles), zap.NewNop()), store, notifier
}

func TestCreateBroadcastsToCircle(t *testing.T) {
	svc, _, notifier := newTestService()

	p, err := svc.Create(context.Background(), 1, "meera", &CreateRequest{CircleID: 1, Content: "rough week, but getting through"})
	require.NoError(t, err)
	assert.Equal(t, "meera", p.Username)
	assert.NotNil(t, p.Likes)
	assert.NotNil(t, p.Comments)

	require.Len(t, notifier.broadcasts, 1)
	b := notifier.broadcasts[0]
	assert.Equal(t, []int{1, 2, 3}, b.memberIDs)
	assert.Equal(t, 1, b.senderID)
	assert.Equal(t, "meera", b.senderName)
	assert.Equal(t, notify.TypePost, b.notifType)
}

func TestCreateAnonymousHidesAuthor(t *testing.T) {
	svc, _, notifier := newTestService()

	p, err := svc.Create(context.Background(), 1, "meera", &CreateRequest{CircleID: 1, Content: "posting this anonymously", IsAnonymous: true})
	require.NoError(t, err)
	assert.Empty(t, p.Username)

	require.Len(t, notifier.broadcasts, 1)
	assert.Equal(t, "Someone", notifier.broadcasts[0].senderName)
}

func TestCreateSurvivesMembershipReadFailure(t *testing.T) {
	store := newFakeStore()
	circles := &fakeCircles{membersErr: errors.New("connection reset")}
	notifier := &fakeNotifier{}
	core, logs := observer.New(zap.ErrorLevel)
	svc := NewService(store, circles, notifier, policy.NewService(circles), zap.New(core))

	p, err := svc.Create(context.Background(), 1, "meera", &CreateRequest{CircleID: 1, Content: "hello"})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)

	// No fan-out, but the skip leaves a trace.
	assert.Empty(t, notifier.broadcasts)
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "fan-out")
}

func TestListBlanksAnonymousAuthors(t *testing.T) {
	svc, store, _ := newTestService()
	store.posts[1] = &Post{ID: 1, CircleID: 1, UserID: 1, Username: "meera", IsAnonymous: true}
	store.posts[2] = &Post{ID: 2, CircleID: 1, UserID: 2, Username: "dev"}
	store.nextID = 2

	posts, err := svc.ListByCircle(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	for _, p := range posts {
		if p.IsAnonymous {
			assert.Empty(t, p.Username)
		} else {
			assert.Equal(t, "dev", p.Username)
		}
	}
}

func TestToggleLikeNotifiesAuthorOnce(t *testing.T) {
	svc, _, notifier := newTestService()
	p, err := svc.Create(context.Background(), 1, "meera", &CreateRequest{CircleID: 1, Content: "hello"})
	require.NoError(t, err)

	liked, err := svc.ToggleLike(context.Background(), p.ID, 2, "dev")
	require.NoError(t, err)
	assert.True(t, liked)
	require.Len(t, notifier.directs, 1)
	assert.Equal(t, directCall{recipientID: 1, senderName: "dev", notifType: notify.TypeLike}, notifier.directs[0])

	// Unlike sends nothing.
	liked, err = svc.ToggleLike(context.Background(), p.ID, 2, "dev")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Len(t, notifier.directs, 1)

	// Liking your own post sends nothing either.
	_, err = svc.ToggleLike(context.Background(), p.ID, 1, "meera")
	require.NoError(t, err)
	assert.Len(t, notifier.directs, 1)
}

func TestAddCommentNotifiesAuthor(t *testing.T) {
	svc, _, notifier := newTestService()
	p, err := svc.Create(context.Background(), 1, "meera", &CreateRequest{CircleID: 1, Content: "hello"})
	require.NoError(t, err)

	_, err = svc.AddComment(context.Background(), p.ID, 2, "dev", &CommentRequest{Text: "hang in there"})
	require.NoError(t, err)
	require.Len(t, notifier.directs, 1)
	assert.Equal(t, notify.TypeComment, notifier.directs[0].notifType)

	// Commenting on your own post is silent.
	_, err = svc.AddComment(context.Background(), p.ID, 1, "meera", &CommentRequest{Text: "thanks all"})
	require.NoError(t, err)
	assert.Len(t, notifier.directs, 1)
}

func TestDeleteAuthorOrAdmin(t *testing.T) {
	svc, store, _ := newTestService()
	p, err := svc.Create(context.Background(), 1, "meera", &CreateRequest{CircleID: 1, Content: "hello"})
	require.NoError(t, err)

	// A plain member cannot delete someone else's post.
	err = svc.Delete(context.Background(), p.ID, 2)
	assert.True(t, errors.Is(err, errs.ErrUnauthorized))

	// A circle admin can.
	require.NoError(t, svc.Delete(context.Background(), p.ID, 3))
	assert.Equal(t, []int{p.ID}, store.deleted)

	err = svc.Delete(context.Background(), p.ID, 1)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestUpdateAuthorOnly(t *testing.T) {
	svc, store, _ := newTestService()
	p, err := svc.Create(context.Background(), 1, "meera", &CreateRequest{CircleID: 1, Content: "first draft"})
	require.NoError(t, err)

	err = svc.Update(context.Background(), p.ID, 2, &UpdateRequest{Content: "hijacked"})
	assert.True(t, errors.Is(err, errs.ErrUnauthorized))

	require.NoError(t, svc.Update(context.Background(), p.ID, 1, &UpdateRequest{Content: "second draft"}))
	assert.Equal(t, "second draft", store.posts[p.ID].Content)
}
