package circle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arpitag110/mindbridge/internal/errs"
	"github.com/Arpitag110/mindbridge/internal/policy"
)

type memberKey struct {
	circleID int
	userID   int
}

type fakeStore struct {
	visibility string
	members    map[memberKey]bool // value: pending
	admins     map[memberKey]bool
	removed    []int
	promoted   []int
	approved   []int
	rejected   []int
	updated    bool
}

func newFakeStore(visibility string) *fakeStore {
	return &fakeStore{
		visibility: visibility,
		members:    make(map[memberKey]bool),
		admins:     make(map[memberKey]bool),
	}
}

func (f *fakeStore) Create(_ context.Context, c *Circle) (*Circle, error) {
	c.ID = 1
	f.members[memberKey{c.ID, c.CreatorID}] = false
	f.admins[memberKey{c.ID, c.CreatorID}] = true
	return c, nil
}

func (f *fakeStore) List(_ context.Context, search, tag string) ([]Summary, error) { return nil, nil }
func (f *fakeStore) Get(_ context.Context, id int) (*Detail, error)               { return &Detail{}, nil }

func (f *fakeStore) Update(_ context.Context, id int, req *UpdateRequest) error {
	f.updated = true
	return nil
}

func (f *fakeStore) Visibility(_ context.Context, id int) (string, error) {
	return f.visibility, nil
}

func (f *fakeStore) IsMember(_ context.Context, circleID, userID int) (bool, error) {
	pending, ok := f.members[memberKey{circleID, userID}]
	return ok && !pending, nil
}

func (f *fakeStore) MemberIDs(_ context.Context, circleID int) ([]int, error) {
	var ids []int
	for k, pending := range f.members {
		if k.circleID == circleID && !pending {
			ids = append(ids, k.userID)
		}
	}
	return ids, nil
}

func (f *fakeStore) AddMember(_ context.Context, circleID, userID int, pending bool) error {
	key := memberKey{circleID, userID}
	if _, ok := f.members[key]; ok {
		return nil
	}
	f.members[key] = pending
	return nil
}

func (f *fakeStore) ApprovePending(_ context.Context, circleID, userID int) error {
	f.members[memberKey{circleID, userID}] = false
	f.approved = append(f.approved, userID)
	return nil
}

func (f *fakeStore) RemovePending(_ context.Context, circleID, userID int) error {
	delete(f.members, memberKey{circleID, userID})
	f.rejected = append(f.rejected, userID)
	return nil
}

func (f *fakeStore) RemoveMember(_ context.Context, circleID, userID int) error {
	delete(f.members, memberKey{circleID, userID})
	f.removed = append(f.removed, userID)
	return nil
}

func (f *fakeStore) Promote(_ context.Context, circleID, userID int) error {
	f.admins[memberKey{circleID, userID}] = true
	f.promoted = append(f.promoted, userID)
	return nil
}

// The policy membership checks route through the same fake.
func (f *fakeStore) SharesCircle(_ context.Context, a, b int) (bool, error) { return false, nil }
func (f *fakeStore) BothInCircle(_ context.Context, circleID, a, b int) (bool, error) {
	return false, nil
}
func (f *fakeStore) IsAdmin(_ context.Context, circleID, userID int) (bool, error) {
	return f.admins[memberKey{circleID, userID}], nil
}

func newTestService(store *fakeStore) *Service {
	return NewService(store, policy.NewService(store))
}

func TestJoinPublicCircle(t *testing.T) {
	store := newFakeStore("public")
	svc := newTestService(store)

	status, err := svc.Join(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, "joined", status)

	member, err := store.IsMember(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.True(t, member)
}

func TestJoinPrivateCircleQueuesRequest(t *testing.T) {
	store := newFakeStore("private")
	svc := newTestService(store)

	status, err := svc.Join(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, "request sent", status)

	// Pending members are not full members yet.
	member, err := store.IsMember(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.False(t, member)
}

func TestJoinTwiceConflicts(t *testing.T) {
	store := newFakeStore("public")
	svc := newTestService(store)

	_, err := svc.Join(context.Background(), 1, 5)
	require.NoError(t, err)

	_, err = svc.Join(context.Background(), 1, 5)
	assert.True(t, errors.Is(err, errs.ErrConflict))
}

func TestCreateMakesCreatorAdmin(t *testing.T) {
	store := newFakeStore("public")
	svc := newTestService(store)

	c, err := svc.Create(context.Background(), 7, &CreateRequest{Name: "Anxiety Support"})
	require.NoError(t, err)
	assert.Equal(t, "public", c.Visibility)

	require.NoError(t, svc.Update(context.Background(), c.ID, 7, &UpdateRequest{}))
	assert.True(t, store.updated)
}

func TestAdminActionsRequireAdmin(t *testing.T) {
	store := newFakeStore("private")
	svc := newTestService(store)
	c, err := svc.Create(context.Background(), 7, &CreateRequest{Name: "Grief Circle"})
	require.NoError(t, err)

	_, err = svc.Join(context.Background(), c.ID, 5)
	require.NoError(t, err)

	// Non-admin member cannot resolve requests, kick or promote.
	err = svc.ResolveRequest(context.Background(), c.ID, 5, &RequestAction{UserID: 5, Action: "approve"})
	assert.True(t, errors.Is(err, errs.ErrUnauthorized))
	assert.True(t, errors.Is(svc.Kick(context.Background(), c.ID, 5, 7), errs.ErrUnauthorized))
	assert.True(t, errors.Is(svc.Promote(context.Background(), c.ID, 5, 5), errs.ErrUnauthorized))

	// The creator can.
	require.NoError(t, svc.ResolveRequest(context.Background(), c.ID, 7, &RequestAction{UserID: 5, Action: "approve"}))
	assert.Equal(t, []int{5}, store.approved)

	require.NoError(t, svc.Promote(context.Background(), c.ID, 7, 5))
	assert.Equal(t, []int{5}, store.promoted)

	require.NoError(t, svc.Kick(context.Background(), c.ID, 7, 5))
	assert.Equal(t, []int{5}, store.removed)
}

func TestResolveRequestReject(t *testing.T) {
	store := newFakeStore("private")
	svc := newTestService(store)
	c, err := svc.Create(context.Background(), 7, &CreateRequest{Name: "Mindful Mornings"})
	require.NoError(t, err)

	_, err = svc.Join(context.Background(), c.ID, 5)
	require.NoError(t, err)

	require.NoError(t, svc.ResolveRequest(context.Background(), c.ID, 7, &RequestAction{UserID: 5, Action: "reject"}))
	assert.Equal(t, []int{5}, store.rejected)

	member, err := store.IsMember(context.Background(), c.ID, 5)
	require.NoError(t, err)
	assert.False(t, member)
}
