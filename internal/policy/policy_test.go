package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMembership wires circle membership as plain maps: circles maps a
// circle id to its member set, admins likewise.
type fakeMembership struct {
	circles map[int][]int
	admins  map[int][]int
}

func (f *fakeMembership) SharesCircle(_ context.Context, a, b int) (bool, error) {
	for _, members := range f.circles {
		if contains(members, a) && contains(members, b) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMembership) BothInCircle(_ context.Context, circleID, a, b int) (bool, error) {
	members := f.circles[circleID]
	return contains(members, a) && contains(members, b), nil
}

func (f *fakeMembership) IsAdmin(_ context.Context, circleID, userID int) (bool, error) {
	return contains(f.admins[circleID], userID), nil
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func TestAllowedVisibilitiesOwner(t *testing.T) {
	svc := NewService(&fakeMembership{})

	allowed, err := svc.AllowedVisibilities(context.Background(), 1, 1, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{VisibilityPrivate, VisibilityCircles, VisibilityPublic}, allowed)
}

func TestAllowedVisibilitiesAnonymous(t *testing.T) {
	svc := NewService(&fakeMembership{})

	allowed, err := svc.AllowedVisibilities(context.Background(), 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{VisibilityPublic}, allowed)
}

func TestAllowedVisibilitiesCircleMate(t *testing.T) {
	store := &fakeMembership{circles: map[int][]int{10: {1, 2}}}
	svc := NewService(store)

	allowed, err := svc.AllowedVisibilities(context.Background(), 1, 2, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{VisibilityCircles, VisibilityPublic}, allowed)
}

func TestAllowedVisibilitiesStranger(t *testing.T) {
	store := &fakeMembership{circles: map[int][]int{10: {1}, 11: {3}}}
	svc := NewService(store)

	allowed, err := svc.AllowedVisibilities(context.Background(), 1, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{VisibilityPublic}, allowed)
}

func TestAllowedVisibilitiesScopedToCircle(t *testing.T) {
	// 1 and 2 share circle 10 but not circle 11. Scoping the check to
	// circle 11 must not leak circle-level access.
	store := &fakeMembership{circles: map[int][]int{10: {1, 2}, 11: {1}}}
	svc := NewService(store)

	allowed, err := svc.AllowedVisibilities(context.Background(), 1, 2, 11)
	require.NoError(t, err)
	assert.Equal(t, []string{VisibilityPublic}, allowed)

	allowed, err = svc.AllowedVisibilities(context.Background(), 1, 2, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{VisibilityCircles, VisibilityPublic}, allowed)
}

func TestCanManageCircle(t *testing.T) {
	store := &fakeMembership{
		circles: map[int][]int{10: {1, 2}},
		admins:  map[int][]int{10: {1}},
	}
	svc := NewService(store)

	ok, err := svc.CanManageCircle(context.Background(), 10, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanManageCircle(context.Background(), 10, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}
