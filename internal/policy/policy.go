// Package policy answers "may this actor do that" questions in one place:
// which visibility tags a viewer gets on someone's entries, who counts as
// a circle admin, who may moderate a post. The per-route inline checks
// this replaces are easy to get subtly wrong one route at a time.
package policy

import "context"

// Visibility tags carried by moods and journal entries.
const (
	VisibilityPrivate = "Private"
	VisibilityCircles = "Circles"
	VisibilityPublic  = "Public"
)

// MembershipStore is the slice of circle storage the policy checks need.
type MembershipStore interface {
	// SharesCircle reports whether two users are full members of at
	// least one common circle.
	SharesCircle(ctx context.Context, a, b int) (bool, error)
	// BothInCircle reports whether both users are full members of the
	// given circle.
	BothInCircle(ctx context.Context, circleID, a, b int) (bool, error)
	// IsAdmin reports whether the user is an admin of the circle.
	IsAdmin(ctx context.Context, circleID, userID int) (bool, error)
}

type Service struct {
	circles MembershipStore
}

func NewService(circles MembershipStore) *Service {
	return &Service{circles: circles}
}

// AllowedVisibilities returns the set of entry visibility tags the viewer
// may see on the owner's content. viewerID 0 means anonymous. When
// circleID is non-zero the circle-mate check is scoped to that circle;
// otherwise any shared circle counts. Membership is read fresh on every
// call, so the answer tracks the current state.
func (s *Service) AllowedVisibilities(ctx context.Context, ownerID, viewerID, circleID int) ([]string, error) {
	if viewerID == ownerID && viewerID != 0 {
		return []string{VisibilityPrivate, VisibilityCircles, VisibilityPublic}, nil
	}
	if viewerID == 0 {
		return []string{VisibilityPublic}, nil
	}

	var mates bool
	var err error
	if circleID != 0 {
		mates, err = s.circles.BothInCircle(ctx, circleID, ownerID, viewerID)
	} else {
		mates, err = s.circles.SharesCircle(ctx, ownerID, viewerID)
	}
	if err != nil {
		return nil, err
	}

	if mates {
		return []string{VisibilityCircles, VisibilityPublic}, nil
	}
	return []string{VisibilityPublic}, nil
}

// CanManageCircle reports whether the actor may perform admin actions on
// the circle (update, resolve join requests, kick, promote).
func (s *Service) CanManageCircle(ctx context.Context, circleID, actorID int) (bool, error) {
	return s.circles.IsAdmin(ctx, circleID, actorID)
}

// CanModeratePost reports whether the actor may delete a post they did
// not write: circle admins may.
func (s *Service) CanModeratePost(ctx context.Context, circleID, actorID int) (bool, error) {
	return s.circles.IsAdmin(ctx, circleID, actorID)
}
