package circle

import (
	"context"

	"github.com/Arpitag110/mindbridge/internal/errs"
	"github.com/Arpitag110/mindbridge/internal/policy"
)

// Store is the persistence the service needs; *Repository satisfies it.
type Store interface {
	Create(ctx context.Context, c *Circle) (*Circle, error)
	List(ctx context.Context, search, tag string) ([]Summary, error)
	Get(ctx context.Context, id int) (*Detail, error)
	Update(ctx context.Context, id int, req *UpdateRequest) error
	Visibility(ctx context.Context, id int) (string, error)
	IsMember(ctx context.Context, circleID, userID int) (bool, error)
	MemberIDs(ctx context.Context, circleID int) ([]int, error)
	AddMember(ctx context.Context, circleID, userID int, pending bool) error
	ApprovePending(ctx context.Context, circleID, userID int) error
	RemovePending(ctx context.Context, circleID, userID int) error
	RemoveMember(ctx context.Context, circleID, userID int) error
	Promote(ctx context.Context, circleID, userID int) error
}

type Service struct {
	repo   Store
	policy *policy.Service
}

func NewService(repo Store, pol *policy.Service) *Service {
	return &Service{repo: repo, policy: pol}
}

func (s *Service) Create(ctx context.Context, creatorID int, req *CreateRequest) (*Circle, error) {
	visibility := req.Visibility
	if visibility == "" {
		visibility = "public"
	}
	c := &Circle{
		Name:            req.Name,
		Description:     req.Description,
		CreatorID:       creatorID,
		Tags:            req.Tags,
		Visibility:      visibility,
		AllowsAnonymous: req.AllowsAnonymous,
		CoverImage:      req.CoverImage,
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) List(ctx context.Context, search, tag string) ([]Summary, error) {
	return s.repo.List(ctx, search, tag)
}

func (s *Service) Get(ctx context.Context, id int) (*Detail, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, circleID, actorID int, req *UpdateRequest) error {
	if err := s.requireAdmin(ctx, circleID, actorID); err != nil {
		return err
	}
	return s.repo.Update(ctx, circleID, req)
}

// Join adds the user to a public circle, or queues a join request for a
// private one. Joining a circle you are already in is a conflict.
func (s *Service) Join(ctx context.Context, circleID, userID int) (string, error) {
	member, err := s.repo.IsMember(ctx, circleID, userID)
	if err != nil {
		return "", err
	}
	if member {
		return "", errs.Conflict("already a member")
	}

	visibility, err := s.repo.Visibility(ctx, circleID)
	if err != nil {
		return "", err
	}

	if visibility == "private" {
		if err := s.repo.AddMember(ctx, circleID, userID, true); err != nil {
			return "", err
		}
		return "request sent", nil
	}
	if err := s.repo.AddMember(ctx, circleID, userID, false); err != nil {
		return "", err
	}
	return "joined", nil
}

// ResolveRequest approves or rejects a pending join request. Admin only.
func (s *Service) ResolveRequest(ctx context.Context, circleID, actorID int, req *RequestAction) error {
	if err := s.requireAdmin(ctx, circleID, actorID); err != nil {
		return err
	}
	if req.Action == "approve" {
		return s.repo.ApprovePending(ctx, circleID, req.UserID)
	}
	return s.repo.RemovePending(ctx, circleID, req.UserID)
}

func (s *Service) Kick(ctx context.Context, circleID, actorID, memberID int) error {
	if err := s.requireAdmin(ctx, circleID, actorID); err != nil {
		return err
	}
	return s.repo.RemoveMember(ctx, circleID, memberID)
}

func (s *Service) Promote(ctx context.Context, circleID, actorID, memberID int) error {
	if err := s.requireAdmin(ctx, circleID, actorID); err != nil {
		return err
	}
	return s.repo.Promote(ctx, circleID, memberID)
}

// MemberIDs is used by the notification dispatcher for circle fan-out.
func (s *Service) MemberIDs(ctx context.Context, circleID int) ([]int, error) {
	return s.repo.MemberIDs(ctx, circleID)
}

func (s *Service) requireAdmin(ctx context.Context, circleID, actorID int) error {
	ok, err := s.policy.CanManageCircle(ctx, circleID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return errs.Unauthorized("circle admin required")
	}
	return nil
}
