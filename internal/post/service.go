package post

import (
	"context"

	"go.uber.org/zap"

	"github.com/Arpitag110/mindbridge/internal/errs"
	"github.com/Arpitag110/mindbridge/internal/notify"
	"github.com/Arpitag110/mindbridge/internal/policy"
)

// Store is the persistence the service needs; *Repository satisfies it.
type Store interface {
	Create(ctx context.Context, p *Post) (*Post, error)
	ListByCircle(ctx context.Context, circleID int) ([]Post, error)
	Get(ctx context.Context, id int) (*Post, error)
	ToggleLike(ctx context.Context, postID, userID int) (bool, error)
	AddComment(ctx context.Context, c *Comment) (*Comment, error)
	UpdateContent(ctx context.Context, id int, content string) error
	Delete(ctx context.Context, id int) error
	Report(ctx context.Context, postID, userID int, reason string) error
}

// CircleLookup is the slice of the circle feature post fan-out needs.
type CircleLookup interface {
	MemberIDs(ctx context.Context, circleID int) ([]int, error)
}

// Notifier is satisfied by *notify.Dispatcher.
type Notifier interface {
	Broadcast(ctx context.Context, memberIDs []int, senderID int, senderName, notifType, message string)
	Direct(ctx context.Context, recipientID int, senderName, notifType, message string)
}

type Service struct {
	repo     Store
	circles  CircleLookup
	notifier Notifier
	policy   *policy.Service
	logger   *zap.Logger
}

func NewService(repo Store, circles CircleLookup, notifier Notifier, pol *policy.Service, logger *zap.Logger) *Service {
	return &Service{repo: repo, circles: circles, notifier: notifier, policy: pol, logger: logger}
}

// Create saves the post and notifies the other circle members. The
// fan-out never fails the request; a member whose notification write
// fails just misses this one.
func (s *Service) Create(ctx context.Context, userID int, username string, req *CreateRequest) (*Post, error) {
	p := &Post{
		CircleID:    req.CircleID,
		UserID:      userID,
		Content:     req.Content,
		IsAnonymous: req.IsAnonymous,
	}
	p, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	p.Likes = []int{}
	p.Comments = []Comment{}
	if !p.IsAnonymous {
		p.Username = username
	}

	senderName := username
	if req.IsAnonymous {
		senderName = "Someone"
	}
	members, err := s.circles.MemberIDs(ctx, req.CircleID)
	if err != nil {
		s.logger.Error("skip post fan-out, membership read failed",
			zap.Int("circle", req.CircleID), zap.Error(err))
		return p, nil
	}
	s.notifier.Broadcast(ctx, members, userID, senderName, notify.TypePost,
		senderName+" shared a new post in your circle")
	return p, nil
}

func (s *Service) ListByCircle(ctx context.Context, circleID int) ([]Post, error) {
	posts, err := s.repo.ListByCircle(ctx, circleID)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []Post{}
	}
	// Anonymous posts don't reveal their author in the list view.
	for i := range posts {
		if posts[i].IsAnonymous {
			posts[i].Username = ""
			posts[i].Avatar = ""
		}
	}
	return posts, nil
}

// ToggleLike likes the post, or unlikes it on a second call. Only a
// fresh like from someone else notifies the author.
func (s *Service) ToggleLike(ctx context.Context, postID, userID int, username string) (bool, error) {
	p, err := s.repo.Get(ctx, postID)
	if err != nil {
		return false, err
	}
	liked, err := s.repo.ToggleLike(ctx, postID, userID)
	if err != nil {
		return false, err
	}
	if liked && p.UserID != userID {
		s.notifier.Direct(ctx, p.UserID, username, notify.TypeLike, username+" liked your post")
	}
	return liked, nil
}

func (s *Service) AddComment(ctx context.Context, postID, userID int, username string, req *CommentRequest) (*Comment, error) {
	p, err := s.repo.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	c := &Comment{PostID: postID, UserID: userID, Username: username, Text: req.Text}
	c, err = s.repo.AddComment(ctx, c)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		s.notifier.Direct(ctx, p.UserID, username, notify.TypeComment, username+" commented on your post")
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, postID, actorID int, req *UpdateRequest) error {
	p, err := s.repo.Get(ctx, postID)
	if err != nil {
		return err
	}
	if p.UserID != actorID {
		return errs.Unauthorized("you can only update your own posts")
	}
	return s.repo.UpdateContent(ctx, postID, req.Content)
}

// Delete allows the author, or a circle admin acting as moderator.
func (s *Service) Delete(ctx context.Context, postID, actorID int) error {
	p, err := s.repo.Get(ctx, postID)
	if err != nil {
		return err
	}
	if p.UserID != actorID {
		ok, err := s.policy.CanModeratePost(ctx, p.CircleID, actorID)
		if err != nil {
			return err
		}
		if !ok {
			return errs.Unauthorized("you can only delete your own posts")
		}
	}
	return s.repo.Delete(ctx, postID)
}

func (s *Service) Report(ctx context.Context, postID, userID int, req *ReportRequest) error {
	if _, err := s.repo.Get(ctx, postID); err != nil {
		return err
	}
	return s.repo.Report(ctx, postID, userID, req.Reason)
}
