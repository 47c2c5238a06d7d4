package question

import (
	"context"

	"go.uber.org/zap"

	"github.com/Arpitag110/mindbridge/internal/errs"
	"github.com/Arpitag110/mindbridge/internal/notify"
)

// Store is the persistence the service needs; *Repository satisfies it.
type Store interface {
	Create(ctx context.Context, q *Question) (*Question, error)
	ListByCircle(ctx context.Context, circleID int) ([]Question, error)
	Get(ctx context.Context, id int) (*Question, error)
	AddAnswer(ctx context.Context, a *Answer) (*Answer, error)
	GetAnswer(ctx context.Context, id int) (*Answer, error)
	ToggleUpvote(ctx context.Context, answerID, userID int) (bool, error)
	Update(ctx context.Context, id int, title, body string) error
	Delete(ctx context.Context, id int) error
	DeleteAnswer(ctx context.Context, id int) error
}

type CircleLookup interface {
	MemberIDs(ctx context.Context, circleID int) ([]int, error)
}

type Notifier interface {
	Broadcast(ctx context.Context, memberIDs []int, senderID int, senderName, notifType, message string)
	Direct(ctx context.Context, recipientID int, senderName, notifType, message string)
}

type Service struct {
	repo     Store
	circles  CircleLookup
	notifier Notifier
	logger   *zap.Logger
}

func NewService(repo Store, circles CircleLookup, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{repo: repo, circles: circles, notifier: notifier, logger: logger}
}

func (s *Service) Create(ctx context.Context, userID int, username string, req *CreateRequest) (*Question, error) {
	q := &Question{
		CircleID: req.CircleID,
		UserID:   userID,
		Username: username,
		Title:    req.Title,
		Body:     req.Body,
	}
	q, err := s.repo.Create(ctx, q)
	if err != nil {
		return nil, err
	}
	q.Answers = []Answer{}

	members, err := s.circles.MemberIDs(ctx, req.CircleID)
	if err != nil {
		s.logger.Error("skip question fan-out, membership read failed",
			zap.Int("circle", req.CircleID), zap.Error(err))
		return q, nil
	}
	s.notifier.Broadcast(ctx, members, userID, username, notify.TypeQuestion,
		username+" asked a question in your circle")
	return q, nil
}

func (s *Service) ListByCircle(ctx context.Context, circleID int) ([]Question, error) {
	questions, err := s.repo.ListByCircle(ctx, circleID)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []Question{}
	}
	return questions, nil
}

// Answer posts an answer and notifies the asker.
func (s *Service) Answer(ctx context.Context, questionID, userID int, username string, req *AnswerRequest) (*Answer, error) {
	q, err := s.repo.Get(ctx, questionID)
	if err != nil {
		return nil, err
	}
	a := &Answer{QuestionID: questionID, UserID: userID, Username: username, Text: req.Text}
	a, err = s.repo.AddAnswer(ctx, a)
	if err != nil {
		return nil, err
	}
	a.Upvotes = []int{}

	if q.UserID != userID {
		s.notifier.Direct(ctx, q.UserID, username, notify.TypeAnswer,
			username+" answered your question")
	}
	return a, nil
}

func (s *Service) ToggleUpvote(ctx context.Context, answerID, userID int) (bool, error) {
	if _, err := s.repo.GetAnswer(ctx, answerID); err != nil {
		return false, err
	}
	return s.repo.ToggleUpvote(ctx, answerID, userID)
}

func (s *Service) Update(ctx context.Context, questionID, actorID int, req *UpdateRequest) error {
	q, err := s.repo.Get(ctx, questionID)
	if err != nil {
		return err
	}
	if q.UserID != actorID {
		return errs.Unauthorized("you can only update your own questions")
	}
	return s.repo.Update(ctx, questionID, req.Title, req.Body)
}

func (s *Service) Delete(ctx context.Context, questionID, actorID int) error {
	q, err := s.repo.Get(ctx, questionID)
	if err != nil {
		return err
	}
	if q.UserID != actorID {
		return errs.Unauthorized("you can only delete your own questions")
	}
	return s.repo.Delete(ctx, questionID)
}

// DeleteAnswer allows the answer's author or the question's owner.
func (s *Service) DeleteAnswer(ctx context.Context, answerID, actorID int) error {
	a, err := s.repo.GetAnswer(ctx, answerID)
	if err != nil {
		return err
	}
	if a.UserID != actorID {
		q, err := s.repo.Get(ctx, a.QuestionID)
		if err != nil {
			return err
		}
		if q.UserID != actorID {
			return errs.Unauthorized("you can only delete your own answers or answers to your questions")
		}
	}
	return s.repo.DeleteAnswer(ctx, answerID)
}
