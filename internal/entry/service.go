package entry

import (
	"context"

	"github.com/Arpitag110/mindbridge/internal/errs"
	"github.com/Arpitag110/mindbridge/internal/policy"
)

// Store is the persistence the service needs; *Repository satisfies it.
type Store interface {
	CreateMood(ctx context.Context, m *Mood) (*Mood, error)
	ListMoods(ctx context.Context, ownerID int, allowed []string) ([]Mood, error)
	MoodOwner(ctx context.Context, id int) (int, error)
	DeleteMood(ctx context.Context, id int) error
	CreateJournal(ctx context.Context, j *Journal) (*Journal, error)
	ListJournals(ctx context.Context, ownerID int, allowed []string) ([]Journal, error)
	JournalOwner(ctx context.Context, id int) (int, error)
	DeleteJournal(ctx context.Context, id int) error
}

// VisibilityResolver decides which visibility tags a viewer gets.
type VisibilityResolver interface {
	AllowedVisibilities(ctx context.Context, ownerID, viewerID, circleID int) ([]string, error)
}

type Service struct {
	store    Store
	resolver VisibilityResolver
}

func NewService(store Store, resolver VisibilityResolver) *Service {
	return &Service{store: store, resolver: resolver}
}

func (s *Service) CreateMood(ctx context.Context, userID int, req *CreateMoodRequest) (*Mood, error) {
	m := &Mood{
		UserID:     userID,
		Score:      req.Score,
		Emotions:   req.Emotions,
		Note:       req.Note,
		Color:      req.Color,
		Visibility: defaultVisibility(req.Visibility),
	}
	return s.store.CreateMood(ctx, m)
}

// Moods lists ownerID's mood history as seen by viewerID (0 = anonymous).
// circleID scopes the circle-mate check when non-zero.
func (s *Service) Moods(ctx context.Context, ownerID, viewerID, circleID int) ([]Mood, error) {
	allowed, err := s.resolver.AllowedVisibilities(ctx, ownerID, viewerID, circleID)
	if err != nil {
		return nil, err
	}
	moods, err := s.store.ListMoods(ctx, ownerID, allowed)
	if err != nil {
		return nil, err
	}
	if moods == nil {
		moods = []Mood{}
	}
	return moods, nil
}

func (s *Service) DeleteMood(ctx context.Context, id, actorID int) error {
	owner, err := s.store.MoodOwner(ctx, id)
	if err != nil {
		return err
	}
	if owner != actorID {
		return errs.Unauthorized("you can only delete your own moods")
	}
	return s.store.DeleteMood(ctx, id)
}

func (s *Service) CreateJournal(ctx context.Context, userID int, req *CreateJournalRequest) (*Journal, error) {
	title := req.Title
	if title == "" {
		title = "Untitled Entry"
	}
	moodTag := req.MoodTag
	if moodTag == "" {
		moodTag = "Neutral"
	}
	j := &Journal{
		UserID:     userID,
		Title:      title,
		Content:    req.Content,
		MoodTag:    moodTag,
		Visibility: defaultVisibility(req.Visibility),
	}
	return s.store.CreateJournal(ctx, j)
}

func (s *Service) Journals(ctx context.Context, ownerID, viewerID, circleID int) ([]Journal, error) {
	allowed, err := s.resolver.AllowedVisibilities(ctx, ownerID, viewerID, circleID)
	if err != nil {
		return nil, err
	}
	journals, err := s.store.ListJournals(ctx, ownerID, allowed)
	if err != nil {
		return nil, err
	}
	if journals == nil {
		journals = []Journal{}
	}
	return journals, nil
}

func (s *Service) DeleteJournal(ctx context.Context, id, actorID int) error {
	owner, err := s.store.JournalOwner(ctx, id)
	if err != nil {
		return err
	}
	if owner != actorID {
		return errs.Unauthorized("you can only delete your own journal entries")
	}
	return s.store.DeleteJournal(ctx, id)
}

func defaultVisibility(v string) string {
	if v == "" {
		return policy.VisibilityPrivate
	}
	return v
}
