package entry

import "time"

// Mood is one check-in on the mood tracker.
type Mood struct {
	ID         int       `json:"id"`
	UserID     int       `json:"userId"`
	Score      int       `json:"score"`
	Emotions   []string  `json:"emotions"`
	Note       string    `json:"note"`
	Color      string    `json:"color"`
	Visibility string    `json:"visibility"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Journal struct {
	ID         int       `json:"id"`
	UserID     int       `json:"userId"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	MoodTag    string    `json:"moodTag"`
	Visibility string    `json:"visibility"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CreateMoodRequest struct {
	Score      int      `json:"score" validate:"required,min=1,max=10"`
	Emotions   []string `json:"emotions"`
	Note       string   `json:"note" validate:"max=500"`
	Color      string   `json:"color" validate:"max=20"`
	Visibility string   `json:"visibility" validate:"omitempty,oneof=Private Circles Public"`
}

type CreateJournalRequest struct {
	Title      string `json:"title" validate:"max=200"`
	Content    string `json:"content" validate:"required"`
	MoodTag    string `json:"moodTag" validate:"max=50"`
	Visibility string `json:"visibility" validate:"omitempty,oneof=Private Circles Public"`
}
