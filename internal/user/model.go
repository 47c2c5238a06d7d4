package user

import "time"

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Bio       string    `json:"bio"`
	Avatar    string    `json:"avatar"`
	Mantra    string    `json:"mantra"`
	Interests []string  `json:"interests"`
	GhostMode bool      `json:"ghostMode"`
	CreatedAt time.Time `json:"createdAt"`
}

// Stats is shown on the profile page next to the user.
type Stats struct {
	MoodCount    int `json:"moodCount"`
	JournalCount int `json:"journalCount"`
}

// Profile is the minimal display info other features need when they
// enrich their own records with user data.
type Profile struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ID          int    `json:"id"`
	Username    string `json:"username"`
}

// UpdateRequest carries the editable profile fields. Pointer fields are
// left alone when absent from the payload.
type UpdateRequest struct {
	Username  *string  `json:"username" validate:"omitempty,min=3,max=50"`
	Email     *string  `json:"email" validate:"omitempty,email"`
	Password  *string  `json:"password" validate:"omitempty,min=6"`
	Bio       *string  `json:"bio"`
	Avatar    *string  `json:"avatar"`
	Mantra    *string  `json:"mantra"`
	Interests []string `json:"interests"`
	GhostMode *bool    `json:"ghostMode"`
}

type ProfileResponse struct {
	User
	Stats Stats `json:"stats"`
}
