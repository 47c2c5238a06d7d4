package circle

import (
	"time"

	"github.com/Arpitag110/mindbridge/internal/user"
)

type Circle struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	CreatorID       int       `json:"creatorId"`
	Tags            []string  `json:"tags"`
	Visibility      string    `json:"visibility"` // 'public' or 'private'
	AllowsAnonymous bool      `json:"allowsAnonymous"`
	CoverImage      string    `json:"coverImage"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Summary is the list view: the circle plus how many members it has.
type Summary struct {
	Circle
	MemberCount int `json:"memberCount"`
}

// Detail is the single-circle view with the full member breakdown the
// admin panel needs.
type Detail struct {
	Circle
	Members        []user.Profile `json:"members"`
	Admins         []user.Profile `json:"admins"`
	PendingMembers []user.Profile `json:"pendingMembers"`
}

type CreateRequest struct {
	Name            string   `json:"name" validate:"required,min=3,max=100"`
	Description     string   `json:"description" validate:"required,max=500"`
	Tags            []string `json:"tags"`
	Visibility      string   `json:"visibility" validate:"omitempty,oneof=public private"`
	AllowsAnonymous bool     `json:"allowsAnonymous"`
	CoverImage      string   `json:"coverImage"`
}

type UpdateRequest struct {
	Name            *string  `json:"name" validate:"omitempty,min=3,max=100"`
	Description     *string  `json:"description" validate:"omitempty,max=500"`
	Tags            []string `json:"tags"`
	Visibility      *string  `json:"visibility" validate:"omitempty,oneof=public private"`
	AllowsAnonymous *bool    `json:"allowsAnonymous"`
	CoverImage      *string  `json:"coverImage"`
}

// RequestAction resolves a pending join request.
type RequestAction struct {
	UserID int    `json:"userId" validate:"required"`
	Action string `json:"action" validate:"required,oneof=approve reject"`
}
