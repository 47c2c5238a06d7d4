package post

import "time"

type Post struct {
	ID          int       `json:"id"`
	CircleID    int       `json:"circleId"`
	UserID      int       `json:"userId"`
	Username    string    `json:"username"`
	Avatar      string    `json:"avatar"`
	Content     string    `json:"content"`
	IsAnonymous bool      `json:"isAnonymous"`
	Likes       []int     `json:"likes"` // ids of users who liked
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Comment struct {
	ID        int       `json:"id"`
	PostID    int       `json:"postId"`
	UserID    int       `json:"userId"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateRequest struct {
	CircleID    int    `json:"circleId" validate:"required"`
	Content     string `json:"content" validate:"required,max=1000"`
	IsAnonymous bool   `json:"isAnonymous"`
}

type CommentRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

type UpdateRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

type ReportRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}
