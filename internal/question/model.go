package question

import "time"

type Question struct {
	ID        int       `json:"id"`
	CircleID  int       `json:"circleId"`
	UserID    int       `json:"userId"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Answers   []Answer  `json:"answers"`
	CreatedAt time.Time `json:"createdAt"`
}

type Answer struct {
	ID         int       `json:"id"`
	QuestionID int       `json:"questionId"`
	UserID     int       `json:"userId"`
	Username   string    `json:"username"`
	Avatar     string    `json:"avatar"`
	Text       string    `json:"text"`
	Upvotes    []int     `json:"upvotes"` // ids of users who upvoted
	CreatedAt  time.Time `json:"createdAt"`
}

type CreateRequest struct {
	CircleID int    `json:"circleId" validate:"required"`
	Title    string `json:"title" validate:"required,max=200"`
	Body     string `json:"body" validate:"required"`
}

type AnswerRequest struct {
	Text string `json:"text" validate:"required"`
}

type UpdateRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"required"`
}
