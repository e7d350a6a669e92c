package dto

import "time"

type CreateReviewRequestDTO struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5" example:"5"`
	Comment string `json:"comment,omitempty"`
}

type ReviewResponseDTO struct {
	ID        int       `json:"id" example:"1"`
	TaskID    int       `json:"task_id" example:"7"`
	AuthorID  int       `json:"author_id" example:"42"`
	TargetID  int       `json:"target_id" example:"17"`
	Rating    int       `json:"rating" example:"5"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at" example:"2020-12-09T16:09:57+03:00"`
}

type NotificationResponseDTO struct {
	Kind      string    `json:"kind" example:"accepted"`
	Message   string    `json:"message" example:"your application was accepted"`
	TaskID    *int      `json:"task_id,omitempty" example:"7"`
	CreatedAt time.Time `json:"created_at" example:"2020-12-09T16:09:57+03:00"`
}
