package dto

type CreateTaskRequestDTO struct {
	Title        string `json:"title" validate:"required,max=255"`
	Description  string `json:"description"`
	Price        *int64 `json:"price,omitempty" example:"300"`
	IsDirectHire bool   `json:"is_direct_hire"`
	WorkerID     *int   `json:"worker_id,omitempty"`
}

type TaskResponseDTO struct {
	ID           int    `json:"id" example:"1"`
	CreatorID    int    `json:"creator_id" example:"42"`
	Title        string `json:"title" example:"Assemble a wardrobe"`
	Description  string `json:"description,omitempty"`
	Price        *int64 `json:"price,omitempty" example:"300"`
	IsOpen       bool   `json:"is_open" example:"true"`
	IsDirectHire bool   `json:"is_direct_hire"`
	CompletedAt  string `json:"completed_at,omitempty" example:"2020-12-09T16:09:57+03:00"`
	CreatedAt    string `json:"created_at" example:"2020-12-09T16:09:57+03:00"`
}
