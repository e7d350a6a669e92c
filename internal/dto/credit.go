package dto

import "time"

type BalanceResponseDTO struct {
	Credits int64 `json:"credits" example:"50"`
}

type PurchaseRequestDTO struct {
	CardNumber string `json:"card_number" example:"2377225624"`
	Amount     int64  `json:"amount" validate:"required,gt=0" example:"10"`
}

type TransactionResponseDTO struct {
	Amount        int64     `json:"amount" example:"3"`
	Type          string    `json:"type" example:"spent"`
	RelatedTaskID *int      `json:"related_task_id,omitempty" example:"7"`
	Description   string    `json:"description,omitempty"`
	ProcessedAt   time.Time `json:"processed_at" example:"2020-12-09T16:09:57+03:00"`
}

type RewardRequestDTO struct {
	Amount      int64  `json:"amount" validate:"required,gt=0" example:"5"`
	Description string `json:"description,omitempty"`
}
