package dto

type ApplyRequestDTO struct {
	ProposedPrice *int64 `json:"proposed_price,omitempty" example:"250"`
}

type CounterOfferRequestDTO struct {
	Price int64 `json:"price" validate:"required,gt=0" example:"400"`
}

type HireOfferRequestDTO struct {
	WorkerID int   `json:"worker_id" validate:"required"`
	Price    int64 `json:"price" validate:"required,gt=0" example:"500"`
}

type ApplicationResponseDTO struct {
	ID             int    `json:"id" example:"1"`
	TaskID         int    `json:"task_id" example:"7"`
	ApplicantID    int    `json:"applicant_id" example:"42"`
	ProposedPrice  *int64 `json:"proposed_price,omitempty" example:"400"`
	ChargedCredits int64  `json:"charged_credits" example:"4"`
	Status         string `json:"status" example:"counter_proposed"`
	SelectedAt     string `json:"selected_at,omitempty" example:"2020-12-09T16:09:57+03:00"`
	CreatedAt      string `json:"created_at" example:"2020-12-09T16:09:57+03:00"`
}
