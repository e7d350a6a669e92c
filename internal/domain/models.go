package domain

import "time"

type User struct {
	ID           int       `db:"id"`
	Login        string    `db:"login"`
	PasswordHash string    `db:"password_hash"`
	Credits      int64     `db:"credits"`
	CanApply     bool      `db:"can_apply"`
	Blocked      bool      `db:"blocked"`
	IsAdmin      bool      `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`
}

type Task struct {
	ID           int        `db:"id"`
	CreatorID    int        `db:"creator_id"`
	Title        string     `db:"title"`
	Description  string     `db:"description"`
	Price        *int64     `db:"price"`
	IsOpen       bool       `db:"is_open"`
	IsDirectHire bool       `db:"is_direct_hire"`
	WorkerID     *int       `db:"worker_id"`
	CompletedAt  *time.Time `db:"completed_at"`
	CreatedAt    time.Time  `db:"created_at"`
}

// Application statuses. Terminal statuses are accepted, declined and removed.
const (
	StatusPending         = "pending"
	StatusOffered         = "offered"
	StatusCounterProposed = "counter_proposed"
	StatusAccepted        = "accepted"
	StatusDeclined        = "declined"
	StatusRemoved         = "removed"
)

type Application struct {
	ID             int        `db:"id"`
	TaskID         int        `db:"task_id"`
	ApplicantID    int        `db:"applicant_id"`
	ProposedPrice  *int64     `db:"proposed_price"`
	LastProposedBy *int       `db:"last_proposed_by"`
	ChargedCredits int64      `db:"charged_credits"`
	Status         string     `db:"status"`
	SelectedAt     *time.Time `db:"selected_at"`
	AcceptedBy     *int       `db:"accepted_by"`
	CreatedAt      time.Time  `db:"created_at"`
}

// IsTerminal reports whether the application can no longer change state.
func (a *Application) IsTerminal() bool {
	return a.Status == StatusAccepted || a.Status == StatusDeclined || a.Status == StatusRemoved
}

// Credit transaction types. Rows of these types are append-only.
const (
	TxnSpent    = "spent"
	TxnRefund   = "refund"
	TxnPurchase = "purchase"
	TxnReward   = "reward"
)

type CreditTransaction struct {
	ID            int       `db:"id"`
	UserID        int       `db:"user_id"`
	Amount        int64     `db:"amount"`
	Type          string    `db:"type"`
	RelatedTaskID *int      `db:"related_task_id"`
	Description   string    `db:"description"`
	CreatedAt     time.Time `db:"created_at"`
}

type Review struct {
	ID        int       `db:"id"`
	TaskID    int       `db:"task_id"`
	AuthorID  int       `db:"author_id"`
	TargetID  int       `db:"target_id"`
	Rating    int       `db:"rating"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
}

type Notification struct {
	ID        int       `db:"id"`
	UserID    int       `db:"user_id"`
	Kind      string    `db:"kind"`
	Message   string    `db:"message"`
	TaskID    *int      `db:"task_id"`
	CreatedAt time.Time `db:"created_at"`
}

// RequiredCredits converts a price in currency units to the credits that must
// back it: 1 credit per 100 units with a 1-credit floor.
func RequiredCredits(price int64) int64 {
	credits := price / 100
	if credits < 1 {
		return 1
	}
	return credits
}
