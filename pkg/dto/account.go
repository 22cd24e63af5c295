package dto

import (
	"time"

	"github.com/google/uuid"
)

// AccountRead is the read-optimized projection of an account.
type AccountRead struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Number    string    `json:"number"`
	Type      string    `json:"type"`
	Balance   float64   `json:"balance"`
	Available float64   `json:"available_balance"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

// BalanceRead is the balance view returned by the ledger. The account number
// is masked for display.
type BalanceRead struct {
	AccountID    uuid.UUID `json:"account_id"`
	MaskedNumber string    `json:"account_number"`
	Type         string    `json:"account_type"`
	Balance      float64   `json:"balance"`
	Available    float64   `json:"available_balance"`
	Currency     string    `json:"currency"`
	Status       string    `json:"status"`
}

// AccountUpdate carries a partial update; nil fields are left untouched.
type AccountUpdate struct {
	Balance   *int64
	Available *int64
	Status    *string
}
