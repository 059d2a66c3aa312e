package model

import "time"

// Transaction status values.
const (
	TxStatusSuccess = "success"
	TxStatusPending = "pending"
	TxStatusFailed  = "failed"
)

// OnrampCreditAmount is the fixed number of credits granted per onramp.
const OnrampCreditAmount int64 = 1000

// Transaction records a single credit top-up. Rows are immutable after insert.
type Transaction struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
