package model

import "time"

// TransactionType tells whether a ledger entry added or removed coins.
type TransactionType string

const (
	// TransactionEarn entries carry a positive amount.
	TransactionEarn TransactionType = "earn"
	// TransactionSpend entries carry a negative amount.
	TransactionSpend TransactionType = "spend"
)

// Ledger categories used by the client when it synthesizes entries.
const (
	CategoryBehavior = "behavior"
	CategoryShop     = "shop"
	CategoryQuiz     = "quiz"
	CategoryHomework = "homework"
	CategoryReward   = "reward"
)

// Transaction is a single ledger entry of a student.
type Transaction struct {
	ID        string
	Label     string
	Type      TransactionType
	Amount    int64
	Timestamp time.Time
	Category  string
	// Provisional marks entries fabricated locally after a confirmed
	// mutation. They are dropped by the next full ledger reload.
	Provisional bool
}

// Consistent reports whether the sign of Amount matches Type.
func (t Transaction) Consistent() bool {
	switch t.Type {
	case TransactionEarn:
		return t.Amount > 0
	case TransactionSpend:
		return t.Amount < 0
	default:
		return false
	}
}
