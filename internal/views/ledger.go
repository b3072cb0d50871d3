package views

import (
	"slices"

	"github.com/dtroode/coined/internal/model"
)

// LedgerFilter selects wallet entries.
type LedgerFilter string

const (
	FilterAll    LedgerFilter = "all"
	FilterEarned LedgerFilter = "earned"
	FilterSpent  LedgerFilter = "spent"
)

// FilterLedger returns the entries matching f, keeping their order.
func FilterLedger(txs []model.Transaction, f LedgerFilter) []model.Transaction {
	out := slices.Clone(txs)
	switch f {
	case FilterEarned:
		return slices.DeleteFunc(out, func(t model.Transaction) bool { return t.Type != model.TransactionEarn })
	case FilterSpent:
		return slices.DeleteFunc(out, func(t model.Transaction) bool { return t.Type != model.TransactionSpend })
	default:
		return out
	}
}

// Totals are the earned and spent sums of a ledger, both non-negative.
type Totals struct {
	Earned int64
	Spent  int64
}

// LedgerTotals sums earned and spent amounts of the given entries.
func LedgerTotals(txs []model.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Type {
		case model.TransactionEarn:
			t.Earned += tx.Amount
		case model.TransactionSpend:
			if tx.Amount < 0 {
				t.Spent -= tx.Amount
			} else {
				t.Spent += tx.Amount
			}
		}
	}
	return t
}
