// Package views holds pure projections over a cache snapshot. None of the
// functions mutate the snapshot or reach the network; callers recompute
// them on every read.
package views

import (
	"cmp"
	"math"
	"slices"

	"github.com/dtroode/coined/internal/cache"
	"github.com/dtroode/coined/internal/model"
)

// BalanceOf returns the coins of a roster student, else of the signed in
// user when the id matches, else 0.
func BalanceOf(s *cache.Snapshot, id string) int64 {
	if s.InRoster(id) || id == s.CurrentUserID() {
		if u, ok := s.User(id); ok {
			return u.Coins
		}
	}
	return 0
}

// LedgerOf returns the cached ledger or an empty sequence. It never fetches.
func LedgerOf(s *cache.Snapshot, id string) []model.Transaction {
	txs, ok := s.Ledger(id)
	if !ok {
		return []model.Transaction{}
	}
	return txs
}

// Classes returns the distinct non-empty classes of the roster in order of
// first appearance.
func Classes(s *cache.Snapshot) []string {
	var out []string
	for _, st := range s.Roster() {
		if st.Class != "" && !slices.Contains(out, st.Class) {
			out = append(out, st.Class)
		}
	}
	return out
}

// StudentsInClass returns roster students of a class; "" selects all.
func StudentsInClass(s *cache.Snapshot, class string) []model.User {
	roster := s.Roster()
	if class == "" {
		return roster
	}
	return slices.DeleteFunc(roster, func(u model.User) bool { return u.Class != class })
}

// Aggregate summarizes balances of a set of students.
type Aggregate struct {
	Count   int
	Total   int64
	Average int64
	Top     int64
}

// AggregateOf computes total, rounded average and top balance.
func AggregateOf(students []model.User) Aggregate {
	agg := Aggregate{Count: len(students)}
	for _, st := range students {
		agg.Total += st.Coins
		agg.Top = max(agg.Top, st.Coins)
	}
	if agg.Count > 0 {
		agg.Average = int64(math.Round(float64(agg.Total) / float64(agg.Count)))
	}
	return agg
}

// Stats are the counters shown on the teacher profile.
type Stats struct {
	Students     int
	Transactions int
	ShopItems    int
}

// StatsOf counts roster students, cached ledger entries and shop items.
func StatsOf(s *cache.Snapshot) Stats {
	return Stats{
		Students:     len(s.Roster()),
		Transactions: s.LedgerSize(),
		ShopItems:    len(s.Shop()),
	}
}

// ShopByCategory returns catalog items of a category; "" selects all.
func ShopByCategory(s *cache.Snapshot, category string) []model.ShopItem {
	items := s.Shop()
	if category == "" {
		return items
	}
	return slices.DeleteFunc(items, func(it model.ShopItem) bool { return it.Category != category })
}

// ShopCategories returns distinct catalog categories in catalog order.
func ShopCategories(s *cache.Snapshot) []string {
	var out []string
	for _, it := range s.Shop() {
		if it.Category != "" && !slices.Contains(out, it.Category) {
			out = append(out, it.Category)
		}
	}
	return out
}

func byBalanceDesc(a, b model.User) int {
	return cmp.Compare(b.Coins, a.Coins)
}
