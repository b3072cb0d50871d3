package cache

import (
	"slices"

	"github.com/dtroode/coined/internal/model"
)

// Snapshot is an immutable view of every cached entity. Users are stored
// once, keyed by id; the roster and the session refer to them by id.
type Snapshot struct {
	version       uint64
	currentUserID string
	users         map[string]model.User
	roster        []string
	ledgers       map[string][]model.Transaction
	shop          []model.ShopItem
	quizzes       []model.Quiz
	attempts      []model.QuizAttempt
	// balanceAt holds the version of the update that last stored an
	// acknowledged balance, per user id.
	balanceAt map[string]uint64
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		users:     map[string]model.User{},
		ledgers:   map[string][]model.Transaction{},
		balanceAt: map[string]uint64{},
	}
}

// Version increases with every applied update.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// CurrentUserID returns the id of the signed in user, or "".
func (s *Snapshot) CurrentUserID() string {
	return s.currentUserID
}

// CurrentUser returns the signed in user.
func (s *Snapshot) CurrentUser() (model.User, bool) {
	if s.currentUserID == "" {
		return model.User{}, false
	}
	return s.User(s.currentUserID)
}

// User returns the cached user with the given id.
func (s *Snapshot) User(id string) (model.User, bool) {
	u, ok := s.users[id]
	return u, ok
}

// InRoster reports whether the student is part of the roster.
func (s *Snapshot) InRoster(id string) bool {
	return slices.Contains(s.roster, id)
}

// Roster returns roster students in insertion order.
func (s *Snapshot) Roster() []model.User {
	out := make([]model.User, 0, len(s.roster))
	for _, id := range s.roster {
		out = append(out, s.users[id])
	}
	return out
}

// Ledger returns the cached ledger of a student, newest first.
// The second value is false when the ledger was never loaded.
func (s *Snapshot) Ledger(id string) ([]model.Transaction, bool) {
	txs, ok := s.ledgers[id]
	return slices.Clone(txs), ok
}

// LedgerSize returns the number of cached entries of every ledger.
func (s *Snapshot) LedgerSize() int {
	n := 0
	for _, txs := range s.ledgers {
		n += len(txs)
	}
	return n
}

// Shop returns the shop catalog.
func (s *Snapshot) Shop() []model.ShopItem {
	return slices.Clone(s.shop)
}

// ShopItem returns the catalog item with the given id.
func (s *Snapshot) ShopItem(id string) (model.ShopItem, bool) {
	for _, it := range s.shop {
		if it.ID == id {
			return it, true
		}
	}
	return model.ShopItem{}, false
}

// Quizzes returns the quiz catalog.
func (s *Snapshot) Quizzes() []model.Quiz {
	return slices.Clone(s.quizzes)
}

// Quiz returns the quiz with the given id.
func (s *Snapshot) Quiz(id string) (model.Quiz, bool) {
	for _, q := range s.quizzes {
		if q.ID == id {
			return q, true
		}
	}
	return model.Quiz{}, false
}

// Attempts returns the current user's attempt history in submission order.
func (s *Snapshot) Attempts() []model.QuizAttempt {
	return slices.Clone(s.attempts)
}

// BalanceVersion returns the version of the update that last stored an
// acknowledged balance for id, or 0.
func (s *Snapshot) BalanceVersion(id string) uint64 {
	return s.balanceAt[id]
}

// Empty reports whether nothing is cached.
func (s *Snapshot) Empty() bool {
	return s.currentUserID == "" && len(s.users) == 0 && len(s.ledgers) == 0 &&
		len(s.shop) == 0 && len(s.quizzes) == 0 && len(s.attempts) == 0
}

func (s *Snapshot) clone() *Snapshot {
	c := &Snapshot{
		version:       s.version,
		currentUserID: s.currentUserID,
		users:         make(map[string]model.User, len(s.users)),
		roster:        slices.Clone(s.roster),
		ledgers:       make(map[string][]model.Transaction, len(s.ledgers)),
		shop:          slices.Clone(s.shop),
		quizzes:       slices.Clone(s.quizzes),
		attempts:      slices.Clone(s.attempts),
		balanceAt:     make(map[string]uint64, len(s.balanceAt)),
	}
	for k, v := range s.balanceAt {
		c.balanceAt[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	// Ledger slices are never edited in place, sharing them is safe.
	for k, v := range s.ledgers {
		c.ledgers[k] = v
	}
	return c
}
