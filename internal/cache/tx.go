package cache

import (
	"slices"

	"github.com/dtroode/coined/internal/model"
)

// Tx edits a private copy of a snapshot inside Store.Update.
type Tx struct {
	snap *Snapshot
}

// Snapshot exposes the copy being edited for reads.
func (t *Tx) Snapshot() *Snapshot {
	return t.snap
}

// SetCurrentUser stores u and makes it the signed in user.
func (t *Tx) SetCurrentUser(u model.User) {
	t.snap.users[u.ID] = u
	t.snap.currentUserID = u.ID
}

// PutUser inserts or replaces a user without touching the roster.
func (t *Tx) PutUser(u model.User) {
	t.snap.users[u.ID] = u
}

// SetBalance stores an acknowledged balance of a cached user and stamps
// it with the version this update produces. It reports false when the
// user is unknown.
func (t *Tx) SetBalance(id string, coins int64) bool {
	u, ok := t.snap.users[id]
	if !ok {
		return false
	}
	u.Coins = coins
	t.snap.users[id] = u
	t.snap.balanceAt[id] = t.snap.version + 1
	return true
}

// ReplaceRoster installs students as the roster, in the given order.
// Users and ledgers of students that left the roster are pruned, except
// for the signed in user.
func (t *Tx) ReplaceRoster(students []model.User) {
	t.ReplaceRosterSince(students, t.snap.version)
}

// ReplaceRosterSince is ReplaceRoster for a list fetched when the cache
// was at version since. A balance acknowledged after that version is
// newer than the list and is kept.
func (t *Tx) ReplaceRosterSince(students []model.User, since uint64) {
	keep := make(map[string]struct{}, len(students))
	roster := make([]string, 0, len(students))
	for _, st := range students {
		if _, dup := keep[st.ID]; dup {
			continue
		}
		keep[st.ID] = struct{}{}
		roster = append(roster, st.ID)
		if prev, ok := t.snap.users[st.ID]; ok && t.snap.balanceAt[st.ID] > since {
			st.Coins = prev.Coins
		}
		t.snap.users[st.ID] = st
	}

	for _, id := range t.snap.roster {
		if _, ok := keep[id]; ok || id == t.snap.currentUserID {
			continue
		}
		delete(t.snap.users, id)
		delete(t.snap.ledgers, id)
		delete(t.snap.balanceAt, id)
	}
	t.snap.roster = roster
}

// AddStudent appends a student to the roster or replaces the entry.
func (t *Tx) AddStudent(u model.User) {
	if !slices.Contains(t.snap.roster, u.ID) {
		t.snap.roster = append(t.snap.roster, u.ID)
	}
	t.snap.users[u.ID] = u
}

// RemoveStudent drops a student from the roster together with its ledger.
func (t *Tx) RemoveStudent(id string) bool {
	i := slices.Index(t.snap.roster, id)
	if i < 0 {
		return false
	}
	t.snap.roster = slices.Delete(t.snap.roster, i, i+1)
	delete(t.snap.ledgers, id)
	if id != t.snap.currentUserID {
		delete(t.snap.users, id)
		delete(t.snap.balanceAt, id)
	}
	return true
}

// ReplaceLedger installs txs as the whole cached ledger of a student.
func (t *Tx) ReplaceLedger(id string, txs []model.Transaction) {
	t.snap.ledgers[id] = slices.Clone(txs)
}

// PrependTransaction puts tx at the head of a student's ledger.
func (t *Tx) PrependTransaction(id string, tx model.Transaction) {
	prev := t.snap.ledgers[id]
	next := make([]model.Transaction, 0, len(prev)+1)
	next = append(next, tx)
	next = append(next, prev...)
	t.snap.ledgers[id] = next
}

// ReplaceShop installs the shop catalog.
func (t *Tx) ReplaceShop(items []model.ShopItem) {
	t.snap.shop = slices.Clone(items)
}

// AddShopItem inserts an item, replacing one with the same id.
func (t *Tx) AddShopItem(item model.ShopItem) {
	i := slices.IndexFunc(t.snap.shop, func(it model.ShopItem) bool { return it.ID == item.ID })
	if i >= 0 {
		t.snap.shop[i] = item
		return
	}
	t.snap.shop = append(t.snap.shop, item)
}

// RemoveShopItem drops an item by id.
func (t *Tx) RemoveShopItem(id string) bool {
	n := len(t.snap.shop)
	t.snap.shop = slices.DeleteFunc(t.snap.shop, func(it model.ShopItem) bool { return it.ID == id })
	return len(t.snap.shop) != n
}

// ReplaceQuizzes installs the quiz catalog.
func (t *Tx) ReplaceQuizzes(quizzes []model.Quiz) {
	t.snap.quizzes = slices.Clone(quizzes)
}

// PutQuiz inserts or replaces a quiz by id.
func (t *Tx) PutQuiz(q model.Quiz) {
	i := slices.IndexFunc(t.snap.quizzes, func(x model.Quiz) bool { return x.ID == q.ID })
	if i >= 0 {
		t.snap.quizzes[i] = q
		return
	}
	t.snap.quizzes = append(t.snap.quizzes, q)
}

// RemoveQuiz drops a quiz by id.
func (t *Tx) RemoveQuiz(id string) bool {
	n := len(t.snap.quizzes)
	t.snap.quizzes = slices.DeleteFunc(t.snap.quizzes, func(q model.Quiz) bool { return q.ID == id })
	return len(t.snap.quizzes) != n
}

// ReplaceAttempts installs the attempt history.
func (t *Tx) ReplaceAttempts(attempts []model.QuizAttempt) {
	t.snap.attempts = slices.Clone(attempts)
}

// AppendAttempt records a newly submitted attempt.
func (t *Tx) AppendAttempt(a model.QuizAttempt) {
	t.snap.attempts = append(t.snap.attempts, a)
}
