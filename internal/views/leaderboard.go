package views

import (
	"slices"

	"github.com/dtroode/coined/internal/cache"
	"github.com/dtroode/coined/internal/model"
)

// Entry is a ranked leaderboard row.
type Entry struct {
	Rank    int
	Student model.User
}

// Board is a ranked view of the roster.
type Board struct {
	Class   string
	Entries []Entry
	// YourRank is the signed in student's place in the unfiltered ranking,
	// 0 when the user is not on the roster.
	YourRank int
}

// Leaderboard ranks roster students by balance, highest first. Ties keep
// roster order so ranks are stable across renders. A non-empty class
// restricts the entries to that class.
func Leaderboard(s *cache.Snapshot, class string) Board {
	ranked := rank(s)

	board := Board{Class: class, YourRank: position(ranked, s.CurrentUserID())}
	for _, st := range ranked {
		if class != "" && st.Class != class {
			continue
		}
		board.Entries = append(board.Entries, Entry{Rank: len(board.Entries) + 1, Student: st})
	}
	return board
}

// RankOf returns 1 + the number of students ahead of id in the unfiltered
// ranking, or 0 when id is not on the roster.
func RankOf(s *cache.Snapshot, id string) int {
	return position(rank(s), id)
}

// Podium returns up to the first three entries of a board.
func Podium(b Board) []Entry {
	return b.Entries[:min(3, len(b.Entries))]
}

func rank(s *cache.Snapshot) []model.User {
	roster := s.Roster()
	slices.SortStableFunc(roster, byBalanceDesc)
	return roster
}

func position(ranked []model.User, id string) int {
	if id == "" {
		return 0
	}
	return slices.IndexFunc(ranked, func(u model.User) bool { return u.ID == id }) + 1
}
