package model

import "time"

// Default labels applied when a teacher gives no reason.
const (
	DefaultAwardLabel  = "Teacher Bonus"
	DefaultDeductLabel = "Teacher Deduction"
)

// CoinIntent asks to award or deduct coins of a student.
type CoinIntent struct {
	StudentID string `validate:"required"`
	Amount    int64  `validate:"gt=0"`
	Label     string `validate:"required"`
	Category  string `validate:"required"`
}

// PurchaseIntent asks to buy a shop item for the current user.
type PurchaseIntent struct {
	ItemID string `validate:"required"`
}

// SubmitIntent carries the answers of a quiz attempt.
type SubmitIntent struct {
	QuizID    string        `validate:"required"`
	Answers   []int         `validate:"required,min=1"`
	TimeTaken time.Duration `validate:"gte=0"`
}

// QuickAction is a preset award or deduction.
type QuickAction struct {
	Name   string
	Amount int64
	Earn   bool
	Label  string
}

// QuickActions lists the presets offered to teachers.
var QuickActions = []QuickAction{
	{Name: "homework", Amount: 50, Earn: true, Label: "Homework completed"},
	{Name: "behavior", Amount: 100, Earn: true, Label: "Good behavior"},
	{Name: "project", Amount: 200, Earn: true, Label: "Project completed"},
	{Name: "quiz", Amount: 150, Earn: true, Label: "Quiz bonus"},
	{Name: "late-homework", Amount: 30, Earn: false, Label: "Late homework"},
	{Name: "rule-break", Amount: 50, Earn: false, Label: "Rule violation"},
}

// FindQuickAction returns the preset with the given name.
func FindQuickAction(name string) (QuickAction, bool) {
	for _, qa := range QuickActions {
		if qa.Name == name {
			return qa, true
		}
	}
	return QuickAction{}, false
}
