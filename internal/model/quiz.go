package model

import "time"

// QuizQuestion is a multiple choice question.
type QuizQuestion struct {
	Text    string   `validate:"required"`
	Options []string `validate:"min=2"`
	Answer  int      `validate:"gte=0"`
}

// Quiz is a set of questions with a coin reward.
type Quiz struct {
	ID          string
	Title       string         `validate:"required"`
	Description string
	Questions   []QuizQuestion `validate:"required,min=1,dive"`
	Reward      int64          `validate:"gte=0"`
}

// QuizAttempt is an immutable submitted attempt.
type QuizAttempt struct {
	ID          string
	QuizID      string
	Answers     []int
	TimeTaken   time.Duration
	Score       int
	CoinsEarned int64
	SubmittedAt time.Time
}

// AttemptResult is the gateway response to a quiz submission.
type AttemptResult struct {
	Attempt     QuizAttempt
	CoinsEarned int64
}
