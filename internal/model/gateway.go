package model

import "context"

// BalanceUpdate is the part of a mutation response that carries the
// authoritative balance. Coins is nil when the server omitted it.
type BalanceUpdate struct {
	StudentID string
	Coins     *int64
}

// AuthGateway authenticates users and enrolls students.
type AuthGateway interface {
	Me(ctx context.Context) (User, error)
	Login(ctx context.Context, identifier, password string) (LoginResult, error)
	CreateStudent(ctx context.Context, student NewStudent) (User, error)
}

// StudentGateway reads and mutates the roster and the ledger.
type StudentGateway interface {
	ListStudents(ctx context.Context) ([]User, error)
	ListTransactions(ctx context.Context, studentID string) ([]Transaction, error)
	AddCoins(ctx context.Context, studentID string, amount int64, label, category string) (BalanceUpdate, error)
	RemoveCoins(ctx context.Context, studentID string, amount int64, label, category string) (BalanceUpdate, error)
	DeleteStudent(ctx context.Context, studentID string) error
}

// ShopGateway manages the catalog and purchases.
type ShopGateway interface {
	ListShopItems(ctx context.Context) ([]ShopItem, error)
	AddShopItem(ctx context.Context, item ShopItem) (ShopItem, error)
	DeleteShopItem(ctx context.Context, itemID string) error
	BuyItem(ctx context.Context, itemID string) (BalanceUpdate, error)
}

// QuizGateway manages quizzes and attempts.
type QuizGateway interface {
	ListQuizzes(ctx context.Context) ([]Quiz, error)
	CreateQuiz(ctx context.Context, quiz Quiz) (Quiz, error)
	UpdateQuiz(ctx context.Context, quiz Quiz) (Quiz, error)
	DeleteQuiz(ctx context.Context, quizID string) error
	SubmitAttempt(ctx context.Context, intent SubmitIntent) (AttemptResult, error)
	MyAttempts(ctx context.Context) ([]QuizAttempt, error)
}

// Gateway is the remote service consumed by the client core.
type Gateway interface {
	AuthGateway
	StudentGateway
	ShopGateway
	QuizGateway
}
