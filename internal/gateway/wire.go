package gateway

import (
	"time"

	"github.com/dtroode/coined/internal/model"
)

type userWire struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Email       string `json:"email,omitempty"`
	Coins       *int64 `json:"coins,omitempty"`
	Class       string `json:"class,omitempty"`
	AvatarColor string `json:"avatarColor,omitempty"`
}

func (w userWire) toModel() model.User {
	u := model.User{
		ID:          w.ID,
		Name:        w.Name,
		Role:        model.Role(w.Role),
		Email:       w.Email,
		Class:       w.Class,
		AvatarColor: w.AvatarColor,
	}
	if w.Coins != nil {
		u.Coins = *w.Coins
	}
	return u
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  userWire `json:"user"`
}

type createStudentRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Class       string `json:"class,omitempty"`
	AvatarColor string `json:"avatarColor,omitempty"`
}

type studentRequest struct {
	StudentID string `json:"studentId"`
}

type coinsRequest struct {
	StudentID string `json:"studentId"`
	Amount    int64  `json:"amount"`
	Label     string `json:"label"`
	Category  string `json:"category"`
}

// balanceResponse is the reply of coin and purchase mutations.
type balanceResponse struct {
	Student *userWire `json:"student"`
}

func (r balanceResponse) toModel() model.BalanceUpdate {
	if r.Student == nil {
		return model.BalanceUpdate{}
	}
	return model.BalanceUpdate{StudentID: r.Student.ID, Coins: r.Student.Coins}
}

type transactionWire struct {
	ID        string    `json:"_id"`
	Label     string    `json:"label"`
	Type      string    `json:"type"`
	Amount    int64     `json:"amount"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

func (w transactionWire) toModel() model.Transaction {
	return model.Transaction{
		ID:        w.ID,
		Label:     w.Label,
		Type:      model.TransactionType(w.Type),
		Amount:    w.Amount,
		Timestamp: w.CreatedAt,
		Category:  w.Category,
	}
}

type itemRequest struct {
	ItemID string `json:"itemId"`
}

type shopItemWire struct {
	ID          string `json:"_id,omitempty"`
	Name        string `json:"name"`
	Cost        int64  `json:"cost"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Tag         string `json:"tag,omitempty"`
}

func shopItemFromModel(it model.ShopItem) shopItemWire {
	return shopItemWire{
		ID:          it.ID,
		Name:        it.Name,
		Cost:        it.Cost,
		Category:    it.Category,
		Description: it.Description,
		Icon:        it.Icon,
		Tag:         it.Tag,
	}
}

func (w shopItemWire) toModel() model.ShopItem {
	return model.ShopItem{
		ID:          w.ID,
		Name:        w.Name,
		Cost:        w.Cost,
		Category:    w.Category,
		Description: w.Description,
		Icon:        w.Icon,
		Tag:         w.Tag,
	}
}

type questionWire struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

type quizWire struct {
	ID          string         `json:"_id,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Questions   []questionWire `json:"questions"`
	Reward      int64          `json:"reward"`
}

func quizFromModel(q model.Quiz) quizWire {
	w := quizWire{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Reward:      q.Reward,
		Questions:   make([]questionWire, 0, len(q.Questions)),
	}
	for _, qq := range q.Questions {
		w.Questions = append(w.Questions, questionWire{
			Question:      qq.Text,
			Options:       qq.Options,
			CorrectAnswer: qq.Answer,
		})
	}
	return w
}

func (w quizWire) toModel() model.Quiz {
	q := model.Quiz{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Reward:      w.Reward,
		Questions:   make([]model.QuizQuestion, 0, len(w.Questions)),
	}
	for _, qw := range w.Questions {
		q.Questions = append(q.Questions, model.QuizQuestion{
			Text:    qw.Question,
			Options: qw.Options,
			Answer:  qw.CorrectAnswer,
		})
	}
	return q
}

type quizRequest struct {
	QuizID string `json:"quizId"`
}

type submitRequest struct {
	QuizID    string  `json:"quizId"`
	Answers   []int   `json:"answers"`
	TimeTaken float64 `json:"timeTaken"`
}

type attemptWire struct {
	ID          string    `json:"_id"`
	QuizID      string    `json:"quiz"`
	Answers     []int     `json:"answers"`
	TimeTaken   float64   `json:"timeTaken"`
	Score       int       `json:"score"`
	CoinsEarned int64     `json:"coinsEarned"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (w attemptWire) toModel() model.QuizAttempt {
	return model.QuizAttempt{
		ID:          w.ID,
		QuizID:      w.QuizID,
		Answers:     w.Answers,
		TimeTaken:   time.Duration(w.TimeTaken * float64(time.Second)),
		Score:       w.Score,
		CoinsEarned: w.CoinsEarned,
		SubmittedAt: w.CreatedAt,
	}
}

type submitResponse struct {
	Attempt     attemptWire `json:"attempt"`
	CoinsEarned int64       `json:"coinsEarned"`
}

type empty struct{}

func mapSlice[W any, M any](in []W, conv func(W) M) []M {
	out := make([]M, 0, len(in))
	for _, w := range in {
		out = append(out, conv(w))
	}
	return out
}
