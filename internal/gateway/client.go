package gateway

import (
	"context"

	"google.golang.org/grpc"

	"github.com/dtroode/coined/internal/logger"
	"github.com/dtroode/coined/internal/model"
)

// Full method names of the remote service.
const (
	methodLogin          = "/coined.v1.Auth/Login"
	methodMe             = "/coined.v1.Auth/Me"
	methodCreateStudent  = "/coined.v1.Auth/CreateStudent"
	methodListStudents   = "/coined.v1.Students/ListStudents"
	methodTransactions   = "/coined.v1.Students/ListTransactions"
	methodAddCoins       = "/coined.v1.Students/AddCoins"
	methodRemoveCoins    = "/coined.v1.Students/RemoveCoins"
	methodDeleteStudent  = "/coined.v1.Students/DeleteStudent"
	methodListShopItems  = "/coined.v1.Shop/ListItems"
	methodAddShopItem    = "/coined.v1.Shop/AddItem"
	methodDeleteShopItem = "/coined.v1.Shop/DeleteItem"
	methodBuyItem        = "/coined.v1.Shop/BuyItem"
	methodListQuizzes    = "/coined.v1.Quizzes/ListQuizzes"
	methodCreateQuiz     = "/coined.v1.Quizzes/CreateQuiz"
	methodUpdateQuiz     = "/coined.v1.Quizzes/UpdateQuiz"
	methodDeleteQuiz     = "/coined.v1.Quizzes/DeleteQuiz"
	methodSubmitAttempt  = "/coined.v1.Quizzes/SubmitAttempt"
	methodMyAttempts     = "/coined.v1.Quizzes/MyAttempts"
)

// Client implements model.Gateway over a gRPC connection.
type Client struct {
	conn   grpc.ClientConnInterface
	logger *logger.Logger
}

var _ model.Gateway = (*Client)(nil)

// NewClient creates a new Client.
func NewClient(conn grpc.ClientConnInterface, logger *logger.Logger) *Client {
	return &Client{conn: conn, logger: logger}
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	err := mapError(method, c.conn.Invoke(ctx, method, req, resp, grpc.ForceCodec(Codec{})))
	if err != nil {
		c.logger.Debug("Gateway client: call failed",
			"method", method,
			"error", err.Error())
	}
	return err
}

func (c *Client) Me(ctx context.Context) (model.User, error) {
	var resp userWire
	if err := c.invoke(ctx, methodMe, empty{}, &resp); err != nil {
		return model.User{}, err
	}
	return resp.toModel(), nil
}

func (c *Client) Login(ctx context.Context, identifier, password string) (model.LoginResult, error) {
	var resp loginResponse
	if err := c.invoke(ctx, methodLogin, loginRequest{Email: identifier, Password: password}, &resp); err != nil {
		return model.LoginResult{}, err
	}
	return model.LoginResult{Token: resp.Token, User: resp.User.toModel()}, nil
}

func (c *Client) CreateStudent(ctx context.Context, student model.NewStudent) (model.User, error) {
	req := createStudentRequest{
		Name:        student.Name,
		Email:       student.Email,
		Password:    student.Password,
		Class:       student.Class,
		AvatarColor: student.AvatarColor,
	}

	var resp userWire
	if err := c.invoke(ctx, methodCreateStudent, req, &resp); err != nil {
		return model.User{}, err
	}
	return resp.toModel(), nil
}

func (c *Client) ListStudents(ctx context.Context) ([]model.User, error) {
	var resp []userWire
	if err := c.invoke(ctx, methodListStudents, empty{}, &resp); err != nil {
		return nil, err
	}
	return mapSlice(resp, userWire.toModel), nil
}

func (c *Client) ListTransactions(ctx context.Context, studentID string) ([]model.Transaction, error) {
	var resp []transactionWire
	if err := c.invoke(ctx, methodTransactions, studentRequest{StudentID: studentID}, &resp); err != nil {
		return nil, err
	}
	return mapSlice(resp, transactionWire.toModel), nil
}

func (c *Client) AddCoins(ctx context.Context, studentID string, amount int64, label, category string) (model.BalanceUpdate, error) {
	return c.adjust(ctx, methodAddCoins, coinsRequest{StudentID: studentID, Amount: amount, Label: label, Category: category})
}

func (c *Client) RemoveCoins(ctx context.Context, studentID string, amount int64, label, category string) (model.BalanceUpdate, error) {
	return c.adjust(ctx, methodRemoveCoins, coinsRequest{StudentID: studentID, Amount: amount, Label: label, Category: category})
}

func (c *Client) adjust(ctx context.Context, method string, req coinsRequest) (model.BalanceUpdate, error) {
	var resp balanceResponse
	if err := c.invoke(ctx, method, req, &resp); err != nil {
		return model.BalanceUpdate{}, err
	}

	upd := resp.toModel()
	if upd.StudentID == "" {
		upd.StudentID = req.StudentID
	}
	return upd, nil
}

func (c *Client) DeleteStudent(ctx context.Context, studentID string) error {
	return c.invoke(ctx, methodDeleteStudent, studentRequest{StudentID: studentID}, &empty{})
}

func (c *Client) ListShopItems(ctx context.Context) ([]model.ShopItem, error) {
	var resp []shopItemWire
	if err := c.invoke(ctx, methodListShopItems, empty{}, &resp); err != nil {
		return nil, err
	}
	return mapSlice(resp, shopItemWire.toModel), nil
}

func (c *Client) AddShopItem(ctx context.Context, item model.ShopItem) (model.ShopItem, error) {
	var resp shopItemWire
	if err := c.invoke(ctx, methodAddShopItem, shopItemFromModel(item), &resp); err != nil {
		return model.ShopItem{}, err
	}
	return resp.toModel(), nil
}

func (c *Client) DeleteShopItem(ctx context.Context, itemID string) error {
	return c.invoke(ctx, methodDeleteShopItem, itemRequest{ItemID: itemID}, &empty{})
}

func (c *Client) BuyItem(ctx context.Context, itemID string) (model.BalanceUpdate, error) {
	var resp balanceResponse
	if err := c.invoke(ctx, methodBuyItem, itemRequest{ItemID: itemID}, &resp); err != nil {
		return model.BalanceUpdate{}, err
	}
	return resp.toModel(), nil
}

func (c *Client) ListQuizzes(ctx context.Context) ([]model.Quiz, error) {
	var resp []quizWire
	if err := c.invoke(ctx, methodListQuizzes, empty{}, &resp); err != nil {
		return nil, err
	}
	return mapSlice(resp, quizWire.toModel), nil
}

func (c *Client) CreateQuiz(ctx context.Context, quiz model.Quiz) (model.Quiz, error) {
	var resp quizWire
	if err := c.invoke(ctx, methodCreateQuiz, quizFromModel(quiz), &resp); err != nil {
		return model.Quiz{}, err
	}
	return resp.toModel(), nil
}

func (c *Client) UpdateQuiz(ctx context.Context, quiz model.Quiz) (model.Quiz, error) {
	var resp quizWire
	if err := c.invoke(ctx, methodUpdateQuiz, quizFromModel(quiz), &resp); err != nil {
		return model.Quiz{}, err
	}
	return resp.toModel(), nil
}

func (c *Client) DeleteQuiz(ctx context.Context, quizID string) error {
	return c.invoke(ctx, methodDeleteQuiz, quizRequest{QuizID: quizID}, &empty{})
}

func (c *Client) SubmitAttempt(ctx context.Context, intent model.SubmitIntent) (model.AttemptResult, error) {
	req := submitRequest{
		QuizID:    intent.QuizID,
		Answers:   intent.Answers,
		TimeTaken: intent.TimeTaken.Seconds(),
	}

	var resp submitResponse
	if err := c.invoke(ctx, methodSubmitAttempt, req, &resp); err != nil {
		return model.AttemptResult{}, err
	}
	return model.AttemptResult{Attempt: resp.Attempt.toModel(), CoinsEarned: resp.CoinsEarned}, nil
}

func (c *Client) MyAttempts(ctx context.Context) ([]model.QuizAttempt, error) {
	var resp []attemptWire
	if err := c.invoke(ctx, methodMyAttempts, empty{}, &resp); err != nil {
		return nil, err
	}
	return mapSlice(resp, attemptWire.toModel), nil
}
