package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/dtroode/coined/internal/cache"
	"github.com/dtroode/coined/internal/logger"
	"github.com/dtroode/coined/internal/model"
)

// Loader fetches collections from the gateway and installs them in the
// cache. Concurrent loads of the same collection share one request.
// Results that arrive after the signed in user changed are dropped.
type Loader struct {
	gateway model.Gateway
	store   *cache.Store
	group   singleflight.Group
	logger  *logger.Logger
}

func NewLoader(gateway model.Gateway, store *cache.Store, logger *logger.Logger) *Loader {
	return &Loader{
		gateway: gateway,
		store:   store,
		logger:  logger,
	}
}

// RefreshRoster replaces the cached roster with the server's list.
func (l *Loader) RefreshRoster(ctx context.Context) ([]model.User, error) {
	students, err := load(ctx, l, "roster", l.gateway.ListStudents,
		func(tx *cache.Tx, v []model.User, since uint64) { tx.ReplaceRosterSince(v, since) })
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	l.logger.Debug("Loader: roster refreshed", "students", len(students))

	return students, nil
}

// LoadTransactions replaces the cached ledger of a student, discarding
// any provisional entries.
func (l *Loader) LoadTransactions(ctx context.Context, studentID string) ([]model.Transaction, error) {
	fetch := func(ctx context.Context) ([]model.Transaction, error) {
		return l.gateway.ListTransactions(ctx, studentID)
	}
	txs, err := load(ctx, l, "ledger:"+studentID, fetch,
		func(tx *cache.Tx, v []model.Transaction, _ uint64) { tx.ReplaceLedger(studentID, v) })
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	for _, t := range txs {
		if !t.Consistent() {
			l.logger.Warn("Loader: inconsistent transaction from server",
				"student_id", studentID,
				"transaction_id", t.ID,
				"type", t.Type,
				"amount", t.Amount)
		}
	}

	return txs, nil
}

// LoadShop replaces the cached catalog.
func (l *Loader) LoadShop(ctx context.Context) ([]model.ShopItem, error) {
	items, err := load(ctx, l, "shop", l.gateway.ListShopItems,
		func(tx *cache.Tx, v []model.ShopItem, _ uint64) { tx.ReplaceShop(v) })
	if err != nil {
		return nil, fmt.Errorf("failed to list shop items: %w", err)
	}
	return items, nil
}

// LoadQuizzes replaces the cached quiz list.
func (l *Loader) LoadQuizzes(ctx context.Context) ([]model.Quiz, error) {
	quizzes, err := load(ctx, l, "quizzes", l.gateway.ListQuizzes,
		func(tx *cache.Tx, v []model.Quiz, _ uint64) { tx.ReplaceQuizzes(v) })
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return quizzes, nil
}

// LoadAttempts replaces the cached attempt history of the signed in student.
func (l *Loader) LoadAttempts(ctx context.Context) ([]model.QuizAttempt, error) {
	attempts, err := load(ctx, l, "attempts", l.gateway.MyAttempts,
		func(tx *cache.Tx, v []model.QuizAttempt, _ uint64) { tx.ReplaceAttempts(v) })
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}

// load runs fetch once per key and session, installing the result before
// any waiter returns. install receives the cache version observed before
// the fetch started.
func load[T any](
	ctx context.Context,
	l *Loader,
	key string,
	fetch func(context.Context) (T, error),
	install func(tx *cache.Tx, v T, since uint64),
) (T, error) {
	uid := l.store.Snapshot().CurrentUserID()

	l.logger.Debug("Loader: loading collection",
		"collection", key,
		"user_id", uid)

	v, err, _ := l.group.Do(key+"@"+uid, func() (any, error) {
		since := l.store.Snapshot().Version()

		res, err := fetch(ctx)
		if err != nil {
			return res, err
		}

		l.store.Update(func(tx *cache.Tx) bool {
			if tx.Snapshot().CurrentUserID() != uid {
				l.logger.Debug("Loader: dropping result of a previous session",
					"collection", key,
					"user_id", uid)
				return false
			}
			install(tx, res, since)
			return true
		})
		return res, nil
	})
	if err != nil {
		l.logger.Error("Loader: failed to load collection",
			"collection", key,
			"user_id", uid,
			"error", err.Error())
		var zero T
		return zero, err
	}

	return v.(T), nil
}
