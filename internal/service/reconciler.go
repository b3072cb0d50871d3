package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/coined/internal/cache"
	"github.com/dtroode/coined/internal/logger"
	"github.com/dtroode/coined/internal/metrics"
	"github.com/dtroode/coined/internal/model"
)

// Mutation kinds, used in logs and metrics.
const (
	KindAward          = "award"
	KindDeduct         = "deduct"
	KindPurchase       = "purchase"
	KindSubmitQuiz     = "submit_quiz"
	KindCreateStudent  = "create_student"
	KindDeleteStudent  = "delete_student"
	KindAddShopItem    = "add_shop_item"
	KindRemoveShopItem = "remove_shop_item"
	KindCreateQuiz     = "create_quiz"
	KindUpdateQuiz     = "update_quiz"
	KindDeleteQuiz     = "delete_quiz"
	KindRefreshRoster  = "refresh_roster"
	KindLoadLedger     = "load_ledger"
)

// Reconciler sends mutation intents to the gateway and merges the
// confirmed results into the cache. Nothing is written to the cache
// before the gateway confirms. Mutations touching the same student are
// serialized; a call, once issued, is merged even if ctx is cancelled.
type Reconciler struct {
	gateway  model.Gateway
	store    *cache.Store
	session  *Session
	loader   *Loader
	notifier model.Notifier
	logger   *logger.Logger
	locks    *keyedMutex
	now      func() time.Time
	newID    func() string
}

func NewReconciler(
	gateway model.Gateway,
	store *cache.Store,
	session *Session,
	loader *Loader,
	notifier model.Notifier,
	logger *logger.Logger,
) *Reconciler {
	return &Reconciler{
		gateway:  gateway,
		store:    store,
		session:  session,
		loader:   loader,
		notifier: notifier,
		logger:   logger,
		locks:    newKeyedMutex(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// AwardCoins credits a student. An empty label becomes the default bonus label.
func (r *Reconciler) AwardCoins(ctx context.Context, studentID string, amount int64, label string) error {
	if strings.TrimSpace(label) == "" {
		label = model.DefaultAwardLabel
	}
	return r.adjust(ctx, KindAward, model.CoinIntent{
		StudentID: studentID,
		Amount:    amount,
		Label:     label,
		Category:  model.CategoryBehavior,
	})
}

// DeductCoins debits a student. An empty label becomes the default deduction label.
func (r *Reconciler) DeductCoins(ctx context.Context, studentID string, amount int64, label string) error {
	if strings.TrimSpace(label) == "" {
		label = model.DefaultDeductLabel
	}
	return r.adjust(ctx, KindDeduct, model.CoinIntent{
		StudentID: studentID,
		Amount:    amount,
		Label:     label,
		Category:  model.CategoryBehavior,
	})
}

// ApplyQuickAction awards or deducts one of the preset amounts.
func (r *Reconciler) ApplyQuickAction(ctx context.Context, studentID, action string) error {
	qa, ok := model.FindQuickAction(action)
	if !ok {
		return r.reject(KindAward, model.NewError(model.ErrValidation, fmt.Sprintf("Unknown quick action %q", action)))
	}
	if qa.Earn {
		return r.AwardCoins(ctx, studentID, qa.Amount, qa.Label)
	}
	return r.DeductCoins(ctx, studentID, qa.Amount, qa.Label)
}

func (r *Reconciler) adjust(ctx context.Context, kind string, intent model.CoinIntent) error {
	r.logger.Debug("Reconciler: adjusting balance",
		"kind", kind,
		"student_id", intent.StudentID,
		"amount", intent.Amount)

	teacher, err := r.actor(model.RoleTeacher)
	if err != nil {
		return r.reject(kind, err)
	}
	if err := model.Validate(intent); err != nil {
		return r.reject(kind, err)
	}

	unlock := r.locks.Lock(intent.StudentID)
	defer unlock()

	callCtx := context.WithoutCancel(ctx)

	call, entryType, sign := r.gateway.AddCoins, model.TransactionEarn, int64(1)
	if kind == KindDeduct {
		call, entryType, sign = r.gateway.RemoveCoins, model.TransactionSpend, -1
	}

	upd, err := call(callCtx, intent.StudentID, intent.Amount, intent.Label, intent.Category)
	if err != nil {
		return r.fail(callCtx, kind, err)
	}

	entry := model.Transaction{
		ID:          r.newID(),
		Label:       intent.Label,
		Type:        entryType,
		Amount:      sign * intent.Amount,
		Timestamp:   r.now(),
		Category:    intent.Category,
		Provisional: true,
	}

	name := intent.StudentID
	applied := r.merge(teacher.ID, func(tx *cache.Tx) {
		if upd.Coins == nil {
			r.logger.Warn("Reconciler: response without balance, keeping cached value",
				"kind", kind,
				"student_id", intent.StudentID)
		} else if !tx.SetBalance(intent.StudentID, *upd.Coins) {
			r.logger.Debug("Reconciler: student not cached, balance not stored",
				"student_id", intent.StudentID)
		}
		tx.PrependTransaction(intent.StudentID, entry)
		if u, ok := tx.Snapshot().User(intent.StudentID); ok {
			name = u.Name
		}
	})
	if !applied {
		return nil
	}

	if sign > 0 {
		r.succeed(kind, fmt.Sprintf("+%d coins to %s", intent.Amount, name))
	} else {
		r.succeed(kind, fmt.Sprintf("-%d coins from %s", intent.Amount, name))
	}
	return nil
}

// Purchase buys a shop item for the signed in student. A purchase the
// cached balance cannot cover is refused without contacting the gateway.
func (r *Reconciler) Purchase(ctx context.Context, itemID string) error {
	r.logger.Debug("Reconciler: purchasing item", "item_id", itemID)

	student, err := r.actor(model.RoleStudent)
	if err != nil {
		return r.reject(KindPurchase, err)
	}
	if err := model.Validate(model.PurchaseIntent{ItemID: itemID}); err != nil {
		return r.reject(KindPurchase, err)
	}

	unlock := r.locks.Lock(student.ID)
	defer unlock()

	snap := r.store.Snapshot()
	item, ok := snap.ShopItem(itemID)
	if !ok {
		return r.reject(KindPurchase, model.NewError(model.ErrNotFound, "This item is no longer in the shop"))
	}
	me, ok := snap.CurrentUser()
	if !ok {
		return r.reject(KindPurchase, model.ErrNoSession)
	}
	if me.Coins < item.Cost {
		return r.reject(KindPurchase, model.NewError(model.ErrInsufficientFunds,
			fmt.Sprintf("Not enough coins for %s: you need %d more", item.Name, item.Cost-me.Coins)))
	}

	callCtx := context.WithoutCancel(ctx)

	upd, err := r.gateway.BuyItem(callCtx, itemID)
	if err != nil {
		return r.fail(callCtx, KindPurchase, err)
	}

	entry := model.Transaction{
		ID:          r.newID(),
		Label:       item.Name,
		Type:        model.TransactionSpend,
		Amount:      -item.Cost,
		Timestamp:   r.now(),
		Category:    model.CategoryShop,
		Provisional: true,
	}

	applied := r.merge(student.ID, func(tx *cache.Tx) {
		cur, _ := tx.Snapshot().CurrentUser()
		coins := cur.Coins - item.Cost
		if upd.Coins != nil {
			coins = *upd.Coins
		} else {
			r.logger.Warn("Reconciler: purchase response without balance, deriving it",
				"item_id", itemID,
				"cost", item.Cost,
				"coins", coins)
		}
		tx.SetBalance(student.ID, coins)
		tx.PrependTransaction(student.ID, entry)
	})
	if !applied {
		return nil
	}

	r.succeed(KindPurchase, fmt.Sprintf("Purchased %s!", item.Name))
	return nil
}

// SubmitQuiz submits an attempt of the signed in student and credits
// any coins it earned.
func (r *Reconciler) SubmitQuiz(ctx context.Context, intent model.SubmitIntent) (model.AttemptResult, error) {
	r.logger.Debug("Reconciler: submitting quiz",
		"quiz_id", intent.QuizID,
		"answers", len(intent.Answers))

	student, err := r.actor(model.RoleStudent)
	if err != nil {
		return model.AttemptResult{}, r.reject(KindSubmitQuiz, err)
	}
	if err := model.Validate(intent); err != nil {
		return model.AttemptResult{}, r.reject(KindSubmitQuiz, err)
	}
	if quiz, ok := r.store.Snapshot().Quiz(intent.QuizID); ok && len(quiz.Questions) != len(intent.Answers) {
		return model.AttemptResult{}, r.reject(KindSubmitQuiz, model.NewError(model.ErrValidation,
			fmt.Sprintf("Answer all %d questions", len(quiz.Questions))))
	}

	unlock := r.locks.Lock(student.ID)
	defer unlock()

	callCtx := context.WithoutCancel(ctx)

	res, err := r.gateway.SubmitAttempt(callCtx, intent)
	if err != nil {
		return model.AttemptResult{}, r.fail(callCtx, KindSubmitQuiz, err)
	}

	applied := r.merge(student.ID, func(tx *cache.Tx) {
		tx.AppendAttempt(res.Attempt)
		if res.CoinsEarned > 0 {
			cur, _ := tx.Snapshot().CurrentUser()
			tx.SetBalance(student.ID, cur.Coins+res.CoinsEarned)
		}
	})
	if !applied {
		return res, nil
	}

	if res.CoinsEarned > 0 {
		r.succeed(KindSubmitQuiz, fmt.Sprintf("Quiz submitted! +%d coins", res.CoinsEarned))
	} else {
		r.succeed(KindSubmitQuiz, "Quiz submitted!")
	}
	return res, nil
}

// CreateStudent enrolls a student and adds it to the cached roster.
func (r *Reconciler) CreateStudent(ctx context.Context, student model.NewStudent) (model.User, error) {
	r.logger.Debug("Reconciler: creating student", "name", student.Name)

	teacher, err := r.actor(model.RoleTeacher)
	if err != nil {
		return model.User{}, r.reject(KindCreateStudent, err)
	}
	if err := model.Validate(student); err != nil {
		return model.User{}, r.reject(KindCreateStudent, err)
	}

	callCtx := context.WithoutCancel(ctx)

	created, err := r.gateway.CreateStudent(callCtx, student)
	if err != nil {
		return model.User{}, r.fail(callCtx, KindCreateStudent, err)
	}
	if created.Role == "" {
		created.Role = model.RoleStudent
	}

	if r.merge(teacher.ID, func(tx *cache.Tx) { tx.AddStudent(created) }) {
		r.succeed(KindCreateStudent, fmt.Sprintf("%s added to the class", created.Name))
	}
	return created, nil
}

// DeleteStudent removes a student together with its cached ledger.
func (r *Reconciler) DeleteStudent(ctx context.Context, studentID string) error {
	r.logger.Debug("Reconciler: deleting student", "student_id", studentID)

	teacher, err := r.actor(model.RoleTeacher)
	if err != nil {
		return r.reject(KindDeleteStudent, err)
	}
	if studentID == "" {
		return r.reject(KindDeleteStudent, model.NewError(model.ErrValidation, "Choose a student"))
	}

	unlock := r.locks.Lock(studentID)
	defer unlock()

	callCtx := context.WithoutCancel(ctx)

	if err := r.gateway.DeleteStudent(callCtx, studentID); err != nil {
		return r.fail(callCtx, KindDeleteStudent, err)
	}

	name := studentID
	if u, ok := r.store.Snapshot().User(studentID); ok {
		name = u.Name
	}
	if r.merge(teacher.ID, func(tx *cache.Tx) { tx.RemoveStudent(studentID) }) {
		r.succeed(KindDeleteStudent, fmt.Sprintf("%s removed", name))
	}
	return nil
}

// AddShopItem adds an item to the catalog.
func (r *Reconciler) AddShopItem(ctx context.Context, item model.ShopItem) (model.ShopItem, error) {
	r.logger.Debug("Reconciler: adding shop item",
		"name", item.Name,
		"cost", item.Cost)

	teacher, err := r.actor(model.RoleTeacher)
	if err != nil {
		return model.ShopItem{}, r.reject(KindAddShopItem, err)
	}
	if err := model.Validate(item); err != nil {
		return model.ShopItem{}, r.reject(KindAddShopItem, err)
	}

	callCtx := context.WithoutCancel(ctx)

	created, err := r.gateway.AddShopItem(callCtx, item)
	if err != nil {
		return model.ShopItem{}, r.fail(callCtx, KindAddShopItem, err)
	}

	if r.merge(teacher.ID, func(tx *cache.Tx) { tx.AddShopItem(created) }) {
		r.succeed(KindAddShopItem, fmt.Sprintf("%s added to the shop", created.Name))
	}
	return created, nil
}

// RemoveShopItem deletes an item from the catalog.
func (r *Reconciler) RemoveShopItem(ctx context.Context, itemID string) error {
	r.logger.Debug("Reconciler: removing shop item", "item_id", itemID)

	teacher, err := r.actor(model.RoleTeacher)
	if err != nil {
		return r.reject(KindRemoveShopItem, err)
	}
	if itemID == "" {
		return r.reject(KindRemoveShopItem, model.NewError(model.ErrValidation, "Choose an item"))
	}

	callCtx := context.WithoutCancel(ctx)

	if err := r.gateway.DeleteShopItem(callCtx, itemID); err != nil {
		return r.fail(callCtx, KindRemoveShopItem, err)
	}

	if r.merge(teacher.ID, func(tx *cache.Tx) { tx.RemoveShopItem(itemID) }) {
		r.succeed(KindRemoveShopItem, "Item removed from the shop")
	}
	return nil
}

// CreateQuiz publishes a new quiz.
func (r *Reconciler) CreateQuiz(ctx context.Context, quiz model.Quiz) (model.Quiz, error) {
	return r.saveQuiz(ctx, KindCreateQuiz, quiz, r.gateway.CreateQuiz)
}

// UpdateQuiz replaces an existing quiz.
func (r *Reconciler) UpdateQuiz(ctx context.Context, quiz model.Quiz) (model.Quiz, error) {
	if quiz.ID == "" {
		return model.Quiz{}, r.reject(KindUpdateQuiz, model.NewError(model.ErrValidation, "Choose a quiz to update"))
	}
	return r.saveQuiz(ctx, KindUpdateQuiz, quiz, r.gateway.UpdateQuiz)
}

func (r *Reconciler) saveQuiz(
	ctx context.Context,
	kind string,
	quiz model.Quiz,
	call func(context.Context, model.Quiz) (model.Quiz, error),
) (model.Quiz, error) {
	r.logger.Debug("Reconciler: saving quiz",
		"kind", kind,
		"quiz_id", quiz.ID,
		"title", quiz.Title)

	teacher, err := r.actor(model.RoleTeacher)
	if err != nil {
		return model.Quiz{}, r.reject(kind, err)
	}
	if err := model.Validate(quiz); err != nil {
		return model.Quiz{}, r.reject(kind, err)
	}
	for i, q := range quiz.Questions {
		if q.Answer >= len(q.Options) {
			return model.Quiz{}, r.reject(kind, model.NewError(model.ErrValidation,
				fmt.Sprintf("Question %d has no option %d", i+1, q.Answer+1)))
		}
	}

	callCtx := context.WithoutCancel(ctx)

	saved, err := call(callCtx, quiz)
	if err != nil {
		return model.Quiz{}, r.fail(callCtx, kind, err)
	}

	if r.merge(teacher.ID, func(tx *cache.Tx) { tx.PutQuiz(saved) }) {
		r.succeed(kind, fmt.Sprintf("Quiz %q saved", saved.Title))
	}
	return saved, nil
}

// DeleteQuiz removes a quiz.
func (r *Reconciler) DeleteQuiz(ctx context.Context, quizID string) error {
	r.logger.Debug("Reconciler: deleting quiz", "quiz_id", quizID)

	teacher, err := r.actor(model.RoleTeacher)
	if err != nil {
		return r.reject(KindDeleteQuiz, err)
	}
	if quizID == "" {
		return r.reject(KindDeleteQuiz, model.NewError(model.ErrValidation, "Choose a quiz"))
	}

	callCtx := context.WithoutCancel(ctx)

	if err := r.gateway.DeleteQuiz(callCtx, quizID); err != nil {
		return r.fail(callCtx, KindDeleteQuiz, err)
	}

	if r.merge(teacher.ID, func(tx *cache.Tx) { tx.RemoveQuiz(quizID) }) {
		r.succeed(KindDeleteQuiz, "Quiz deleted")
	}
	return nil
}

// RefreshRoster reloads the roster from the gateway.
func (r *Reconciler) RefreshRoster(ctx context.Context) ([]model.User, error) {
	if _, err := r.signedIn(); err != nil {
		return nil, r.reject(KindRefreshRoster, err)
	}

	students, err := r.loader.RefreshRoster(ctx)
	if err != nil {
		return nil, r.fail(ctx, KindRefreshRoster, err)
	}
	metrics.ObserveMutation(KindRefreshRoster, metrics.OutcomeOK)
	return students, nil
}

// LoadTransactions reloads a student's ledger, replacing provisional
// entries. Students may only load their own ledger.
func (r *Reconciler) LoadTransactions(ctx context.Context, studentID string) ([]model.Transaction, error) {
	u, err := r.signedIn()
	if err != nil {
		return nil, r.reject(KindLoadLedger, err)
	}
	if u.IsStudent() && studentID != u.ID {
		return nil, r.reject(KindLoadLedger, model.NewError(model.ErrForbidden, "You can only see your own wallet"))
	}

	txs, err := r.loader.LoadTransactions(ctx, studentID)
	if err != nil {
		return nil, r.fail(ctx, KindLoadLedger, err)
	}
	metrics.ObserveMutation(KindLoadLedger, metrics.OutcomeOK)
	return txs, nil
}

func (r *Reconciler) signedIn() (model.User, error) {
	u, ok := r.store.Snapshot().CurrentUser()
	if !ok {
		return model.User{}, model.NewError(model.ErrNoSession, "Please log in first")
	}
	return u, nil
}

// actor returns the signed in user if it has the given role.
func (r *Reconciler) actor(role model.Role) (model.User, error) {
	u, err := r.signedIn()
	if err != nil {
		return model.User{}, err
	}
	if u.Role != role {
		return model.User{}, model.NewError(model.ErrForbidden, fmt.Sprintf("Only a %s can do this", role))
	}
	return u, nil
}

// merge applies fn unless the session that issued the call has ended.
func (r *Reconciler) merge(uid string, fn func(tx *cache.Tx)) bool {
	applied := false
	r.store.Update(func(tx *cache.Tx) bool {
		if tx.Snapshot().CurrentUserID() != uid {
			return false
		}
		fn(tx)
		applied = true
		return true
	})
	if !applied {
		r.logger.Info("Reconciler: session changed, dropping result", "user_id", uid)
	}
	return applied
}

func (r *Reconciler) reject(kind string, err error) error {
	r.logger.Info("Reconciler: mutation rejected locally",
		"kind", kind,
		"error", err.Error())

	metrics.ObserveMutation(kind, metrics.OutcomeRejectedLocal)

	noticeKind := model.NoticeWarning
	if !errors.Is(err, model.ErrValidation) {
		noticeKind = model.NoticeError
	}
	r.notifier.Publish(model.UserMessage(err), noticeKind)

	return err
}

func (r *Reconciler) fail(ctx context.Context, kind string, err error) error {
	r.logger.Error("Reconciler: mutation failed",
		"kind", kind,
		"retryable", model.Retryable(err),
		"error", err.Error())

	metrics.ObserveMutation(kind, metrics.OutcomeFailed)
	r.notifier.Publish(model.UserMessage(err), model.NoticeError)

	if errors.Is(err, model.ErrUnauthorized) {
		r.session.Expire(context.WithoutCancel(ctx))
	}

	return fmt.Errorf("failed to %s: %w", strings.ReplaceAll(kind, "_", " "), err)
}

func (r *Reconciler) succeed(kind, message string) {
	r.logger.Info("Reconciler: mutation applied", "kind", kind)
	metrics.ObserveMutation(kind, metrics.OutcomeOK)
	r.notifier.Publish(message, model.NoticeInfo)
}
