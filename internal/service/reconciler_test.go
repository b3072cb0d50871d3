package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/coined/internal/model"
)

func TestReconciler_AwardCoins(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(teacher, alex, bea)

	f.gateway.On("AddCoins", mock.Anything, "1", int64(50), "Homework", model.CategoryBehavior).
		Return(model.BalanceUpdate{StudentID: "1", Coins: coins(150)}, nil).Once()
	f.notifier.On("Publish", "+50 coins to Alex", model.NoticeInfo).Once()

	err := f.rec.AwardCoins(context.Background(), "1", 50, "Homework")
	require.NoError(t, err)

	snap := f.store.Snapshot()
	u, ok := snap.User("1")
	require.True(t, ok)
	assert.Equal(t, int64(150), u.Coins)

	ledger, ok := snap.Ledger("1")
	require.True(t, ok)
	require.Len(t, ledger, 1)
	assert.Equal(t, model.Transaction{
		ID:          "tx-local",
		Label:       "Homework",
		Type:        model.TransactionEarn,
		Amount:      50,
		Timestamp:   fixedNow,
		Category:    model.CategoryBehavior,
		Provisional: true,
	}, ledger[0])

	other, _ := snap.User("2")
	assert.Equal(t, int64(80), other.Coins)
}

func TestReconciler_AwardCoins_DefaultLabel(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(teacher, alex)

	f.gateway.On("AddCoins", mock.Anything, "1", int64(10), model.DefaultAwardLabel, model.CategoryBehavior).
		Return(model.BalanceUpdate{StudentID: "1", Coins: coins(110)}, nil).Once()
	f.notifier.On("Publish", mock.Anything, model.NoticeInfo).Once()

	require.NoError(t, f.rec.AwardCoins(context.Background(), "1", 10, "  "))

	ledger, _ := f.store.Snapshot().Ledger("1")
	require.Len(t, ledger, 1)
	assert.Equal(t, model.DefaultAwardLabel, ledger[0].Label)
}

func TestReconciler_DeductCoins(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(teacher, alex)
	f.store.Update(func(tx *cacheTx) bool {
		tx.ReplaceLedger("1", []model.Transaction{{ID: "old", Label: "Homework", Type: model.TransactionEarn, Amount: 100}})
		return true
	})

	f.gateway.On("RemoveCoins", mock.Anything, "1", int64(30), model.DefaultDeductLabel, model.CategoryBehavior).
		Return(model.BalanceUpdate{StudentID: "1", Coins: coins(70)}, nil).Once()
	f.notifier.On("Publish", "-30 coins from Alex", model.NoticeInfo).Once()

	require.NoError(t, f.rec.DeductCoins(context.Background(), "1", 30, ""))

	snap := f.store.Snapshot()
	u, _ := snap.User("1")
	assert.Equal(t, int64(70), u.Coins)

	ledger, _ := snap.Ledger("1")
	require.Len(t, ledger, 2)
	assert.Equal(t, model.TransactionSpend, ledger[0].Type)
	assert.Equal(t, int64(-30), ledger[0].Amount)
	assert.True(t, ledger[0].Consistent())
	assert.Equal(t, "old", ledger[1].ID)
}

func TestReconciler_ApplyQuickAction(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(teacher, alex)

	f.gateway.On("RemoveCoins", mock.Anything, "1", int64(50), "Rule violation", model.CategoryBehavior).
		Return(model.BalanceUpdate{StudentID: "1", Coins: coins(50)}, nil).Once()
	f.notifier.On("Publish", "-50 coins from Alex", model.NoticeInfo).Once()
	f.notifier.On("Publish", `Unknown quick action "detention"`, model.NoticeWarning).Once()

	require.NoError(t, f.rec.ApplyQuickAction(context.Background(), "1", "rule-break"))

	err := f.rec.ApplyQuickAction(context.Background(), "1", "detention")
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestReconciler_AdjustRejectedLocally(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		user     model.User
		amount   int64
		student  string
		wantErr  error
		wantKind model.NoticeKind
	}{
		{name: "zero amount", user: teacher, amount: 0, student: "1", wantErr: model.ErrValidation, wantKind: model.NoticeWarning},
		{name: "negative amount", user: teacher, amount: -5, student: "1", wantErr: model.ErrValidation, wantKind: model.NoticeWarning},
		{name: "no student", user: teacher, amount: 5, student: "", wantErr: model.ErrValidation, wantKind: model.NoticeWarning},
		{name: "student cannot award", user: alex, amount: 5, student: "1", wantErr: model.ErrForbidden, wantKind: model.NoticeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			f.signIn(tt.user, alex)
			f.notifier.On("Publish", mock.Anything, tt.wantKind).Once()

			before := f.store.Snapshot().Version()
			err := f.rec.AwardCoins(context.Background(), tt.student, tt.amount, "Homework")

			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, f.store.Snapshot().Version())
			f.gateway.AssertNotCalled(t, "AddCoins", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestReconciler_NoSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.notifier.On("Publish", "Please log in first", model.NoticeError).Once()

	err := f.rec.AwardCoins(context.Background(), "1", 5, "")
	require.ErrorIs(t, err, model.ErrNoSession)
}

func TestReconciler_FailedMutationLeavesCacheUntouched(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(teacher, alex)

	f.gateway.On("AddCoins", mock.Anything, "1", int64(50), "Homework", model.CategoryBehavior).
		Return(model.BalanceUpdate{}, model.NewError(model.ErrNetwork, "")).Once()
	f.notifier.On("Publish", "Connection problem, please try again", model.NoticeError).Once()

	before := f.store.Snapshot()
	err := f.rec.AwardCoins(context.Background(), "1", 50, "Homework")
	require.ErrorIs(t, err, model.ErrNetwork)
	assert.True(t, model.Retryable(err))

	after := f.store.Snapshot()
	assert.Same(t, before, after)
	u, _ := after.User("1")
	assert.Equal(t, int64(100), u.Coins)
	_, ok := after.Ledger("1")
	assert.False(t, ok)
}

func TestReconciler_UnauthorizedEndsSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(teacher, alex)

	f.gateway.On("AddCoins", mock.Anything, "1", int64(50), "Homework", model.CategoryBehavior).
		Return(model.BalanceUpdate{}, model.ErrUnauthorized).Once()
	f.notifier.On("Publish", "Session expired, please log in again", model.NoticeError).Once()
	f.creds.On("Delete", mock.Anything).Return(nil).Once()

	err := f.rec.AwardCoins(context.Background(), "1", 50, "Homework")
	require.ErrorIs(t, err, model.ErrUnauthorized)

	assert.False(t, f.session.Current().Authenticated())
	assert.Empty(t, f.session.Token())
	assert.True(t, f.store.Snapshot().Empty())
}

func TestReconciler_CancelledContextStillMerges(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(teacher, alex)

	ctx, cancel := context.WithCancel(context.Background())

	f.gateway.On("AddCoins", mock.Anything, "1", int64(5), "Homework", model.CategoryBehavior).
		Run(func(args mock.Arguments) {
			cancel()
			callCtx := args.Get(0).(context.Context)
			assert.NoError(t, callCtx.Err())
		}).
		Return(model.BalanceUpdate{StudentID: "1", Coins: coins(105)}, nil).Once()
	f.notifier.On("Publish", mock.Anything, model.NoticeInfo).Once()

	require.NoError(t, f.rec.AwardCoins(ctx, "1", 5, "Homework"))

	u, _ := f.store.Snapshot().User("1")
	assert.Equal(t, int64(105), u.Coins)
}

func TestReconciler_ResultOfEndedSessionDropped(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(teacher, alex)

	f.gateway.On("AddCoins", mock.Anything, "1", int64(5), "Homework", model.CategoryBehavior).
		Run(func(mock.Arguments) { f.store.Reset() }).
		Return(model.BalanceUpdate{StudentID: "1", Coins: coins(105)}, nil).Once()

	require.NoError(t, f.rec.AwardCoins(context.Background(), "1", 5, "Homework"))

	assert.True(t, f.store.Snapshot().Empty())
}

func TestReconciler_ConcurrentAwardsSameStudent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(teacher, alex)

	var inFlight atomic.Int32
	f.gateway.On("AddCoins", mock.Anything, "1", int64(10), "Homework", model.CategoryBehavior).
		Run(func(mock.Arguments) {
			assert.Equal(t, int32(1), inFlight.Add(1), "calls for one student must not overlap")
			time.Sleep(time.Millisecond)
			inFlight.Add(-1)
		}).
		Return(model.BalanceUpdate{StudentID: "1"}, nil).Times(5)
	f.notifier.On("Publish", mock.Anything, model.NoticeInfo).Times(5)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.rec.AwardCoins(context.Background(), "1", 10, "Homework"))
		}()
	}
	wg.Wait()

	snap := f.store.Snapshot()
	ledger, _ := snap.Ledger("1")
	assert.Len(t, ledger, 5)
	assert.Equal(t, 0, f.rec.locks.size())

	u, _ := snap.User("1")
	assert.Equal(t, int64(100), u.Coins, "a response without a balance keeps the cached one")
}

func TestReconciler_SequenceTracksServerBalance(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(teacher, alex, bea)
	f.notifier.On("Publish", mock.Anything, model.NoticeInfo).Times(4)

	steps := []struct {
		award  bool
		amount int64
		server int64
	}{
		{award: true, amount: 50, server: 150},
		{award: false, amount: 30, server: 120},
		{award: true, amount: 5, server: 131},
		{award: false, amount: 200, server: 0},
	}

	for _, st := range steps {
		update := model.BalanceUpdate{StudentID: "1", Coins: coins(st.server)}
		var err error
		if st.award {
			f.gateway.On("AddCoins", mock.Anything, "1", st.amount, "Homework", model.CategoryBehavior).Return(update, nil).Once()
			err = f.rec.AwardCoins(context.Background(), "1", st.amount, "Homework")
		} else {
			f.gateway.On("RemoveCoins", mock.Anything, "1", st.amount, "Homework", model.CategoryBehavior).Return(update, nil).Once()
			err = f.rec.DeductCoins(context.Background(), "1", st.amount, "Homework")
		}
		require.NoError(t, err)

		u, ok := f.store.Snapshot().User("1")
		require.True(t, ok)
		assert.Equal(t, st.server, u.Coins)
	}

	snap := f.store.Snapshot()
	ledger, _ := snap.Ledger("1")
	assert.Len(t, ledger, len(steps))
	other, _ := snap.User("2")
	assert.Equal(t, int64(80), other.Coins)
}

func TestReconciler_Purchase(t *testing.T) {
	t.Parallel()

	me := model.User{ID: "1", Name: "Alex", Role: model.RoleStudent, Coins: 120}
	item := model.ShopItem{ID: "i1", Name: "Candy Bar", Cost: 100, Category: "treats"}

	t.Run("server balance", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.signIn(me, me)
		f.store.Update(func(tx *cacheTx) bool { tx.ReplaceShop([]model.ShopItem{item}); return true })

		f.gateway.On("BuyItem", mock.Anything, "i1").
			Return(model.BalanceUpdate{StudentID: "1", Coins: coins(25)}, nil).Once()
		f.notifier.On("Publish", "Purchased Candy Bar!", model.NoticeInfo).Once()

		require.NoError(t, f.rec.Purchase(context.Background(), "i1"))

		snap := f.store.Snapshot()
		cur, _ := snap.CurrentUser()
		assert.Equal(t, int64(25), cur.Coins)
		ledger, _ := snap.Ledger("1")
		require.Len(t, ledger, 1)
		assert.Equal(t, "Candy Bar", ledger[0].Label)
		assert.Equal(t, int64(-100), ledger[0].Amount)
		assert.Equal(t, model.CategoryShop, ledger[0].Category)
	})

	t.Run("derived balance", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.signIn(me, me)
		f.store.Update(func(tx *cacheTx) bool { tx.ReplaceShop([]model.ShopItem{item}); return true })

		f.gateway.On("BuyItem", mock.Anything, "i1").
			Return(model.BalanceUpdate{StudentID: "1"}, nil).Once()
		f.notifier.On("Publish", "Purchased Candy Bar!", model.NoticeInfo).Once()

		require.NoError(t, f.rec.Purchase(context.Background(), "i1"))

		cur, _ := f.store.Snapshot().CurrentUser()
		assert.Equal(t, int64(20), cur.Coins)
	})
}

func TestReconciler_Purchase_InsufficientFunds(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	poor := model.User{ID: "1", Name: "Alex", Role: model.RoleStudent, Coins: 80}
	f.signIn(poor, poor)
	f.store.Update(func(tx *cacheTx) bool {
		tx.ReplaceShop([]model.ShopItem{{ID: "i1", Name: "Homework Pass", Cost: 100}})
		return true
	})
	f.notifier.On("Publish", "Not enough coins for Homework Pass: you need 20 more", model.NoticeError).Once()

	err := f.rec.Purchase(context.Background(), "i1")
	require.ErrorIs(t, err, model.ErrInsufficientFunds)

	f.gateway.AssertNotCalled(t, "BuyItem", mock.Anything, mock.Anything)
	cur, _ := f.store.Snapshot().CurrentUser()
	assert.Equal(t, int64(80), cur.Coins)
	_, ok := f.store.Snapshot().Ledger("1")
	assert.False(t, ok)
}

func TestReconciler_Purchase_Rejected(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(teacher)
	f.notifier.On("Publish", "Only a student can do this", model.NoticeError).Once()

	err := f.rec.Purchase(context.Background(), "i1")
	require.ErrorIs(t, err, model.ErrForbidden)

	f2 := newFixture(t)
	f2.signIn(alex, alex)
	f2.notifier.On("Publish", "This item is no longer in the shop", model.NoticeError).Once()

	err = f2.rec.Purchase(context.Background(), "missing")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestReconciler_Purchase_ServerRefuses(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(alex, alex)
	f.store.Update(func(tx *cacheTx) bool {
		tx.ReplaceShop([]model.ShopItem{{ID: "i1", Name: "Sticker", Cost: 10}})
		return true
	})

	f.gateway.On("BuyItem", mock.Anything, "i1").
		Return(model.BalanceUpdate{}, model.NewError(model.ErrInsufficientFunds, "Insufficient coins")).Once()
	f.notifier.On("Publish", "Insufficient coins", model.NoticeError).Once()

	err := f.rec.Purchase(context.Background(), "i1")
	require.ErrorIs(t, err, model.ErrInsufficientFunds)

	cur, _ := f.store.Snapshot().CurrentUser()
	assert.Equal(t, int64(100), cur.Coins)
}

func TestReconciler_SubmitQuiz(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(alex, alex)
	quiz := model.Quiz{
		ID:    "q1",
		Title: "Fractions",
		Questions: []model.QuizQuestion{
			{Text: "1/2 + 1/2", Options: []string{"1", "2"}, Answer: 0},
			{Text: "1/4 + 1/4", Options: []string{"1/2", "1/8"}, Answer: 0},
		},
		Reward: 150,
	}
	f.store.Update(func(tx *cacheTx) bool { tx.ReplaceQuizzes([]model.Quiz{quiz}); return true })

	intent := model.SubmitIntent{QuizID: "q1", Answers: []int{0, 0}}
	attempt := model.QuizAttempt{ID: "a1", QuizID: "q1", Answers: []int{0, 0}, Score: 2, CoinsEarned: 150}
	f.gateway.On("SubmitAttempt", mock.Anything, intent).
		Return(model.AttemptResult{Attempt: attempt, CoinsEarned: 150}, nil).Once()
	f.notifier.On("Publish", "Quiz submitted! +150 coins", model.NoticeInfo).Once()
	f.notifier.On("Publish", "Answer all 2 questions", model.NoticeWarning).Once()

	res, err := f.rec.SubmitQuiz(context.Background(), intent)
	require.NoError(t, err)
	assert.Equal(t, int64(150), res.CoinsEarned)

	snap := f.store.Snapshot()
	cur, _ := snap.CurrentUser()
	assert.Equal(t, int64(250), cur.Coins)
	assert.Equal(t, []model.QuizAttempt{attempt}, snap.Attempts())

	_, err = f.rec.SubmitQuiz(context.Background(), model.SubmitIntent{QuizID: "q1", Answers: []int{0}})
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestReconciler_RosterMutations(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(teacher, alex)

	ns := model.NewStudent{Name: "Cai", Email: "cai@school.test", Password: "secret", Class: "5A"}
	created := model.User{ID: "3", Name: "Cai", Email: "cai@school.test", Class: "5A"}
	f.gateway.On("CreateStudent", mock.Anything, ns).Return(created, nil).Once()
	f.gateway.On("DeleteStudent", mock.Anything, "1").Return(nil).Once()
	f.notifier.On("Publish", "Cai added to the class", model.NoticeInfo).Once()
	f.notifier.On("Publish", "Alex removed", model.NoticeInfo).Once()

	u, err := f.rec.CreateStudent(context.Background(), ns)
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, u.Role)

	require.NoError(t, f.rec.DeleteStudent(context.Background(), "1"))

	snap := f.store.Snapshot()
	assert.False(t, snap.InRoster("1"))
	assert.True(t, snap.InRoster("3"))
}

func TestReconciler_CreateStudent_DuplicateEmail(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(teacher, alex)

	ns := model.NewStudent{Name: "Alex Two", Email: "alex@school.test", Password: "secret"}
	f.gateway.On("CreateStudent", mock.Anything, ns).
		Return(model.User{}, model.NewError(model.ErrDuplicateEmail, "Email already in use")).Once()
	f.notifier.On("Publish", "Email already in use", model.NoticeError).Once()

	_, err := f.rec.CreateStudent(context.Background(), ns)
	require.ErrorIs(t, err, model.ErrDuplicateEmail)
	assert.Len(t, f.store.Snapshot().Roster(), 1)
}

func TestReconciler_ShopAndQuizEdits(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(teacher)

	item := model.ShopItem{Name: "Pencil", Cost: 15, Category: "supplies"}
	f.gateway.On("AddShopItem", mock.Anything, item).Return(model.ShopItem{ID: "i9", Name: "Pencil", Cost: 15, Category: "supplies"}, nil).Once()
	f.gateway.On("DeleteShopItem", mock.Anything, "i9").Return(nil).Once()

	quiz := model.Quiz{Title: "Capitals", Questions: []model.QuizQuestion{{Text: "France?", Options: []string{"Paris", "Rome"}}}, Reward: 50}
	saved := quiz
	saved.ID = "q7"
	f.gateway.On("CreateQuiz", mock.Anything, quiz).Return(saved, nil).Once()
	f.gateway.On("DeleteQuiz", mock.Anything, "q7").Return(nil).Once()
	f.notifier.On("Publish", mock.Anything, model.NoticeInfo).Times(4)
	f.notifier.On("Publish", mock.Anything, model.NoticeWarning).Twice()

	ctx := context.Background()

	created, err := f.rec.AddShopItem(ctx, item)
	require.NoError(t, err)
	assert.Len(t, f.store.Snapshot().Shop(), 1)
	require.NoError(t, f.rec.RemoveShopItem(ctx, created.ID))
	assert.Empty(t, f.store.Snapshot().Shop())

	_, err = f.rec.CreateQuiz(ctx, quiz)
	require.NoError(t, err)
	_, ok := f.store.Snapshot().Quiz("q7")
	assert.True(t, ok)
	require.NoError(t, f.rec.DeleteQuiz(ctx, "q7"))
	assert.Empty(t, f.store.Snapshot().Quizzes())

	_, err = f.rec.AddShopItem(ctx, model.ShopItem{Name: "Free lunch", Cost: 0})
	require.ErrorIs(t, err, model.ErrValidation)

	bad := model.Quiz{Title: "Broken", Questions: []model.QuizQuestion{{Text: "?", Options: []string{"a", "b"}, Answer: 2}}}
	_, err = f.rec.CreateQuiz(ctx, bad)
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestReconciler_LoadTransactions(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(alex, alex)
	f.store.Update(func(tx *cacheTx) bool {
		tx.PrependTransaction("1", model.Transaction{ID: "tx-local", Provisional: true})
		return true
	})

	server := []model.Transaction{
		{ID: "s2", Label: "Candy Bar", Type: model.TransactionSpend, Amount: -100, Category: model.CategoryShop},
		{ID: "s1", Label: "Homework", Type: model.TransactionEarn, Amount: 50, Category: model.CategoryBehavior},
	}
	f.gateway.On("ListTransactions", mock.Anything, "1").Return(server, nil).Once()
	f.notifier.On("Publish", "You can only see your own wallet", model.NoticeError).Once()

	got, err := f.rec.LoadTransactions(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, server, got)

	ledger, _ := f.store.Snapshot().Ledger("1")
	assert.Equal(t, server, ledger)

	_, err = f.rec.LoadTransactions(context.Background(), "2")
	require.ErrorIs(t, err, model.ErrForbidden)
}

func TestReconciler_RefreshRoster_Failure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(teacher, alex)

	f.gateway.On("ListStudents", mock.Anything).Return(nil, errors.New("boom")).Once()
	f.notifier.On("Publish", mock.Anything, model.NoticeError).Once()

	_, err := f.rec.RefreshRoster(context.Background())
	require.Error(t, err)
	assert.True(t, f.store.Snapshot().InRoster("1"))
}
