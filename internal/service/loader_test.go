package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/coined/internal/cache"
	"github.com/dtroode/coined/internal/mocks"
	"github.com/dtroode/coined/internal/model"
	"github.com/dtroode/coined/internal/testutil"
)

func TestLoader_RefreshRosterPrunesDeparted(t *testing.T) {
	t.Parallel()

	gw := mocks.NewGateway(t)
	store := cache.New()
	store.Update(func(tx *cache.Tx) bool {
		tx.SetCurrentUser(teacher)
		tx.ReplaceRoster([]model.User{alex, bea})
		tx.ReplaceLedger("2", []model.Transaction{{ID: "x"}})
		return true
	})
	l := NewLoader(gw, store, testutil.MakeNoopLogger())

	gw.On("ListStudents", mock.Anything).Return([]model.User{alex}, nil).Once()

	got, err := l.RefreshRoster(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	snap := store.Snapshot()
	assert.True(t, snap.InRoster("1"))
	assert.False(t, snap.InRoster("2"))
	_, ok := snap.Ledger("2")
	assert.False(t, ok)
}

func TestLoader_DropsResultOfPreviousSession(t *testing.T) {
	t.Parallel()

	gw := mocks.NewGateway(t)
	store := cache.New()
	store.Update(func(tx *cache.Tx) bool {
		tx.SetCurrentUser(teacher)
		return true
	})
	l := NewLoader(gw, store, testutil.MakeNoopLogger())

	gw.On("ListShopItems", mock.Anything).
		Run(func(mock.Arguments) {
			store.Reset()
			store.Update(func(tx *cache.Tx) bool {
				tx.SetCurrentUser(alex)
				return true
			})
		}).
		Return([]model.ShopItem{{ID: "i1", Name: "Sticker", Cost: 5}}, nil).Once()

	items, err := l.LoadShop(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Empty(t, store.Snapshot().Shop())
}

func TestLoader_LoadTransactionsReplacesProvisional(t *testing.T) {
	t.Parallel()

	gw := mocks.NewGateway(t)
	store := cache.New()
	store.Update(func(tx *cache.Tx) bool {
		tx.SetCurrentUser(alex)
		tx.PrependTransaction("1", model.Transaction{ID: "tx-local", Provisional: true})
		return true
	})
	l := NewLoader(gw, store, testutil.MakeNoopLogger())

	server := []model.Transaction{{ID: "s1", Label: "Homework", Type: model.TransactionEarn, Amount: 50}}
	gw.On("ListTransactions", mock.Anything, "1").Return(server, nil).Once()

	_, err := l.LoadTransactions(context.Background(), "1")
	require.NoError(t, err)

	ledger, _ := store.Snapshot().Ledger("1")
	require.Len(t, ledger, 1)
	assert.False(t, ledger[0].Provisional)
}

func TestLoader_RefreshRosterKeepsBalanceAcknowledgedDuringFetch(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(teacher, alex, bea)

	fetching := make(chan struct{})
	release := make(chan struct{})
	f.gateway.On("ListStudents", mock.Anything).
		Run(func(mock.Arguments) {
			close(fetching)
			<-release
		}).
		Return([]model.User{alex, bea}, nil).Once()
	f.gateway.On("AddCoins", mock.Anything, "1", int64(50), "Homework", model.CategoryBehavior).
		Return(model.BalanceUpdate{StudentID: "1", Coins: coins(150)}, nil).Once()
	f.notifier.On("Publish", "+50 coins to Alex", model.NoticeInfo).Once()

	done := make(chan error, 1)
	go func() {
		_, err := f.rec.RefreshRoster(context.Background())
		done <- err
	}()

	<-fetching
	require.NoError(t, f.rec.AwardCoins(context.Background(), "1", 50, "Homework"))
	u, _ := f.store.Snapshot().User("1")
	require.Equal(t, int64(150), u.Coins)

	close(release)
	require.NoError(t, <-done)

	snap := f.store.Snapshot()
	u, _ = snap.User("1")
	assert.Equal(t, int64(150), u.Coins)
	other, _ := snap.User("2")
	assert.Equal(t, int64(80), other.Coins)
	assert.True(t, snap.InRoster("1"))
}
