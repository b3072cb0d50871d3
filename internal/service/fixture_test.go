package service

import (
	"testing"
	"time"

	"github.com/dtroode/coined/internal/cache"
	"github.com/dtroode/coined/internal/mocks"
	"github.com/dtroode/coined/internal/model"
	"github.com/dtroode/coined/internal/testutil"
)

var fixedNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

type fixture struct {
	gateway   *mocks.Gateway
	creds     *mocks.CredentialStore
	inspector *mocks.TokenInspector
	notifier  *mocks.Notifier
	store     *cache.Store
	session   *Session
	rec       *Reconciler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		gateway:   mocks.NewGateway(t),
		creds:     mocks.NewCredentialStore(t),
		inspector: mocks.NewTokenInspector(t),
		notifier:  mocks.NewNotifier(t),
		store:     cache.New(),
	}

	log := testutil.MakeNoopLogger()
	loader := NewLoader(f.gateway, f.store, log)
	f.session = NewSession(f.gateway, f.creds, f.inspector, f.store, loader, log)
	f.session.now = func() time.Time { return fixedNow }
	f.rec = NewReconciler(f.gateway, f.store, f.session, loader, f.notifier, log)
	f.rec.now = func() time.Time { return fixedNow }
	f.rec.newID = func() string { return "tx-local" }

	return f
}

// signIn puts a user and a roster in the cache without going through the gateway.
func (f *fixture) signIn(u model.User, roster ...model.User) {
	f.session.setToken("token-" + u.ID)
	f.store.Update(func(tx *cache.Tx) bool {
		tx.SetCurrentUser(u)
		tx.ReplaceRoster(roster)
		return true
	})
}

func coins(n int64) *int64 {
	return &n
}

var (
	teacher = model.User{ID: "t1", Name: "Ms. Rivera", Role: model.RoleTeacher, Email: "rivera@school.test"}
	alex    = model.User{ID: "1", Name: "Alex", Role: model.RoleStudent, Coins: 100, Class: "5A"}
	bea     = model.User{ID: "2", Name: "Bea", Role: model.RoleStudent, Coins: 80, Class: "5B"}
)

type cacheTx = cache.Tx
