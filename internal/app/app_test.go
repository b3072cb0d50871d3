package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/coined/internal/config"
	"github.com/dtroode/coined/internal/credstore/file"
	"github.com/dtroode/coined/internal/mocks"
	"github.com/dtroode/coined/internal/model"
	"github.com/dtroode/coined/internal/testutil"
)

func testConfig() *config.Config {
	return &config.Config{
		Gateway:     config.Gateway{Address: "bufnet", Timeout: time.Second},
		Credentials: config.Credentials{Backend: config.BackendFile, Name: model.CredentialName},
		Notify:      config.Notify{TTL: time.Second},
		Storage:     config.Storage{Bucket: "coined-reports"},
	}
}

func TestAssemble(t *testing.T) {
	t.Parallel()

	a := Assemble(testConfig(), testutil.MakeNoopLogger(), mocks.NewGateway(t), mocks.NewCredentialStore(t))
	t.Cleanup(func() { _ = a.Close() })

	require.NotNil(t, a.Session)
	require.NotNil(t, a.Reconciler)
	assert.True(t, a.Store.Snapshot().Empty())
	assert.False(t, a.Session.Current().Authenticated())
}

func TestApp_ReportsOpensStorageOnce(t *testing.T) {
	t.Parallel()

	a := Assemble(testConfig(), testutil.MakeNoopLogger(), mocks.NewGateway(t), mocks.NewCredentialStore(t))
	t.Cleanup(func() { _ = a.Close() })

	opened := 0
	a.WithStorage(func(_ context.Context, cfg config.Storage) (model.Storage, error) {
		opened++
		assert.Equal(t, "coined-reports", cfg.Bucket)
		return mocks.NewStorage(t), nil
	})

	first, err := a.Reports(context.Background())
	require.NoError(t, err)
	second, err := a.Reports(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, opened)
}

func TestApp_ReportsStorageError(t *testing.T) {
	t.Parallel()

	a := Assemble(testConfig(), testutil.MakeNoopLogger(), mocks.NewGateway(t), mocks.NewCredentialStore(t))
	t.Cleanup(func() { _ = a.Close() })

	a.WithStorage(func(context.Context, config.Storage) (model.Storage, error) {
		return nil, errors.New("connection refused")
	})

	exp, err := a.Reports(context.Background())
	assert.Nil(t, exp)
	assert.ErrorContains(t, err, "failed to open report storage")
}

func TestApp_CloseReverseOrder(t *testing.T) {
	t.Parallel()

	var order []string
	a := &App{closers: []func() error{
		func() error { order = append(order, "first"); return nil },
		func() error { order = append(order, "second"); return errors.New("boom") },
		func() error { order = append(order, "third"); return nil },
	}}

	err := a.Close()
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"third", "second", "first"}, order)
	assert.NoError(t, a.Close())
}

func TestSessionTokens(t *testing.T) {
	t.Parallel()

	tokens := &sessionTokens{}
	assert.Empty(t, tokens.Token())

	a := Assemble(testConfig(), testutil.MakeNoopLogger(), mocks.NewGateway(t), mocks.NewCredentialStore(t))
	t.Cleanup(func() { _ = a.Close() })
	tokens.session = a.Session
	assert.Empty(t, tokens.Token())
}

func TestOpenCredentials_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	creds, closeFn, err := openCredentials(context.Background(), config.Credentials{
		Backend: config.BackendFile,
		Name:    "coined_token",
		FileDir: dir,
	})
	require.NoError(t, err)
	assert.Nil(t, closeFn)

	store, ok := creds.(*file.Store)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "coined_token"), store.Path())
}
