package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dtroode/coined/internal/cache"
	"github.com/dtroode/coined/internal/logger"
	"github.com/dtroode/coined/internal/model"
	"github.com/dtroode/coined/internal/token"
)

// Session owns the authenticated identity and its persisted credential.
// The signed in user is kept in the entity cache; Session keeps the token
// the transport attaches to every call.
type Session struct {
	gateway   model.Gateway
	creds     model.CredentialStore
	inspector model.TokenInspector
	store     *cache.Store
	loader    *Loader
	logger    *logger.Logger
	now       func() time.Time

	mu    sync.RWMutex
	token string
}

func NewSession(
	gateway model.Gateway,
	creds model.CredentialStore,
	inspector model.TokenInspector,
	store *cache.Store,
	loader *Loader,
	logger *logger.Logger,
) *Session {
	return &Session{
		gateway:   gateway,
		creds:     creds,
		inspector: inspector,
		store:     store,
		loader:    loader,
		logger:    logger,
		now:       time.Now,
	}
}

// Token returns the in-memory credential, empty when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) setToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Current describes the session as seen by the presentation layer.
func (s *Session) Current() model.Session {
	snap := s.store.Snapshot()
	sess := model.Session{
		CurrentUserID:     snap.CurrentUserID(),
		CredentialPresent: s.Token() != "",
	}
	if u, ok := snap.CurrentUser(); ok {
		sess.Role = u.Role
	}
	return sess
}

// CurrentUser returns the signed in user from the cache.
func (s *Session) CurrentUser() (model.User, bool) {
	return s.store.Snapshot().CurrentUser()
}

// Login authenticates, persists the credential and populates the cache
// for the user's role. On failure the prior session is left untouched.
func (s *Session) Login(ctx context.Context, identifier, password string) (model.Role, error) {
	identifier = strings.TrimSpace(identifier)
	s.logger.Debug("Session: logging in", "identifier", identifier)

	if identifier == "" || password == "" {
		return "", model.NewError(model.ErrValidation, "Enter your email or name and password")
	}

	res, err := s.gateway.Login(ctx, identifier, password)
	if err != nil {
		s.logger.Info("Session: login refused",
			"identifier", identifier,
			"error", err.Error())
		return "", fmt.Errorf("failed to log in: %w", err)
	}
	if res.Token == "" || res.User.ID == "" {
		s.logger.Error("Session: login response without token or user",
			"identifier", identifier)
		return "", model.NewError(model.ErrNetwork, "Unexpected response from server")
	}

	if err := s.creds.Save(ctx, res.Token); err != nil {
		s.logger.Error("Session: failed to persist credential",
			"user_id", res.User.ID,
			"error", err.Error())
		return "", fmt.Errorf("failed to save credential: %w", err)
	}

	s.begin(res.Token, res.User)

	if err := s.populate(ctx, res.User); err != nil {
		s.logger.Error("Session: failed to populate cache after login",
			"user_id", res.User.ID,
			"error", err.Error())
		if errors.Is(err, model.ErrUnauthorized) {
			return "", fmt.Errorf("failed to load account data: %w", err)
		}
	}

	s.logger.Info("Session: logged in",
		"user_id", res.User.ID,
		"role", res.User.Role)

	return res.User.Role, nil
}

// Logout forgets the credential and wipes the cache. The in-memory
// session is cleared even when the persisted credential cannot be removed.
func (s *Session) Logout(ctx context.Context) error {
	uid := s.store.Snapshot().CurrentUserID()
	s.logger.Debug("Session: logging out", "user_id", uid)

	s.setToken("")
	s.store.Reset()

	if err := s.creds.Delete(ctx); err != nil {
		s.logger.Error("Session: failed to delete credential",
			"user_id", uid,
			"error", err.Error())
		return fmt.Errorf("failed to delete credential: %w", err)
	}

	s.logger.Info("Session: logged out", "user_id", uid)
	return nil
}

// Expire ends a session whose credential the server rejected.
func (s *Session) Expire(ctx context.Context) {
	s.logger.Info("Session: credential rejected, signing out",
		"user_id", s.store.Snapshot().CurrentUserID())

	if err := s.Logout(ctx); err != nil {
		s.logger.Error("Session: failed to clear expired session", "error", err.Error())
	}
}

// Restore resumes a session from the persisted credential. Any failure
// leaves the client signed out; it reports whether a user is signed in.
func (s *Session) Restore(ctx context.Context) bool {
	s.logger.Debug("Session: restoring session")

	tok, err := s.creds.Load(ctx)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("Session: failed to load credential", "error", err.Error())
		}
		return false
	}

	// Opaque credentials are left to the server to judge.
	if claims, err := s.inspector.Inspect(tok); err == nil && token.Expired(claims, s.now()) {
		s.logger.Info("Session: stored credential expired",
			"subject", claims.Subject,
			"expires_at", claims.ExpiresAt)
		s.discard(ctx)
		return false
	}

	s.setToken(tok)

	user, err := s.gateway.Me(ctx)
	if err != nil {
		s.setToken("")
		if errors.Is(err, model.ErrUnauthorized) {
			s.logger.Info("Session: stored credential rejected")
			s.discard(ctx)
			return false
		}
		s.logger.Error("Session: failed to validate credential", "error", err.Error())
		return false
	}

	s.begin(tok, user)

	if err := s.populate(ctx, user); err != nil {
		s.logger.Error("Session: failed to populate cache after restore",
			"user_id", user.ID,
			"error", err.Error())
		if errors.Is(err, model.ErrUnauthorized) {
			return false
		}
	}

	s.logger.Info("Session: restored",
		"user_id", user.ID,
		"role", user.Role)

	return true
}

// begin installs a fresh session. Nothing cached for a previous user
// survives.
func (s *Session) begin(tok string, user model.User) {
	s.setToken(tok)
	s.store.Reset()
	s.store.Update(func(tx *cache.Tx) bool {
		tx.SetCurrentUser(user)
		return true
	})
}

func (s *Session) discard(ctx context.Context) {
	if err := s.creds.Delete(ctx); err != nil {
		s.logger.Error("Session: failed to delete credential", "error", err.Error())
	}
}

// populate loads the collections the user's role works with. Every load
// is attempted; the first error is returned.
func (s *Session) populate(ctx context.Context, user model.User) error {
	var g errgroup.Group

	g.Go(func() error {
		_, err := s.loader.RefreshRoster(ctx)
		return err
	})
	g.Go(func() error {
		_, err := s.loader.LoadShop(ctx)
		return err
	})
	g.Go(func() error {
		_, err := s.loader.LoadQuizzes(ctx)
		return err
	})

	if user.IsStudent() {
		g.Go(func() error {
			_, err := s.loader.LoadTransactions(ctx, user.ID)
			return err
		})
		g.Go(func() error {
			_, err := s.loader.LoadAttempts(ctx)
			return err
		})
	}

	err := g.Wait()
	if errors.Is(err, model.ErrUnauthorized) {
		s.Expire(ctx)
	}
	return err
}
