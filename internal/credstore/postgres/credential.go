package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/coined/internal/model"
)

var _ model.CredentialStore = (*CredentialRepository)(nil)

// CredentialRepository keeps the session credential in a row keyed by name,
// so several clients can share one database under different names.
type CredentialRepository struct {
	db   *sql.DB
	name string
	now  func() time.Time
}

func NewCredentialRepository(db *sql.DB, name string) *CredentialRepository {
	return &CredentialRepository{
		db:   db,
		name: name,
		now:  time.Now,
	}
}

func (r *CredentialRepository) Load(ctx context.Context) (string, error) {
	query := `SELECT value FROM client_credentials WHERE name = $1`

	var value string
	err := r.db.QueryRowContext(ctx, query, r.name).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to load credential: %w", err)
	}

	return value, nil
}

func (r *CredentialRepository) Save(ctx context.Context, token string) error {
	query := `INSERT INTO client_credentials (name, value, updated_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	if _, err := r.db.ExecContext(ctx, query, r.name, token, r.now()); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	return nil
}

func (r *CredentialRepository) Delete(ctx context.Context) error {
	query := `DELETE FROM client_credentials WHERE name = $1`

	if _, err := r.db.ExecContext(ctx, query, r.name); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}

	return nil
}
