package store

import (
	"context"
	"errors"
	"time"

	"bookadmin/internal/session"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionPG stores session tokens in the sessions table created by
// db/migrations.
type SessionPG struct {
	db *pgxpool.Pool
}

func NewSessionPG(db *pgxpool.Pool) *SessionPG {
	return &SessionPG{db: db}
}

func (r *SessionPG) Save(ctx context.Context, id, token string, ttl time.Duration) error {
	const query = `
	INSERT INTO sessions (id, token, expires_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (id) DO UPDATE SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at, last_used_at = now()
	`
	_, err := r.db.Exec(ctx, query, id, token, time.Now().Add(ttl))
	return err
}

func (r *SessionPG) Load(ctx context.Context, id string) (string, error) {
	const query = `
	UPDATE sessions SET last_used_at = now()
	WHERE id = $1 AND expires_at > now()
	RETURNING token
	`
	var token string
	err := r.db.QueryRow(ctx, query, id).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", session.ErrNotFound
		}
		return "", err
	}
	return token, nil
}

func (r *SessionPG) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM sessions WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *SessionPG) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// CleanupExpired removes expired rows and reports how many were deleted.
func (r *SessionPG) CleanupExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM sessions WHERE expires_at < now()`
	result, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
