package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CreateSession stores a new session for the user and returns its opaque ID.
func (s *DB) CreateSession(ctx context.Context, uid int, maxAge time.Duration) (string, error) {
	id := uuid.NewString()
	_, err := s.conn.Exec(ctx, `INSERT INTO sessions (id, user_id, expires_at) VALUES ($1, $2, $3)`, id, uid, time.Now().Add(maxAge))
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *DB) RemoveSession(ctx context.Context, sess string) error {
	_, err := s.conn.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sess)
	return err
}

// RemoveExpiredSessions returns the number of deleted sessions.
func (s *DB) RemoveExpiredSessions(ctx context.Context) (int64, error) {
	tag, err := s.conn.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
