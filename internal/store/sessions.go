package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/allyhealth/previsit/internal/transcript"
)

type Session struct {
	ID        uuid.UUID  `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

// CreateSession opens a new interview session.
func (s *Store) CreateSession(ctx context.Context) (Session, error) {
	sess := Session{ID: uuid.New(), CreatedAt: time.Now().UTC()}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO interview_sessions (id, created_at)
		VALUES ($1, $2)`,
		sess.ID, sess.CreatedAt,
	)
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

// GetSession fetches a session by ID.
func (s *Store) GetSession(ctx context.Context, id uuid.UUID) (Session, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, created_at, closed_at
		FROM interview_sessions
		WHERE id = $1`,
		id,
	)
	var sess Session
	if err := row.Scan(&sess.ID, &sess.CreatedAt, &sess.ClosedAt); err != nil {
		return Session{}, fmt.Errorf("get session %s: %w", id, err)
	}
	return sess, nil
}

// CloseSession marks a session finished. Closing twice is a no-op.
func (s *Store) CloseSession(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE interview_sessions SET closed_at = now()
		WHERE id = $1 AND closed_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("close session %s: %w", id, err)
	}
	return nil
}

// AppendUtterance stores one utterance at the end of the session transcript.
func (s *Store) AppendUtterance(ctx context.Context, sessionID uuid.UUID, u transcript.Utterance) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO utterances (id, session_id, speaker, text, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		u.ID, sessionID, string(u.Speaker), u.Text, u.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert utterance: %w", err)
	}
	return nil
}

// ListUtterances returns the session transcript in insertion order.
func (s *Store) ListUtterances(ctx context.Context, sessionID uuid.UUID) ([]transcript.Utterance, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, speaker, text, created_at
		FROM utterances
		WHERE session_id = $1
		ORDER BY position`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query utterances: %w", err)
	}
	defer rows.Close()

	var out []transcript.Utterance
	for rows.Next() {
		var u transcript.Utterance
		var speaker string
		if err := rows.Scan(&u.ID, &speaker, &u.Text, &u.Timestamp); err != nil {
			return nil, fmt.Errorf("scan utterance: %w", err)
		}
		u.Speaker = transcript.Speaker(speaker)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate utterances: %w", err)
	}
	return out, nil
}
