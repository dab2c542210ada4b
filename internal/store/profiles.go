package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/allyhealth/previsit/internal/extract"
)

// SaveProfile upserts the latest profile snapshot for a session. The
// snapshot exists for report consumers; the profile of record is always
// recomputed from the transcript.
func (s *Store) SaveProfile(ctx context.Context, sessionID uuid.UUID, p extract.PatientProfile) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO patient_profiles (session_id, profile, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (session_id)
		DO UPDATE SET profile = $2, updated_at = now()`,
		sessionID, payload,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// GetProfile returns the stored snapshot for a session.
func (s *Store) GetProfile(ctx context.Context, sessionID uuid.UUID) (extract.PatientProfile, error) {
	var payload []byte
	row := s.pool.QueryRow(ctx, `
		SELECT profile FROM patient_profiles WHERE session_id = $1`,
		sessionID,
	)
	if err := row.Scan(&payload); err != nil {
		return extract.PatientProfile{}, fmt.Errorf("get profile %s: %w", sessionID, err)
	}
	var p extract.PatientProfile
	if err := json.Unmarshal(payload, &p); err != nil {
		return extract.PatientProfile{}, fmt.Errorf("unmarshal profile: %w", err)
	}
	return p, nil
}
