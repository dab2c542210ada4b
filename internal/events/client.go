package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nats-io/nats.go"
)

// Subjects for downstream consumers (clinic dashboards, EHR sync workers).
const (
	SubjectProfileUpdated     = "previsit.profile.updated"
	SubjectInterviewCompleted = "previsit.interview.completed"
)

// ProfileUpdated is emitted after every patient turn once the profile
// snapshot has been re-extracted and persisted.
type ProfileUpdated struct {
	SessionID    uuid.UUID `json:"session_id"`
	PatientTurns int       `json:"patient_turns"`
	HasRedFlags  bool      `json:"has_red_flags"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// InterviewCompleted is emitted when the clinical insight pass marks the
// interview complete, or the session is closed explicitly.
type InterviewCompleted struct {
	SessionID   uuid.UUID `json:"session_id"`
	CompletedAt time.Time `json:"completed_at"`
}

type Client struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewClient(url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Close() {
	c.conn.Close()
}
