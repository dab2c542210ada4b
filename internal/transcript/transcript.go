package transcript

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Speaker identifies who authored an utterance.
type Speaker string

const (
	SpeakerInterviewer Speaker = "interviewer"
	SpeakerPatient     Speaker = "patient"
)

// Utterance is one timestamped message in an interview. Utterances are
// immutable once created; the conversation layer owns the ordered list and
// the core only ever reads it.
type Utterance struct {
	ID        uuid.UUID `json:"id"`
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// New builds an utterance with a fresh ID and the current time.
func New(speaker Speaker, text string) Utterance {
	return Utterance{
		ID:        uuid.New(),
		Speaker:   speaker,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
}

// Validate checks that every utterance is well-formed. A structurally
// invalid transcript is the one input error that propagates to callers;
// everything downstream of validation is total.
func Validate(utterances []Utterance) error {
	for i, u := range utterances {
		if u.Speaker != SpeakerInterviewer && u.Speaker != SpeakerPatient {
			return fmt.Errorf("utterance %d: unknown speaker %q", i, u.Speaker)
		}
		if strings.TrimSpace(u.Text) == "" {
			return fmt.Errorf("utterance %d: empty text", i)
		}
	}
	return nil
}

// PatientUtterances filters the transcript down to patient-authored turns,
// preserving order.
func PatientUtterances(utterances []Utterance) []Utterance {
	var out []Utterance
	for _, u := range utterances {
		if u.Speaker == SpeakerPatient {
			out = append(out, u)
		}
	}
	return out
}

// PatientText concatenates all patient turns into a single lower-cased
// string, the form the pattern rules match against.
func PatientText(utterances []Utterance) string {
	var b strings.Builder
	for _, u := range utterances {
		if u.Speaker != SpeakerPatient {
			continue
		}
		b.WriteString(strings.ToLower(u.Text))
		b.WriteString(" ")
	}
	return b.String()
}

// PatientTextOriginal is PatientText without lower-casing, used by rules
// that need to preserve capitalization (names, locations).
func PatientTextOriginal(utterances []Utterance) string {
	var b strings.Builder
	for _, u := range utterances {
		if u.Speaker != SpeakerPatient {
			continue
		}
		b.WriteString(u.Text)
		b.WriteString(" ")
	}
	return b.String()
}
