// Package insight runs the clinical-relevance and emotional-tone analysis
// calls and guarantees a usable result: backend failure or a malformed
// reply degrades to a named fallback, never to an error.
package insight

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/allyhealth/previsit/internal/llm"
)

// ClinicalInsight is the structured judgment of the clinical reviewer.
type ClinicalInsight struct {
	Priority          string   `json:"priority"`
	FollowUpNeeded    []string `json:"followUpNeeded"`
	RedFlags          []string `json:"redFlags"`
	MissingInfo       []string `json:"missingInfo"`
	InterviewComplete bool     `json:"interviewComplete"`
}

// EmotionalInsight is the structured judgment of the tone reviewer.
// EmotionalState is free text; only "distressed" carries routing weight.
type EmotionalInsight struct {
	EmotionalState   string `json:"emotionalState"`
	ToneAdjustment   string `json:"toneAdjustment"`
	EmpathyLevel     string `json:"empathyLevel"`
	NeedsMoreSupport bool   `json:"needsMoreSupport"`
}

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// fallbackMissingInfo is the checklist assumed outstanding when the
// clinical call fails. It is part of the behavioral contract and reused
// verbatim by the orchestrator tests.
var fallbackMissingInfo = []string{
	"demographics",
	"chief complaint details",
	"medical history",
	"medications",
	"allergies",
}

// FallbackClinical is the documented safe default for a failed or
// malformed clinical analysis.
func FallbackClinical() ClinicalInsight {
	return ClinicalInsight{
		Priority:          PriorityMedium,
		FollowUpNeeded:    []string{},
		RedFlags:          []string{},
		MissingInfo:       append([]string(nil), fallbackMissingInfo...),
		InterviewComplete: false,
	}
}

// FallbackEmotional is the documented safe default for a failed or
// malformed emotional analysis.
func FallbackEmotional() EmotionalInsight {
	return EmotionalInsight{
		EmotionalState:   "calm",
		ToneAdjustment:   "supportive",
		EmpathyLevel:     "high",
		NeedsMoreSupport: false,
	}
}

const (
	clinicalTemperature  = 0.7
	emotionalTemperature = 0.8
	insightMaxTokens     = 512
)

// Requester issues the two role-specific analysis calls. The calls are
// independent; callers may run them concurrently.
type Requester struct {
	backend llm.Backend
	logger  *slog.Logger
}

func New(backend llm.Backend, logger *slog.Logger) *Requester {
	return &Requester{backend: backend, logger: logger}
}

// Clinical analyzes the conversation for clinical significance.
func (r *Requester) Clinical(ctx context.Context, history []llm.Message) ClinicalInsight {
	raw, err := r.backend.Complete(ctx, clinicalPrompt, history, clinicalTemperature, insightMaxTokens)
	if err != nil {
		r.logger.Warn("clinical insight call failed, using fallback", "error", err)
		return FallbackClinical()
	}

	var ci ClinicalInsight
	if err := json.Unmarshal([]byte(stripFences(raw)), &ci); err != nil {
		r.logger.Warn("clinical insight reply not parseable, using fallback", "error", err)
		return FallbackClinical()
	}
	if !validPriority(ci.Priority) {
		r.logger.Warn("clinical insight priority out of range, using fallback", "priority", ci.Priority)
		return FallbackClinical()
	}

	ci.FollowUpNeeded = orEmpty(ci.FollowUpNeeded)
	ci.RedFlags = orEmpty(ci.RedFlags)
	ci.MissingInfo = orEmpty(ci.MissingInfo)
	return ci
}

// Emotional analyzes the patient's emotional state.
func (r *Requester) Emotional(ctx context.Context, history []llm.Message) EmotionalInsight {
	raw, err := r.backend.Complete(ctx, emotionalPrompt, history, emotionalTemperature, insightMaxTokens)
	if err != nil {
		r.logger.Warn("emotional insight call failed, using fallback", "error", err)
		return FallbackEmotional()
	}

	var ei EmotionalInsight
	if err := json.Unmarshal([]byte(stripFences(raw)), &ei); err != nil {
		r.logger.Warn("emotional insight reply not parseable, using fallback", "error", err)
		return FallbackEmotional()
	}
	if ei.EmotionalState == "" || !validLevel(ei.EmpathyLevel) {
		r.logger.Warn("emotional insight shape invalid, using fallback",
			"state", ei.EmotionalState, "empathy", ei.EmpathyLevel)
		return FallbackEmotional()
	}
	return ei
}

func validPriority(p string) bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

func validLevel(l string) bool {
	return l == "high" || l == "medium" || l == "low"
}

// stripFences removes a markdown code fence if the model wrapped its JSON
// in one.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
