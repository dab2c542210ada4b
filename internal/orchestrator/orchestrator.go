// Package orchestrator runs one interview turn: deterministic extraction,
// the two insight calls (concurrently), and the final response synthesis.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/allyhealth/previsit/internal/extract"
	"github.com/allyhealth/previsit/internal/insight"
	"github.com/allyhealth/previsit/internal/llm"
	"github.com/allyhealth/previsit/internal/transcript"
)

// RoleTag classifies an agent reply for the conversation UI.
type RoleTag string

const (
	RoleClinical   RoleTag = "clinical"
	RoleEmpathetic RoleTag = "empathetic"
	RoleReport     RoleTag = "report"
)

// AgentReply is the next interviewer utterance plus its classification.
type AgentReply struct {
	Text    string  `json:"text"`
	RoleTag RoleTag `json:"roleTag"`
}

// TurnResult bundles everything one patient turn produces.
type TurnResult struct {
	Reply     AgentReply               `json:"reply"`
	Profile   extract.PatientProfile   `json:"profile"`
	Clinical  insight.ClinicalInsight  `json:"clinicalInsight"`
	Emotional insight.EmotionalInsight `json:"emotionalInsight"`
}

// Greeting seeds a new session. The conversation layer appends it as the
// first interviewer utterance.
const Greeting = "Hi! I'm Ally, your AI health assistant. Before we begin, may I have your name, age, and which city you're located in? This will help us prepare better for your appointment."

// fallbackReply keeps the conversation moving when the synthesis call
// fails; the turn never stalls on a backend error.
const fallbackReply = "Thank you for sharing that. Could you tell me more about when these symptoms first started?"

// empatheticTurnWindow is how many initial patient turns default to the
// empathetic tag when no insight signal applies. After that the default
// flips to clinical. The asymmetry is a deliberate policy: early turns are
// rapport-building, later ones are information-gathering. Threshold
// pending product-owner confirmation.
const empatheticTurnWindow = 2

const (
	responseTemperature = 0.8
	responseMaxTokens   = 200
)

type Orchestrator struct {
	backend  llm.Backend
	insights *insight.Requester
	logger   *slog.Logger
}

func New(backend llm.Backend, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		backend:  backend,
		insights: insight.New(backend, logger),
		logger:   logger,
	}
}

// Turn processes the interview-so-far and returns the agent's next reply
// together with the refreshed profile and both insights. The only error it
// returns is transcript validation failure.
func (o *Orchestrator) Turn(ctx context.Context, utterances []transcript.Utterance) (*TurnResult, error) {
	if err := transcript.Validate(utterances); err != nil {
		return nil, fmt.Errorf("invalid transcript: %w", err)
	}

	profile := extract.Extract(utterances)
	history := historyMessages(utterances)

	// The two insight calls have no data dependency; run them together.
	var (
		wg sync.WaitGroup
		ci insight.ClinicalInsight
		ei insight.EmotionalInsight
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		ci = o.insights.Clinical(ctx, history)
	}()
	go func() {
		defer wg.Done()
		ei = o.insights.Emotional(ctx, history)
	}()
	wg.Wait()

	reply := o.Respond(ctx, utterances, ci, ei)

	o.logger.Info("interview turn complete",
		"patient_turns", patientTurns(utterances),
		"priority", ci.Priority,
		"red_flags", len(ci.RedFlags),
		"role_tag", string(reply.RoleTag),
	)

	return &TurnResult{
		Reply:     reply,
		Profile:   profile,
		Clinical:  ci,
		Emotional: ei,
	}, nil
}

// Respond synthesizes the next interviewer utterance from both insights.
// The role tag is decided locally after the backend reply, never by the
// backend itself.
func (o *Orchestrator) Respond(ctx context.Context, utterances []transcript.Utterance, ci insight.ClinicalInsight, ei insight.EmotionalInsight) AgentReply {
	tag := RoleTagFor(ci, ei, patientTurns(utterances))

	text, err := o.backend.Complete(ctx, synthesisPrompt(ci, ei), historyMessages(utterances), responseTemperature, responseMaxTokens)
	if err != nil || strings.TrimSpace(text) == "" {
		o.logger.Warn("response synthesis failed, using fallback reply", "error", err)
		return AgentReply{Text: fallbackReply, RoleTag: RoleClinical}
	}
	return AgentReply{Text: strings.TrimSpace(text), RoleTag: tag}
}

// RoleTagFor applies the deterministic tag policy:
// red flags or high priority -> clinical; medium priority or pending
// follow-ups -> clinical; distress or a support flag -> empathetic;
// otherwise empathetic for the first empatheticTurnWindow patient turns
// and clinical after.
func RoleTagFor(ci insight.ClinicalInsight, ei insight.EmotionalInsight, patientTurns int) RoleTag {
	if len(ci.RedFlags) > 0 || ci.Priority == insight.PriorityHigh {
		return RoleClinical
	}
	if ci.Priority == insight.PriorityMedium || len(ci.FollowUpNeeded) > 0 {
		return RoleClinical
	}
	if ei.EmotionalState == "distressed" || ei.NeedsMoreSupport {
		return RoleEmpathetic
	}
	if patientTurns <= empatheticTurnWindow {
		return RoleEmpathetic
	}
	return RoleClinical
}

func synthesisPrompt(ci insight.ClinicalInsight, ei insight.EmotionalInsight) string {
	ciJSON, _ := json.Marshal(ci)
	eiJSON, _ := json.Marshal(ei)

	missing := "none"
	if len(ci.MissingInfo) > 0 {
		missing = strings.Join(ci.MissingInfo, "; ")
	}

	return fmt.Sprintf(`You are an AI health assistant conducting a pre-visit patient interview. Your role is to:
1. Ask warm, empathetic questions that make patients feel heard
2. Gather comprehensive medical information through intelligent follow-ups
3. Probe for clinically relevant details when symptoms are mentioned
4. Maintain a supportive, professional tone similar to an experienced triage nurse

Current clinical insights: %s
Current tone guidance: %s
Information still missing: %s

Ask exactly one next question. Do not say goodbye or close the interview until every required category is covered: name, age, location, chief complaint detail, medical and family history, medications, and allergies. Be conversational, warm, and thorough.`, ciJSON, eiJSON, missing)
}

// historyMessages maps the transcript onto backend roles: interviewer
// turns become assistant messages, patient turns become user messages.
func historyMessages(utterances []transcript.Utterance) []llm.Message {
	msgs := make([]llm.Message, 0, len(utterances))
	for _, u := range utterances {
		role := "user"
		if u.Speaker == transcript.SpeakerInterviewer {
			role = "assistant"
		}
		msgs = append(msgs, llm.Message{Role: role, Content: u.Text})
	}
	return msgs
}

func patientTurns(utterances []transcript.Utterance) int {
	n := 0
	for _, u := range utterances {
		if u.Speaker == transcript.SpeakerPatient {
			n++
		}
	}
	return n
}
