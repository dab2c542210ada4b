package orchestrator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/allyhealth/previsit/internal/insight"
	"github.com/allyhealth/previsit/internal/llm"
	"github.com/allyhealth/previsit/internal/transcript"
)

// scriptedBackend routes on the system prompt so one fake covers the
// clinical, emotional, and synthesis calls of a single turn.
type scriptedBackend struct {
	clinical  string
	emotional string
	response  string
	err       error
}

func (s *scriptedBackend) Complete(_ context.Context, system string, _ []llm.Message, _ float32, _ int) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	switch {
	case strings.Contains(system, "clinical relevance reviewer"):
		return s.clinical, nil
	case strings.Contains(system, "emotional tone reviewer"):
		return s.emotional, nil
	default:
		return s.response, nil
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func interview(patientTexts ...string) []transcript.Utterance {
	utts := []transcript.Utterance{transcript.New(transcript.SpeakerInterviewer, Greeting)}
	for _, text := range patientTexts {
		utts = append(utts, transcript.New(transcript.SpeakerPatient, text))
	}
	return utts
}

func TestTurn_HappyPath(t *testing.T) {
	backend := &scriptedBackend{
		clinical:  `{"priority":"low","followUpNeeded":[],"redFlags":[],"missingInfo":["allergies"],"interviewComplete":false}`,
		emotional: `{"emotionalState":"calm","toneAdjustment":"keep steady","empathyLevel":"medium","needsMoreSupport":false}`,
		response:  "Thanks, Maria. When did the pain start?",
	}
	o := New(backend, testLogger())

	result, err := o.Turn(context.Background(), interview("Maria Chen, 34, Austin"))
	if err != nil {
		t.Fatalf("Turn() error: %v", err)
	}

	if result.Reply.Text != "Thanks, Maria. When did the pain start?" {
		t.Errorf("reply text = %q", result.Reply.Text)
	}
	if result.Reply.RoleTag != RoleEmpathetic {
		t.Errorf("role tag = %q, want empathetic on early low-priority turn", result.Reply.RoleTag)
	}
	if result.Profile.Name != "Maria Chen" {
		t.Errorf("profile name = %q", result.Profile.Name)
	}
	if result.Clinical.Priority != insight.PriorityLow {
		t.Errorf("clinical priority = %q", result.Clinical.Priority)
	}
}

func TestTurn_InvalidTranscript(t *testing.T) {
	o := New(&scriptedBackend{}, testLogger())

	bad := []transcript.Utterance{transcript.New(transcript.Speaker("narrator"), "hm")}
	if _, err := o.Turn(context.Background(), bad); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestTurn_BackendFailureStillProducesResult(t *testing.T) {
	o := New(&scriptedBackend{err: errors.New("backend down")}, testLogger())

	result, err := o.Turn(context.Background(), interview("my chest hurts"))
	if err != nil {
		t.Fatalf("Turn() must not fail on backend errors, got %v", err)
	}

	if result.Reply.Text != fallbackReply {
		t.Errorf("expected fallback reply, got %q", result.Reply.Text)
	}
	if result.Reply.RoleTag != RoleClinical {
		t.Errorf("fallback reply tag = %q, want clinical", result.Reply.RoleTag)
	}
	if result.Clinical.Priority != insight.PriorityMedium {
		t.Errorf("expected clinical fallback priority, got %q", result.Clinical.Priority)
	}
	if result.Emotional.EmotionalState != "calm" {
		t.Errorf("expected emotional fallback state, got %q", result.Emotional.EmotionalState)
	}
	// Deterministic extraction is unaffected by backend failure.
	if len(result.Profile.RedFlags) == 0 {
		t.Error("expected red flag from chest mention despite backend failure")
	}
}

func TestRoleTagFor(t *testing.T) {
	calm := insight.EmotionalInsight{EmotionalState: "calm", EmpathyLevel: "medium"}
	distressed := insight.EmotionalInsight{EmotionalState: "distressed", EmpathyLevel: "high"}

	tests := []struct {
		name         string
		ci           insight.ClinicalInsight
		ei           insight.EmotionalInsight
		patientTurns int
		want         RoleTag
	}{
		{
			name: "red flags force clinical even when distressed",
			ci:   insight.ClinicalInsight{Priority: insight.PriorityLow, RedFlags: []string{"chest pain"}},
			ei:   distressed, patientTurns: 1, want: RoleClinical,
		},
		{
			name: "high priority forces clinical",
			ci:   insight.ClinicalInsight{Priority: insight.PriorityHigh},
			ei:   distressed, patientTurns: 1, want: RoleClinical,
		},
		{
			name: "medium priority is clinical",
			ci:   insight.ClinicalInsight{Priority: insight.PriorityMedium},
			ei:   calm, patientTurns: 1, want: RoleClinical,
		},
		{
			name: "pending follow-ups are clinical",
			ci:   insight.ClinicalInsight{Priority: insight.PriorityLow, FollowUpNeeded: []string{"ask about onset"}},
			ei:   calm, patientTurns: 5, want: RoleClinical,
		},
		{
			name: "distress wins on low priority",
			ci:   insight.ClinicalInsight{Priority: insight.PriorityLow},
			ei:   distressed, patientTurns: 9, want: RoleEmpathetic,
		},
		{
			name: "support flag wins on low priority",
			ci:   insight.ClinicalInsight{Priority: insight.PriorityLow},
			ei:   insight.EmotionalInsight{EmotionalState: "calm", NeedsMoreSupport: true},
			patientTurns: 9, want: RoleEmpathetic,
		},
		{
			name: "early quiet turns default empathetic",
			ci:   insight.ClinicalInsight{Priority: insight.PriorityLow},
			ei:   calm, patientTurns: 2, want: RoleEmpathetic,
		},
		{
			name: "later quiet turns default clinical",
			ci:   insight.ClinicalInsight{Priority: insight.PriorityLow},
			ei:   calm, patientTurns: 3, want: RoleClinical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoleTagFor(tt.ci, tt.ei, tt.patientTurns); got != tt.want {
				t.Errorf("RoleTagFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRespond_EmptyReplyFallsBack(t *testing.T) {
	backend := &scriptedBackend{
		clinical:  `{"priority":"low","interviewComplete":false}`,
		emotional: `{"emotionalState":"calm","toneAdjustment":"","empathyLevel":"low","needsMoreSupport":false}`,
		response:  "   ",
	}
	o := New(backend, testLogger())

	reply := o.Respond(context.Background(), interview("hello"),
		insight.ClinicalInsight{Priority: insight.PriorityLow},
		insight.EmotionalInsight{EmotionalState: "calm"})

	if reply.Text != fallbackReply {
		t.Errorf("expected fallback for blank synthesis, got %q", reply.Text)
	}
	if reply.RoleTag != RoleClinical {
		t.Errorf("fallback tag = %q, want clinical", reply.RoleTag)
	}
}

func TestSynthesisPromptCarriesInsights(t *testing.T) {
	ci := insight.ClinicalInsight{
		Priority:    insight.PriorityHigh,
		RedFlags:    []string{"exertional chest pain"},
		MissingInfo: []string{"allergies", "medications"},
	}
	ei := insight.EmotionalInsight{EmotionalState: "anxious", ToneAdjustment: "reassure"}

	prompt := synthesisPrompt(ci, ei)

	for _, want := range []string{"exertional chest pain", "anxious", "allergies; medications", "exactly one next question"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("synthesis prompt missing %q", want)
		}
	}
}

func TestHistoryMessages_RoleMapping(t *testing.T) {
	msgs := historyMessages(interview("my head hurts"))

	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != "assistant" {
		t.Errorf("interviewer turn mapped to %q, want assistant", msgs[0].Role)
	}
	if msgs[1].Role != "user" {
		t.Errorf("patient turn mapped to %q, want user", msgs[1].Role)
	}
}
