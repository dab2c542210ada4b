package extract

import (
	"reflect"
	"strings"
	"testing"

	"github.com/allyhealth/previsit/internal/patterns"
	"github.com/allyhealth/previsit/internal/transcript"
)

func utt(speaker transcript.Speaker, text string) transcript.Utterance {
	return transcript.New(speaker, text)
}

func TestExtract_EmptyTranscript(t *testing.T) {
	p := Extract(nil)

	if p.Name != NotProvided || p.Age != NotProvided || p.Location != NotProvided {
		t.Errorf("expected demographic sentinels, got %+v", p)
	}
	if p.ChiefComplaint != NotYetIdentified {
		t.Errorf("expected chief complaint sentinel, got %q", p.ChiefComplaint)
	}
	if p.Duration != NotYetRecorded {
		t.Errorf("expected duration sentinel, got %q", p.Duration)
	}
	for name, list := range map[string][]string{
		"triggers": p.Triggers, "characteristics": p.Characteristics,
		"associatedSymptoms": p.AssociatedSymptoms, "medicalHistory": p.MedicalHistory,
		"familyHistory": p.FamilyHistory, "medications": p.Medications,
		"allergies": p.Allergies, "redFlags": p.RedFlags,
	} {
		if list == nil {
			t.Errorf("%s must be empty, not nil", name)
		}
		if len(list) != 0 {
			t.Errorf("%s must be empty, got %v", name, list)
		}
	}
	if p.HasDemographics || p.HasChiefComplaint || p.HasTimeline || p.HasMedicalHistory || p.HasRedFlags {
		t.Errorf("no completeness flag should be set, got %+v", p)
	}
}

func TestExtract_InterviewerOnlyTranscript(t *testing.T) {
	p := Extract([]transcript.Utterance{
		utt(transcript.SpeakerInterviewer, "Hello! What brings you in today?"),
	})
	if !reflect.DeepEqual(p, EmptyProfile()) {
		t.Errorf("interviewer-only transcript should yield the empty profile, got %+v", p)
	}
}

func TestExtract_StructuredDemographicsSkipChiefComplaint(t *testing.T) {
	p := Extract([]transcript.Utterance{
		utt(transcript.SpeakerInterviewer, "May I have your name, age, and city?"),
		utt(transcript.SpeakerPatient, "Maria Chen, 34, Austin"),
		utt(transcript.SpeakerPatient, "i've been having sharp chest pain when i climb stairs."),
	})

	if p.Name != "Maria Chen" || p.Age != "34" || p.Location != "Austin" {
		t.Errorf("demographics wrong: %+v", p)
	}
	if !p.HasDemographics {
		t.Error("HasDemographics should be set")
	}
	if strings.Contains(p.ChiefComplaint, "Maria") {
		t.Errorf("identity disclosure leaked into chief complaint: %q", p.ChiefComplaint)
	}
	if !strings.Contains(p.ChiefComplaint, "chest pain") {
		t.Errorf("expected chest pain in chief complaint, got %q", p.ChiefComplaint)
	}
	if !strings.HasPrefix(p.ChiefComplaint, "I've") {
		t.Errorf("expected capitalization normalization, got %q", p.ChiefComplaint)
	}
}

func TestExtract_ChiefComplaintWindow(t *testing.T) {
	p := Extract([]transcript.Utterance{
		utt(transcript.SpeakerPatient, "first complaint part."),
		utt(transcript.SpeakerPatient, "second part."),
		utt(transcript.SpeakerPatient, "third part."),
		utt(transcript.SpeakerPatient, "fourth part should not appear."),
	})
	if strings.Contains(p.ChiefComplaint, "fourth") {
		t.Errorf("chief complaint exceeded window: %q", p.ChiefComplaint)
	}
	if !strings.Contains(p.ChiefComplaint, "third part") {
		t.Errorf("expected third part included, got %q", p.ChiefComplaint)
	}
}

func TestExtract_AgeIsNeverDuration(t *testing.T) {
	p := Extract([]transcript.Utterance{
		utt(transcript.SpeakerPatient, "I am 24 years old and my knee hurts."),
	})
	if p.Age != "24" {
		t.Errorf("expected age 24, got %q", p.Age)
	}
	if p.Duration != NotYetRecorded {
		t.Errorf("age leaked into duration: %q", p.Duration)
	}
	if p.HasTimeline {
		t.Error("HasTimeline should not be set")
	}
}

func TestExtract_DurationAndTimeline(t *testing.T) {
	p := Extract([]transcript.Utterance{
		utt(transcript.SpeakerPatient, "It started about two weeks ago, worse when I climb stairs."),
	})
	if p.Duration != "two weeks" {
		t.Errorf("expected duration two weeks, got %q", p.Duration)
	}
	if !p.HasTimeline {
		t.Error("HasTimeline should be set")
	}
	if !reflect.DeepEqual(p.Triggers, []string{"climb stairs"}) {
		t.Errorf("triggers = %v", p.Triggers)
	}
}

func TestExtract_RedFlagTiers(t *testing.T) {
	prompt := Extract([]transcript.Utterance{
		utt(transcript.SpeakerPatient, "my chest has felt odd lately"),
	})
	if !reflect.DeepEqual(prompt.RedFlags, []string{patterns.FlagPromptCardiac}) {
		t.Errorf("expected prompt tier, got %v", prompt.RedFlags)
	}

	immediate := Extract([]transcript.Utterance{
		utt(transcript.SpeakerPatient, "my chest hurts"),
		utt(transcript.SpeakerPatient, "and it's hard to breathe"),
	})
	if !reflect.DeepEqual(immediate.RedFlags, []string{patterns.FlagImmediateCardiac}) {
		t.Errorf("expected immediate tier, got %v", immediate.RedFlags)
	}
	if !immediate.HasRedFlags {
		t.Error("HasRedFlags should be set")
	}
}

func TestExtract_HistoryMedicationsAllergies(t *testing.T) {
	p := Extract([]transcript.Utterance{
		utt(transcript.SpeakerPatient, "I have diabetes and I take metformin."),
		utt(transcript.SpeakerPatient, "My mother had breast cancer. I'm allergic to penicillin."),
	})

	if !reflect.DeepEqual(p.MedicalHistory, []string{"diabetes"}) {
		t.Errorf("medicalHistory = %v", p.MedicalHistory)
	}
	if !reflect.DeepEqual(p.FamilyHistory, []string{"breast cancer (mother)"}) {
		t.Errorf("familyHistory = %v", p.FamilyHistory)
	}
	if !reflect.DeepEqual(p.Medications, []string{"metformin"}) {
		t.Errorf("medications = %v", p.Medications)
	}
	if !reflect.DeepEqual(p.Allergies, []string{"penicillin"}) {
		t.Errorf("allergies = %v", p.Allergies)
	}
	if !p.HasMedicalHistory {
		t.Error("HasMedicalHistory should be set")
	}
}

func TestExtract_Deterministic(t *testing.T) {
	utts := []transcript.Utterance{
		utt(transcript.SpeakerInterviewer, "What brings you in?"),
		utt(transcript.SpeakerPatient, "Maria Chen, 34, Austin"),
		utt(transcript.SpeakerPatient, "Sharp chest pain for three days, worse when I climb stairs."),
		utt(transcript.SpeakerPatient, "I take lisinopril. Allergic to sulfa drugs."),
	}

	first := Extract(utts)
	second := Extract(utts)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestExtract_AdversarialInputDoesNotPanic(t *testing.T) {
	inputs := []string{
		strings.Repeat("a", 10000),
		"!!!???...,,,;;;",
		"when when when after after during during",
		"I'm I'm I'm, 999, ,,,",
		"\x00\x01\x02 chest \x03",
	}
	for _, in := range inputs {
		p := Extract([]transcript.Utterance{utt(transcript.SpeakerPatient, in)})
		if p.Triggers == nil || p.RedFlags == nil {
			t.Errorf("lists must stay non-nil for input %q", in)
		}
	}
}
