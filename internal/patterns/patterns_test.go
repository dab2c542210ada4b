package patterns

import (
	"reflect"
	"testing"
)

func TestCleanCandidate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  sharp   pain  ", "sharp pain"},
		{"the stairs", "stairs"},
		{"my back though", "back"},
		{"climbing stairs,", "climbing stairs"},
		{"i run", "run"},
		{"x", ""},
		{"a", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanCandidate(tt.in); got != tt.want {
			t.Errorf("CleanCandidate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFieldApply_FirstMatchStopsAtFirstRule(t *testing.T) {
	// "for three days" satisfies the prefixed rule even though the bare
	// rule would also hit; precedence is the rule order.
	got := Duration.Apply("it's been going on for three days, maybe four days")
	want := []string{"three days"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Duration.Apply() = %v, want %v", got, want)
	}
}

func TestDuration_NeverCapturesAge(t *testing.T) {
	for _, text := range []string{
		"i am 24 years old",
		"i'm 24",
		"maria, 34, austin",
	} {
		if got := Duration.Apply(text); got != nil {
			t.Errorf("Duration.Apply(%q) = %v, want nil", text, got)
		}
	}
}

func TestDuration_Forms(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"it started about two weeks ago", "two weeks"},
		{"this has been going on for several days", "several days"},
		{"it's been hurting since yesterday", "yesterday"},
		{"maybe 3 hours of this now", "3 hours"},
	}
	for _, tt := range tests {
		got := Duration.Apply(tt.text)
		if len(got) != 1 || got[0] != tt.want {
			t.Errorf("Duration.Apply(%q) = %v, want [%s]", tt.text, got, tt.want)
		}
	}
}

func TestTriggers_CapAndDedup(t *testing.T) {
	text := "it happens when i run. also when i lift. whenever i am stressed. worse with cold weather. during long meetings."
	got := Triggers.Apply(text)
	if len(got) != 3 {
		t.Fatalf("expected cap of 3 triggers, got %d: %v", len(got), got)
	}
	want := []string{"run", "lift", "stressed"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Triggers.Apply() = %v, want %v", got, want)
	}
}

func TestTriggers_RejectsTemporalPhrases(t *testing.T) {
	// "after a minute or two" is relief timing, not a trigger.
	got := Triggers.Apply("the pain goes away after a few minutes of rest")
	if len(got) != 0 {
		t.Errorf("expected no triggers from relief phrase, got %v", got)
	}
}

func TestTriggers_DedupAcrossRules(t *testing.T) {
	// "worse when i run" hits both the when-i and worse-with rules; the
	// filler-stripped candidates collapse to one entry.
	got := Triggers.Apply("it gets worse when i run")
	want := []string{"run"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Triggers.Apply() = %v, want %v", got, want)
	}
}

func TestCharacteristics_FirstSeenOrder(t *testing.T) {
	got := Characteristics.Apply("it's a sharp, stabbing pain that comes and goes")
	want := []string{"sharp", "stabbing", "intermittent"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Characteristics.Apply() = %v, want %v", got, want)
	}
}

func TestAssociatedSymptoms(t *testing.T) {
	got := AssociatedSymptoms.Apply("i get short of breath and a bit dizzy, sometimes nausea too")
	want := []string{"shortness of breath", "nausea", "dizziness"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AssociatedSymptoms.Apply() = %v, want %v", got, want)
	}
}

func TestMedications(t *testing.T) {
	got := Medications.Apply("i take metformin for my diabetes and lisinopril every morning")
	want := []string{"metformin", "lisinopril"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Medications.Apply() = %v, want %v", got, want)
	}
}

func TestMedicalHistory_ExcludesFamilyMentions(t *testing.T) {
	text := "i have diabetes. my mother had breast cancer. there's a family history of heart disease."
	got := MedicalHistory.Apply(text)
	want := []string{"diabetes"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MedicalHistory.Apply() = %v, want %v", got, want)
	}
}

func TestMedicalHistory_AdjectiveForms(t *testing.T) {
	got := MedicalHistory.Apply("i'm diabetic and i had a stroke in 2019")
	want := []string{"stroke", "diabetes"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MedicalHistory.Apply() = %v, want %v", got, want)
	}
}

func TestFamilyHistory(t *testing.T) {
	text := "my mother had breast cancer. there's a family history of heart disease."
	got := FamilyHistory.Apply(text)
	want := []string{"breast cancer (mother)", "heart disease"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FamilyHistory.Apply() = %v, want %v", got, want)
	}
}

func TestAllergies_SplitsLists(t *testing.T) {
	got := Allergies.Apply("i'm allergic to penicillin, peanuts and shellfish.")
	want := []string{"penicillin", "peanuts", "shellfish"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Allergies.Apply() = %v, want %v", got, want)
	}
}

func TestAllergies_NoneKnown(t *testing.T) {
	got := Allergies.Apply("no known allergies for me")
	want := []string{"no known allergies"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Allergies.Apply() = %v, want %v", got, want)
	}
}
