package extract

import (
	"strings"
	"unicode"

	"github.com/allyhealth/previsit/internal/patterns"
	"github.com/allyhealth/previsit/internal/transcript"
)

// chiefComplaintWindow caps how many patient utterances feed the chief
// complaint once demographic disclosure is skipped.
const chiefComplaintWindow = 3

// Extract derives a PatientProfile from the transcript. It is pure,
// deterministic, and total: adversarial or empty input yields the
// sentinel-filled profile, never an error.
func Extract(utterances []transcript.Utterance) PatientProfile {
	p := EmptyProfile()

	patientUtts := transcript.PatientUtterances(utterances)
	if len(patientUtts) == 0 {
		return p
	}

	patientOriginal := transcript.PatientTextOriginal(utterances)
	patientLower := transcript.PatientText(utterances)

	d := patterns.ExtractDemographics(patientUtts[0].Text, patientOriginal)
	if d.Name != "" {
		p.Name = d.Name
	}
	if d.Age != "" {
		p.Age = d.Age
	}
	if d.Location != "" {
		p.Location = d.Location
	}

	// Identity disclosure must not be folded into the presenting complaint.
	complaintUtts := patientUtts
	if d.ConsumedFirst {
		complaintUtts = complaintUtts[1:]
	}
	if len(complaintUtts) > chiefComplaintWindow {
		complaintUtts = complaintUtts[:chiefComplaintWindow]
	}
	if cc := chiefComplaint(complaintUtts); cc != "" {
		p.ChiefComplaint = cc
	}

	if v := patterns.Duration.Apply(patientLower); len(v) > 0 {
		p.Duration = v[0]
	}

	p.Triggers = applied(patterns.Triggers, patientLower)
	p.Characteristics = applied(patterns.Characteristics, patientLower)
	p.AssociatedSymptoms = applied(patterns.AssociatedSymptoms, patientLower)
	p.Medications = applied(patterns.Medications, patientLower)
	p.MedicalHistory = applied(patterns.MedicalHistory, patientLower)
	p.FamilyHistory = applied(patterns.FamilyHistory, patientLower)
	p.Allergies = applied(patterns.Allergies, patientLower)
	if flags := patterns.RedFlags(fullTextLower(utterances)); flags != nil {
		p.RedFlags = flags
	}

	p.HasDemographics = p.Name != NotProvided && p.Age != NotProvided && p.Location != NotProvided
	p.HasChiefComplaint = p.ChiefComplaint != NotYetIdentified
	p.HasTimeline = p.Duration != NotYetRecorded
	p.HasMedicalHistory = len(p.MedicalHistory) > 0 || len(p.FamilyHistory) > 0
	p.HasRedFlags = len(p.RedFlags) > 0

	return p
}

func applied(f patterns.Field, text string) []string {
	if v := f.Apply(text); v != nil {
		return v
	}
	return []string{}
}

// fullTextLower concatenates every utterance lower-cased; red-flag rules
// scan the whole conversation, not just patient turns.
func fullTextLower(utterances []transcript.Utterance) string {
	var b strings.Builder
	for _, u := range utterances {
		b.WriteString(strings.ToLower(u.Text))
		b.WriteString(" ")
	}
	return b.String()
}

func chiefComplaint(utts []transcript.Utterance) string {
	parts := make([]string, 0, len(utts))
	for _, u := range utts {
		if t := strings.TrimSpace(u.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return normalizeComplaint(strings.Join(parts, " "))
}

// normalizeComplaint applies light capitalization: sentence-initial
// capitals and standalone "i" to "I". Content is otherwise untouched.
func normalizeComplaint(s string) string {
	runes := []rune(s)
	capNext := true
	for i, r := range runes {
		switch {
		case capNext && unicode.IsLetter(r):
			runes[i] = unicode.ToUpper(r)
			capNext = false
		case r == '.' || r == '!' || r == '?':
			capNext = true
		}
	}
	out := string(runes)
	out = strings.ReplaceAll(out, " i ", " I ")
	out = strings.ReplaceAll(out, " i'", " I'")
	return out
}
