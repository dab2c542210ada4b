// Package report renders a PatientProfile as the pre-visit summary PDF
// handed to the physician before the appointment.
package report

import (
	"fmt"
	"strings"

	"github.com/allyhealth/previsit/internal/extract"
)

// Section is one titled block of the report.
type Section struct {
	Title string
	Lines []string
}

// Sections lays the profile out in the order physicians read it. The
// layout is independent of the PDF library so it can be tested directly.
func Sections(p extract.PatientProfile) []Section {
	return []Section{
		{
			Title: "Patient Information",
			Lines: []string{
				"Name: " + p.Name,
				"Age: " + p.Age,
				"Location: " + p.Location,
			},
		},
		{
			Title: "Chief Complaint",
			Lines: []string{p.ChiefComplaint},
		},
		{
			Title: "Symptom Timeline and Characteristics",
			Lines: timelineLines(p),
		},
		{
			Title: "Red Flags & Urgent Concerns",
			Lines: redFlagLines(p),
		},
		{
			Title: "Relevant Medical History",
			Lines: historyLines(p),
		},
		{
			Title: "Medications & Allergies",
			Lines: []string{
				"Medications: " + joinOr(p.Medications, "None reported"),
				"Allergies: " + joinOr(p.Allergies, "None reported"),
			},
		},
		{
			Title: "Suggested Focus Areas for Physician",
			Lines: focusLines(p),
		},
	}
}

func timelineLines(p extract.PatientProfile) []string {
	return []string{
		"Duration: " + p.Duration,
		"Triggers: " + joinOr(p.Triggers, extract.NotYetRecorded),
		"Characteristics: " + joinOr(p.Characteristics, extract.NotYetRecorded),
		"Associated Symptoms: " + joinOr(p.AssociatedSymptoms, extract.NotYetRecorded),
	}
}

func redFlagLines(p extract.PatientProfile) []string {
	if len(p.RedFlags) == 0 {
		return []string{"No urgent concerns identified from the interview."}
	}
	lines := make([]string, 0, len(p.RedFlags))
	for _, f := range p.RedFlags {
		lines = append(lines, "! "+f)
	}
	return lines
}

func historyLines(p extract.PatientProfile) []string {
	return []string{
		"Personal: " + joinOr(p.MedicalHistory, "None reported"),
		"Family: " + joinOr(p.FamilyHistory, "None reported"),
	}
}

// focusLines derives exam suggestions from the red-flag set. Cardiac
// flags carry the workup suggestions the original summary shows.
func focusLines(p extract.PatientProfile) []string {
	for _, f := range p.RedFlags {
		if strings.Contains(f, "cardiac") {
			return []string{
				"Perform cardiovascular examination",
				"Order EKG and cardiac biomarkers",
				"Assess cardiovascular risk factors",
				"Consider stress test or cardiology referral",
			}
		}
	}
	if len(p.RedFlags) > 0 {
		return []string{
			fmt.Sprintf("Evaluate flagged concerns first (%d identified)", len(p.RedFlags)),
			"Review symptom timeline against red flags",
		}
	}
	return []string{
		"Review chief complaint and symptom timeline",
		"Confirm medication and allergy list",
	}
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, "; ")
}
