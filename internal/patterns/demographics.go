package patterns

import (
	"regexp"
	"strings"
)

// Demographics holds the identity fields recovered from a transcript.
// Empty strings mean the field was not found; the extraction engine maps
// those to its sentinels.
type Demographics struct {
	Name     string
	Age      string
	Location string
	// ConsumedFirst reports that the strict comma form matched the first
	// patient utterance, so that utterance must not feed the chief
	// complaint.
	ConsumedFirst bool
}

// structuredIdentityRE matches the "Name, Age, Location" reply to the
// opening question, with an optional greeting or "I'm" lead-in.
var structuredIdentityRE = regexp.MustCompile(`^\s*(?i:(?:hi|hello|hey)[,!. ]+\s*)?(?i:(?:i'?m|my name is)\s+)?([A-Za-z][A-Za-z.'\-]*(?:\s+[A-Za-z][A-Za-z.'\-]*){0,3}),\s*(\d{1,3})\s*,\s*([A-Za-z][A-Za-z .'\-]*?)\s*[.!]?\s*$`)

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bmy name is\s+([a-z][a-z'\-]+(?:\s+[a-z][a-z'\-]+){0,2})`),
	regexp.MustCompile(`(?i)\bi'?m\s+([a-z][a-z'\-]+(?:\s+[a-z][a-z'\-]+){0,2})`),
	regexp.MustCompile(`(?i)\bi am\s+([a-z][a-z'\-]+(?:\s+[a-z][a-z'\-]+){0,2})`),
	regexp.MustCompile(`(?i)\bthis is\s+([a-z][a-z'\-]+(?:\s+[a-z][a-z'\-]+){0,2})`),
	regexp.MustCompile(`(?i)\bcall me\s+([a-z][a-z'\-]+)`),
}

var agePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,3})\s+years?\s+old\b`),
	regexp.MustCompile(`\bi(?:'m| am)\s+(\d{1,3})\b`),
	regexp.MustCompile(`\bage\s+(?:is\s+)?(\d{1,3})\b`),
	regexp.MustCompile(`\bturned\s+(\d{1,3})\b`),
}

var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bi live in\s+([a-z][a-z .'\-]{1,40}?)(?:[,.!?;]|$)`),
	regexp.MustCompile(`(?i)\bi'?m from\s+([a-z][a-z .'\-]{1,40}?)(?:[,.!?;]|$)`),
	regexp.MustCompile(`(?i)\bi am from\s+([a-z][a-z .'\-]{1,40}?)(?:[,.!?;]|$)`),
	regexp.MustCompile(`(?i)\blocated in\s+([a-z][a-z .'\-]{1,40}?)(?:[,.!?;]|$)`),
	regexp.MustCompile(`(?i)\bhere in\s+([a-z][a-z .'\-]{1,40}?)(?:[,.!?;]|$)`),
}

// nameStopWords are words that follow "I'm ..." without being a name.
// The list is a heuristic guard, not a grammar.
var nameStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "so": true, "not": true, "and": true,
	"very": true, "really": true, "just": true, "still": true, "also": true,
	"here": true, "new": true, "back": true, "in": true, "at": true, "on": true,
	"feeling": true, "having": true, "getting": true, "going": true,
	"trying": true, "calling": true, "experiencing": true, "struggling": true,
	"worried": true, "scared": true, "anxious": true, "afraid": true,
	"concerned": true, "unsure": true, "sure": true, "unable": true,
	"fine": true, "good": true, "okay": true, "ok": true, "great": true,
	"sorry": true, "sick": true, "tired": true, "dizzy": true,
	"nauseous": true, "pregnant": true, "allergic": true,
	"diabetic": true, "asthmatic": true, "hypertensive": true,
}

// ExtractDemographics recovers name, age, and location. The strict comma
// form on the first patient utterance wins outright; only when it fails do
// the independent loose patterns scan the accumulated patient text. Both
// tiers see patient-authored text only, never the full transcript: the
// interviewer introduces itself by name in the greeting, and an
// interviewer turn must never satisfy a name, age, or location pattern.
func ExtractDemographics(firstPatient, patientText string) Demographics {
	if m := structuredIdentityRE.FindStringSubmatch(firstPatient); m != nil {
		return Demographics{
			Name:          strings.TrimSpace(m[1]),
			Age:           m[2],
			Location:      strings.TrimSpace(m[3]),
			ConsumedFirst: true,
		}
	}

	d := Demographics{}
	for _, re := range namePatterns {
		m := re.FindStringSubmatch(patientText)
		if m == nil {
			continue
		}
		if name := nameFromCapture(m[1]); name != "" {
			d.Name = name
			break
		}
	}

	lower := strings.ToLower(patientText)
	for _, re := range agePatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			d.Age = m[1]
			break
		}
	}
	for _, re := range locationPatterns {
		if m := re.FindStringSubmatch(patientText); m != nil {
			if loc := titleWords(strings.Trim(m[1], " .,")); loc != "" {
				d.Location = loc
				break
			}
		}
	}
	return d
}

// nameFromCapture keeps leading words that plausibly form a name (max two)
// and rejects captures that start with a non-name word.
func nameFromCapture(raw string) string {
	words := strings.Fields(raw)
	kept := make([]string, 0, 2)
	for _, w := range words {
		if nameStopWords[strings.ToLower(w)] {
			break
		}
		kept = append(kept, w)
		if len(kept) == 2 {
			break
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return titleWords(strings.Join(kept, " "))
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
