package patterns

import (
	"regexp"
	"strings"
)

// fields.go holds the concrete per-field rule tables. Rules are ordered by
// specificity; for FirstMatch fields that order is the precedence.

const (
	numberWords = `(?:a|an|a few|a couple of|couple of|several|\d+|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve)`
	timeUnits   = `(?:minutes?|hours?|days?|weeks?|months?|years?)`
	// shortUnits excludes years so a bare "24 years" never matches: age
	// statements must not be captured as symptom duration.
	shortUnits = `(?:minutes?|hours?|days?|weeks?|months?)`
)

// Duration is a FirstMatch field: the first rule producing a value wins.
var Duration = Field{
	Name:   "duration",
	Policy: FirstMatch,
	Rules: []Rule{
		{
			Name:    "prefixed",
			Pattern: regexp.MustCompile(`(?:for|over|past|last|about|around|almost|nearly)\s+(?:the\s+)?(` + numberWords + `\s+` + timeUnits + `)\b`),
		},
		{
			Name:    "relative",
			Pattern: regexp.MustCompile(`\b(` + numberWords + `\s+` + timeUnits + `)\s+(?:ago|now|back)\b`),
		},
		{
			Name:    "since",
			Pattern: regexp.MustCompile(`\bsince\s+(yesterday|last night|this morning|last week|last month|last year|the weekend)\b`),
		},
		{
			Name:    "bare",
			Pattern: regexp.MustCompile(`\b(` + numberWords + `\s+` + shortUnits + `)\b`),
		},
	},
}

// phrase matches a short free-text tail up to the next clause boundary.
const phrase = `([a-z][a-z ]{1,40}?)(?:[,.!?;]|$)`

// Triggers collects what brings symptoms on; at most 3 are surfaced.
var Triggers = Field{
	Name:   "triggers",
	Policy: CollectAll,
	Cap:    3,
	Rules: []Rule{
		{
			Name:    "when-i",
			Pattern: regexp.MustCompile(`(?:when|whenever)\s+i(?:'m| am)?\s+` + phrase),
			Extract: nonTemporal,
		},
		{
			Name:    "triggered-by",
			Pattern: regexp.MustCompile(`(?:triggered|brought on|caused|set off)\s+by\s+` + phrase),
			Extract: nonTemporal,
		},
		{
			Name:    "worse-with",
			Pattern: regexp.MustCompile(`worse\s+(?:when|with|after|during)\s+` + phrase),
			Extract: nonTemporal,
		},
		{
			Name:    "happens-when",
			Pattern: regexp.MustCompile(`(?:happens|comes on|starts|flares?(?: up)?)\s+(?:when|with|after|during)\s+` + phrase),
			Extract: nonTemporal,
		},
		{
			Name:    "after",
			Pattern: regexp.MustCompile(`\bafter\s+` + phrase),
			Extract: nonTemporal,
		},
		{
			Name:    "during",
			Pattern: regexp.MustCompile(`\bduring\s+` + phrase),
			Extract: nonTemporal,
		},
	},
}

// temporalRE guards trigger rules against relief/timeline phrases like
// "after a minute or two" being read as triggers.
var temporalRE = regexp.MustCompile(`\b(?:minutes?|hours?|days?|weeks?|months?|years?|a while|moment)\b`)

func nonTemporal(m []string) []string {
	if temporalRE.MatchString(m[1]) {
		return nil
	}
	return []string{m[1]}
}

// Characteristics collects pain/symptom qualities; at most 5 are surfaced.
var Characteristics = Field{
	Name:   "characteristics",
	Policy: CollectAll,
	Cap:    5,
	Rules: []Rule{
		keywordRule("sharp", "sharp", `\bsharp\b`),
		keywordRule("dull", "dull", `\bdull\b`),
		keywordRule("burning", "burning", `\bburning\b`),
		keywordRule("throbbing", "throbbing", `\bthrobbing\b`),
		keywordRule("stabbing", "stabbing", `\bstabbing\b`),
		keywordRule("aching", "aching", `\bach(?:ing|y|es)\b`),
		keywordRule("cramping", "cramping", `\bcramp(?:s|ing)?\b`),
		keywordRule("squeezing", "squeezing", `\bsqueez\w*\b`),
		keywordRule("crushing", "crushing", `\bcrushing\b`),
		keywordRule("pressure", "pressure", `\bpressure\b`),
		keywordRule("tightness", "tightness", `\btight(?:ness)?\b`),
		keywordRule("radiating", "radiating", `\bradiat\w*\b`),
		keywordRule("constant", "constant", `\bconstant(?:ly)?\b`),
		keywordRule("intermittent", "intermittent", `\bintermittent\b|comes and goes|on and off`),
		keywordRule("mild", "mild", `\bmild\b`),
		keywordRule("moderate", "moderate", `\bmoderate\b`),
		keywordRule("severe", "severe", `\bsevere\b`),
		keywordRule("worsening", "worsening", `\bworsening\b|getting worse`),
		keywordRule("improving", "improving", `\bimproving\b|getting better`),
	},
}

// AssociatedSymptoms collects co-occurring symptoms, unbounded.
var AssociatedSymptoms = Field{
	Name:   "associatedSymptoms",
	Policy: CollectAll,
	Rules: []Rule{
		keywordRule("dyspnea", "shortness of breath", `short(?:ness)? of breath|breathless|difficulty breathing|trouble breathing|hard to breathe|can'?t breathe`),
		keywordRule("nausea", "nausea", `\bnause(?:a|ous|ated)\b`),
		keywordRule("vomiting", "vomiting", `\bvomit\w*\b|throwing up|threw up`),
		keywordRule("dizziness", "dizziness", `\bdizz(?:y|iness)\b|light-?headed`),
		keywordRule("fatigue", "fatigue", `\bfatigued?\b|exhausted|tired all the time`),
		keywordRule("fever", "fever", `\bfevers?\b|\bfeverish\b`),
		keywordRule("chills", "chills", `\bchills\b`),
		keywordRule("sweating", "sweating", `\bsweat\w*\b`),
		keywordRule("headache", "headache", `\bheadaches?\b`),
		keywordRule("palpitations", "palpitations", `\bpalpitations?\b|heart racing|racing heart|heart pounding`),
		keywordRule("numbness", "numbness", `\bnumb(?:ness)?\b`),
		keywordRule("tingling", "tingling", `\btingl\w*\b`),
		keywordRule("cough", "cough", `\bcough\w*\b`),
		keywordRule("swelling", "swelling", `\bswollen\b|\bswelling\b`),
		keywordRule("appetite", "loss of appetite", `loss of appetite|no appetite|haven'?t been eating`),
	},
}

// Medications collects current medications, unbounded.
var Medications = Field{
	Name:   "medications",
	Policy: CollectAll,
	Rules: []Rule{
		{
			Name:    "taking",
			Pattern: regexp.MustCompile(`(?:taking|i take|prescribed|started on|started taking)\s+([a-z][a-z0-9 \-]{2,30}?)(?:\s+(?:for|every|twice|once|daily|each|at|in|when)\b|[,.!?;]|$)`),
		},
		keywordRule("ibuprofen", "ibuprofen", `\bibuprofen\b|\badvil\b|\bmotrin\b`),
		keywordRule("aspirin", "aspirin", `\baspirin\b`),
		keywordRule("acetaminophen", "acetaminophen", `\bacetaminophen\b|\btylenol\b|\bparacetamol\b`),
		keywordRule("metformin", "metformin", `\bmetformin\b`),
		keywordRule("lisinopril", "lisinopril", `\blisinopril\b`),
		keywordRule("statin", "atorvastatin", `\batorvastatin\b|\blipitor\b`),
		keywordRule("insulin", "insulin", `\binsulin\b`),
		keywordRule("omeprazole", "omeprazole", `\bomeprazole\b|\bprilosec\b`),
		keywordRule("albuterol", "albuterol", `\balbuterol\b`),
		keywordRule("inhaler", "inhaler", `\binhaler\b`),
		keywordRule("levothyroxine", "levothyroxine", `\blevothyroxine\b|\bsynthroid\b`),
		keywordRule("antibiotics", "antibiotics", `\bantibiotics?\b`),
		keywordRule("birth-control", "birth control", `birth control`),
	},
}

const conditionTerms = `diabetes|high blood pressure|hypertension|asthma|heart disease|heart failure|a heart attack|heart attack|a stroke|stroke|cancer|arthritis|depression|anxiety|copd|kidney disease|migraines?|acid reflux|gerd|high cholesterol|thyroid (?:disease|problems)`

// MedicalHistory collects the patient's own prior conditions. First-person
// anchoring keeps family mentions out of this field.
var MedicalHistory = Field{
	Name:   "medicalHistory",
	Policy: CollectAll,
	Rules: []Rule{
		{
			Name:    "diagnosed",
			Pattern: regexp.MustCompile(`diagnosed with\s+([a-z][a-z ]{2,40}?)(?:\s+(?:in|at|when|about|around)\b|[,.!?;]|$)`),
		},
		{
			Name:    "own-history-of",
			Pattern: regexp.MustCompile(`(?:\bmy|\ba|\bpast|\bmedical)\s+history of\s+` + phrase),
		},
		{
			Name:    "i-have",
			Pattern: regexp.MustCompile(`i(?:'ve| have)\s+(?:had\s+)?(` + conditionTerms + `)\b`),
		},
		{
			Name:    "i-had",
			Pattern: regexp.MustCompile(`i had\s+(` + conditionTerms + `|pneumonia|surgery on [a-z ]{2,30}?)(?:[,.!?;]|\s|$)`),
		},
		{
			Name:    "diabetic",
			Pattern: regexp.MustCompile(`i(?:'m| am)\s+(?:a\s+)?(diabetic|asthmatic|hypertensive)\b`),
			Extract: func(m []string) []string { return []string{adjectiveCondition(m[1])} },
		},
	},
}

// FamilyHistory collects conditions attributed to relatives, unbounded.
var FamilyHistory = Field{
	Name:   "familyHistory",
	Policy: CollectAll,
	Rules: []Rule{
		{
			Name:    "relative-has",
			Pattern: regexp.MustCompile(`my\s+(mother|father|mom|dad|brother|sister|grandmother|grandfather|grandma|grandpa|aunt|uncle|parents)\s+(?:has|had|have|died of|died from|passed away from|suffers? from|struggles? with)\s+` + phrase),
			Extract: func(m []string) []string { return []string{m[2] + " (" + m[1] + ")"} },
		},
		{
			Name:    "runs-in-family",
			Pattern: regexp.MustCompile(`(` + conditionTerms + `)\s+runs in (?:my|the|our) family`),
			Extract: func(m []string) []string { return []string{m[1] + " (family)"} },
		},
		{
			Name:    "family-history-of",
			Pattern: regexp.MustCompile(`family history of\s+` + phrase),
		},
	},
}

// Allergies collects reported allergies, unbounded. A single "allergic to
// x, y and z" mention contributes each item separately.
var Allergies = Field{
	Name:   "allergies",
	Policy: CollectAll,
	Rules: []Rule{
		{
			Name:    "allergic-to",
			Pattern: regexp.MustCompile(`allergic to\s+([a-z][a-z, ]{2,60}?)(?:[.!?;]|$)`),
			Extract: func(m []string) []string { return splitList(m[1]) },
		},
		{
			Name:    "allergy-to",
			Pattern: regexp.MustCompile(`allerg(?:y|ies)\s+to\s+([a-z][a-z, ]{2,60}?)(?:[.!?;]|$)`),
			Extract: func(m []string) []string { return splitList(m[1]) },
		},
		keywordRule("nkda", "no known allergies", `no known (?:drug )?allergies`),
	},
}

func keywordRule(name, canonical, pattern string) Rule {
	return Rule{
		Name:    name,
		Pattern: regexp.MustCompile(pattern),
		Extract: func([]string) []string { return []string{canonical} },
	}
}

func adjectiveCondition(adj string) string {
	switch adj {
	case "diabetic":
		return "diabetes"
	case "asthmatic":
		return "asthma"
	case "hypertensive":
		return "hypertension"
	}
	return adj
}

var listSplitRE = regexp.MustCompile(`,|\band\b`)

func splitList(s string) []string {
	parts := listSplitRE.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
