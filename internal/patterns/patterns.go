package patterns

import (
	"regexp"
	"strings"
)

// Policy controls how a field's rules combine.
type Policy int

const (
	// FirstMatch fields take the first rule that yields a non-empty value
	// and stop. Scalars: name, age, location, duration.
	FirstMatch Policy = iota
	// CollectAll fields gather candidates from every matching rule,
	// deduplicate, and cap. Lists: triggers, characteristics, symptoms,
	// medications, histories, allergies.
	CollectAll
)

// Rule is one (condition, extractor) pair in a field's ordered table.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	// Extract maps one submatch set to candidate values. When nil, the
	// first capture group is used (or the whole match if there is none).
	Extract func(match []string) []string
}

func (r Rule) candidates(match []string) []string {
	if r.Extract != nil {
		return r.Extract(match)
	}
	if len(match) > 1 {
		return []string{match[1]}
	}
	return []string{match[0]}
}

// Field is an ordered rule table with a combination policy and a surfacing
// cap. Caps only apply to CollectAll fields; 0 means unbounded.
type Field struct {
	Name   string
	Policy Policy
	Cap    int
	Rules  []Rule
}

// Apply evaluates the field's rules against lower-cased patient text.
// FirstMatch fields return at most one value; CollectAll fields return the
// deduplicated candidate list in first-seen order, truncated to the cap.
func (f Field) Apply(text string) []string {
	if f.Policy == FirstMatch {
		for _, rule := range f.Rules {
			match := rule.Pattern.FindStringSubmatch(text)
			if match == nil {
				continue
			}
			for _, c := range rule.candidates(match) {
				if cleaned := CleanCandidate(c); cleaned != "" {
					return []string{cleaned}
				}
			}
		}
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	for _, rule := range f.Rules {
		for _, match := range rule.Pattern.FindAllStringSubmatch(text, -1) {
			for _, c := range rule.candidates(match) {
				cleaned := CleanCandidate(c)
				if cleaned == "" {
					continue
				}
				key := strings.ToLower(cleaned)
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, cleaned)
			}
		}
	}
	if f.Cap > 0 && len(out) > f.Cap {
		out = out[:f.Cap]
	}
	return out
}

// fillerPrefixes are stop words trimmed off the front of a candidate.
var fillerPrefixes = []string{"the", "a", "an", "my", "some", "just", "really", "very", "i"}

// fillerSuffixes are trailing words that add nothing to a candidate.
var fillerSuffixes = []string{"though", "too", "now", "lately", "recently"}

var whitespaceRE = regexp.MustCompile(`\s+`)

// CleanCandidate normalizes one extracted value: collapses whitespace,
// strips surrounding punctuation and filler stop words, and rejects
// degenerate results.
func CleanCandidate(s string) string {
	s = whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
	s = strings.Trim(s, ".,!?;:\"' ")

	words := strings.Fields(s)
	for len(words) > 1 && isFiller(words[0], fillerPrefixes) {
		words = words[1:]
	}
	for len(words) > 1 && isFiller(words[len(words)-1], fillerSuffixes) {
		words = words[:len(words)-1]
	}
	s = strings.Join(words, " ")

	if len(s) < 2 || len(s) > 60 {
		return ""
	}
	if isFiller(s, fillerPrefixes) {
		return ""
	}
	return s
}

func isFiller(word string, set []string) bool {
	w := strings.ToLower(word)
	for _, f := range set {
		if w == f {
			return true
		}
	}
	return false
}
