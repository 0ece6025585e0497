package dialogue

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spigell/jobchat/internal/profile"
)

// placeWords captures one to three letter/hyphen tokens.
const placeWords = `([\p{L}\-]+(?:\s+[\p{L}\-]+){0,2})`

// Rule is one independent extraction heuristic. Rules run in order and every
// accepted value overwrites the slot, so for a field matched by several rules
// the later rule wins.
type Rule struct {
	Name  string
	Field profile.Field
	// Pattern is matched against the lowercased turn unless Original is set.
	Pattern  *regexp.Regexp
	Original bool
	// Group is the submatch handed to Normalize; 0 is the whole match.
	Group int
	// When, if set, must hold for the rule to run.
	When func(p profile.Profile) bool
	// Normalize turns the captured text into a slot value; false discards it.
	Normalize func(s string) (any, bool)
}

func constant(v any) func(string) (any, bool) {
	return func(string) (any, bool) { return v, true }
}

func integer(s string) (any, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, false
	}
	return v, true
}

func place(s string) (any, bool) {
	p := NormalizePlace(s)
	return p, p != ""
}

// DefaultTopics is the vocabulary of known keyword topics, in output order.
var DefaultTopics = []string{
	"project management",
	"logistics",
	"supply chain",
	"production",
	"quality management",
	"lean",
	"sap",
}

// DefaultRules returns the general heuristics in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:      "search_type_working_student",
			Field:     profile.FieldSearchType,
			Pattern:   regexp.MustCompile(`working[- ]student|werkstudent`),
			Normalize: constant(profile.SearchWorkingStudent),
		},
		{
			Name:      "search_type_internship",
			Field:     profile.FieldSearchType,
			Pattern:   regexp.MustCompile(`internship`),
			Normalize: constant(profile.SearchInternship),
		},
		{
			Name:      "search_type_either",
			Field:     profile.FieldSearchType,
			Pattern:   regexp.MustCompile(`\b(?:either|both)\b`),
			Normalize: constant(profile.SearchEither),
		},
		{
			Name:      "radius",
			Field:     profile.FieldRadius,
			Pattern:   regexp.MustCompile(`\b(\d{1,3})\s*km\b`),
			Group:     1,
			Normalize: integer,
		},
		{
			Name:      "hours",
			Field:     profile.FieldHours,
			Pattern:   regexp.MustCompile(`\b(\d{1,3})\s*(?:hours?|hrs?|h)\b`),
			Group:     1,
			Normalize: integer,
		},
		{
			Name:      "place_radius_around",
			Field:     profile.FieldPlace,
			Pattern:   regexp.MustCompile(`(?i)\bradius\b.*?\b(?:around|of)\s+` + placeWords),
			Original:  true,
			Group:     1,
			Normalize: place,
		},
		{
			Name:      "place_near",
			Field:     profile.FieldPlace,
			Pattern:   regexp.MustCompile(`(?i)\bnear\s+` + placeWords),
			Original:  true,
			Group:     1,
			Normalize: place,
		},
		{
			Name:      "place_preposition",
			Field:     profile.FieldPlace,
			Pattern:   regexp.MustCompile(`(?i)\b(?:in|at|near|from)\s+` + placeWords),
			Original:  true,
			Group:     1,
			Normalize: place,
		},
		TopicRule(DefaultTopics),
	}
}

// TopicRule matches whole-word topics from vocabulary (hyphens count as spaces) and
// joins every hit, in vocabulary order, into one keyword string. It only runs while
// keywords are unset.
func TopicRule(vocabulary []string) Rule {
	patterns := make([]*regexp.Regexp, 0, len(vocabulary))
	for _, topic := range vocabulary {
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(topic)+`\b`))
	}

	return Rule{
		Name:    "topics",
		Field:   profile.FieldKeywords,
		Pattern: regexp.MustCompile(`(?s).*`),
		When:    func(p profile.Profile) bool { return p.Keywords == "" },
		Normalize: func(s string) (any, bool) {
			text := strings.ReplaceAll(s, "-", " ")
			found := make([]string, 0, len(vocabulary))
			for i, re := range patterns {
				if re.MatchString(text) {
					found = append(found, vocabulary[i])
				}
			}
			kw := NormalizeKeywords(strings.Join(found, " "))
			return kw, kw != ""
		},
	}
}
