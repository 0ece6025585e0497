// Package profile holds the structured job-search profile that a conversation fills in turn by turn.
package profile

import "slices"

// SearchType is the kind of position the user is looking for.
type SearchType string

const (
	SearchUnknown        SearchType = ""
	SearchInternship     SearchType = "internship"
	SearchWorkingStudent SearchType = "working-student"
	SearchEither         SearchType = "either"
)

// Field names a single slot of the profile.
type Field string

const (
	FieldSearchType Field = "searchType"
	FieldPlace      Field = "place"
	FieldRadius     Field = "radiusKm"
	FieldKeywords   Field = "keywords"
	FieldHours      Field = "hoursPerWeek"
)

// Question tags the slot that the next raw turn is expected to answer.
type Question string

const (
	QuestionNone     Question = ""
	QuestionPlace    Question = "place"
	QuestionHours    Question = "hours"
	QuestionKeywords Question = "keywords"
)

const (
	DefaultRadiusKm = 30
	MinRadiusKm     = 5
	MaxRadiusKm     = 200
	MinHours        = 1
	MaxHours        = 40
)

// Profile is a snapshot of the accumulated slots.
type Profile struct {
	SearchType SearchType `json:"searchType,omitempty"`
	Place      string     `json:"place,omitempty"`
	RadiusKm   int        `json:"radiusKm"`
	Keywords   string     `json:"keywords,omitempty"`
	// HoursPerWeek is nil until the user supplied a valid value.
	HoursPerWeek *int `json:"hoursPerWeek,omitempty"`

	FieldOfStudy string   `json:"fieldOfStudy"`
	Semester     int      `json:"semester"`
	Interests    []string `json:"interests"`
}

// Defaults are the fixed, non-elicited parts of a fresh profile.
type Defaults struct {
	FieldOfStudy string
	Semester     int
	Interests    []string
	RadiusKm     int
}

// DefaultDefaults mirrors the values the recommendation backend was tuned for.
func DefaultDefaults() Defaults {
	return Defaults{
		FieldOfStudy: "Industrial Engineering",
		Semester:     5,
		Interests:    []string{"Industrial Engineering"},
		RadiusKm:     DefaultRadiusKm,
	}
}

// HasHours reports whether hours per week were explicitly provided.
func (p Profile) HasHours() bool {
	return p.HoursPerWeek != nil
}

// Hours returns the hours per week or fallback when unset.
func (p Profile) Hours(fallback int) int {
	if p.HoursPerWeek == nil {
		return fallback
	}
	return *p.HoursPerWeek
}

// Complete reports whether every elicited slot is present.
func (p Profile) Complete() bool {
	return p.SearchType != SearchUnknown && p.Place != "" && p.HasHours() && p.Keywords != ""
}

func (p Profile) clone() Profile {
	out := p
	if p.HoursPerWeek != nil {
		hours := *p.HoursPerWeek
		out.HoursPerWeek = &hours
	}
	out.Interests = slices.Clone(p.Interests)
	return out
}
