package profile

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var rules = map[Field]string{
	FieldSearchType: "oneof=internship working-student either",
	FieldPlace:      "required",
	FieldRadius:     "min=5,max=200",
	FieldKeywords:   "required",
	FieldHours:      "min=1,max=40",
}

// Store is the mutable profile of one conversation together with its pending question.
// It is owned by a single session and is not safe for concurrent use.
type Store struct {
	defaults Defaults
	validate *validator.Validate
	profile  Profile
	pending  Question
}

// NewStore creates a store initialised with defaults.
func NewStore(defaults Defaults) *Store {
	if defaults.RadiusKm < MinRadiusKm || defaults.RadiusKm > MaxRadiusKm {
		defaults.RadiusKm = DefaultRadiusKm
	}

	s := &Store{
		defaults: defaults,
		validate: validator.New(),
	}
	s.Reset()

	return s
}

// Get returns a copy of the current profile.
func (s *Store) Get() Profile {
	return s.profile.clone()
}

// Set assigns value to field. Values of the wrong type or outside the field's valid
// range are ignored and the previous value is kept; the return value reports whether
// the value was stored.
func (s *Store) Set(field Field, value any) bool {
	switch field {
	case FieldSearchType:
		v, ok := value.(SearchType)
		if !ok || !s.valid(field, string(v)) {
			return false
		}
		s.profile.SearchType = v
	case FieldPlace:
		v, ok := value.(string)
		v = strings.TrimSpace(v)
		if !ok || !s.valid(field, v) {
			return false
		}
		s.profile.Place = v
	case FieldKeywords:
		v, ok := value.(string)
		v = strings.TrimSpace(v)
		if !ok || !s.valid(field, v) {
			return false
		}
		s.profile.Keywords = v
	case FieldRadius:
		v, ok := value.(int)
		if !ok || !s.valid(field, v) {
			return false
		}
		s.profile.RadiusKm = v
	case FieldHours:
		v, ok := value.(int)
		if !ok || !s.valid(field, v) {
			return false
		}
		s.profile.HoursPerWeek = &v
	default:
		return false
	}

	return true
}

// Reset restores the defaults and clears the pending question.
func (s *Store) Reset() {
	s.profile = Profile{
		RadiusKm:     s.defaults.RadiusKm,
		FieldOfStudy: s.defaults.FieldOfStudy,
		Semester:     s.defaults.Semester,
		Interests:    append([]string(nil), s.defaults.Interests...),
	}
	s.pending = QuestionNone
}

// Pending returns the question the next turn is expected to answer.
func (s *Store) Pending() Question {
	return s.pending
}

// SetPending marks q as the question awaiting an answer. QuestionNone clears it.
func (s *Store) SetPending(q Question) {
	s.pending = q
}

func (s *Store) valid(field Field, value any) bool {
	return s.validate.Var(value, rules[field]) == nil
}
