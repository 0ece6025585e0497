// Package dialogue turns free-text turns into profile slots and decides which question to ask next.
package dialogue

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobchat/internal/profile"
)

var bareHours = regexp.MustCompile(`(?i)^\s*(\d{1,3})\s*(?:hours?|hrs?|h)?\s*$`)

// Extractor applies a pending-answer parser or the general rules to a turn.
type Extractor struct {
	rules  []Rule
	logger *zap.Logger
}

// NewExtractor creates an extractor. Nil rules means DefaultRules.
func NewExtractor(rules []Rule, logger *zap.Logger) *Extractor {
	if rules == nil {
		rules = DefaultRules()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{rules: rules, logger: logger}
}

// Extract mutates store with whatever the turn provides. Unparsable input leaves
// the slots untouched.
func (e *Extractor) Extract(text string, store *profile.Store) {
	text = strings.TrimSpace(text)

	if pending := store.Pending(); pending != profile.QuestionNone {
		e.answer(pending, text, store)
		return
	}

	lower := strings.ToLower(text)
	for _, rule := range e.rules {
		if rule.When != nil && !rule.When(store.Get()) {
			continue
		}

		subject := lower
		if rule.Original {
			subject = text
		}

		match := rule.Pattern.FindStringSubmatch(subject)
		if match == nil || rule.Group >= len(match) {
			continue
		}

		value, ok := rule.Normalize(match[rule.Group])
		if !ok {
			continue
		}

		if store.Set(rule.Field, value) {
			e.logger.Debug("slot extracted",
				zap.String("rule", rule.Name),
				zap.String("field", string(rule.Field)),
				zap.Any("value", value),
			)
		}
	}
}

// answer treats the whole turn as the reply to the pending question. The pending
// question is cleared afterwards, except for hours, which stays pending until a
// valid number arrives.
func (e *Extractor) answer(pending profile.Question, text string, store *profile.Store) {
	switch pending {
	case profile.QuestionPlace:
		if p := NormalizePlace(text); p != "" {
			store.Set(profile.FieldPlace, p)
		}
		store.SetPending(profile.QuestionNone)
	case profile.QuestionKeywords:
		if kw := NormalizeKeywords(strings.ToLower(text)); kw != "" {
			store.Set(profile.FieldKeywords, kw)
		}
		store.SetPending(profile.QuestionNone)
	case profile.QuestionHours:
		m := bareHours.FindStringSubmatch(text)
		if m == nil {
			e.logger.Debug("hours answer not understood, asking again")
			return
		}
		hours, err := strconv.Atoi(m[1])
		if err != nil || !store.Set(profile.FieldHours, hours) {
			e.logger.Debug("hours answer out of range, asking again", zap.String("answer", m[1]))
			return
		}
		store.SetPending(profile.QuestionNone)
	default:
		store.SetPending(profile.QuestionNone)
	}
}
