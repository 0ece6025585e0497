package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spigell/jobchat/internal/profile"
)

func TestNextQuestionOrder(t *testing.T) {
	store := newStore()

	assert.Equal(t, QuestionSearchType, NextQuestion(store))
	assert.Equal(t, profile.QuestionNone, store.Pending())

	// hours and keywords present do not skip the earlier slots
	store.Set(profile.FieldHours, 20)
	store.Set(profile.FieldKeywords, "lean")
	assert.Equal(t, QuestionSearchType, NextQuestion(store))

	store.Set(profile.FieldSearchType, profile.SearchInternship)
	assert.Equal(t, QuestionPlace, NextQuestion(store))
	assert.Equal(t, profile.QuestionPlace, store.Pending())

	store.Set(profile.FieldPlace, "Bonn")
	assert.Empty(t, NextQuestion(store))
	assert.Equal(t, profile.QuestionNone, store.Pending())
}

func TestNextQuestionHoursThenKeywords(t *testing.T) {
	store := newStore()
	store.Set(profile.FieldSearchType, profile.SearchEither)
	store.Set(profile.FieldPlace, "Bonn")

	assert.Equal(t, QuestionHours, NextQuestion(store))
	assert.Equal(t, profile.QuestionHours, store.Pending())

	store.Set(profile.FieldHours, 1)
	assert.Equal(t, QuestionKeywords, NextQuestion(store))
	assert.Equal(t, profile.QuestionKeywords, store.Pending())
}

func TestConversationByShortAnswers(t *testing.T) {
	store := newStore()
	e := NewExtractor(nil, nil)

	turns := []struct {
		text string
		next string
	}{
		{text: "hello", next: QuestionSearchType},
		{text: "an internship", next: QuestionPlace},
		{text: "gummersbach", next: QuestionHours},
		{text: "a lot", next: QuestionHours},
		{text: "18", next: QuestionKeywords},
		{text: "Quality Management etc.", next: ""},
	}

	for _, turn := range turns {
		e.Extract(turn.text, store)
		assert.Equal(t, turn.next, NextQuestion(store), "after %q", turn.text)
	}

	p := store.Get()
	assert.Equal(t, profile.SearchInternship, p.SearchType)
	assert.Equal(t, "Gummersbach", p.Place)
	assert.Equal(t, 18, *p.HoursPerWeek)
	assert.Equal(t, "quality management", p.Keywords)
}
