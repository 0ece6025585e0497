package dialogue

import "github.com/spigell/jobchat/internal/profile"

const (
	QuestionSearchType = "Are you looking for a working-student job, an internship, or either?"
	QuestionPlace      = "Which city are you searching in? (e.g. Gummersbach)"
	QuestionHours      = "How many hours per week? (e.g. 18)"
	QuestionKeywords   = "Which keywords? (e.g. project management quality management)"
)

// NextQuestion returns the question for the first missing slot, in the order search
// type, place, hours, keywords, and records it as pending. It returns "" and clears
// the pending question once every slot is present.
//
// The search type question has no narrow parser, so it leaves nothing pending and
// the reply goes through the general rules.
func NextQuestion(store *profile.Store) string {
	p := store.Get()

	switch {
	case p.SearchType == profile.SearchUnknown:
		store.SetPending(profile.QuestionNone)
		return QuestionSearchType
	case p.Place == "":
		store.SetPending(profile.QuestionPlace)
		return QuestionPlace
	case !p.HasHours():
		store.SetPending(profile.QuestionHours)
		return QuestionHours
	case p.Keywords == "":
		store.SetPending(profile.QuestionKeywords)
		return QuestionKeywords
	}

	store.SetPending(profile.QuestionNone)
	return ""
}
