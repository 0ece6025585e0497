// Package chat holds the message stream shown to the user and its renderers.
package chat

import (
	"strconv"
	"strings"
	"sync"

	"github.com/spigell/jobchat/internal/geo"
)

const (
	// MaxReasons is the number of match reasons shown on a card.
	MaxReasons = 4

	missingRank     = "?"
	missingText     = "—"
	UnknownDistance = "unknown"
	LinkText        = "Link to the posting"
	NoLinkText      = "No link available"
)

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is one entry of the conversation, optionally carrying result cards.
type Message struct {
	Role  Role   `json:"role"`
	Text  string `json:"text"`
	Cards []Card `json:"cards,omitempty"`
}

// Card is the display form of a ranked match.
type Card struct {
	Rank     string   `json:"rank"`
	Title    string   `json:"title"`
	Company  string   `json:"company"`
	Location string   `json:"location"`
	Distance string   `json:"distance"`
	Reasons  []string `json:"reasons,omitempty"`
	URL      string   `json:"url,omitempty"`
	LinkText string   `json:"link_text"`
}

// Presenter receives every message a session produces.
type Presenter interface {
	Present(msg Message)
}

// NewCard converts a match into a card, substituting placeholders for missing values.
func NewCard(m geo.RankedMatch) Card {
	card := Card{
		Rank:     orDefault(m.Rank, missingRank),
		Title:    orDefault(m.Title, missingText),
		Company:  orDefault(m.Company, missingText),
		Location: orDefault(m.Location, missingText),
		Distance: UnknownDistance,
		URL:      strings.TrimSpace(m.URL),
		LinkText: NoLinkText,
	}

	if m.DistanceKm != nil {
		card.Distance = strconv.FormatFloat(*m.DistanceKm, 'f', -1, 64) + " km"
	}

	if card.URL != "" {
		card.LinkText = LinkText
	}

	for _, r := range m.Reasons {
		if len(card.Reasons) == MaxReasons {
			break
		}
		card.Reasons = append(card.Reasons, r)
	}

	return card
}

func NewCards(matches []geo.RankedMatch) []Card {
	cards := make([]Card, 0, len(matches))
	for _, m := range matches {
		cards = append(cards, NewCard(m))
	}
	return cards
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

// Recorder keeps presented messages in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Present(msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// Messages returns a copy of everything presented so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Reset drops the recorded messages.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}
