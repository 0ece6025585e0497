package recommend

import (
	"regexp"
	"strconv"
)

// UnrankedKey is the sort key of matches without a usable rank.
const UnrankedKey = 9999

var leadingInt = regexp.MustCompile(`^\s*([+-]?\d+)`)

// Match is one recommendation returned by the service.
type Match struct {
	// Rank is kept as text; the service sends it either as a number or a numeric string.
	Rank     string   `json:"rank"`
	Title    string   `json:"title"`
	Company  string   `json:"company"`
	Location string   `json:"location"`
	URL      string   `json:"url"`
	Reasons  []string `json:"reasons"`
}

// RankKey parses the leading integer of Rank. Missing or non-numeric ranks sort last.
func (m Match) RankKey() int {
	sub := leadingInt.FindStringSubmatch(m.Rank)
	if sub == nil {
		return UnrankedKey
	}

	v, err := strconv.Atoi(sub[1])
	if err != nil {
		return UnrankedKey
	}

	return v
}
