package filtering

import (
	"context"

	"github.com/spigell/jobchat/internal/geo"
)

type rankOrderFilter struct{}

// NewRankOrder creates a filter that stable-sorts matches by rank.
func NewRankOrder() Filter {
	return &rankOrderFilter{}
}

func (f *rankOrderFilter) Name() string { return "rank_order" }

func (f *rankOrderFilter) Disable(string) {}

func (f *rankOrderFilter) IsEnabled() bool { return true }

func (f *rankOrderFilter) Validate() error { return nil }

func (f *rankOrderFilter) Apply(_ context.Context, matches []geo.RankedMatch) ([]geo.RankedMatch, Step, error) {
	geo.SortByRank(matches)
	return matches, Step{Initial: len(matches), Left: len(matches)}, nil
}
