package filtering

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spigell/jobchat/internal/geo"
)

// DefaultLimit is the number of recommendations shown per search.
const DefaultLimit = 5

type limitFilter struct {
	max int
}

// NewLimit creates a filter that keeps the first limit matches.
func NewLimit(limit int) Filter {
	return &limitFilter{max: limit}
}

func (f *limitFilter) Name() string { return "limit" }

func (f *limitFilter) Disable(string) {}

func (f *limitFilter) IsEnabled() bool { return true }

func (f *limitFilter) Validate() error {
	if f.max <= 0 {
		return fmt.Errorf("limit must be positive, got %d", f.max)
	}
	return nil
}

func (f *limitFilter) Apply(_ context.Context, matches []geo.RankedMatch) ([]geo.RankedMatch, Step, error) {
	initial := len(matches)
	if initial > f.max {
		matches = matches[:f.max]
	}

	return matches, Step{Initial: initial, Dropped: initial - len(matches), Left: len(matches)}, nil
}

func (f *limitFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true, Details: map[string]string{"max": strconv.Itoa(f.max)}}
}
