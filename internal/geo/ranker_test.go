package geo

import (
	"context"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/jobchat/internal/recommend"
)

type fakeResolver struct {
	mu     sync.Mutex
	points map[string]*Point
	calls  []string
}

func (f *fakeResolver) Resolve(_ context.Context, name string) *Point {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.points[name]
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{points: map[string]*Point{
		"Gummersbach": &gummersbach,
		"Köln":        &cologne,
		"Bonn":        &bonn,
		"Dortmund":    &dortmund,
	}}
}

func titles(matches []RankedMatch) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Title)
	}
	return out
}

func sampleMatches() []recommend.Match {
	return []recommend.Match{
		{Rank: "4", Title: "far", Location: "Dortmund"},
		{Rank: "3", Title: "unknown-3", Location: "Atlantis"},
		{Rank: "2", Title: "cologne", Location: "Köln (Ehrenfeld), NRW"},
		{Rank: "", Title: "unranked-bonn", Location: "Bonn"},
		{Rank: "1", Title: "home", Location: "Gummersbach"},
		{Rank: "1", Title: "unknown-1", Location: ""},
		{Rank: "2", Title: "bonn-2", Location: "Bonn, Germany"},
	}
}

func TestRankAndFilter(t *testing.T) {
	resolver := newFakeResolver()
	ranked := NewRanker(resolver, 1, nil).RankAndFilter(context.Background(), sampleMatches(), "Gummersbach", 50)

	assert.Equal(t, []string{"home", "cologne", "bonn-2", "unranked-bonn", "unknown-1", "unknown-3"}, titles(ranked))

	for _, m := range ranked {
		if m.DistanceKm != nil {
			assert.LessOrEqual(t, *m.DistanceKm, 50.0)
		}
	}

	require.NotNil(t, ranked[0].DistanceKm)
	assert.Zero(t, *ranked[0].DistanceKm)
	assert.Nil(t, ranked[4].DistanceKm)
	assert.Nil(t, ranked[5].DistanceKm)

	assert.Equal(t, "Gummersbach", resolver.calls[0])
	assert.Contains(t, resolver.calls, "Köln")
}

func TestRankAndFilterDropsEverythingBeyondRadius(t *testing.T) {
	ranked := NewRanker(newFakeResolver(), 1, nil).RankAndFilter(context.Background(), sampleMatches(), "Gummersbach", 5)

	assert.Equal(t, []string{"home", "unknown-1", "unknown-3"}, titles(ranked))
}

func TestRankAndFilterUnresolvedCenterKeepsInputOrder(t *testing.T) {
	matches := sampleMatches()
	ranked := NewRanker(newFakeResolver(), 1, nil).RankAndFilter(context.Background(), matches, "Atlantis", 5)

	require.Len(t, ranked, len(matches))
	for i, m := range ranked {
		assert.Equal(t, matches[i].Title, m.Title)
		assert.Nil(t, m.DistanceKm)
	}
}

func TestRankAndFilterIsIdempotentUnderSort(t *testing.T) {
	ranked := NewRanker(newFakeResolver(), 1, nil).RankAndFilter(context.Background(), sampleMatches(), "Köln", 100)

	resorted := slices.Clone(ranked)
	SortByRank(resorted)

	assert.Equal(t, titles(ranked), titles(resorted))
}

func TestRankAndFilterParallelMatchesSequential(t *testing.T) {
	sequential := NewRanker(newFakeResolver(), 1, nil).RankAndFilter(context.Background(), sampleMatches(), "Gummersbach", 50)
	parallel := NewRanker(newFakeResolver(), 4, nil).RankAndFilter(context.Background(), sampleMatches(), "Gummersbach", 50)

	assert.Equal(t, titles(sequential), titles(parallel))
}

func TestLocationKey(t *testing.T) {
	tests := map[string]string{
		"Köln (Ehrenfeld), NRW": "Köln",
		"Bonn":                  "Bonn",
		" (remote) Essen ":      "Essen",
		"":                      "",
		"Hagen, Westfalen":      "Hagen",
	}

	for in, want := range tests {
		assert.Equal(t, want, LocationKey(in), "location %q", in)
	}
}
