package filtering

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/jobchat/internal/geo"
	"github.com/spigell/jobchat/internal/recommend"
)

type fakeRanker struct {
	center string
	radius int
	keep   int
}

func (f *fakeRanker) RankAndFilter(_ context.Context, matches []recommend.Match, center string, radiusKm int) []geo.RankedMatch {
	f.center, f.radius = center, radiusKm

	out := make([]geo.RankedMatch, 0, len(matches))
	for i, m := range matches {
		if i >= f.keep {
			break
		}
		d := float64(i)
		out = append(out, geo.RankedMatch{Match: m, DistanceKm: &d})
	}
	return out
}

func matches(ranks ...string) []recommend.Match {
	out := make([]recommend.Match, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, recommend.Match{Rank: r, Title: "job " + r})
	}
	return out
}

func ranksOf(ranked []geo.RankedMatch) []string {
	out := make([]string, 0, len(ranked))
	for _, m := range ranked {
		out = append(out, m.Rank)
	}
	return out
}

func pipeline(ranker Ranker, radius, limit int) *Filtering {
	return New([]Filter{
		NewDistance(DistanceConfig{Center: "Gummersbach", RadiusKm: radius}, &DistanceDeps{Ranker: ranker, Logger: zap.NewNop()}),
		NewRankOrder(),
		NewLimit(limit),
	}, nil)
}

func TestRunFilters(t *testing.T) {
	ranker := &fakeRanker{keep: 7}

	got, err := pipeline(ranker, 30, DefaultLimit).RunFilters(context.Background(), Wrap(matches("7", "3", "8", "1", "2", "6", "5", "4")))
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "3", "5", "6"}, ranksOf(got))
	assert.Equal(t, "Gummersbach", ranker.center)
	assert.Equal(t, 30, ranker.radius)
}

func TestRunFiltersFewerThanLimit(t *testing.T) {
	got, err := pipeline(&fakeRanker{keep: 10}, 30, DefaultLimit).RunFilters(context.Background(), Wrap(matches("2", "1")))
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2"}, ranksOf(got))
}

func TestRunFiltersSkipsDisabledDistance(t *testing.T) {
	ranker := &fakeRanker{keep: 0}
	f := pipeline(ranker, 30, 2)
	f.DisableByName("distance", "skip requested via flag")

	got, err := f.RunFilters(context.Background(), Wrap(matches("3", "1", "2")))
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2"}, ranksOf(got))
	assert.Empty(t, ranker.center)

	statuses := f.Describe()
	require.Len(t, statuses, 3)
	assert.False(t, statuses[0].Enabled)
	assert.Equal(t, "skip requested via flag", statuses[0].Reason)
	assert.Equal(t, "30", statuses[0].Details["radius_km"])
	assert.Equal(t, Status{Name: "rank_order", Enabled: true}, statuses[1])
	assert.Equal(t, "2", statuses[2].Details["max"])
}

func TestRunFiltersValidation(t *testing.T) {
	_, err := pipeline(nil, 30, 5).RunFilters(context.Background(), nil)
	assert.ErrorContains(t, err, "distance: ranker is required")

	_, err = pipeline(&fakeRanker{}, 0, 5).RunFilters(context.Background(), nil)
	assert.ErrorContains(t, err, "radius must be positive")

	_, err = pipeline(&fakeRanker{}, 30, 0).RunFilters(context.Background(), nil)
	assert.ErrorContains(t, err, "limit: limit must be positive")
}

func TestRankOrderIsIdempotent(t *testing.T) {
	input := Wrap(matches("2", "", "1", "2"))
	input[1].Title = "unranked"
	input[3].Title = "second two"

	first, _, err := NewRankOrder().Apply(context.Background(), input)
	require.NoError(t, err)
	once := append([]geo.RankedMatch(nil), first...)

	second, _, err := NewRankOrder().Apply(context.Background(), first)
	require.NoError(t, err)

	assert.Equal(t, once, second)
	assert.Equal(t, []string{"1", "2", "2", ""}, ranksOf(second))
	assert.Equal(t, "job 2", second[1].Title)
	assert.Equal(t, "second two", second[2].Title)
}
