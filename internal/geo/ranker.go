package geo

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/jobchat/internal/recommend"
)

var parenthetical = regexp.MustCompile(`\(.*?\)`)

// PointResolver resolves a place name; nil means unresolved.
type PointResolver interface {
	Resolve(ctx context.Context, name string) *Point
}

// RankedMatch is a recommendation with its distance from the search center.
type RankedMatch struct {
	recommend.Match
	// DistanceKm is nil when either end could not be resolved.
	DistanceKm *float64
}

// Ranker attaches distances to matches and filters them by radius.
type Ranker struct {
	resolver PointResolver
	workers  int
	logger   *zap.Logger
}

// NewRanker creates a ranker. With workers <= 1 locations are resolved one at a time.
func NewRanker(resolver PointResolver, workers int, logger *zap.Logger) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers < 1 {
		workers = 1
	}

	return &Ranker{resolver: resolver, workers: workers, logger: logger}
}

// RankAndFilter returns the matches within radiusKm of center followed by those
// whose location could not be resolved, each group sorted by rank. Matches farther
// than radiusKm are dropped. When center itself cannot be resolved every match is
// returned unfiltered, in input order, without a distance.
func (r *Ranker) RankAndFilter(ctx context.Context, matches []recommend.Match, center string, radiusKm int) []RankedMatch {
	origin := r.resolver.Resolve(ctx, center)
	if origin == nil {
		r.logger.Warn("search center unresolved, skipping distance filter", zap.String("center", center))

		out := make([]RankedMatch, 0, len(matches))
		for _, m := range matches {
			out = append(out, RankedMatch{Match: m})
		}
		return out
	}

	distances := r.distances(ctx, *origin, matches)

	within := make([]RankedMatch, 0, len(matches))
	unknown := make([]RankedMatch, 0)
	dropped := 0
	for i, m := range matches {
		d := distances[i]
		switch {
		case d == nil:
			unknown = append(unknown, RankedMatch{Match: m})
		case *d <= float64(radiusKm):
			within = append(within, RankedMatch{Match: m, DistanceKm: d})
		default:
			dropped++
		}
	}

	SortByRank(within)
	SortByRank(unknown)

	r.logger.Debug("distance ranking",
		zap.String("center", center),
		zap.Int("radius_km", radiusKm),
		zap.Int("within", len(within)),
		zap.Int("unknown", len(unknown)),
		zap.Int("dropped", dropped),
	)

	return append(within, unknown...)
}

func (r *Ranker) distances(ctx context.Context, origin Point, matches []recommend.Match) []*float64 {
	distances := make([]*float64, len(matches))

	measure := func(i int) {
		point := r.resolver.Resolve(ctx, LocationKey(matches[i].Location))
		if point == nil {
			return
		}
		d := DistanceKm(origin, *point)
		distances[i] = &d
	}

	if r.workers == 1 {
		for i := range matches {
			measure(i)
		}
		return distances
	}

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i := range matches {
		i := i
		g.Go(func() error {
			measure(i)
			return nil
		})
	}
	_ = g.Wait()

	return distances
}

// LocationKey reduces a match location such as "Köln (Ehrenfeld), NRW" to the
// place name used for geocoding.
func LocationKey(location string) string {
	place, _, _ := strings.Cut(location, ",")
	return strings.TrimSpace(parenthetical.ReplaceAllString(place, ""))
}

// SortByRank orders matches by ascending rank, keeping matches with a distance ahead
// of those without one. Ties keep their input order, so sorting RankAndFilter output
// again leaves it unchanged.
func SortByRank(matches []RankedMatch) {
	slices.SortStableFunc(matches, func(a, b RankedMatch) int {
		if ak, bk := a.DistanceKm == nil, b.DistanceKm == nil; ak != bk {
			if ak {
				return 1
			}
			return -1
		}
		return a.RankKey() - b.RankKey()
	})
}
