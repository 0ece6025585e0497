package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/jobchat/internal/geo"
	"github.com/spigell/jobchat/internal/recommend"
)

// Ranker attaches distances and drops matches outside the radius.
type Ranker interface {
	RankAndFilter(ctx context.Context, matches []recommend.Match, center string, radiusKm int) []geo.RankedMatch
}

type DistanceConfig struct {
	Center   string
	RadiusKm int
}

type DistanceDeps struct {
	Ranker Ranker
	Logger *zap.Logger
}

type distanceFilter struct {
	cfg    DistanceConfig
	deps   *DistanceDeps
	reason string
}

// NewDistance creates a filter that keeps matches within the radius around the center.
func NewDistance(cfg DistanceConfig, deps *DistanceDeps) Filter {
	return &distanceFilter{cfg: cfg, deps: deps}
}

func (f *distanceFilter) Name() string { return "distance" }

func (f *distanceFilter) Disable(reason string) {
	if reason == "" {
		reason = "disabled"
	}
	f.reason = reason
}

func (f *distanceFilter) IsEnabled() bool { return f.reason == "" }

func (f *distanceFilter) Validate() error {
	if f.deps == nil || f.deps.Ranker == nil {
		return fmt.Errorf("ranker is required")
	}

	if f.deps.Logger == nil {
		return fmt.Errorf("logger is required")
	}

	if f.cfg.RadiusKm <= 0 {
		return fmt.Errorf("radius must be positive, got %d", f.cfg.RadiusKm)
	}

	return nil
}

func (f *distanceFilter) Apply(ctx context.Context, matches []geo.RankedMatch) ([]geo.RankedMatch, Step, error) {
	initial := len(matches)

	plain := make([]recommend.Match, 0, len(matches))
	for _, m := range matches {
		plain = append(plain, m.Match)
	}

	ranked := f.deps.Ranker.RankAndFilter(ctx, plain, f.cfg.Center, f.cfg.RadiusKm)
	if dropped := initial - len(ranked); dropped > 0 {
		f.deps.Logger.Info("excluding matches outside the radius",
			zap.String("center", f.cfg.Center),
			zap.Int("radius_km", f.cfg.RadiusKm),
			zap.Int("dropped", dropped),
			zap.Int("matches_left", len(ranked)),
		)
	}

	return ranked, Step{Initial: initial, Dropped: initial - len(ranked), Left: len(ranked)}, nil
}

func (f *distanceFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{
			"center":    f.cfg.Center,
			"radius_km": strconv.Itoa(f.cfg.RadiusKm),
		},
	}
}
