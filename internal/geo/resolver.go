package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/spigell/jobchat/internal/utils"
)

const (
	DefaultURL          = "https://nominatim.openstreetmap.org/search"
	DefaultRegion       = "Nordrhein-Westfalen"
	DefaultCountry      = "Deutschland"
	DefaultCountryCodes = "de"
	defaultUserAgent    = "spigell/jobchat (geocoding)"
	defaultLimit        = 5
	defaultTimeout      = 10 * time.Second
)

// DefaultRegionAliases are other spellings of DefaultRegion seen in display names.
var DefaultRegionAliases = []string{"north rhine-westphalia"}

type Config struct {
	URL           string
	Region        string
	RegionAliases []string
	Country       string
	CountryCodes  string
	UserAgent     string
	Limit         int
	// MinInterval is the minimum gap between two uncached requests.
	MinInterval time.Duration
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Resolver looks up place names with a Nominatim-compatible search endpoint and keeps
// only candidates inside one region. Results, including misses, are memoized for the
// life of the resolver; there is no eviction.
type Resolver struct {
	baseURL      string
	region       string
	regionNames  []string
	country      string
	countryCodes string
	userAgent    string
	limit        int
	minInterval  time.Duration

	httpClient *http.Client
	cache      *cache.Cache
	logger     *zap.Logger

	throttleMu  sync.Mutex
	lastRequest time.Time
}

type candidate struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
	Address     struct {
		State string `json:"state"`
	} `json:"address"`
}

func NewResolver(cfg Config, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Resolver{
		baseURL:      firstNonEmpty(cfg.URL, DefaultURL),
		region:       firstNonEmpty(cfg.Region, DefaultRegion),
		country:      firstNonEmpty(cfg.Country, DefaultCountry),
		countryCodes: firstNonEmpty(cfg.CountryCodes, DefaultCountryCodes),
		userAgent:    firstNonEmpty(cfg.UserAgent, defaultUserAgent),
		limit:        cfg.Limit,
		minInterval:  cfg.MinInterval,
		httpClient:   cfg.HTTPClient,
		cache:        cache.New(cache.NoExpiration, 0),
		logger:       logger,
	}

	if r.limit <= 0 {
		r.limit = defaultLimit
	}

	if r.httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		r.httpClient = &http.Client{Timeout: timeout}
	}

	r.regionNames = append(r.regionNames, strings.ToLower(r.region))
	for _, alias := range cfg.RegionAliases {
		if alias = strings.ToLower(strings.TrimSpace(alias)); alias != "" {
			r.regionNames = append(r.regionNames, alias)
		}
	}

	return r
}

// Resolve returns the coordinate of name inside the configured region, or nil when
// the place cannot be resolved. It never fails: transport errors are logged and
// reported as unresolved without being cached, so a later search may retry.
func (r *Resolver) Resolve(ctx context.Context, name string) *Point {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	key := r.cacheKey(name)
	if cached, ok := r.cache.Get(key); ok {
		return cached.(*Point)
	}

	candidates, err := r.search(ctx, name)
	if err != nil {
		r.logger.Warn("geocoding failed", zap.String("place", name), zap.Error(err))
		return nil
	}

	var point *Point
	for _, c := range candidates {
		if r.inRegion(c) {
			point = &Point{Latitude: c.Lat, Longitude: c.Lon}
			break
		}
	}

	if point == nil {
		r.logger.Debug("place unresolved",
			zap.String("place", name),
			zap.String("region", r.region),
			zap.Int("candidates", len(candidates)),
		)
	}

	r.cache.Set(key, point, cache.NoExpiration)

	return point
}

// CacheSize returns the number of memoized lookups.
func (r *Resolver) CacheSize() int {
	return r.cache.ItemCount()
}

func (r *Resolver) cacheKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(r.region)
}

func (r *Resolver) inRegion(c candidate) bool {
	state := strings.ToLower(c.Address.State)
	display := strings.ToLower(c.DisplayName)
	for _, region := range r.regionNames {
		if strings.Contains(state, region) || strings.Contains(display, region) {
			return true
		}
	}
	return false
}

// search returns the raw candidates. A body that is not a JSON array yields no candidates.
func (r *Resolver) search(ctx context.Context, name string) ([]candidate, error) {
	if err := r.throttle(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", strings.Join([]string{name, r.region, r.country}, ", "))
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(r.limit))
	q.Set("addressdetails", "1")
	q.Set("countrycodes", r.countryCodes)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")

	r.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	data, err := utils.ReadBody(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	items, ok := payload.([]any)
	if !ok {
		return nil, nil
	}

	var candidates []candidate
	cfg := &mapstructure.DecoderConfig{
		Result:           &candidates,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}

	return candidates, nil
}

func (r *Resolver) throttle(ctx context.Context) error {
	r.throttleMu.Lock()
	defer r.throttleMu.Unlock()

	if r.minInterval > 0 && !r.lastRequest.IsZero() {
		if err := utils.WaitFor(ctx, r.minInterval-time.Since(r.lastRequest)); err != nil {
			return err
		}
	}
	r.lastRequest = time.Now()

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
