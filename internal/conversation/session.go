// Package conversation drives one chat session: extraction, follow-up questions and searches.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/jobchat/internal/chat"
	"github.com/spigell/jobchat/internal/dialogue"
	"github.com/spigell/jobchat/internal/filtering"
	"github.com/spigell/jobchat/internal/logger"
	"github.com/spigell/jobchat/internal/profile"
	"github.com/spigell/jobchat/internal/recommend"
	"github.com/spigell/jobchat/internal/utils"
)

const (
	Greeting  = `Hi! Example: "working-student near Gummersbach, radius 50 km, 18 hours, keywords project-management"`
	Searching = "Okay, searching for matching positions…"
	NoMatches = "No matches. Try other keywords or a larger radius."

	maxErrorMessage = 200
	maxLoggedTurn   = 120
)

// ErrBusy is returned when a turn arrives while another one is still running.
var ErrBusy = errors.New("another turn is in progress")

// Recommender fetches raw matches for a request.
type Recommender interface {
	Recommend(ctx context.Context, request recommend.Request) ([]recommend.Match, error)
}

type Config struct {
	Defaults profile.Defaults
	Fallback recommend.Fallback
	// Limit caps the number of presented matches.
	Limit int
	// SkipDistance keeps every match regardless of location.
	SkipDistance bool
}

type Deps struct {
	Extractor   *dialogue.Extractor
	Recommender Recommender
	Ranker      filtering.Ranker
	Presenter   chat.Presenter
	Logger      *zap.Logger
}

// Session owns the profile of one conversation. Turns are processed one at a time.
type Session struct {
	id     string
	cfg    Config
	deps   Deps
	store  *profile.Store
	logger *zap.Logger

	busy sync.Mutex
}

// NewSession creates a session and greets the user.
func NewSession(cfg Config, deps Deps) (*Session, error) {
	if deps.Recommender == nil {
		return nil, fmt.Errorf("recommender is required")
	}
	if deps.Ranker == nil {
		return nil, fmt.Errorf("ranker is required")
	}
	if deps.Presenter == nil {
		return nil, fmt.Errorf("presenter is required")
	}

	if cfg.Limit <= 0 {
		cfg.Limit = filtering.DefaultLimit
	}

	id := uuid.NewString()
	log := logger.WithSession(deps.Logger, id)

	if deps.Extractor == nil {
		deps.Extractor = dialogue.NewExtractor(dialogue.DefaultRules(), log)
	}

	s := &Session{
		id:     id,
		cfg:    cfg,
		deps:   deps,
		store:  profile.NewStore(cfg.Defaults),
		logger: log,
	}

	s.say(chat.RoleBot, Greeting, nil)
	s.logger.Info("session started", zap.Int("limit", cfg.Limit), zap.Bool("skip_distance", cfg.SkipDistance))

	return s, nil
}

func (s *Session) ID() string { return s.id }

// Profile returns a snapshot of the collected slots.
func (s *Session) Profile() profile.Profile {
	return s.store.Get()
}

// Reset restores the default profile and greets again.
func (s *Session) Reset() error {
	if !s.busy.TryLock() {
		return ErrBusy
	}
	defer s.busy.Unlock()

	s.store.Reset()
	s.logger.Info("session reset")
	s.say(chat.RoleBot, Greeting, nil)

	return nil
}

// HandleTurn processes one user message. Backend failures are reported to the user
// as a chat message and leave the profile intact, so the returned error is only
// ErrBusy or a context error.
func (s *Session) HandleTurn(ctx context.Context, text string) error {
	if !s.busy.TryLock() {
		return ErrBusy
	}
	defer s.busy.Unlock()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	s.say(chat.RoleUser, text, nil)

	pending := s.store.Pending()
	s.deps.Extractor.Extract(text, s.store)

	s.logger.Debug("turn extracted",
		append(logger.SessionFields("", string(pending)),
			zap.String("text", utils.TruncateForLog(text, maxLoggedTurn)),
			zap.Any("profile", s.store.Get()),
		)...,
	)

	if question := dialogue.NextQuestion(s.store); question != "" {
		s.say(chat.RoleBot, question, nil)
		return nil
	}

	s.search(ctx)

	return nil
}

func (s *Session) search(ctx context.Context) {
	s.say(chat.RoleBot, Searching, nil)

	request := recommend.BuildRequest(s.store.Get(), s.cfg.Fallback)
	center, radius := request.Filter.Place, request.Filter.RadiusKm

	s.logger.Info("starting the search",
		zap.String("search_type", request.Filter.SearchType),
		zap.String("place", center),
		zap.Int("radius_km", radius),
		zap.String("keywords", request.Filter.Keywords),
	)

	started := time.Now()
	matches, err := s.deps.Recommender.Recommend(ctx, request)
	if err != nil {
		s.fail(err)
		return
	}

	s.logger.Info("got matches", zap.Int("count", len(matches)), zap.Duration("took", time.Since(started)))

	if len(matches) == 0 {
		s.say(chat.RoleBot, NoMatches, nil)
		return
	}

	pipeline := filtering.New([]filtering.Filter{
		filtering.NewDistance(
			filtering.DistanceConfig{Center: center, RadiusKm: radius},
			&filtering.DistanceDeps{Ranker: s.deps.Ranker, Logger: s.logger},
		),
		filtering.NewRankOrder(),
		filtering.NewLimit(s.cfg.Limit),
	}, s.logger)

	if s.cfg.SkipDistance {
		pipeline.DisableByName("distance", "skip requested via config")
	}
	s.logger.Debug("filters prepared", zap.Any("filters", pipeline.Describe()))

	ranked, err := pipeline.RunFilters(ctx, filtering.Wrap(matches))
	if err != nil {
		s.fail(err)
		return
	}

	if len(ranked) == 0 {
		s.say(chat.RoleBot, fmt.Sprintf("No matches within ≤ %d km of %s. Try a larger radius.", radius, center), nil)
		return
	}

	header := fmt.Sprintf("Recommendations (up to %d) within ≤ %d km of %s:", s.cfg.Limit, radius, center)
	s.say(chat.RoleBot, header, chat.NewCards(ranked))

	s.logger.Info("search finished", zap.Int("shown", len(ranked)), zap.Duration("took", time.Since(started)))
}

func (s *Session) fail(err error) {
	s.logger.Warn("search failed", zap.Error(err))
	s.say(chat.RoleBot, "Error while searching: "+utils.TruncateForLog(err.Error(), maxErrorMessage), nil)
}

func (s *Session) say(role chat.Role, text string, cards []chat.Card) {
	s.deps.Presenter.Present(chat.Message{Role: role, Text: text, Cards: cards})
}
