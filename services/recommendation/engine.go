// Package recommendation ranks active bursaries for a student by blending
// profile fit, popularity, deadline urgency and what similar students applied
// to. It reads snapshots through a Store and never writes.
package recommendation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sahilchouksey/bursary-hub/model"
	"github.com/sahilchouksey/bursary-hub/utils/logger"
)

const (
	DefaultLimit        = 10
	DefaultSimilarLimit = 5
)

// BursaryQuery narrows the active bursary set
type BursaryQuery struct {
	AsOf                time.Time // deadline must fall on or after this date
	ExcludeInteractedBy uint      // skip bursaries this user applied to or bookmarked; 0 disables
	ExcludeID           uint      // skip this bursary; 0 disables
}

// Store is the read side the engine depends on
type Store interface {
	// FindProfile reports false when the user has no student profile
	FindProfile(ctx context.Context, userID uint) (*model.StudentProfile, bool, error)
	// ActiveBursaries returns active, non-expired bursaries with BookmarkCount populated
	ActiveBursaries(ctx context.Context, q BursaryQuery) ([]model.Bursary, error)
	ApplicationsByUser(ctx context.Context, userID uint) ([]model.Application, error)
	// ApplicationsFor returns applications by any of userIDs (nil means any user) to any of bursaryIDs
	ApplicationsFor(ctx context.Context, userIDs, bursaryIDs []uint) ([]model.Application, error)
}

// ScoredBursary is a bursary with the score it was ranked by
type ScoredBursary struct {
	model.Bursary
	Score     float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// Result is a ranked recommendation list. Personalized is false when the
// trending fallback was served.
type Result struct {
	Personalized bool            `json:"personalized"`
	Items        []ScoredBursary `json:"items"`
}

// Engine computes recommendations on demand
type Engine struct {
	store  Store
	now    func() time.Time
	logger *logger.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithClock overrides the engine's notion of now
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the engine's logger
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine reading from store
func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		now:    time.Now,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) today() time.Time {
	return model.DateOf(e.now().UTC())
}

// GetRecommendations returns up to limit bursaries for the user. Users
// without a profile get the trending fallback.
func (e *Engine) GetRecommendations(ctx context.Context, userID uint, limit int) (*Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	start := time.Now()

	profile, found, err := e.store.FindProfile(ctx, userID)
	if err != nil {
		RequestsTotal.WithLabelValues("unknown", "error").Inc()
		return nil, fmt.Errorf("failed to load profile for user %d: %w", userID, err)
	}

	path := "personalized"
	var result *Result
	if found {
		result, err = e.personalized(ctx, userID, profile, limit)
	} else {
		path = "fallback"
		result, err = e.fallback(ctx, limit)
	}

	RequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	if err != nil {
		RequestsTotal.WithLabelValues(path, "error").Inc()
		return nil, err
	}
	RequestsTotal.WithLabelValues(path, "ok").Inc()

	e.logger.Debug("recommendations computed",
		"user_id", userID,
		"path", path,
		"returned", len(result.Items),
	)
	return result, nil
}

func (e *Engine) fallback(ctx context.Context, limit int) (*Result, error) {
	bursaries, err := e.store.ActiveBursaries(ctx, BursaryQuery{AsOf: e.today()})
	if err != nil {
		return nil, fmt.Errorf("failed to load trending bursaries: %w", err)
	}

	sort.SliceStable(bursaries, func(i, j int) bool {
		return bursaries[i].Popularity() > bursaries[j].Popularity()
	})
	if len(bursaries) > limit {
		bursaries = bursaries[:limit]
	}

	items := make([]ScoredBursary, len(bursaries))
	for i := range bursaries {
		items[i] = ScoredBursary{
			Bursary: bursaries[i],
			Score:   float64(bursaries[i].Popularity()),
		}
	}
	return &Result{Personalized: false, Items: items}, nil
}

func (e *Engine) personalized(ctx context.Context, userID uint, profile *model.StudentProfile, limit int) (*Result, error) {
	today := e.today()

	candidates, err := e.store.ActiveBursaries(ctx, BursaryQuery{
		AsOf:                today,
		ExcludeInteractedBy: userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate bursaries: %w", err)
	}
	CandidateSetSize.Observe(float64(len(candidates)))
	if len(candidates) == 0 {
		return &Result{Personalized: true, Items: []ScoredBursary{}}, nil
	}

	signal, err := e.peerSignal(ctx, userID, candidates)
	if err != nil {
		return nil, err
	}

	items := make([]ScoredBursary, len(candidates))
	for i := range candidates {
		b := &candidates[i]
		breakdown := ScoreBreakdown{
			ProfileMatch: ProfileMatchScore(profile, b),
			Trending:     TrendingScore(b),
			Urgency:      UrgencyScore(DaysUntil(b.Deadline(), today)),
			Pattern:      PatternScore(signal, b.ID),
		}
		items[i] = ScoredBursary{
			Bursary:   *b,
			Score:     CompositeScore(breakdown),
			Breakdown: breakdown,
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return &Result{Personalized: true, Items: items}, nil
}

// peerSignal finds the users who share at least one application with userID
// and counts how many of them applied to each candidate
func (e *Engine) peerSignal(ctx context.Context, userID uint, candidates []model.Bursary) (PeerSignal, error) {
	own, err := e.store.ApplicationsByUser(ctx, userID)
	if err != nil {
		return PeerSignal{}, fmt.Errorf("failed to load applications for user %d: %w", userID, err)
	}
	if len(own) == 0 {
		return PeerSignal{}, nil
	}

	applied := make([]uint, 0, len(own))
	for _, a := range own {
		applied = append(applied, a.BursaryID)
	}

	peers, err := e.store.ApplicationsFor(ctx, nil, applied)
	if err != nil {
		return PeerSignal{}, fmt.Errorf("failed to load peer applications: %w", err)
	}
	similar := make(map[uint]struct{})
	for _, a := range peers {
		if a.UserID != userID {
			similar[a.UserID] = struct{}{}
		}
	}
	signal := PeerSignal{HasHistory: true, SimilarUsers: len(similar)}
	if len(similar) == 0 {
		return signal, nil
	}

	userIDs := make([]uint, 0, len(similar))
	for id := range similar {
		userIDs = append(userIDs, id)
	}
	candidateIDs := make([]uint, len(candidates))
	for i := range candidates {
		candidateIDs[i] = candidates[i].ID
	}

	peerApps, err := e.store.ApplicationsFor(ctx, userIDs, candidateIDs)
	if err != nil {
		return PeerSignal{}, fmt.Errorf("failed to load similar user applications: %w", err)
	}
	signal.Counts = make(map[uint]int, len(candidates))
	seen := make(map[[2]uint]struct{}, len(peerApps))
	for _, a := range peerApps {
		key := [2]uint{a.UserID, a.BursaryID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		signal.Counts[a.BursaryID]++
	}
	return signal, nil
}

// GetSimilarBursaries returns active, non-expired bursaries that share a
// category, a country or the first eligible field with the given one
func (e *Engine) GetSimilarBursaries(ctx context.Context, bursary *model.Bursary, limit int) ([]model.Bursary, error) {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	pool, err := e.store.ActiveBursaries(ctx, BursaryQuery{
		AsOf:      e.today(),
		ExcludeID: bursary.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load bursaries similar to %d: %w", bursary.ID, err)
	}

	firstField := ""
	if fields := bursary.Fields(); len(fields) > 0 {
		firstField = strings.ToLower(fields[0])
	}

	similar := make([]model.Bursary, 0, limit)
	seen := make(map[uint]struct{}, limit)
	for _, b := range pool {
		if len(similar) == limit {
			break
		}
		if b.ID == bursary.ID {
			continue
		}
		if _, dup := seen[b.ID]; dup {
			continue
		}
		match := b.Category == bursary.Category ||
			b.Country == bursary.Country ||
			(firstField != "" && strings.Contains(strings.ToLower(b.EligibleFields), firstField))
		if !match {
			continue
		}
		seen[b.ID] = struct{}{}
		similar = append(similar, b)
	}
	return similar, nil
}

// Explain scores a single bursary for a user without ranking. It returns
// false when the user has no profile.
func (e *Engine) Explain(ctx context.Context, userID uint, bursary *model.Bursary) (ScoredBursary, bool, error) {
	profile, found, err := e.store.FindProfile(ctx, userID)
	if err != nil {
		return ScoredBursary{}, false, fmt.Errorf("failed to load profile for user %d: %w", userID, err)
	}
	if !found {
		return ScoredBursary{}, false, nil
	}
	signal, err := e.peerSignal(ctx, userID, []model.Bursary{*bursary})
	if err != nil {
		return ScoredBursary{}, false, err
	}
	today := e.today()
	breakdown := ScoreBreakdown{
		ProfileMatch: ProfileMatchScore(profile, bursary),
		Trending:     TrendingScore(bursary),
		Urgency:      UrgencyScore(DaysUntil(bursary.Deadline(), today)),
		Pattern:      PatternScore(signal, bursary.ID),
	}
	return ScoredBursary{Bursary: *bursary, Score: CompositeScore(breakdown), Breakdown: breakdown}, true, nil
}
