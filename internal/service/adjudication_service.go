package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/polite-betrayal/adjudicator/internal/scenario"
	"github.com/freeeve/polite-betrayal/adjudicator/pkg/diplomacy"
)

// ErrAdjudication marks structural failures reported by the adjudicator: the
// orders were each legal but the set as a whole was inconsistent.
var ErrAdjudication = errors.New("adjudication failed")

// ResultCache stores encoded results keyed by the hash of their scenario.
// Get returns nil, nil on a miss.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) ([]byte, error) { return nil, nil }
func (nopCache) Set(context.Context, string, []byte) error   { return nil }

// Result is the outcome of one phase. Resolution is set for the movement
// phase, Adjustments and Ownership for the adjustment phase. Units always
// holds every player's units after the phase.
type Result struct {
	Phase       string                                  `json:"phase" yaml:"phase"`
	Resolution  map[string]map[string]diplomacy.Outcome `json:"resolution,omitempty" yaml:"resolution,omitempty"`
	Units       map[string][]string                     `json:"units" yaml:"units"`
	Adjustments map[string]int                          `json:"adjustments,omitempty" yaml:"adjustments,omitempty"`
	Ownership   map[string][]string                     `json:"ownership,omitempty" yaml:"ownership,omitempty"`

	Cached bool `json:"-" yaml:"-"`
}

// AdjudicationService resolves scenarios against a map, caching results.
type AdjudicationService struct {
	m           *diplomacy.Map
	cache       ResultCache
	workers     int
	broadcaster Broadcaster
}

// NewAdjudicationService creates an AdjudicationService. A nil cache
// disables caching; workers bounds the parallelism of ResolveBatch.
func NewAdjudicationService(m *diplomacy.Map, cache ResultCache, workers int) *AdjudicationService {
	if cache == nil {
		cache = nopCache{}
	}
	if workers < 1 {
		workers = 1
	}
	return &AdjudicationService{m: m, cache: cache, workers: workers, broadcaster: NoopBroadcaster{}}
}

// SetBroadcaster sets the broadcaster used to publish batch progress.
func (s *AdjudicationService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Map returns the map scenarios are resolved on.
func (s *AdjudicationService) Map() *diplomacy.Map {
	return s.m
}

// CacheKey is the hex SHA-256 of the document's JSON encoding. Map keys are
// encoded in sorted order, so equal documents share a key.
func CacheKey(doc *scenario.Document) (string, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode scenario: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// Resolve adjudicates one scenario. Errors from the document or its orders
// are *scenario.Error; inconsistent order sets wrap ErrAdjudication.
func (s *AdjudicationService) Resolve(ctx context.Context, doc *scenario.Document) (*Result, error) {
	start := time.Now()
	key, err := CacheKey(doc)
	if err != nil {
		return nil, err
	}

	if cached, err := s.cached(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Result cache read failed")
	} else if cached != nil {
		log.Debug().Str("phase", doc.Phase).Str("key", key).Dur("duration", time.Since(start)).Msg("Adjudication cache hit")
		return cached, nil
	}

	turn, err := doc.Build(s.m)
	if err != nil {
		return nil, err
	}
	result, err := s.resolveTurn(turn)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(result); err != nil {
		log.Warn().Err(err).Msg("Failed to encode result for cache")
	} else if err := s.cache.Set(ctx, key, b); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Result cache write failed")
	}

	log.Info().
		Str("phase", result.Phase).
		Int("players", len(turn.Players)).
		Int("orders", orderCount(turn)).
		Bool("cached", false).
		Dur("duration", time.Since(start)).
		Msg("Adjudicated scenario")
	return result, nil
}

func (s *AdjudicationService) cached(ctx context.Context, key string) (*Result, error) {
	b, err := s.cache.Get(ctx, key)
	if err != nil || b == nil {
		return nil, err
	}
	var r Result
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("decode cached result: %w", err)
	}
	r.Cached = true
	return &r, nil
}

func orderCount(t *scenario.Turn) int {
	return len(t.Movement) + len(t.Retreat) + len(t.Adjustment)
}

func (s *AdjudicationService) resolveTurn(t *scenario.Turn) (*Result, error) {
	result := &Result{Phase: t.Phase.String()}
	switch t.Phase {
	case diplomacy.MovementPhase:
		res, err := diplomacy.ResolveMovement(s.m, t.Movement)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAdjudication, err)
		}
		result.Resolution = resolutionStrings(res)
		result.Units = unitStrings(res.Units())

	case diplomacy.RetreatPhase:
		units, err := diplomacy.ResolveRetreats(s.m, t.Obligations, t.Retreat)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAdjudication, err)
		}
		result.Units = unitStrings(units)

	case diplomacy.AdjustmentPhase:
		var units map[string][]diplomacy.Unit
		if t.Strict {
			var err error
			units, err = diplomacy.ResolveAdjustmentValidated(t.Ownership, t.Counts, t.Units, t.Adjustment)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrAdjudication, err)
			}
		} else {
			units = diplomacy.ResolveAdjustment(t.Ownership, t.Counts, t.Units, t.Adjustment)
		}
		result.Units = unitStrings(units)
		result.Adjustments = t.Counts
		result.Ownership = make(map[string][]string)
		for _, p := range t.Ownership.Players() {
			if owned := t.Ownership.Owned(p); len(owned) > 0 {
				result.Ownership[p] = owned
			}
		}
	}
	return result, nil
}

func resolutionStrings(res diplomacy.Resolution) map[string]map[string]diplomacy.Outcome {
	out := make(map[string]map[string]diplomacy.Outcome, len(res))
	for player, units := range res {
		out[player] = make(map[string]diplomacy.Outcome, len(units))
		for u, o := range units {
			out[player][u.String()] = o
		}
	}
	return out
}

func unitStrings(units map[string][]diplomacy.Unit) map[string][]string {
	out := make(map[string][]string, len(units))
	for player, list := range units {
		names := make([]string, len(list))
		for i, u := range list {
			names[i] = u.String()
		}
		out[player] = names
	}
	return out
}
