package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/freeeve/polite-betrayal/adjudicator/internal/scenario"
)

// BatchResult holds the results of a batch in the order of its scenarios.
type BatchResult struct {
	ID      string    `json:"id" yaml:"id"`
	Results []*Result `json:"results" yaml:"results"`
}

// BatchError reports which scenario of a batch failed.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("scenario %d: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// ScenarioEvent is published as each scenario of a batch is resolved.
type ScenarioEvent struct {
	Index  int     `json:"index"`
	Result *Result `json:"result"`
}

// ResolveBatch resolves independent scenarios in parallel, at most workers at
// a time. The first failure cancels the scenarios not yet started and is
// returned as a *BatchError. An empty id is replaced by a fresh UUID.
func (s *AdjudicationService) ResolveBatch(ctx context.Context, id string, docs []*scenario.Document) (*BatchResult, error) {
	if id == "" {
		id = uuid.NewString()
	}
	results := make([]*Result, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := s.Resolve(gctx, doc)
			if err != nil {
				return &BatchError{Index: i, Err: err}
			}
			results[i] = r
			s.broadcaster.BroadcastBatchEvent(id, EventScenarioResolved, ScenarioEvent{Index: i, Result: r})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Str("batchId", id).Int("scenarios", len(docs)).Msg("Batch failed")
		s.broadcaster.BroadcastBatchEvent(id, EventBatchFailed, map[string]string{"error": err.Error()})
		return nil, err
	}

	log.Info().Str("batchId", id).Int("scenarios", len(docs)).Msg("Batch resolved")
	s.broadcaster.BroadcastBatchEvent(id, EventBatchComplete, map[string]int{"count": len(docs)})
	return &BatchResult{ID: id, Results: results}, nil
}
