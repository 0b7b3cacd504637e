package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/freeeve/polite-betrayal/adjudicator/internal/scenario"
	"github.com/freeeve/polite-betrayal/adjudicator/internal/service"
	"github.com/freeeve/polite-betrayal/adjudicator/pkg/diplomacy"
)

// maxBatchSize caps the number of scenarios in one batch request.
const maxBatchSize = 100

// AdjudicateHandler serves the adjudication endpoints.
type AdjudicateHandler struct {
	svc *service.AdjudicationService
}

// NewAdjudicateHandler creates an AdjudicateHandler.
func NewAdjudicateHandler(svc *service.AdjudicationService) *AdjudicateHandler {
	return &AdjudicateHandler{svc: svc}
}

// Movement handles POST /api/v1/adjudicate/movement.
func (h *AdjudicateHandler) Movement(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, diplomacy.MovementPhase)
}

// Retreat handles POST /api/v1/adjudicate/retreat.
func (h *AdjudicateHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, diplomacy.RetreatPhase)
}

// Adjustment handles POST /api/v1/adjudicate/adjustment.
func (h *AdjudicateHandler) Adjustment(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, diplomacy.AdjustmentPhase)
}

func (h *AdjudicateHandler) resolve(w http.ResponseWriter, r *http.Request, phase diplomacy.Phase) {
	doc, err := readScenario(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if doc.Phase != phase.String() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("expected a %s scenario, got %s", phase, doc.Phase))
		return
	}

	result, err := h.svc.Resolve(r.Context(), doc)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type batchRequest struct {
	ID        string            `json:"id"`
	Scenarios []json.RawMessage `json:"scenarios"`
}

// Batch handles POST /api/v1/adjudicate/batch. Scenarios may mix phases;
// results come back in request order.
func (h *AdjudicateHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, &scenario.Error{Err: fmt.Errorf("invalid request body: %w", err)})
		return
	}
	if len(req.Scenarios) == 0 {
		writeError(w, http.StatusBadRequest, "scenarios is required")
		return
	}
	if len(req.Scenarios) > maxBatchSize {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d scenarios per batch", maxBatchSize))
		return
	}

	docs := make([]*scenario.Document, len(req.Scenarios))
	for i, raw := range req.Scenarios {
		doc, err := scenario.Decode(raw, scenario.JSON)
		if err != nil {
			writeServiceError(w, r, &service.BatchError{Index: i, Err: err})
			return
		}
		docs[i] = doc
	}

	result, err := h.svc.ResolveBatch(r.Context(), req.ID, docs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
