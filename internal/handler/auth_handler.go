package handler

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/polite-betrayal/adjudicator/internal/auth"
)

// AuthHandler mints API tokens. It is only mounted in development; in
// production tokens are minted with the adjudicate CLI.
type AuthHandler struct {
	jwtMgr *auth.JWTManager
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(jwtMgr *auth.JWTManager) *AuthHandler {
	return &AuthHandler{jwtMgr: jwtMgr}
}

// IssueToken handles POST /auth/token.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID string `json:"client_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ClientID == "" {
		writeError(w, http.StatusBadRequest, "client_id is required")
		return
	}

	tok, err := h.jwtMgr.GenerateToken(req.ClientID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	log.Info().Str("clientId", req.ClientID).Msg("Issued API token")
	writeJSON(w, http.StatusOK, tok)
}
