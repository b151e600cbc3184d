package handlers

import (
	"log/slog"
	"net/http"

	leadadmin "github.com/leadroute/leadadmin"
	"github.com/leadroute/leadadmin/internal/apperrors"
	"github.com/leadroute/leadadmin/internal/logger"
	"github.com/leadroute/leadadmin/internal/server/responses"
	"github.com/leadroute/leadadmin/internal/server/store"
)

type ProviderKeyHandler struct {
	store    *store.Store
	envelope Envelope
}

func NewProviderKeyHandler(s *store.Store, envelope Envelope) *ProviderKeyHandler {
	return &ProviderKeyHandler{store: s, envelope: envelope}
}

type ProviderKeyRequest struct {
	APIKey string `json:"api_key"`
}

func (p *ProviderKeyHandler) ListProviderKeysHandler(w http.ResponseWriter, r *http.Request) {
	keys := p.store.ListProviderKeys()

	records := make([]map[string]any, 0, len(keys))
	for _, k := range keys {
		records = append(records, p.envelope.ProviderKey(k))
	}
	responses.RespondWithJSON(w, http.StatusOK, p.envelope.List(leadadmin.ProviderKeysKey, records, nil))
}

func (p *ProviderKeyHandler) PutProviderKeyHandler(w http.ResponseWriter, r *http.Request) {
	provider := pathParam(r, "provider")

	var req ProviderKeyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.APIKey == "" {
		responses.RespondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeMalformedBody, "api_key is required")
		return
	}

	key := p.store.PutProviderKey(provider, req.APIKey)

	// never log the key itself
	logger.ContextWithLogAttrs(r.Context(), slog.String("provider", key.Provider))

	responses.RespondWithJSON(w, http.StatusOK, p.envelope.ProviderKey(key))
}
