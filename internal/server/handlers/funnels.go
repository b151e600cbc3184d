package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	leadadmin "github.com/leadroute/leadadmin"
	"github.com/leadroute/leadadmin/internal/apperrors"
	"github.com/leadroute/leadadmin/internal/logger"
	"github.com/leadroute/leadadmin/internal/server/responses"
	"github.com/leadroute/leadadmin/internal/server/store"
	"github.com/leadroute/leadadmin/internal/server/utils"
)

type FunnelHandler struct {
	store    *store.Store
	envelope Envelope
}

func NewFunnelHandler(s *store.Store, envelope Envelope) *FunnelHandler {
	return &FunnelHandler{store: s, envelope: envelope}
}

// FunnelRequest is used to create (POST) or replace (PUT) a funnel.
// Key is only read on create; when it is empty the key is generated from the name.
type FunnelRequest struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	Enabled   *flexBool `json:"enabled"`
	IsEnabled *flexBool `json:"is_enabled"`
}

func (f *FunnelHandler) ListFunnelsHandler(w http.ResponseWriter, r *http.Request) {
	funnels := f.store.ListFunnels()

	records := make([]map[string]any, 0, len(funnels))
	for _, funnel := range funnels {
		records = append(records, f.envelope.Funnel(funnel))
	}
	responses.RespondWithJSON(w, http.StatusOK, f.envelope.List(leadadmin.FunnelsKey, records, nil))
}

// CreateFunnelHandler creates a funnel. Without an explicit key the slug of the name is used,
// suffixed with -2, -3 ... when it is already taken.
func (f *FunnelHandler) CreateFunnelHandler(w http.ResponseWriter, r *http.Request) {
	var req FunnelRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Key == "" && req.Name == "" {
		responses.RespondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeMalformedBody, "a funnel name is required")
		return
	}

	key := req.Key
	if key == "" {
		slug, err := utils.GenerateSlug(req.Name)
		if err != nil {
			responses.RespondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest, fmt.Sprintf("could not create a key from the funnel name: %v", err))
			return
		}
		key = utils.UniqueSlug(slug, f.store.FunnelExists)
	}

	enabled, ok := pick(req.IsEnabled, req.Enabled)
	if !ok {
		enabled = true
	}

	funnel, err := f.store.CreateFunnel(store.Funnel{Key: key, Name: req.Name, Enabled: enabled})
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	logger.ContextWithLogAttrs(r.Context(), slog.String("funnel_key", funnel.Key))

	responses.RespondWithJSON(w, http.StatusCreated, f.envelope.Funnel(funnel))
}

// PutFunnelHandler creates or replaces the funnel with the key in the path
func (f *FunnelHandler) PutFunnelHandler(w http.ResponseWriter, r *http.Request) {
	key := pathParam(r, "key")

	var req FunnelRequest
	if !decodeBody(w, r, &req) {
		return
	}

	enabled, ok := pick(req.IsEnabled, req.Enabled)
	if !ok {
		enabled = true
	}

	funnel, created := f.store.PutFunnel(store.Funnel{Key: key, Name: req.Name, Enabled: enabled})

	logger.ContextWithLogAttrs(r.Context(), slog.String("funnel_key", funnel.Key))

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	responses.RespondWithJSON(w, status, f.envelope.Funnel(funnel))
}

func (f *FunnelHandler) DeleteFunnelHandler(w http.ResponseWriter, r *http.Request) {
	key := pathParam(r, "key")

	if err := f.store.DeleteFunnel(key); err != nil {
		respondStoreError(w, r, err)
		return
	}

	logger.ContextWithLogAttrs(r.Context(), slog.String("funnel_key", key))

	responses.RespondWithJSON(w, http.StatusNoContent, nil)
}
