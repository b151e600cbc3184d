package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	leadadmin "github.com/leadroute/leadadmin"
	"github.com/leadroute/leadadmin/internal/apperrors"
	"github.com/leadroute/leadadmin/internal/logger"
	"github.com/leadroute/leadadmin/internal/server/responses"
	"github.com/leadroute/leadadmin/internal/server/store"
)

const maxLeadPageSize = 500

type LeadHandler struct {
	store    *store.Store
	envelope Envelope
}

func NewLeadHandler(s *store.Store, envelope Envelope) *LeadHandler {
	return &LeadHandler{store: s, envelope: envelope}
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}

// ListLeadsHandler returns leads newest first.
//
// Query: limit (default 20, at most 500), offset (default 0).
// The response includes the total number of leads (total, or count for legacy responses).
func (l *LeadHandler) ListLeadsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", leadadmin.DefaultPageSize)
	if err != nil {
		responses.RespondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidURLParam, err.Error())
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		responses.RespondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidURLParam, err.Error())
		return
	}
	limit = min(limit, maxLeadPageSize)

	leads, total := l.store.ListLeads(limit, offset)

	records := make([]map[string]any, 0, len(leads))
	for _, lead := range leads {
		records = append(records, l.envelope.Lead(lead))
	}

	totalKey := "total"
	if l.envelope.Legacy() {
		totalKey = "count"
	}
	responses.RespondWithJSON(w, http.StatusOK, l.envelope.List(leadadmin.LeadsKey, records, map[string]any{
		totalKey: total,
		"limit":  limit,
		"offset": offset,
	}))
}

// GetLeadHandler returns {lead, raw_payload}
func (l *LeadHandler) GetLeadHandler(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	lead, err := l.store.GetLead(id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	logger.ContextWithLogAttrs(r.Context(), slog.String("lead_id", lead.ID))

	responses.RespondWithJSON(w, http.StatusOK, l.envelope.LeadDetail(lead))
}
