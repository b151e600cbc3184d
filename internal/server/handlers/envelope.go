package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	leadadmin "github.com/leadroute/leadadmin"
	"github.com/leadroute/leadadmin/internal/apperrors"
	"github.com/leadroute/leadadmin/internal/server/responses"
	"github.com/leadroute/leadadmin/internal/server/store"
)

// Envelope renders store records in one of the two response shapes the admin API has used.
//
// current: {"results": [...]} with type, enabled (bool) and config (object).
// legacy:  {"<resource>": [...]} with destination_type, is_enabled (0/1) and config_json (string).
type Envelope struct {
	style string
}

func NewEnvelope(style string) Envelope {
	if style != leadadmin.EnvelopeLegacy {
		style = leadadmin.EnvelopeCurrent
	}
	return Envelope{style: style}
}

func (e Envelope) Legacy() bool {
	return e.style == leadadmin.EnvelopeLegacy
}

// List wraps records in the list envelope. extra is merged into the envelope (e.g. paging totals).
func (e Envelope) List(resourceKey string, records []map[string]any, extra map[string]any) map[string]any {
	key := leadadmin.ResultsKey
	if e.Legacy() {
		key = resourceKey
	}
	body := map[string]any{key: records}
	for k, v := range extra {
		body[k] = v
	}
	return body
}

func (e Envelope) enabled(v bool) any {
	if !e.Legacy() {
		return v
	}
	if v {
		return 1
	}
	return 0
}

func (e Envelope) Lead(l store.Lead) map[string]any {
	rec := map[string]any{
		"id":    l.ID,
		"name":  l.Name,
		"email": l.Email,
		"phone": l.Phone,
	}
	if e.Legacy() {
		rec["funnel"] = l.FunnelKey
		rec["status"] = l.Status
		rec["created_at"] = l.ReceivedAt.Unix()
		return rec
	}
	rec["funnel_key"] = l.FunnelKey
	rec["status"] = l.Status
	rec["overall_status"] = l.OverallStatus
	rec["received_at"] = l.ReceivedAt.Format(time.RFC3339)
	return rec
}

// LeadDetail is {lead, raw_payload}. Legacy backends sent the payload as the JSON text it was stored as.
func (e Envelope) LeadDetail(l store.Lead) map[string]any {
	var payload any = l.RawPayload
	if e.Legacy() {
		payload = string(l.RawPayload)
	}
	return map[string]any{
		leadadmin.LeadKey:       e.Lead(l),
		leadadmin.RawPayloadKey: payload,
	}
}

func (e Envelope) Destination(d store.Destination) map[string]any {
	rec := map[string]any{
		"id":   d.ID,
		"name": d.Name,
	}
	if e.Legacy() {
		rec["destination_type"] = d.Type
		rec["is_enabled"] = e.enabled(d.Enabled)
		rec["config_json"] = string(d.Config)
		return rec
	}
	rec["type"] = d.Type
	rec["enabled"] = d.Enabled
	rec["config"] = d.Config
	return rec
}

func (e Envelope) Funnel(f store.Funnel) map[string]any {
	if e.Legacy() {
		return map[string]any{
			"funnel_key": f.Key,
			"name":       f.Name,
			"is_enabled": e.enabled(f.Enabled),
		}
	}
	return map[string]any{
		"key":     f.Key,
		"name":    f.Name,
		"enabled": f.Enabled,
	}
}

// Route renders a route. Current responses carry the destination's name and type as well.
func (e Envelope) Route(r store.Route, destination *store.Destination) map[string]any {
	rec := map[string]any{
		"id":             r.ID,
		"funnel_key":     r.FunnelKey,
		"destination_id": r.DestinationID,
		"priority":       r.Priority,
	}
	if e.Legacy() {
		rec["is_enabled"] = e.enabled(r.Enabled)
		return rec
	}
	rec["enabled"] = r.Enabled
	if destination != nil {
		rec["destination_name"] = destination.Name
		rec["destination_type"] = destination.Type
	}
	return rec
}

func (e Envelope) ProviderKey(k store.ProviderKey) map[string]any {
	return map[string]any{
		"provider": k.Provider,
		"api_key":  k.APIKey,
	}
}

// flexBool accepts the boolean encodings dashboards have sent: true/false, 0/1 and "true"/"1"
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "true":
		*b = true
		return nil
	case "false", "null":
		*b = false
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "1", "true", "yes", "on":
			*b = true
		default:
			*b = false
		}
		return nil
	}
	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid boolean %s", data)
	}
	*b = n != 0
	return nil
}

// pick returns the first non-nil value
func pick(values ...*flexBool) (bool, bool) {
	for _, v := range values {
		if v != nil {
			return bool(*v), true
		}
	}
	return false, false
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			responses.RespondWithError(w, r, http.StatusRequestEntityTooLarge, apperrors.ErrCodeRequestTooLarge,
				fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return false
		}
		responses.RespondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeMalformedBody, fmt.Sprintf("could not decode request body: %v", err))
		return false
	}
	return true
}

// respondStoreError maps store errors onto API errors
func respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		responses.RespondWithError(w, r, http.StatusNotFound, apperrors.ErrCodeResourceNotFound, err.Error())
	case errors.Is(err, store.ErrAlreadyExists):
		responses.RespondWithError(w, r, http.StatusConflict, apperrors.ErrCodeResourceAlreadyExists, err.Error())
	case errors.Is(err, store.ErrInUse):
		responses.RespondWithError(w, r, http.StatusConflict, apperrors.ErrCodeResourceInUse, err.Error())
	default:
		responses.RespondWithError(w, r, http.StatusInternalServerError, apperrors.ErrCodeInternalError, err.Error())
	}
}

// pathParam returns an unescaped URL parameter. chi matches on the raw path when it holds escaped
// separators, in which case the parameter is still escaped.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}
