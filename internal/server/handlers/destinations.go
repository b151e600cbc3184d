package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	leadadmin "github.com/leadroute/leadadmin"
	"github.com/leadroute/leadadmin/internal/apperrors"
	"github.com/leadroute/leadadmin/internal/logger"
	"github.com/leadroute/leadadmin/internal/server/responses"
	"github.com/leadroute/leadadmin/internal/server/schemas"
	"github.com/leadroute/leadadmin/internal/server/store"
)

type DestinationHandler struct {
	store    *store.Store
	envelope Envelope
}

func NewDestinationHandler(s *store.Store, envelope Envelope) *DestinationHandler {
	return &DestinationHandler{store: s, envelope: envelope}
}

// UpdateDestinationRequest accepts the current field names and the legacy ones.
// config_json may be a JSON string holding the config.
type UpdateDestinationRequest struct {
	Type            string          `json:"type"`
	DestinationType string          `json:"destination_type"`
	Enabled         *flexBool       `json:"enabled"`
	IsEnabled       *flexBool       `json:"is_enabled"`
	Config          json.RawMessage `json:"config"`
	ConfigJSON      json.RawMessage `json:"config_json"`
}

type TestDestinationResponse struct {
	OK            bool      `json:"ok"`
	DestinationID string    `json:"destination_id"`
	SentAt        time.Time `json:"sent_at"`
}

func (d *DestinationHandler) ListDestinationsHandler(w http.ResponseWriter, r *http.Request) {
	destinations := d.store.ListDestinations()

	records := make([]map[string]any, 0, len(destinations))
	for _, dest := range destinations {
		records = append(records, d.envelope.Destination(dest))
	}
	responses.RespondWithJSON(w, http.StatusOK, d.envelope.List(leadadmin.DestinationsKey, records, nil))
}

// requestConfig returns the config sent with the request: config is preferred over config_json, a
// JSON string is unwrapped and a missing config is an empty object
func requestConfig(req UpdateDestinationRequest) (json.RawMessage, error) {
	raw := req.Config
	if len(raw) == 0 || string(raw) == "null" {
		raw = req.ConfigJSON
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return json.RawMessage(`{}`), nil
	}

	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, err
		}
		if text == "" {
			return json.RawMessage(`{}`), nil
		}
		raw = json.RawMessage(text)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("config is not valid JSON")
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return nil, err
	}
	return compact.Bytes(), nil
}

// UpdateDestinationHandler replaces the type, enabled flag and config of a destination.
// The config is checked against the schema for the destination type.
func (d *DestinationHandler) UpdateDestinationHandler(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	existing, err := d.store.GetDestination(id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	var req UpdateDestinationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	destinationType := req.Type
	if destinationType == "" {
		destinationType = req.DestinationType
	}
	if destinationType == "" {
		destinationType = existing.Type
	}

	enabled, ok := pick(req.Enabled, req.IsEnabled)
	if !ok {
		enabled = existing.Enabled
	}

	config, err := requestConfig(req)
	if err != nil {
		responses.RespondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeMalformedBody, fmt.Sprintf("invalid config: %v", err))
		return
	}

	if err := schemas.ValidateDestinationConfig(destinationType, config); err != nil {
		responses.RespondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidConfig, err.Error())
		return
	}

	updated, err := d.store.UpdateDestination(id, destinationType, enabled, config)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	logger.ContextWithLogAttrs(r.Context(),
		slog.String("destination_id", updated.ID),
		slog.String("destination_type", updated.Type),
	)

	responses.RespondWithJSON(w, http.StatusOK, d.envelope.Destination(updated))
}

// TestDestinationHandler records a test delivery to the destination
func (d *DestinationHandler) TestDestinationHandler(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	delivery, err := d.store.RecordTestDelivery(id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	logger.ContextWithLogAttrs(r.Context(), slog.String("destination_id", id))

	responses.RespondWithJSON(w, http.StatusOK, TestDestinationResponse{
		OK:            true,
		DestinationID: delivery.DestinationID,
		SentAt:        delivery.SentAt,
	})
}
