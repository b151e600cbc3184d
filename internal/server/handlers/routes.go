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

type RouteHandler struct {
	store    *store.Store
	envelope Envelope
}

func NewRouteHandler(s *store.Store, envelope Envelope) *RouteHandler {
	return &RouteHandler{store: s, envelope: envelope}
}

type RouteRequest struct {
	FunnelKey     string    `json:"funnel_key"`
	DestinationID string    `json:"destination_id"`
	Priority      *int      `json:"priority"`
	Enabled       *flexBool `json:"enabled"`
	IsEnabled     *flexBool `json:"is_enabled"`
}

func (req RouteRequest) route(id string) store.Route {
	priority := leadadmin.DefaultRoutePriority
	if req.Priority != nil {
		priority = *req.Priority
	}
	enabled, ok := pick(req.IsEnabled, req.Enabled)
	if !ok {
		enabled = true
	}
	return store.Route{
		ID:            id,
		FunnelKey:     req.FunnelKey,
		DestinationID: req.DestinationID,
		Priority:      priority,
		Enabled:       enabled,
	}
}

func (rt *RouteHandler) render(route store.Route) map[string]any {
	var destination *store.Destination
	if d, err := rt.store.GetDestination(route.DestinationID); err == nil {
		destination = &d
	}
	return rt.envelope.Route(route, destination)
}

// ListRoutesHandler returns routes ordered by priority.
//
// Query: funnel_key (optional) restricts the list to one funnel.
func (rt *RouteHandler) ListRoutesHandler(w http.ResponseWriter, r *http.Request) {
	routes := rt.store.ListRoutes(r.URL.Query().Get("funnel_key"))

	records := make([]map[string]any, 0, len(routes))
	for _, route := range routes {
		records = append(records, rt.render(route))
	}
	responses.RespondWithJSON(w, http.StatusOK, rt.envelope.List(leadadmin.RoutesKey, records, nil))
}

func (rt *RouteHandler) CreateRouteHandler(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FunnelKey == "" || req.DestinationID == "" {
		responses.RespondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeMalformedBody, "funnel_key and destination_id are required")
		return
	}

	route, err := rt.store.CreateRoute(req.route(""))
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	logger.ContextWithLogAttrs(r.Context(),
		slog.String("route_id", route.ID),
		slog.String("funnel_key", route.FunnelKey),
	)

	responses.RespondWithJSON(w, http.StatusCreated, rt.render(route))
}

func (rt *RouteHandler) UpdateRouteHandler(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	var req RouteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FunnelKey == "" || req.DestinationID == "" {
		responses.RespondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeMalformedBody, "funnel_key and destination_id are required")
		return
	}

	route, err := rt.store.UpdateRoute(req.route(id))
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	logger.ContextWithLogAttrs(r.Context(), slog.String("route_id", route.ID))

	responses.RespondWithJSON(w, http.StatusOK, rt.render(route))
}

func (rt *RouteHandler) DeleteRouteHandler(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	if err := rt.store.DeleteRoute(id); err != nil {
		respondStoreError(w, r, err)
		return
	}

	logger.ContextWithLogAttrs(r.Context(), slog.String("route_id", id))

	responses.RespondWithJSON(w, http.StatusNoContent, nil)
}
