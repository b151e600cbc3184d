package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/leadroute/leadadmin/internal/server"
	"github.com/leadroute/leadadmin/internal/server/config"
	"github.com/leadroute/leadadmin/internal/server/store"
	"github.com/leadroute/leadadmin/internal/ui/auth"
	"github.com/leadroute/leadadmin/internal/ui/client"
	"github.com/leadroute/leadadmin/internal/ui/service"
	"github.com/leadroute/leadadmin/internal/ui/types"
)

const testToken = "test-admin-token"

func testConfig(t *testing.T, envelopeStyle string) *config.ServerEnvironment {
	t.Helper()
	cfg := &config.ServerEnvironment{
		Environment:       "test",
		Host:              "127.0.0.1",
		Port:              8787,
		AdminToken:        testToken,
		EnvelopeStyle:     envelopeStyle,
		MaxAPIRequestSize: 65536,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		IdleTimeout:       5 * time.Second,
	}
	if err := config.ValidateConfig(cfg); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	return cfg
}

// startServer runs a seeded admin API and returns its base URL
func startServer(t *testing.T, envelopeStyle string) string {
	t.Helper()
	cfg := testConfig(t, envelopeStyle)

	corsMiddleware, err := config.NewCORS(cfg.AllowedOrigins)
	if err != nil {
		t.Fatalf("could not create CORS middleware: %v", err)
	}

	s := store.New()
	s.Seed()

	srv := server.NewServer(s, cfg, corsMiddleware, slog.New(slog.DiscardHandler))
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts.URL
}

func newService(baseURL, token string) *service.Service {
	return service.New(client.NewClient(baseURL, auth.StaticToken(token), nil), 2)
}

func TestUnauthenticatedRequest(t *testing.T) {
	baseURL := startServer(t, "current")

	resp, err := http.Get(baseURL + "/admin/leads")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
	if string(body) != "unauthorized" {
		t.Errorf("expected body %q, got %q", "unauthorized", body)
	}

	// through the client the error message is the response text
	_, err = newService(baseURL, "").ListLeads(context.Background(), 0, 0)
	var clientErr *client.ClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("expected *client.ClientError, got %v", err)
	}
	if clientErr.StatusCode != http.StatusUnauthorized || clientErr.Error() != "unauthorized" {
		t.Errorf("unexpected error %d %q", clientErr.StatusCode, clientErr.Error())
	}
}

func TestHealthIsPublic(t *testing.T) {
	baseURL := startServer(t, "current")

	resp, err := http.Get(baseURL + "/health/live")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestLegacyEnvelope(t *testing.T) {
	baseURL := startServer(t, "legacy")

	req, _ := http.NewRequest(http.MethodGet, baseURL+"/admin/destinations", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body map[string][]map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if _, ok := body["results"]; ok {
		t.Error("legacy response must not use the results envelope")
	}
	destinations, ok := body["destinations"]
	if !ok || len(destinations) == 0 {
		t.Fatalf("expected destinations envelope, got %v", body)
	}
	for _, key := range []string{"destination_type", "is_enabled", "config_json"} {
		if _, ok := destinations[0][key]; !ok {
			t.Errorf("expected legacy field %s in %v", key, destinations[0])
		}
	}
	if _, ok := destinations[0]["config_json"].(string); !ok {
		t.Errorf("expected config_json to be a string, got %T", destinations[0]["config_json"])
	}
}

// TestBothEnvelopeStylesNormalizeIdentically runs the same operations against both response shapes
// and checks the canonical records agree
func TestBothEnvelopeStylesNormalizeIdentically(t *testing.T) {
	ctx := context.Background()

	type snapshot struct {
		Destinations []types.Destination
		Funnels      []types.Funnel
		Routes       [][2]string
		Leads        []string
		Total        int
		Payload      map[string]any
	}

	take := func(t *testing.T, style string) snapshot {
		svc := newService(startServer(t, style), testToken)

		destinations, err := svc.ListDestinations(ctx)
		if err != nil {
			t.Fatalf("%s: ListDestinations: %v", style, err)
		}
		view, err := svc.LoadRouting(ctx, "")
		if err != nil {
			t.Fatalf("%s: LoadRouting: %v", style, err)
		}
		page, err := svc.ListLeads(ctx, 0, 0)
		if err != nil {
			t.Fatalf("%s: ListLeads: %v", style, err)
		}
		if page.Total == nil {
			t.Fatalf("%s: expected the total to be reported", style)
		}
		detail, err := svc.GetLead(ctx, page.Leads[0].ID)
		if err != nil {
			t.Fatalf("%s: GetLead: %v", style, err)
		}

		var payload map[string]any
		if err := json.Unmarshal(detail.RawPayload, &payload); err != nil {
			t.Fatalf("%s: payload is not an object: %v", style, err)
		}

		snap := snapshot{
			Destinations: destinations,
			Funnels:      view.Funnels,
			Total:        *page.Total,
			Payload:      payload,
		}
		for _, r := range view.Routes {
			snap.Routes = append(snap.Routes, [2]string{r.DestinationLabel, r.TypeLabel})
		}
		for _, l := range page.Leads {
			snap.Leads = append(snap.Leads, l.Name+"/"+l.Funnel)
		}
		return snap
	}

	current := take(t, "current")
	legacy := take(t, "legacy")

	// ids are generated per server
	ignoreIDs := cmpopts.IgnoreFields(types.Destination{}, "ID")
	if diff := cmp.Diff(current, legacy, ignoreIDs); diff != "" {
		t.Errorf("current and legacy shapes normalize differently (-current +legacy):\n%s", diff)
	}

	if current.Total != 5 {
		t.Errorf("expected 5 leads, got %d", current.Total)
	}
	// funnels are listed by key, so roofing is selected
	wantRoutes := [][2]string{{"Ops notification", "internal_notification_email"}}
	if diff := cmp.Diff(wantRoutes, current.Routes); diff != "" {
		t.Errorf("routes of the first funnel mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateDestination(t *testing.T) {
	for _, style := range []string{"current", "legacy"} {
		t.Run(style, func(t *testing.T) {
			ctx := context.Background()
			svc := newService(startServer(t, style), testToken)

			destinations, err := svc.ListDestinations(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var hook types.Destination
			for _, d := range destinations {
				if d.Type == "webhook" {
					hook = d
				}
			}

			// rejected by the webhook schema
			err = svc.UpdateDestination(ctx, hook.ID, service.DestinationEdit{
				Type:       "webhook",
				Enabled:    true,
				ConfigText: `{"secret":"x"}`,
			})
			var clientErr *client.ClientError
			if !errors.As(err, &clientErr) || clientErr.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected a 400 client error, got %v", err)
			}

			err = svc.UpdateDestination(ctx, hook.ID, service.DestinationEdit{
				Type:       "webhook",
				Enabled:    false,
				ConfigText: `{"url":"https://new.example.com/hook"}`,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			destinations, err = svc.ListDestinations(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, d := range destinations {
				if d.ID != hook.ID {
					continue
				}
				if d.Enabled {
					t.Error("expected destination to be disabled")
				}
				if diff := cmp.Diff(map[string]any{"url": "https://new.example.com/hook"}, d.Config); diff != "" {
					t.Errorf("config mismatch (-want +got):\n%s", diff)
				}
			}

			if err := svc.TestDestination(ctx, hook.ID); err != nil {
				t.Errorf("TestDestination: %v", err)
			}
		})
	}
}

func TestRoutingLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newService(startServer(t, "current"), testToken)

	if err := svc.UpsertFunnel(ctx, "", service.FunnelInput{Name: "Home Loans", Enabled: true}); err != nil {
		t.Fatalf("UpsertFunnel: %v", err)
	}
	funnels, err := svc.ListFunnels(ctx)
	if err != nil {
		t.Fatalf("ListFunnels: %v", err)
	}
	found := false
	for _, f := range funnels {
		if f.Key == "home-loans" && f.Name == "Home Loans" && f.Enabled {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected funnel home-loans in %+v", funnels)
	}

	destinations, err := svc.ListDestinations(ctx)
	if err != nil {
		t.Fatalf("ListDestinations: %v", err)
	}
	target := service.EnabledDestinations(destinations)[0]

	if err := svc.CreateRoute(ctx, service.RouteInput{FunnelKey: "home-loans", DestinationID: target.ID, Enabled: true}); err != nil {
		t.Fatalf("CreateRoute: %v", err)
	}

	view, err := svc.LoadRouting(ctx, "home-loans")
	if err != nil {
		t.Fatalf("LoadRouting: %v", err)
	}
	if len(view.Routes) != 1 {
		t.Fatalf("expected one route, got %d", len(view.Routes))
	}
	route := view.Routes[0]
	if route.Priority != 100 || !route.Enabled || route.DestinationLabel != target.Name {
		t.Errorf("unexpected route %+v", route)
	}

	if err := svc.ToggleRoute(ctx, route.Route); err != nil {
		t.Fatalf("ToggleRoute: %v", err)
	}
	toggled, err := svc.FindRoute(ctx, route.ID)
	if err != nil {
		t.Fatalf("FindRoute: %v", err)
	}
	if toggled.Enabled {
		t.Error("expected route to be disabled after toggle")
	}

	// funnels with routes can not be deleted
	var clientErr *client.ClientError
	if err := svc.DeleteFunnel(ctx, "home-loans"); !errors.As(err, &clientErr) || clientErr.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 deleting a funnel with routes, got %v", err)
	}

	if err := svc.DeleteRoute(ctx, route.ID); err != nil {
		t.Fatalf("DeleteRoute: %v", err)
	}
	if err := svc.DeleteFunnel(ctx, "home-loans"); err != nil {
		t.Fatalf("DeleteFunnel: %v", err)
	}
}

func TestProviderKeys(t *testing.T) {
	ctx := context.Background()
	svc := newService(startServer(t, "legacy"), testToken)

	if err := svc.SetProviderKey(ctx, "anthropic", "sk-ant-123"); err != nil {
		t.Fatalf("SetProviderKey: %v", err)
	}
	keys, err := svc.ListProviderKeys(ctx)
	if err != nil {
		t.Fatalf("ListProviderKeys: %v", err)
	}
	want := []types.ProviderKey{
		{Provider: "anthropic", APIKey: "sk-ant-123"},
		{Provider: "openai", APIKey: "sk-example-0000000000000000"},
	}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("provider keys mismatch (-want +got):\n%s", diff)
	}
}

func TestLeadPagerAgainstServer(t *testing.T) {
	ctx := context.Background()
	svc := newService(startServer(t, "current"), testToken)
	pager := svc.NewLeadPager(0)

	var seen []string
	page, err := pager.Refresh(ctx)
	for err == nil {
		for _, l := range page.Leads {
			seen = append(seen, l.ID)
		}
		page, err = pager.Next(ctx)
	}
	if !errors.Is(err, service.ErrNoMorePages) {
		t.Fatalf("expected ErrNoMorePages, got %v", err)
	}
	if len(seen) != 5 {
		t.Errorf("expected to page through 5 leads, got %d", len(seen))
	}
}

func TestCORSPreflight(t *testing.T) {
	baseURL := startServer(t, "current")

	req, _ := http.NewRequest(http.MethodOptions, baseURL+"/admin/destinations/d1", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "authorization,content-type")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected Access-Control-Allow-Origin *, got %q", got)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		t.Error("preflight requests must not require the bearer token")
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	cfg := testConfig(t, "current")
	corsMiddleware, err := config.NewCORS(cfg.AllowedOrigins)
	if err != nil {
		t.Fatalf("could not create CORS middleware: %v", err)
	}
	srv := server.NewServer(store.New(), cfg, corsMiddleware, slog.New(slog.DiscardHandler))

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/health/live")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "OK") {
		t.Errorf("unexpected health body %q", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("server did not shut down")
	}
}
