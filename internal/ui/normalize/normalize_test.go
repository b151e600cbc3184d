package normalize

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/leadroute/leadadmin/internal/ui/types"
)

func TestDestinations(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []types.Destination
		wantErr bool
	}{
		{
			name: "current field names",
			body: `{"results":[{"id":"d1","name":"Hook","type":"webhook","enabled":true,"config":{"url":"https://example.com/hook"}}]}`,
			want: []types.Destination{{
				ID: "d1", Name: "Hook", Type: "webhook", Enabled: true,
				Config: map[string]any{"url": "https://example.com/hook"},
			}},
		},
		{
			name: "legacy field names with string encoded config",
			body: `{"destinations":[{"id":7,"name":"CRM","destination_type":"crm_contacts","is_enabled":1,"config_json":"{\"list_id\":\"abc\",\"tags\":[\"solar\"]}"}]}`,
			want: []types.Destination{{
				ID: "7", Name: "CRM", Type: "crm_contacts", Enabled: true,
				Config: map[string]any{"list_id": "abc", "tags": []any{"solar"}},
			}},
		},
		{
			name: "config_json already parsed",
			body: `{"results":[{"id":"d2","type":"client_email","is_enabled":0,"config_json":{"to":"ops@example.com"}}]}`,
			want: []types.Destination{{
				ID: "d2", Type: "client_email", Enabled: false,
				Config: map[string]any{"to": "ops@example.com"},
			}},
		},
		{
			name: "no config at all",
			body: `{"results":[{"id":"d3","type":"webhook","enabled":false}]}`,
			want: []types.Destination{{ID: "d3", Type: "webhook", Config: map[string]any{}}},
		},
		{
			name: "empty string config",
			body: `{"results":[{"id":"d4","config_json":""}]}`,
			want: []types.Destination{{ID: "d4", Config: map[string]any{}}},
		},
		{
			name:    "malformed config string",
			body:    `{"results":[{"id":"d5","config_json":"{not json"}]}`,
			wantErr: true,
		},
		{
			name: "neither envelope key",
			body: `{}`,
			want: []types.Destination{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Destinations(json.RawMessage(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Destinations() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Destinations() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigPassesObjectThroughUnchanged(t *testing.T) {
	rec, err := ParseRecord(json.RawMessage(`{"config":{"headers":{"X-Key":"1"},"retries":3}}`))
	if err != nil {
		t.Fatal(err)
	}
	got, err := Config(rec)
	if err != nil {
		t.Fatalf("Config() error = %v", err)
	}
	want := map[string]any{"headers": map[string]any{"X-Key": "1"}, "retries": json.Number("3")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Config() mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigKeepsLargeIntegers(t *testing.T) {
	rec, err := ParseRecord(json.RawMessage(`{"config_json":"{\"account_id\":9007199254740993,\"ratio\":0.5}"}`))
	if err != nil {
		t.Fatal(err)
	}
	got, err := Config(rec)
	if err != nil {
		t.Fatalf("Config() error = %v", err)
	}

	data, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("re-encoding config: %v", err)
	}
	want := `{"account_id":9007199254740993,"ratio":0.5}`
	if string(data) != want {
		t.Errorf("config changed on re-encode: got %s, want %s", data, want)
	}
}

func TestUnmarshalRejectsTrailingData(t *testing.T) {
	var v any
	if err := Unmarshal([]byte(`{"a":1} {"b":2}`), &v); err == nil {
		t.Error("expected an error for trailing data")
	}
	if err := Unmarshal([]byte(` {"a":1} `), &v); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLeads(t *testing.T) {
	body := `{"leads":[
		{"id":"l1","name":"Ada","email":"ada@example.com","phone":"555","funnel":"solar","overall_status":"routed","status":"new","received_at":"2025-03-14T09:26:53Z"},
		{"id":"l2","funnel_key":"roofing","status":"failed","received_at":1741944413000},
		{"id":"l3","funnel_key":"solar","funnel":"legacy-solar","status":"new","received_at":"2025-03-14 09:26:53"}
	]}`

	got, err := Leads(json.RawMessage(body))
	if err != nil {
		t.Fatalf("Leads() error = %v", err)
	}

	want := []types.Lead{
		{ID: "l1", Name: "Ada", Email: "ada@example.com", Phone: "555", Funnel: "solar", Status: "routed", ReceivedAt: "2025-03-14T09:26:53Z"},
		{ID: "l2", Funnel: "roofing", Status: "failed", ReceivedAt: "1741944413000"},
		{ID: "l3", Funnel: "solar", Status: "new", ReceivedAt: "2025-03-14 09:26:53"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(types.Lead{}, "Received", "Raw")); diff != "" {
		t.Errorf("Leads() mismatch (-want +got):\n%s", diff)
	}
	for _, l := range got {
		if l.Received.IsZero() {
			t.Errorf("lead %s: received time not parsed", l.ID)
		}
		if len(l.Raw) == 0 {
			t.Errorf("lead %s: raw record not kept", l.ID)
		}
	}
}

func TestLeadPage(t *testing.T) {
	intPtr := func(i int) *int { return &i }
	boolPtr := func(b bool) *bool { return &b }

	tests := []struct {
		name        string
		body        string
		offset      int
		wantTotal   *int
		wantHasMore *bool
	}{
		{
			name: "no paging metadata",
			body: `{"results":[{"id":"a"}]}`,
		},
		{
			name:        "total reported",
			body:        `{"results":[{"id":"a"},{"id":"b"}],"total":5}`,
			offset:      2,
			wantTotal:   intPtr(5),
			wantHasMore: boolPtr(true),
		},
		{
			name:        "last page by total",
			body:        `{"results":[{"id":"a"}],"count":"3"}`,
			offset:      2,
			wantTotal:   intPtr(3),
			wantHasMore: boolPtr(false),
		},
		{
			name:        "explicit has_more",
			body:        `{"results":[],"has_more":false}`,
			wantHasMore: boolPtr(false),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := LeadPage(json.RawMessage(tt.body), 2, tt.offset)
			if err != nil {
				t.Fatalf("LeadPage() error = %v", err)
			}
			if page.Limit != 2 || page.Offset != tt.offset {
				t.Errorf("limit/offset = %d/%d, want 2/%d", page.Limit, page.Offset, tt.offset)
			}
			if diff := cmp.Diff(tt.wantTotal, page.Total); diff != "" {
				t.Errorf("Total mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantHasMore, page.HasMore); diff != "" {
				t.Errorf("HasMore mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLeadDetail(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantID      string
		wantStatus  string
		wantPayload string
	}{
		{
			name:        "lead envelope",
			body:        `{"lead":{"id":"l1","status":"new"},"raw_payload":{"first_name":"Ada"}}`,
			wantID:      "l1",
			wantStatus:  "new",
			wantPayload: `{"first_name":"Ada"}`,
		},
		{
			name:        "missing payload",
			body:        `{"lead":{"id":"l2","overall_status":"routed"}}`,
			wantID:      "l2",
			wantStatus:  "routed",
			wantPayload: `{}`,
		},
		{
			name:        "bare lead with string encoded payload",
			body:        `{"id":"l3","raw_payload":"{\"zip\":\"90210\"}"}`,
			wantID:      "l3",
			wantPayload: `{"zip":"90210"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LeadDetail(json.RawMessage(tt.body))
			if err != nil {
				t.Fatalf("LeadDetail() error = %v", err)
			}
			if got.Lead.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", got.Lead.ID, tt.wantID)
			}
			if got.Lead.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", got.Lead.Status, tt.wantStatus)
			}
			if string(got.RawPayload) != tt.wantPayload {
				t.Errorf("RawPayload = %s, want %s", got.RawPayload, tt.wantPayload)
			}
		})
	}
}

func TestRoutingRecords(t *testing.T) {
	funnels, err := Funnels(json.RawMessage(`{"results":[{"key":"solar","name":"Solar","is_enabled":1},{"key":"roofing","enabled":false}]}`))
	if err != nil {
		t.Fatalf("Funnels() error = %v", err)
	}
	wantFunnels := []types.Funnel{
		{Key: "solar", Name: "Solar", Enabled: true},
		{Key: "roofing"},
	}
	if diff := cmp.Diff(wantFunnels, funnels); diff != "" {
		t.Errorf("Funnels() mismatch (-want +got):\n%s", diff)
	}

	routes, err := Routes(json.RawMessage(`{"routes":[{"id":12,"funnel_key":"solar","destination_id":"d1","priority":"50","is_enabled":true,"destination_name":"Hook"}]}`))
	if err != nil {
		t.Fatalf("Routes() error = %v", err)
	}
	wantRoutes := []types.Route{
		{ID: "12", FunnelKey: "solar", DestinationID: "d1", Priority: 50, Enabled: true, DestinationName: "Hook"},
	}
	if diff := cmp.Diff(wantRoutes, routes); diff != "" {
		t.Errorf("Routes() mismatch (-want +got):\n%s", diff)
	}

	keys, err := ProviderKeys(json.RawMessage(`{"provider_keys":[{"provider":"hubspot","api_key":"pat-123"}]}`))
	if err != nil {
		t.Fatalf("ProviderKeys() error = %v", err)
	}
	if diff := cmp.Diff([]types.ProviderKey{{Provider: "hubspot", APIKey: "pat-123"}}, keys); diff != "" {
		t.Errorf("ProviderKeys() mismatch (-want +got):\n%s", diff)
	}
}
