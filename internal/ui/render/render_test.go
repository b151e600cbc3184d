package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leadroute/leadadmin/internal/ui/types"
)

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

func TestPageSummary(t *testing.T) {
	leads := []types.Lead{{ID: "a"}, {ID: "b"}}
	tests := []struct {
		name string
		page *types.LeadPage
		want string
	}{
		{
			name: "unknown total",
			page: &types.LeadPage{Leads: leads, Offset: 20},
			want: "showing 21-22",
		},
		{
			name: "known total on last page",
			page: &types.LeadPage{Leads: leads, Offset: 0, Total: intPtr(2), HasMore: boolPtr(false)},
			want: "showing 1-2 of 2 (last page)",
		},
		{
			name: "empty",
			page: &types.LeadPage{Offset: 40},
			want: "no leads at offset 40",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PageSummary(tt.page); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestMaskSecret(t *testing.T) {
	tests := map[string]string{
		"":                 "",
		"short":            "*****",
		"sk-live-12345678": "********5678",
	}
	for in, want := range tests {
		if got := MaskSecret(in); got != want {
			t.Errorf("MaskSecret(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestTables(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, FormatTable, false)

	err := r.Destinations([]types.Destination{
		{ID: "d1", Name: "Main hook", Type: "webhook", Enabled: true, Config: map[string]any{"url": "x", "secret": "y"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"d1", "Main hook", "webhook", "yes", "secret, url"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := r.ProviderKeys([]types.ProviderKey{{Provider: "openai", APIKey: "sk-live-12345678"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "sk-live") {
		t.Errorf("provider key was not masked:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "5678") {
		t.Errorf("expected key suffix in output:\n%s", buf.String())
	}
}

func TestRoutingViewTable(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, FormatTable, false)

	view := &types.RoutingView{
		Funnels:     []types.Funnel{{Key: "solar", Name: "Solar"}, {Key: "roofing"}},
		SelectedKey: "solar",
		Routes: []types.RouteRow{
			{Route: types.Route{ID: "r1", Priority: 100, Enabled: true}, DestinationLabel: "Main hook", TypeLabel: "webhook"},
		},
	}
	if err := r.RoutingView(view, []types.Destination{{ID: "d1", Name: "Main hook"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"[Solar]", "roofing", "r1", "Main hook", "100", "Main hook (d1)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, FormatJSON, false)

	funnels := []types.Funnel{{Key: "solar", Name: "Solar", Enabled: true}}
	if err := r.Funnels(funnels); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []types.Funnel
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if diff := cmp.Diff(funnels, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRawJSON(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		color bool
		check func(t *testing.T, out string)
	}{
		{
			name: "indented",
			in:   `{"zip":"90210"}`,
			check: func(t *testing.T, out string) {
				if out != "{\n  \"zip\": \"90210\"\n}\n" {
					t.Errorf("unexpected output %q", out)
				}
			},
		},
		{
			name: "empty payload",
			in:   "",
			check: func(t *testing.T, out string) {
				if out != "{}\n" {
					t.Errorf("unexpected output %q", out)
				}
			},
		},
		{
			name:  "highlighted",
			in:    `{"zip":"90210"}`,
			color: true,
			check: func(t *testing.T, out string) {
				if !strings.Contains(out, "\x1b[") {
					t.Errorf("expected terminal escape codes in %q", out)
				}
				if !strings.Contains(out, "90210") {
					t.Errorf("expected value in %q", out)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := New(&buf, FormatTable, tt.color).RawJSON([]byte(tt.in)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, buf.String())
		})
	}
}
