package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leadroute/leadadmin/internal/ui/types"
)

// LeadPage renders one page of leads followed by a paging summary
func (r *Renderer) LeadPage(page *types.LeadPage) error {
	if r.JSON() {
		return r.Value(page)
	}

	rows := make([][]string, 0, len(page.Leads))
	for _, l := range page.Leads {
		rows = append(rows, []string{
			l.ID,
			orDash(l.Name),
			orDash(l.Email),
			orDash(l.Phone),
			orDash(l.Funnel),
			orDash(l.Status),
			orDash(formatTime(l.ReceivedAt, l.Received)),
		})
	}
	r.table([]string{"ID", "Name", "Email", "Phone", "Funnel", "Status", "Received"}, rows)

	_, err := fmt.Fprintln(r.w, PageSummary(page))
	return err
}

// PageSummary describes the position of a page. The total is only mentioned when the backend
// reported one.
func PageSummary(page *types.LeadPage) string {
	if len(page.Leads) == 0 {
		return fmt.Sprintf("no leads at offset %d", page.Offset)
	}
	summary := fmt.Sprintf("showing %d-%d", page.Offset+1, page.Offset+len(page.Leads))
	if page.Total != nil {
		summary += fmt.Sprintf(" of %d", *page.Total)
	}
	if page.HasMore != nil && !*page.HasMore {
		summary += " (last page)"
	}
	return summary
}

// LeadDetail renders a lead and its original payload
func (r *Renderer) LeadDetail(detail *types.LeadDetail) error {
	if r.JSON() {
		return r.Value(detail)
	}

	l := detail.Lead
	r.table([]string{"Field", "Value"}, [][]string{
		{"ID", l.ID},
		{"Name", orDash(l.Name)},
		{"Email", orDash(l.Email)},
		{"Phone", orDash(l.Phone)},
		{"Funnel", orDash(l.Funnel)},
		{"Status", orDash(l.Status)},
		{"Received", orDash(formatTime(l.ReceivedAt, l.Received))},
	})

	if _, err := fmt.Fprintln(r.w, "Raw payload:"); err != nil {
		return err
	}
	return r.RawJSON(detail.RawPayload)
}

func (r *Renderer) Destinations(destinations []types.Destination) error {
	if r.JSON() {
		return r.Value(destinations)
	}

	rows := make([][]string, 0, len(destinations))
	for _, d := range destinations {
		rows = append(rows, []string{d.ID, orDash(d.Name), orDash(d.Type), yesNo(d.Enabled), configSummary(d.Config)})
	}
	r.table([]string{"ID", "Name", "Type", "Enabled", "Config"}, rows)
	return nil
}

// configSummary lists the top level config keys, values are left to `destinations list -o json`
func configSummary(config map[string]any) string {
	if len(config) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(config))
	for k := range config {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return strings.Join(keys, ", ")
}

func (r *Renderer) Funnels(funnels []types.Funnel) error {
	if r.JSON() {
		return r.Value(funnels)
	}

	rows := make([][]string, 0, len(funnels))
	for _, f := range funnels {
		rows = append(rows, []string{f.Key, orDash(f.Name), yesNo(f.Enabled)})
	}
	r.table([]string{"Key", "Name", "Enabled"}, rows)
	return nil
}

func (r *Renderer) Routes(routes []types.Route) error {
	if r.JSON() {
		return r.Value(routes)
	}

	rows := make([][]string, 0, len(routes))
	for _, rt := range routes {
		rows = append(rows, []string{
			rt.ID,
			rt.FunnelKey,
			orDash(rt.DestinationName),
			rt.DestinationID,
			itoa(rt.Priority),
			yesNo(rt.Enabled),
		})
	}
	r.table([]string{"ID", "Funnel", "Destination", "Destination ID", "Priority", "Enabled"}, rows)
	return nil
}

// RoutingView renders the funnels, the routes of the selected funnel and the destinations a new route
// can point at
func (r *Renderer) RoutingView(view *types.RoutingView, enabled []types.Destination) error {
	if r.JSON() {
		return r.Value(view)
	}

	funnels := make([]string, 0, len(view.Funnels))
	for _, f := range view.Funnels {
		name := f.DisplayName()
		if f.Key == view.SelectedKey {
			name = "[" + name + "]"
		}
		funnels = append(funnels, name)
	}
	if _, err := fmt.Fprintf(r.w, "Funnels: %s\n", orDash(strings.Join(funnels, "  "))); err != nil {
		return err
	}
	if view.SelectedKey == "" {
		_, err := fmt.Fprintln(r.w, "No funnels configured.")
		return err
	}

	rows := make([][]string, 0, len(view.Routes))
	for _, rt := range view.Routes {
		rows = append(rows, []string{rt.ID, rt.DestinationLabel, orDash(rt.TypeLabel), itoa(rt.Priority), yesNo(rt.Enabled)})
	}
	r.table([]string{"Route", "Destination", "Type", "Priority", "Enabled"}, rows)

	names := make([]string, 0, len(enabled))
	for _, d := range enabled {
		names = append(names, fmt.Sprintf("%s (%s)", d.Name, d.ID))
	}
	_, err := fmt.Fprintf(r.w, "Available destinations: %s\n", orDash(strings.Join(names, ", ")))
	return err
}

// ProviderKeys renders provider keys with the key itself masked
func (r *Renderer) ProviderKeys(keys []types.ProviderKey) error {
	masked := make([]types.ProviderKey, 0, len(keys))
	for _, k := range keys {
		masked = append(masked, types.ProviderKey{Provider: k.Provider, APIKey: MaskSecret(k.APIKey)})
	}
	if r.JSON() {
		return r.Value(masked)
	}

	rows := make([][]string, 0, len(masked))
	for _, k := range masked {
		rows = append(rows, []string{k.Provider, orDash(k.APIKey)})
	}
	r.table([]string{"Provider", "API Key"}, rows)
	return nil
}

// MaskSecret keeps the last 4 characters of a secret. Short secrets are masked completely.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", 8) + s[len(s)-4:]
}
