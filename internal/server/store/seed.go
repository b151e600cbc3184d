package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// Seed loads a small sample data set: two funnels, three destinations, their routes and a handful
// of leads
func (s *Store) Seed() {
	hook := s.AddDestination(Destination{
		Name:    "Partner webhook",
		Type:    "webhook",
		Enabled: true,
		Config:  json.RawMessage(`{"url":"https://partner.example.com/leads","secret":"change-me"}`),
	})
	crm := s.AddDestination(Destination{
		Name:    "Sales CRM",
		Type:    "crm_contacts",
		Enabled: true,
		Config:  json.RawMessage(`{"base_url":"https://crm.example.com","list_id":"inbound"}`),
	})
	email := s.AddDestination(Destination{
		Name:    "Ops notification",
		Type:    "internal_notification_email",
		Enabled: false,
		Config:  json.RawMessage(`{"to":["ops@example.com"],"subject":"New lead"}`),
	})

	for _, f := range []Funnel{
		{Key: "solar", Name: "Solar Quotes", Enabled: true},
		{Key: "roofing", Name: "Roofing", Enabled: true},
	} {
		s.PutFunnel(f)
	}

	for _, r := range []Route{
		{FunnelKey: "solar", DestinationID: crm.ID, Priority: 10, Enabled: true},
		{FunnelKey: "solar", DestinationID: hook.ID, Priority: 100, Enabled: true},
		{FunnelKey: "roofing", DestinationID: email.ID, Priority: 100, Enabled: false},
	} {
		_, _ = s.CreateRoute(r)
	}

	s.PutProviderKey("openai", "sk-example-0000000000000000")

	start := s.now().UTC().Add(-48 * time.Hour)
	names := []string{"Ada Byron", "Grace Hopper", "Alan Turing", "Edsger Dijkstra", "Barbara Liskov"}
	for i, name := range names {
		funnel := "solar"
		if i%2 == 1 {
			funnel = "roofing"
		}
		payload, _ := json.Marshal(map[string]any{
			"full_name": name,
			"zip":       fmt.Sprintf("9021%d", i),
			"source":    "landing-page",
		})
		s.AddLead(Lead{
			Name:          name,
			Email:         fmt.Sprintf("lead%d@example.com", i+1),
			Phone:         fmt.Sprintf("+1555010%d", i),
			FunnelKey:     funnel,
			Status:        "received",
			OverallStatus: "delivered",
			ReceivedAt:    start.Add(time.Duration(i) * time.Hour),
			RawPayload:    payload,
		})
	}
}
