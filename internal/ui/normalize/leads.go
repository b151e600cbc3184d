package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"

	leadadmin "github.com/leadroute/leadadmin"
	"github.com/leadroute/leadadmin/internal/ui/types"
)

// Lead canonicalizes one lead record. overall_status and funnel_key are preferred over the older
// status and funnel fields.
func Lead(r Record) types.Lead {
	receivedAt := r.Get("received_at", "created_at")
	return types.Lead{
		ID:         r.String("id"),
		Name:       r.String("name"),
		Email:      r.String("email"),
		Phone:      r.String("phone"),
		Funnel:     r.String("funnel_key", "funnel"),
		Status:     r.String("overall_status", "status"),
		ReceivedAt: String(receivedAt),
		Received:   Time(receivedAt),
		Raw:        r.Raw(),
	}
}

// Leads normalizes a lead list response
func Leads(body json.RawMessage) ([]types.Lead, error) {
	records, err := Records(body, leadadmin.LeadsKey)
	if err != nil {
		return nil, err
	}
	leads := make([]types.Lead, 0, len(records))
	for _, r := range records {
		leads = append(leads, Lead(r))
	}
	return leads, nil
}

// LeadPage normalizes a lead list response into a page.
//
// Total is taken from "total" or "count" and HasMore from "has_more" when the backend sends them.
// When only the total is known HasMore is derived from it; when neither is sent both stay nil.
func LeadPage(body json.RawMessage, limit, offset int) (*types.LeadPage, error) {
	leads, err := Leads(body)
	if err != nil {
		return nil, err
	}

	page := &types.LeadPage{
		Leads:  leads,
		Limit:  limit,
		Offset: offset,
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return page, nil
	}
	envelope, err := ParseRecord(trimmed)
	if err != nil {
		return page, nil
	}

	if envelope.Has("total", "count") {
		total := envelope.Int("total", "count")
		page.Total = &total
	}
	if envelope.Has("has_more") {
		hasMore := envelope.Bool("has_more")
		page.HasMore = &hasMore
	} else if page.Total != nil {
		hasMore := offset+len(leads) < *page.Total
		page.HasMore = &hasMore
	}
	return page, nil
}

// LeadDetail normalizes the single lead response {lead: {...}, raw_payload: {...}}.
// A bare lead object is accepted too; its raw_payload field (if any) is used as the payload.
func LeadDetail(body json.RawMessage) (*types.LeadDetail, error) {
	envelope, err := ParseRecord(bytes.TrimSpace(body))
	if err != nil {
		return nil, fmt.Errorf("decoding lead response: %w", err)
	}

	leadRecord := envelope
	if raw := envelope.Get(leadadmin.LeadKey); raw != nil {
		leadRecord, err = ParseRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("decoding lead: %w", err)
		}
	}

	payload := envelope.Get(leadadmin.RawPayloadKey, "payload")
	if payload == nil {
		payload = leadRecord.Get(leadadmin.RawPayloadKey, "payload")
	}
	payload = decodeStringPayload(payload)
	if payload == nil {
		payload = json.RawMessage(`{}`)
	}

	return &types.LeadDetail{
		Lead:       Lead(leadRecord),
		RawPayload: payload,
	}, nil
}

// decodeStringPayload unwraps payloads stored as a JSON encoded string.
// Strings that do not hold JSON are kept as the string value.
func decodeStringPayload(v json.RawMessage) json.RawMessage {
	if v == nil || v[0] != '"' {
		return v
	}
	s := String(v)
	if s == "" {
		return nil
	}
	if json.Valid([]byte(s)) {
		return json.RawMessage(s)
	}
	return v
}
