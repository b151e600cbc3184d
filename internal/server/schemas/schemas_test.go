package schemas

import (
	"encoding/json"
	"testing"
)

func TestValidateDestinationConfig(t *testing.T) {
	tests := []struct {
		name            string
		destinationType string
		config          string
		wantErr         bool
	}{
		{name: "webhook ok", destinationType: "webhook", config: `{"url":"https://example.com/hook"}`},
		{name: "webhook missing url", destinationType: "webhook", config: `{}`, wantErr: true},
		{name: "webhook bad scheme", destinationType: "webhook", config: `{"url":"ftp://example.com"}`, wantErr: true},
		{name: "crm ok", destinationType: "crm_contacts", config: `{"base_url":"https://crm.example.com","list_id":7}`},
		{name: "email ok", destinationType: "internal_notification_email", config: `{"to":["ops@example.com"]}`},
		{name: "email empty list", destinationType: "internal_notification_email", config: `{"to":[]}`, wantErr: true},
		{name: "client email empty", destinationType: "client_email", config: `{}`},
		{name: "unknown type object", destinationType: "sms", config: `{"anything":true}`},
		{name: "unknown type array", destinationType: "sms", config: `[1,2]`, wantErr: true},
		{name: "malformed", destinationType: "webhook", config: `{"url":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDestinationConfig(tt.destinationType, json.RawMessage(tt.config))
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
