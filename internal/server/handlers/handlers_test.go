package handlers

import (
	"encoding/json"
	"testing"
)

func TestFlexBool(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"true", true},
		{"false", false},
		{"1", true},
		{"0", false},
		{`"yes"`, true},
		{`"0"`, false},
		{"null", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var b flexBool
			if err := json.Unmarshal([]byte(tt.in), &b); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if bool(b) != tt.want {
				t.Errorf("expected %v, got %v", tt.want, b)
			}
		})
	}

	var b flexBool
	if err := json.Unmarshal([]byte(`[1]`), &b); err == nil {
		t.Error("expected an error for an array")
	}
}

func TestRequestConfig(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "object", body: `{"config":{"url": "https://x"}}`, want: `{"url":"https://x"}`},
		{name: "legacy string", body: `{"config_json":"{\"url\":\"https://x\"}"}`, want: `{"url":"https://x"}`},
		{name: "config preferred", body: `{"config":{"a":1},"config_json":"{\"b\":2}"}`, want: `{"a":1}`},
		{name: "missing", body: `{}`, want: `{}`},
		{name: "empty string", body: `{"config_json":""}`, want: `{}`},
		{name: "malformed string", body: `{"config_json":"{nope"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateDestinationRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("could not decode request: %v", err)
			}
			got, err := requestConfig(req)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
