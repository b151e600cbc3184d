package utils

import (
	"testing"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "simple", input: "Solar Leads", want: "solar-leads"},
		{name: "diacritics", input: "Énergie Solaire", want: "energie-solaire"},
		{name: "punctuation", input: "Roofing & Gutters!!", want: "roofing-gutters"},
		{name: "surrounding space", input: "  home  loans ", want: "home-loans"},
		{name: "empty", input: "", wantErr: true},
		{name: "nothing usable", input: "!!!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateSlug(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GenerateSlug() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("GenerateSlug() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{"solar": true, "solar-2": true}
	if got := UniqueSlug("solar", func(s string) bool { return taken[s] }); got != "solar-3" {
		t.Errorf("expected solar-3, got %q", got)
	}
	if got := UniqueSlug("roofing", func(s string) bool { return taken[s] }); got != "roofing" {
		t.Errorf("expected roofing, got %q", got)
	}
}
