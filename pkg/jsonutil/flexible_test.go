package jsonutil

import (
	"encoding/json"
	"testing"
)

func TestFlexibleString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"string", `"relatorio.pdf"`, "relatorio.pdf"},
		{"integer", `42`, "42"},
		{"float", `3.5`, "3.5"},
		{"boolean", `true`, "true"},
		{"null", `null`, ""},
		{"empty", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlexibleString(json.RawMessage(tt.input))
			if got != tt.want {
				t.Errorf("FlexibleString(%s) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	got := FirstNonEmpty(nil, json.RawMessage(`null`), json.RawMessage(`"mandado.pdf"`))
	if got != "mandado.pdf" {
		t.Errorf("expected mandado.pdf, got %q", got)
	}

	if got := FirstNonEmpty(nil, json.RawMessage(`null`)); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
