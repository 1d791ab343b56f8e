package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func parserFor(t *testing.T, contentType, body string) *RequestBodyParser {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/entries", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return p
}

func TestParseJSONBody(t *testing.T) {
	p := parserFor(t, "application/json", `{"particulars":"Cement","amount":"1500","quantity":50}`)
	if !p.IsJSON() {
		t.Fatal("expected JSON detection")
	}
	if got := p.Get("particulars"); got != "Cement" {
		t.Errorf("particulars = %q, want Cement", got)
	}
	// Numeric JSON values come back as strings.
	if got := p.Get("quantity"); got != "50" {
		t.Errorf("quantity = %q, want 50", got)
	}
	if got := p.Get("missing"); got != "" {
		t.Errorf("missing = %q, want empty", got)
	}
}

func TestParseFormBody(t *testing.T) {
	p := parserFor(t, "application/x-www-form-urlencoded", "particulars=Steel+Rods&amount=2500")
	if p.IsJSON() {
		t.Fatal("expected form detection")
	}
	if got := p.Get("particulars"); got != "Steel Rods" {
		t.Errorf("particulars = %q, want Steel Rods", got)
	}
}

func TestParseEmptyBody(t *testing.T) {
	p := parserFor(t, "", "")
	if got := p.Get("anything"); got != "" {
		t.Errorf("expected empty value, got %q", got)
	}
}

func TestParseInvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/entries", strings.NewReader(`{"broken":`))
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}

func TestHasDistinguishesAbsentFromEmpty(t *testing.T) {
	p := parserFor(t, "application/json", `{"remarks":"","amount":"100"}`)
	if !p.Has("remarks") {
		t.Error("remarks present with empty value, Has should be true")
	}
	if p.Has("paid") {
		t.Error("paid absent, Has should be false")
	}

	p = parserFor(t, "application/x-www-form-urlencoded", "remarks=&amount=100")
	if !p.Has("remarks") || p.Has("paid") {
		t.Error("form Has mismatch")
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  hello  ", "hello"},
		{"with\x00null", "withnull"},
		{"keeps\ttabs", "keeps\ttabs"},
		{"keeps\nnewlines", "keeps\nnewlines"},
		{"bell\x07char", "bellchar"},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.input); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRequireMethodHelpers(t *testing.T) {
	get := httptest.NewRequest(http.MethodGet, "/report", nil)
	post := httptest.NewRequest(http.MethodPost, "/export", nil)

	if RequireGET(get) != nil {
		t.Error("GET should pass RequireGET")
	}
	if RequireGET(post) == nil {
		t.Error("POST should fail RequireGET")
	}
	if RequirePOST(post) != nil {
		t.Error("POST should pass RequirePOST")
	}
	if RequireDeleteOrPOST(get) == nil {
		t.Error("GET should fail RequireDeleteOrPOST")
	}
}
