package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sitebook/internal/core"
	"sitebook/internal/ledger"
	"sitebook/internal/storage"
)

func TestResponseBuilderBasic(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		Status(http.StatusCreated).
		JSON(map[string]string{"id": "abc"}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if !strings.Contains(w.Body.String(), `"id":"abc"`) {
		t.Errorf("Body = %q, missing id field", w.Body.String())
	}
}

func TestResponseBuilderCustomHeader(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().Header("X-Test", "yes").Write(w)
	if got := w.Header().Get("X-Test"); got != "yes" {
		t.Errorf("X-Test = %q, want yes", got)
	}
}

func TestMethodNotAllowedSetsAllow(t *testing.T) {
	w := httptest.NewRecorder()
	MethodNotAllowedError("GET, POST").Write(w)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Status code = %d, want 405", w.Code)
	}
	if got := w.Header().Get("Allow"); got != "GET, POST" {
		t.Errorf("Allow = %q, want GET, POST", got)
	}
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"storage not found", storage.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("get project: %w", storage.ErrNotFound), http.StatusNotFound},
		{"entry not found", ledger.ErrEntryNotFound, http.StatusNotFound},
		{"duplicate client", core.ErrDuplicateClient, http.StatusConflict},
		{"drawing decided", core.ErrDrawingDecided, http.StatusConflict},
		{"verification mismatch", core.ErrVerificationMismatch, http.StatusConflict},
		{"missing particulars", core.ErrMissingParticulars, http.StatusUnprocessableEntity},
		{"invalid date", core.ErrInvalidDate, http.StatusUnprocessableEntity},
		{"paid exceeds amount", core.ErrPaidExceedsAmount, http.StatusUnprocessableEntity},
		{"unknown", errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			FromError(tt.err).Write(w)
			if w.Code != tt.want {
				t.Errorf("Status code = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestFromErrorNeverLeaksUnknownErrors(t *testing.T) {
	w := httptest.NewRecorder()
	FromError(errors.New("dsn=user:hunter2@tcp")).Write(w)
	if strings.Contains(w.Body.String(), "hunter2") {
		t.Errorf("internal error leaked into response: %s", w.Body.String())
	}
}
