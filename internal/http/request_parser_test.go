package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"budgeteer/internal/core"
	"budgeteer/internal/services"
	"budgeteer/internal/storage"
)

func formRequest(t *testing.T, form url.Values) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if err := req.ParseForm(); err != nil {
		t.Fatalf("ParseForm: %v", err)
	}
	return req
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello", "hello"},
		{"trims whitespace", "  hello  ", "hello"},
		{"strips control chars", "he\x00llo\x07", "hello"},
		{"keeps newline and tab", "a\tb\nc", "a\tb\nc"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeInput(tt.input); got != tt.want {
				t.Errorf("sanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormString_PresenceFlag(t *testing.T) {
	req := formRequest(t, url.Values{"present": {"  value "}, "empty": {""}})

	if v, ok := formString(req, "present"); !ok || v != "value" {
		t.Errorf("present = %q, %v", v, ok)
	}
	if v, ok := formString(req, "empty"); !ok || v != "" {
		t.Errorf("empty = %q, %v; want present but blank", v, ok)
	}
	if _, ok := formString(req, "missing"); ok {
		t.Error("missing field reported as present")
	}
}

func TestOptHelpers(t *testing.T) {
	req := formRequest(t, url.Values{
		"s":     {"text"},
		"i":     {"42"},
		"f":     {"3.5"},
		"bad":   {"abc"},
		"blank": {""},
	})

	if got := optString(req, "s"); got == nil || *got != "text" {
		t.Errorf("optString = %v", got)
	}
	if got := optString(req, "blank"); got != nil {
		t.Errorf("optString blank = %v, want nil", got)
	}
	if got := optInt(req, "i"); got == nil || *got != 42 {
		t.Errorf("optInt = %v", got)
	}
	if got := optInt(req, "bad"); got != nil {
		t.Errorf("optInt bad = %v, want nil", got)
	}
	if got := optFloat(req, "f"); got == nil || *got != 3.5 {
		t.Errorf("optFloat = %v", got)
	}
	if got := optFloat(req, "missing"); got != nil {
		t.Errorf("optFloat missing = %v, want nil", got)
	}
}

func TestPathID(t *testing.T) {
	mux := http.NewServeMux()
	var gotID int64
	var gotErr error
	mux.HandleFunc("POST /things/{id}", func(w http.ResponseWriter, r *http.Request) {
		gotID, gotErr = pathID(r)
	})

	for _, tt := range []struct {
		path    string
		wantID  int64
		wantErr bool
	}{
		{"/things/7", 7, false},
		{"/things/0", 0, true},
		{"/things/-3", 0, true},
		{"/things/abc", 0, true},
	} {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, tt.path, nil))
		if tt.wantErr && gotErr == nil {
			t.Errorf("%s: expected error", tt.path)
		}
		if !tt.wantErr && (gotErr != nil || gotID != tt.wantID) {
			t.Errorf("%s: id=%d err=%v", tt.path, gotID, gotErr)
		}
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", core.ErrInvalidAmount, http.StatusUnprocessableEntity},
		{"empty budget name", core.ErrEmptyBudgetName, http.StatusUnprocessableEntity},
		{"invalid selection", services.ErrInvalidSelection, http.StatusUnprocessableEntity},
		{"not found", storage.ErrNotFound, http.StatusNotFound},
		{"no active budget", services.ErrNoActiveBudget, http.StatusUnprocessableEntity},
		{"unknown", context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			errorStatus(tt.err).Write(rr)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestExpenseFilterFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/expenses?category=housing&type=monthly_bill", nil)

	filter := expenseFilterFromQuery(req)
	if filter.Category != core.CategoryHousing {
		t.Errorf("Category = %q, want %q", filter.Category, core.CategoryHousing)
	}
	if filter.Type != core.TypeMonthlyBill {
		t.Errorf("Type = %q, want %q", filter.Type, core.TypeMonthlyBill)
	}

	empty := expenseFilterFromQuery(httptest.NewRequest(http.MethodGet, "/expenses", nil))
	if empty != (storage.ExpenseFilter{}) {
		t.Errorf("filter without query params = %+v, want zero value", empty)
	}
}
