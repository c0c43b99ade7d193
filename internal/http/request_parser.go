package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"budgeteer/internal/core"
	"budgeteer/internal/services"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// pathID extracts the {id} path segment as an int64.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", r.PathValue("id"))
	}
	return id, nil
}

// formString returns a sanitized form value together with a presence flag, so
// handlers can tell "field absent" apart from "field cleared".
func formString(r *http.Request, key string) (string, bool) {
	if !r.Form.Has(key) {
		return "", false
	}
	return sanitizeInput(r.Form.Get(key)), true
}

// optString converts a present form value to a patch pointer.
func optString(r *http.Request, key string) *string {
	v, ok := formString(r, key)
	if !ok || v == "" {
		return nil
	}
	return &v
}

// optInt converts a present numeric form value to a patch pointer.
func optInt(r *http.Request, key string) *int {
	v, ok := formString(r, key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

// optFloat converts a present numeric form value to a patch pointer.
func optFloat(r *http.Request, key string) *float64 {
	v, ok := formString(r, key)
	if !ok || v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

// errorStatus maps domain errors onto HTTP responses. Validation failures are
// 422s the form can display inline; missing rows are 404s.
func errorStatus(err error) *HTMXResponseBuilder {
	switch {
	case isValidationError(err):
		return UnprocessableEntityError(err.Error())
	case isNotFound(err):
		return NotFoundError("not found")
	case isNoActiveBudget(err):
		return UnprocessableEntityError("select a budget first")
	default:
		return InternalServerError("something went wrong")
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		core.ErrInvalidAmount,
		core.ErrEmptyDescription,
		core.ErrEmptyBudgetName,
		core.ErrInvalidCategory,
		core.ErrInvalidExpenseType,
		core.ErrInvalidDueDay,
		core.ErrDueDayRequired,
		core.ErrInvalidTaxPercent,
		core.ErrInvalidPayPeriod,
		core.ErrMissingDate,
		services.ErrInvalidSelection,
	} {
		if errorIs(err, target) {
			return true
		}
	}
	return false
}
