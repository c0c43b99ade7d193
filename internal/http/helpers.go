package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"

	"budgeteer/internal/core"
	"budgeteer/internal/services"
	"budgeteer/internal/storage"
)

func errorIs(err, target error) bool {
	return errors.Is(err, target)
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}

func isNoActiveBudget(err error) bool {
	return errors.Is(err, services.ErrNoActiveBudget)
}

func overviewCachePrefix(userID int64) string {
	return fmt.Sprintf("user:%d:", userID)
}

func overviewCacheKey(userID int64) string {
	return fmt.Sprintf("user:%d:overview", userID)
}

// templateFuncs exposes the domain enums, money formatting, and a JSON
// encoder for chart data attributes to templates.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"money": func(m core.Money) string {
			return m.Display()
		},
		"categories": core.Categories,
		"payPeriods": core.PayPeriods,
		"json": func(v any) (string, error) {
			b, err := json.Marshal(v)
			return string(b), err
		},
	}
}
