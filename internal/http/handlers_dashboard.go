package http

import (
	"log/slog"
	"net/http"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/services"
)

type dashboardPageData struct {
	Username   string
	HasBudget  bool
	Overview   services.Overview
	Categories []core.Category
	PayPeriods []core.PayPeriod
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	data := dashboardPageData{
		Username:   user.Username,
		Categories: core.Categories(),
		PayPeriods: core.PayPeriods(),
	}

	overview, err := s.overview(r, user.ID)
	switch {
	case err == nil:
		data.HasBudget = true
		data.Overview = overview
	case isNoActiveBudget(err):
		// First visit: render the page with the budget creation prompt.
	default:
		slog.ErrorContext(r.Context(), "Failed to build dashboard",
			"error", err,
			"user_id", user.ID)
		errorStatus(err).Write(w)
		return
	}

	s.render(w, r, "dashboard.html", data)
}

// handleOverviewPartial re-renders the charts and totals fragment. HTMX
// requests it on overview-refresh triggers.
func (s *Server) handleOverviewPartial(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	overview, err := s.overview(r, user.ID)
	if err != nil {
		if isNoActiveBudget(err) {
			s.render(w, r, "no_budget.html", nil)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to build overview",
			"error", err,
			"user_id", user.ID)
		errorStatus(err).Write(w)
		return
	}

	s.render(w, r, "overview.html", overview)
}

// handleExpenseTablePartial re-renders the expense table rows, honoring the
// same query filters as the expenses page.
func (s *Server) handleExpenseTablePartial(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	filter := expenseFilterFromQuery(r)

	expenses, err := s.entries.ListExpenses(r.Context(), user.ID, filter)
	if err != nil {
		if isNoActiveBudget(err) {
			s.render(w, r, "no_budget.html", nil)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to list expenses",
			"error", err,
			"user_id", user.ID)
		errorStatus(err).Write(w)
		return
	}

	s.render(w, r, "expense_table.html", expensesPageData{
		Username:  user.Username,
		Expenses:  services.ExpenseRows(expenses, time.Now()),
		Category:  string(filter.Category),
		Type:      string(filter.Type),
		HasBudget: true,
	})
}

// overview returns the cached dashboard payload, building it on a miss.
// Filtered expense views bypass the cache; only the unfiltered overview is
// memoized.
func (s *Server) overview(r *http.Request, userID int64) (services.Overview, error) {
	key := overviewCacheKey(userID)
	if cached, ok := s.overviewCache.Get(key); ok {
		return cached, nil
	}

	overview, err := s.reports.Dashboard(r.Context(), userID, time.Now())
	if err != nil {
		return services.Overview{}, err
	}
	s.overviewCache.Set(key, overview)
	return overview, nil
}
