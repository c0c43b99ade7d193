package http

import (
	"log/slog"
	"net/http"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/services"
	"budgeteer/internal/storage"
)

const dateLayout = "2006-01-02"

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	if err := r.ParseForm(); err != nil {
		BadRequestError("invalid form data").Write(w)
		return
	}

	in := services.AddExpenseInput{}
	in.Description, _ = formString(r, "description")
	in.Amount, _ = formString(r, "amount")
	in.Category, _ = formString(r, "category")
	in.Type, _ = formString(r, "expense_type")
	if dueDay := optInt(r, "due_day"); dueDay != nil {
		in.DueDay = *dueDay
	}
	if raw, ok := formString(r, "transaction_date"); ok && raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			UnprocessableEntityError("invalid transaction date").Write(w)
			return
		}
		in.TransactionDate = date
	}

	if _, err := s.entries.AddExpense(r.Context(), user.ID, in); err != nil {
		errorStatus(err).Write(w)
		return
	}

	s.invalidateUserCaches(user.ID)

	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerOverviewRefresh().
		TriggerFormReset().
		TriggerSuccessNotification("Expense added").
		BodyString("").
		Write(w)
}

func (s *Server) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	expenseID, err := pathID(r)
	if err != nil {
		BadRequestError("invalid expense id").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("invalid form data").Write(w)
		return
	}

	patch := services.ExpensePatch{
		Description: optString(r, "description"),
		Amount:      optString(r, "amount"),
		Category:    optString(r, "category"),
		Type:        optString(r, "expense_type"),
		DueDay:      optInt(r, "due_day"),
	}
	if raw, ok := formString(r, "transaction_date"); ok && raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			UnprocessableEntityError("invalid transaction date").Write(w)
			return
		}
		patch.TransactionDate = &date
	}

	if _, err := s.entries.EditExpense(r.Context(), user.ID, expenseID, patch); err != nil {
		errorStatus(err).Write(w)
		return
	}

	s.invalidateUserCaches(user.ID)

	NewHTMXResponse().
		TriggerOverviewRefresh().
		TriggerSuccessNotification("Expense updated").
		BodyString("").
		Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	expenseID, err := pathID(r)
	if err != nil {
		BadRequestError("invalid expense id").Write(w)
		return
	}

	if err := s.entries.DeleteExpense(r.Context(), user.ID, expenseID); err != nil {
		errorStatus(err).Write(w)
		return
	}

	s.invalidateUserCaches(user.ID)

	NewHTMXResponse().
		TriggerOverviewRefresh().
		TriggerSuccessNotification("Expense deleted").
		BodyString("").
		Write(w)
}

type expensesPageData struct {
	Username  string
	Expenses  []services.ExpenseRow
	Category  string
	Type      string
	HasBudget bool
}

func (s *Server) handleExpensesPage(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	filter := expenseFilterFromQuery(r)

	data := expensesPageData{
		Username: user.Username,
		Category: string(filter.Category),
		Type:     string(filter.Type),
	}

	expenses, err := s.entries.ListExpenses(r.Context(), user.ID, filter)
	switch {
	case err == nil:
		data.HasBudget = true
		data.Expenses = services.ExpenseRows(expenses, time.Now())
	case isNoActiveBudget(err):
		// Page still renders, with a prompt to pick a budget.
	default:
		slog.ErrorContext(r.Context(), "Failed to list expenses",
			"error", err,
			"user_id", user.ID)
		errorStatus(err).Write(w)
		return
	}

	s.render(w, r, "expenses.html", data)
}

func expenseFilterFromQuery(r *http.Request) storage.ExpenseFilter {
	q := r.URL.Query()
	return storage.ExpenseFilter{
		Category: core.Category(sanitizeInput(q.Get("category"))),
		Type:     core.ExpenseType(sanitizeInput(q.Get("type"))),
	}
}
