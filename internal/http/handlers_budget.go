package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"budgeteer/internal/core"
	"budgeteer/internal/services"
)

type budgetsPageData struct {
	Username string
	Budgets  []core.Budget
	ActiveID int64
}

func (s *Server) handleBudgetsPage(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	list, err := s.budgets.List(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list budgets",
			"error", err,
			"user_id", user.ID)
		errorStatus(err).Write(w)
		return
	}

	var activeID int64
	active, ok, err := s.budgets.Active(r.Context(), user.ID)
	switch {
	case err != nil:
		// The page is still useful without the marker; log and move on.
		slog.WarnContext(r.Context(), "Failed to resolve active budget",
			"error", err,
			"user_id", user.ID)
	case ok:
		activeID = active.ID
	}

	s.render(w, r, "budgets.html", budgetsPageData{
		Username: user.Username,
		Budgets:  list,
		ActiveID: activeID,
	})
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	if err := r.ParseForm(); err != nil {
		BadRequestError("invalid form data").Write(w)
		return
	}

	name, _ := formString(r, "name")
	description, _ := formString(r, "description")

	budget, err := s.budgets.Create(r.Context(), user.ID, name, description)
	if err != nil {
		errorStatus(err).Write(w)
		return
	}

	// A new budget becomes the active one, so every cached view is stale.
	s.invalidateUserCaches(user.ID)

	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerBudgetChanged(budget.ID).
		TriggerOverviewRefresh().
		TriggerFormReset().
		TriggerSuccessNotification("Budget created").
		BodyString("").
		Write(w)
}

func (s *Server) handleSelectBudget(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	if err := r.ParseForm(); err != nil {
		BadRequestError("invalid form data").Write(w)
		return
	}

	raw, _ := formString(r, "budget_id")
	budgetID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		UnprocessableEntityError(services.ErrInvalidSelection.Error()).Write(w)
		return
	}

	if err := s.budgets.Select(r.Context(), user.ID, budgetID); err != nil {
		errorStatus(err).Write(w)
		return
	}

	s.invalidateUserCaches(user.ID)

	NewHTMXResponse().
		TriggerBudgetChanged(budgetID).
		TriggerOverviewRefresh().
		BodyString("").
		Write(w)
}

func (s *Server) handleEditBudget(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	budgetID, err := pathID(r)
	if err != nil {
		BadRequestError("invalid budget id").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("invalid form data").Write(w)
		return
	}

	patch := services.BudgetPatch{
		Name:        optString(r, "name"),
		Description: optString(r, "description"),
	}

	if _, err := s.budgets.Edit(r.Context(), user.ID, budgetID, patch); err != nil {
		errorStatus(err).Write(w)
		return
	}

	s.invalidateUserCaches(user.ID)

	NewHTMXResponse().
		TriggerOverviewRefresh().
		TriggerSuccessNotification("Budget updated").
		BodyString("").
		Write(w)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	budgetID, err := pathID(r)
	if err != nil {
		BadRequestError("invalid budget id").Write(w)
		return
	}

	if err := s.budgets.Delete(r.Context(), user.ID, budgetID); err != nil {
		// A miss with nothing selected means the user is acting on a
		// stale view; steer them to pick a budget rather than 404.
		if isNotFound(err) {
			if _, ok, aerr := s.budgets.Active(r.Context(), user.ID); aerr == nil && !ok {
				errorStatus(services.ErrNoActiveBudget).Write(w)
				return
			}
		}
		errorStatus(err).Write(w)
		return
	}

	s.invalidateUserCaches(user.ID)

	NewHTMXResponse().
		TriggerOverviewRefresh().
		TriggerSuccessNotification("Budget deleted").
		BodyString("").
		Write(w)
}
