package http

import (
	"net/http"

	"budgeteer/internal/services"
)

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	if err := r.ParseForm(); err != nil {
		BadRequestError("invalid form data").Write(w)
		return
	}

	in := services.AddIncomeInput{}
	in.Description, _ = formString(r, "description")
	in.Amount, _ = formString(r, "amount")
	in.PayPeriod, _ = formString(r, "pay_period")
	if tax := optFloat(r, "tax_percent"); tax != nil {
		in.TaxPercent = *tax
	}

	if _, err := s.entries.AddIncome(r.Context(), user.ID, in); err != nil {
		errorStatus(err).Write(w)
		return
	}

	s.invalidateUserCaches(user.ID)

	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerOverviewRefresh().
		TriggerFormReset().
		TriggerSuccessNotification("Income added").
		BodyString("").
		Write(w)
}

func (s *Server) handleEditIncome(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	incomeID, err := pathID(r)
	if err != nil {
		BadRequestError("invalid income id").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("invalid form data").Write(w)
		return
	}

	patch := services.IncomePatch{
		Description: optString(r, "description"),
		Amount:      optString(r, "amount"),
		PayPeriod:   optString(r, "pay_period"),
		TaxPercent:  optFloat(r, "tax_percent"),
	}

	if _, err := s.entries.EditIncome(r.Context(), user.ID, incomeID, patch); err != nil {
		errorStatus(err).Write(w)
		return
	}

	s.invalidateUserCaches(user.ID)

	NewHTMXResponse().
		TriggerOverviewRefresh().
		TriggerSuccessNotification("Income updated").
		BodyString("").
		Write(w)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	incomeID, err := pathID(r)
	if err != nil {
		BadRequestError("invalid income id").Write(w)
		return
	}

	if err := s.entries.DeleteIncome(r.Context(), user.ID, incomeID); err != nil {
		errorStatus(err).Write(w)
		return
	}

	s.invalidateUserCaches(user.ID)

	NewHTMXResponse().
		TriggerOverviewRefresh().
		TriggerSuccessNotification("Income deleted").
		BodyString("").
		Write(w)
}
