package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestorfacil/gestor-backend/internal/domain"
	"github.com/gestorfacil/gestor-backend/internal/usecase/company"
)

// Monetary amounts cross the wire as strings to keep decimal precision;
// dates are ISO calendar dates.

type companyPayload struct {
	Name             string `json:"name"`
	TaxID            string `json:"taxId"`
	Segment          string `json:"segment"`
	CustomSegment    string `json:"customSegment,omitempty"`
	MonthlyRevenue   string `json:"monthlyRevenue"`
	FixedExpenses    string `json:"fixedExpenses"`
	VariableExpenses string `json:"variableExpenses"`
}

type companyResponse struct {
	Registered bool            `json:"registered"`
	Company    *companyPayload `json:"company,omitempty"`
	ID         string          `json:"id,omitempty"`
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	c, err := s.CompanyService.Get(r.Context(), userID(r))
	if err != nil {
		writeServiceError(r, w, err)
		return
	}
	if c == nil {
		// Valid terminal state: company not yet registered.
		writeJSON(w, http.StatusOK, companyResponse{Registered: false})
		return
	}
	writeJSON(w, http.StatusOK, companyResponse{
		Registered: true,
		ID:         c.ID,
		Company: &companyPayload{
			Name:             c.Name,
			TaxID:            c.TaxID,
			Segment:          string(c.Segment),
			CustomSegment:    c.CustomSegment,
			MonthlyRevenue:   c.MonthlyRevenue.String(),
			FixedExpenses:    c.FixedExpenses.String(),
			VariableExpenses: c.VariableExpenses.String(),
		},
	})
}

func (s *Server) handleRegisterCompany(w http.ResponseWriter, r *http.Request) {
	var payload companyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amounts, err := parseAmounts(payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := s.CompanyService.Register(r.Context(), userID(r), company.RegisterInput{
		Name:             payload.Name,
		TaxID:            payload.TaxID,
		Segment:          domain.Segment(payload.Segment),
		CustomSegment:    payload.CustomSegment,
		MonthlyRevenue:   amounts[0],
		FixedExpenses:    amounts[1],
		VariableExpenses: amounts[2],
	})
	if err != nil {
		writeServiceError(r, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": c.ID})
}

func (s *Server) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	var payload companyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amounts, err := parseAmounts(payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := s.CompanyService.Update(r.Context(), userID(r), company.UpdateInput{
		Name:             payload.Name,
		TaxID:            payload.TaxID,
		Segment:          domain.Segment(payload.Segment),
		CustomSegment:    payload.CustomSegment,
		MonthlyRevenue:   amounts[0],
		FixedExpenses:    amounts[1],
		VariableExpenses: amounts[2],
	})
	if err != nil {
		writeServiceError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": c.ID})
}

type entryPayload struct {
	Kind   string `json:"kind"`
	Amount string `json:"amount"`
	Date   string `json:"date"`
}

func (s *Server) handleAppendEntry(w http.ResponseWriter, r *http.Request) {
	var payload entryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := decimal.NewFromString(payload.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount format")
		return
	}
	date, err := time.Parse("2006-01-02", payload.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format, want YYYY-MM-DD")
		return
	}

	entry := domain.Entry{Amount: amount, Date: date}
	if err := s.CompanyService.AppendEntry(r.Context(), userID(r), company.EntryKind(payload.Kind), entry); err != nil {
		writeServiceError(r, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseAmounts(payload companyPayload) ([3]decimal.Decimal, error) {
	var out [3]decimal.Decimal
	for i, field := range []struct {
		name  string
		value string
	}{
		{"monthlyRevenue", payload.MonthlyRevenue},
		{"fixedExpenses", payload.FixedExpenses},
		{"variableExpenses", payload.VariableExpenses},
	} {
		amount, err := decimal.NewFromString(field.value)
		if err != nil {
			return out, &amountError{field.name}
		}
		out[i] = amount
	}
	return out, nil
}

type amountError struct{ field string }

func (e *amountError) Error() string { return "invalid amount format for " + e.field }
