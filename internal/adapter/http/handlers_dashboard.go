package http

import (
	"net/http"
	"time"

	"github.com/gestorfacil/gestor-backend/internal/usecase/aggregator"
	"github.com/gestorfacil/gestor-backend/internal/usecase/report"
)

type summaryRowResponse struct {
	Period   string  `json:"period"`
	Revenue  string  `json:"revenue"`
	Expenses string  `json:"expenses"`
	Profit   string  `json:"profit"`
	Margin   *string `json:"margin"` // null when revenue is zero
}

// handleDashboard returns the aggregated series the dashboard chart renders.
// Query parameters: granularity (monthly|weekly, default monthly), anchor
// (YYYY-MM-DD, required for weekly), legacy (bool, weekly expense matching).
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	granularity, anchor, opts, err := aggregationParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := s.CompanyService.Get(r.Context(), userID(r))
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	rows := aggregator.Aggregate(c, granularity, anchor, opts)
	out := make([]summaryRowResponse, 0, len(rows))
	for _, row := range rows {
		resp := summaryRowResponse{
			Period:   row.PeriodLabel,
			Revenue:  row.Revenue.String(),
			Expenses: row.Expenses.String(),
			Profit:   row.Profit.String(),
		}
		if margin, ok := row.Margin(); ok {
			label := margin.StringFixed(1)
			resp.Margin = &label
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": out})
}

// handleReport returns the formatted report table consumed by the export UI
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	granularity, anchor, opts, err := aggregationParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := s.CompanyService.Get(r.Context(), userID(r))
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	table := report.Build(c, granularity, anchor, opts)
	writeJSON(w, http.StatusOK, map[string]any{
		"title":   table.Title,
		"headers": table.Headers,
		"rows":    table.Rows,
	})
}

func aggregationParams(r *http.Request) (aggregator.Granularity, time.Time, aggregator.Options, error) {
	query := r.URL.Query()

	granularity := aggregator.Monthly
	switch query.Get("granularity") {
	case "", string(aggregator.Monthly):
	case string(aggregator.Weekly):
		granularity = aggregator.Weekly
	default:
		return "", time.Time{}, aggregator.Options{}, &paramError{"granularity must be monthly or weekly"}
	}

	var anchor time.Time
	if v := query.Get("anchor"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return "", time.Time{}, aggregator.Options{}, &paramError{"invalid anchor date, want YYYY-MM-DD"}
		}
		anchor = parsed
	}

	opts := aggregator.Options{LegacyExpenseMatch: query.Get("legacy") == "true"}
	return granularity, anchor, opts, nil
}

type paramError struct{ msg string }

func (e *paramError) Error() string { return e.msg }
