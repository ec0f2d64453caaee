package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gestorfacil/gestor-backend/internal/domain"
	"github.com/gestorfacil/gestor-backend/internal/usecase/calendar"
)

type eventResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
	Kind  string `json:"kind"`
}

func toEventResponse(event *domain.Event) eventResponse {
	return eventResponse{
		ID:    event.ID.String(),
		Title: event.Title,
		Date:  event.Date.Format("2006-01-02"),
		Kind:  string(event.Kind),
	}
}

// handleListEvents lists events for a date range. Either from/to or week
// (an anchor inside the wanted week) must be provided.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var (
		events []*domain.Event
		err    error
	)
	switch {
	case query.Get("week") != "":
		anchor, parseErr := time.Parse("2006-01-02", query.Get("week"))
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "invalid week anchor, want YYYY-MM-DD")
			return
		}
		events, err = s.CalendarService.ListWeek(r.Context(), userID(r), anchor)
	default:
		from, parseErr := time.Parse("2006-01-02", query.Get("from"))
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "invalid from date, want YYYY-MM-DD")
			return
		}
		to, parseErr := time.Parse("2006-01-02", query.Get("to"))
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "invalid to date, want YYYY-MM-DD")
			return
		}
		events, err = s.CalendarService.ListByRange(r.Context(), userID(r), from, to)
	}
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, toEventResponse(event))
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": out})
}

func (s *Server) handleScheduleEvent(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title string `json:"title"`
		Date  string `json:"date"`
		Kind  string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := time.Parse("2006-01-02", payload.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format, want YYYY-MM-DD")
		return
	}

	event, err := s.CalendarService.Schedule(r.Context(), userID(r), calendar.ScheduleInput{
		Title: payload.Title,
		Date:  date,
		Kind:  domain.EventKind(payload.Kind),
	})
	if err != nil {
		writeServiceError(r, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

func (s *Server) handleCancelEvent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	if err := s.CalendarService.Cancel(r.Context(), userID(r), id); err != nil {
		writeServiceError(r, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
