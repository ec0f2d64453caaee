// Package http exposes the application over a JSON API. Every protected
// route goes through the access gate before its handler runs.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gestorfacil/gestor-backend/internal/domain"
	"github.com/gestorfacil/gestor-backend/internal/usecase/calendar"
	"github.com/gestorfacil/gestor-backend/internal/usecase/company"
	"github.com/gestorfacil/gestor-backend/internal/usecase/notification"
)

// DefaultRules is the permission table compiled into the deployment.
// Routes without a rule are readable by every authenticated role.
var DefaultRules = []domain.PermissionRule{
	{Route: "/api/company", AllowedRoles: []domain.Role{domain.RoleAdmin, domain.RoleManager}},
	{Route: "/api/company/entries", AllowedRoles: []domain.Role{domain.RoleAdmin, domain.RoleManager}},
	{Route: "/api/report", AllowedRoles: []domain.Role{domain.RoleAdmin, domain.RoleManager}},
}

// Server wires the use-case services to HTTP handlers
type Server struct {
	CompanyService      *company.Service
	CalendarService     *calendar.Service
	NotificationService *notification.Service
	Verifier            domain.TokenVerifier
	Rules               []domain.PermissionRule
}

// NewServer creates a new HTTP server instance
func NewServer(
	companyService *company.Service,
	calendarService *calendar.Service,
	notificationService *notification.Service,
	verifier domain.TokenVerifier,
	rules []domain.PermissionRule,
) *Server {
	return &Server{
		CompanyService:      companyService,
		CalendarService:     calendarService,
		NotificationService: notificationService,
		Verifier:            verifier,
		Rules:               rules,
	}
}

// Routes builds the chi router
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)
		r.Use(s.withAccessGate)

		r.Route("/api", func(r chi.Router) {
			r.Get("/company", s.handleGetCompany)
			r.Post("/company", s.handleRegisterCompany)
			r.Put("/company", s.handleUpdateCompany)
			r.Post("/company/entries", s.handleAppendEntry)

			r.Get("/dashboard", s.handleDashboard)
			r.Get("/report", s.handleReport)

			r.Get("/events", s.handleListEvents)
			r.Post("/events", s.handleScheduleEvent)
			r.Delete("/events/{id}", s.handleCancelEvent)

			r.Get("/notifications", s.handleListNotifications)
			r.Post("/notifications/{id}/read", s.handleMarkNotificationRead)
			r.Delete("/notifications/{id}", s.handleRemoveNotification)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}

// writeServiceError maps domain errors to HTTP status codes
func writeServiceError(r *http.Request, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrImmutableField):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrAlreadyRegister):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNotRegistered), errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
