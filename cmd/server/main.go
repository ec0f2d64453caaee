package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gcfirestore "cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	httpadapter "github.com/gestorfacil/gestor-backend/internal/adapter/http"
	"github.com/gestorfacil/gestor-backend/internal/adapter/identity"
	firestorerepo "github.com/gestorfacil/gestor-backend/internal/adapter/repository/firestore"
	"github.com/gestorfacil/gestor-backend/internal/adapter/repository/memory"
	sqliterepo "github.com/gestorfacil/gestor-backend/internal/adapter/repository/sqlite"
	"github.com/gestorfacil/gestor-backend/internal/config"
	"github.com/gestorfacil/gestor-backend/internal/domain"
	"github.com/gestorfacil/gestor-backend/internal/usecase/calendar"
	"github.com/gestorfacil/gestor-backend/internal/usecase/company"
	"github.com/gestorfacil/gestor-backend/internal/usecase/notification"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// 1. Repositories and identity, per configured backend
	companyRepo, eventRepo, verifier, cleanup, err := buildBackend(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize backend", "backend", cfg.Backend, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// The notification feed is session-scoped; it always lives in memory.
	notificationRepo := memory.NewStore().Notifications()

	// 2. Services (use cases)
	companyService := company.NewService(companyRepo, notificationRepo)
	calendarService := calendar.NewService(eventRepo)
	notificationService := notification.NewService(notificationRepo)

	// 3. HTTP server
	server := httpadapter.NewServer(
		companyService,
		calendarService,
		notificationService,
		verifier,
		httpadapter.DefaultRules,
	)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", httpServer.Addr, "backend", cfg.Backend)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(httpServer)
}

// buildBackend wires the configured persistence backend together with a
// matching token verifier. The cleanup func releases held resources.
func buildBackend(ctx context.Context, cfg *config.Config) (
	domain.CompanyRepository, domain.EventRepository, domain.TokenVerifier, func(), error,
) {
	switch cfg.Backend {
	case config.BackendFirestore:
		var opts []option.ClientOption
		if cfg.GoogleCredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.GoogleCredentialsFile))
		}
		client, err := gcfirestore.NewClient(ctx, cfg.FirebaseProjectID, opts...)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		verifier, err := identity.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID, cfg.GoogleCredentialsFile)
		if err != nil {
			client.Close()
			return nil, nil, nil, nil, err
		}
		store := firestorerepo.NewStore(client)
		return store, store, verifier, func() { client.Close() }, nil

	case config.BackendSQLite:
		store, err := sqliterepo.NewStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		verifier, err := buildVerifier(ctx, cfg)
		if err != nil {
			store.Close()
			return nil, nil, nil, nil, err
		}
		return store, store, verifier, func() { store.Close() }, nil

	default: // config.BackendMemory
		store := memory.NewStore()
		verifier, err := buildVerifier(ctx, cfg)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return store, store, verifier, func() {}, nil
	}
}

// buildVerifier prefers Firebase when a project is configured and falls
// back to fixed dev tokens otherwise
func buildVerifier(ctx context.Context, cfg *config.Config) (domain.TokenVerifier, error) {
	if cfg.FirebaseProjectID != "" {
		return identity.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID, cfg.GoogleCredentialsFile)
	}

	slog.Warn("No FIREBASE_PROJECT_ID set, using fixed dev tokens")
	return identity.NewStaticVerifier(map[string]domain.Session{
		"dev-admin": {
			Authenticated: true,
			User:          &domain.User{ID: "dev-admin", Name: "Dev Admin", Email: "admin@localhost", Role: domain.RoleAdmin},
		},
		"dev-manager": {
			Authenticated: true,
			User:          &domain.User{ID: "dev-manager", Name: "Dev Manager", Email: "manager@localhost", Role: domain.RoleManager},
		},
		"dev-collaborator": {
			Authenticated: true,
			User:          &domain.User{ID: "dev-collaborator", Name: "Dev Collaborator", Email: "collab@localhost", Role: domain.RoleCollaborator},
		},
	}), nil
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully drains the server
func waitForShutdown(httpServer *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	slog.Info("Received signal, shutting down gracefully", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
	slog.Info("HTTP server stopped")
}
