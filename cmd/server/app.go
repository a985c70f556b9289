package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/contacts-api/internal/config"
	"github.com/phrazzld/contacts-api/internal/platform/imagestore"
	"github.com/phrazzld/contacts-api/internal/platform/mail"
	"github.com/phrazzld/contacts-api/internal/platform/metrics"
	"github.com/phrazzld/contacts-api/internal/platform/postgres"
	"github.com/phrazzld/contacts-api/internal/service/auth"
	"github.com/phrazzld/contacts-api/internal/service/contact"
	"github.com/phrazzld/contacts-api/internal/store"
)

// application holds the wired dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	metrics        *metrics.Metrics
	authService    *auth.Service
	contactService *contact.Service
}

// newApplication wires stores, collaborators and services.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	userStore := postgres.NewPostgresUserStore(db, logger)
	contactStore := postgres.NewPostgresContactStore(db, logger)
	txManager := store.NewSQLTxManager(db)

	tokens, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create jwt service: %w", err)
	}

	mailer, err := newMailer(cfg.Mail, logger)
	if err != nil {
		return nil, err
	}

	images, err := imagestore.New(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create image store: %w", err)
	}

	authService, err := auth.NewService(
		txManager,
		userStore,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens,
		mailer,
		images,
		cfg.Server.PublicBaseURL,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	contactService, err := contact.NewService(txManager, contactStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact service: %w", err)
	}

	m := metrics.New()
	authService.SetEventRecorder(m)

	return &application{
		config:         cfg,
		logger:         logger,
		db:             db,
		metrics:        m,
		authService:    authService,
		contactService: contactService,
	}, nil
}

// newMailer returns an SMTP mailer, or a log-only mailer when no SMTP host
// is configured.
func newMailer(cfg config.MailConfig, logger *slog.Logger) (auth.VerificationMailer, error) {
	if cfg.Host == "" {
		logger.Warn("smtp host not configured, verification links will only be logged")
		return mail.NewLogMailer(logger), nil
	}
	m, err := mail.NewSMTPMailer(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create mailer: %w", err)
	}
	return m, nil
}

// router builds the HTTP handler from the wired services.
func (app *application) router() http.Handler {
	return newRouter(routerDeps{
		logger:         app.logger,
		auth:           app.authService,
		contacts:       app.contactService,
		metrics:        app.metrics,
		rateLimit:      app.config.RateLimit,
		corsOrigins:    app.config.Server.CORSAllowedOrigins,
		maxUploadBytes: app.config.Server.MaxUploadBytes,
		health:         app.db.PingContext,
	})
}

// cleanup drains pending verification mail and closes the pool.
func (app *application) cleanup() {
	app.authService.Close()
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", slog.String("error", err.Error()))
		return
	}
	app.logger.Info("database connection closed")
}
