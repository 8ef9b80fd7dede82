// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package main

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/masterfood/internal/api"
	"github.com/tomtom215/masterfood/internal/audit"
	"github.com/tomtom215/masterfood/internal/auth"
	"github.com/tomtom215/masterfood/internal/config"
	"github.com/tomtom215/masterfood/internal/logging"
	"github.com/tomtom215/masterfood/internal/supervisor"
	"github.com/tomtom215/masterfood/internal/supervisor/services"
	"github.com/tomtom215/masterfood/internal/translator"
	"github.com/tomtom215/masterfood/internal/upstream"
)

// app holds the assembled components of the server process.
type app struct {
	cfg      *config.Config
	baseURL  *config.BaseURLStore
	apiCli   *upstream.Client
	loginCli *upstream.Client
	store    auth.SessionStore
	gate     *auth.Gate
	audit    *audit.Logger
	server   *http.Server
	addr     string
}

// newApp wires the upstream clients, session gate and HTTP router from cfg.
// The caller owns the returned app and must call close.
func newApp(cfg *config.Config) (*app, error) {
	baseURL := config.NewBaseURLStore(cfg.DefaultBaseURL(), cfg.Upstream.LoginBaseURL)
	headers := upstream.NewHeadersWith(cfg.Upstream.Headers)

	apiCli := upstream.New(upstream.Options{
		Name:                 "api",
		BaseURL:              baseURL,
		Timeout:              cfg.Upstream.Timeout,
		Headers:              headers,
		APIKeyHeader:         cfg.Upstream.APIKeyHeader,
		MaxRequestsPerSecond: cfg.Upstream.MaxRequestsPerSecond,
		CoalesceReads:        cfg.Upstream.CoalesceReads,
	})
	loginCli := upstream.New(upstream.Options{
		Name:         "login",
		BaseURL:      upstream.BaseURLFunc(baseURL.LoginBaseURL),
		Timeout:      cfg.Upstream.Timeout,
		Headers:      headers,
		APIKeyHeader: cfg.Upstream.APIKeyHeader,
	})

	store, err := auth.NewSessionStore(cfg.Security.SessionStore, cfg.Security.SessionStorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	gate := auth.NewGate(store, loginCli, auth.GateConfig{
		SessionTTL:    cfg.Security.SessionTTL,
		RequireAPIKey: cfg.Upstream.RequireAPIKey,
		Lockout: auth.LockoutConfig{
			MaxAttempts: cfg.Security.LoginMaxAttempts,
			Window:      cfg.Security.LoginLockoutWindow,
		},
	})

	var auditLog *audit.Logger
	if cfg.Audit.Enabled {
		auditLog = audit.NewLogger(audit.NewMemoryStore(cfg.Audit.MaxEvents), audit.Config{
			Enabled:     true,
			BufferSize:  cfg.Audit.BufferSize,
			LogToStdout: cfg.Audit.LogToStdout,
		})
	}

	cookie := auth.DefaultCookieConfig()
	cookie.Name = cfg.Security.CookieName
	cookie.Secure = cfg.Security.CookieSecure

	handler := api.NewHandler(api.HandlerDeps{
		Translator: translator.New(apiCli),
		Gate:       gate,
		Cookie:     cookie,
		BaseURL:    baseURL,
		Upstream:   apiCli,
		Audit:      auditLog,
	})
	mw := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	router := api.NewRouter(handler, mw)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	// Writes wait on upstream, so the write timeout includes its budget.
	server := &http.Server{
		Addr:              addr,
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + cfg.Upstream.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	return &app{
		cfg:      cfg,
		baseURL:  baseURL,
		apiCli:   apiCli,
		loginCli: loginCli,
		store:    store,
		gate:     gate,
		audit:    auditLog,
		server:   server,
		addr:     addr,
	}, nil
}

// supervise builds the supervisor tree running the HTTP server, the
// session janitor and, with the audit trail enabled, its retention sweep.
func (a *app) supervise() (*supervisor.SupervisorTree, error) {
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: a.cfg.Server.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create supervisor tree: %w", err)
	}

	tree.AddAPIService(services.NewHTTPServerService(a.server, a.addr, a.cfg.Server.Timeout))

	janitor := services.NewSessionJanitorService(a.gate, a.cfg.Security.SessionCleanupInterval)
	if gc, ok := a.store.(*auth.BadgerSessionStore); ok {
		janitor.WithGarbageCollector(gc)
	}
	tree.AddMaintenanceService(janitor)

	if a.audit != nil {
		tree.AddMaintenanceService(services.NewAuditRetentionService(
			a.audit, a.cfg.Audit.Retention, a.cfg.Audit.RetentionInterval))
	}

	return tree, nil
}

func (a *app) close() {
	if a.audit != nil {
		_ = a.audit.Close()
	}
	if err := a.store.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing session store")
	}
}
