// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

// Package main is the entry point for the MasterFood Admin server.
//
// The server is the backend of the master food administration dashboard.
// It holds operator sessions, validates and reshapes dashboard requests and
// forwards them to the external food API.
//
// # Startup
//
//  1. Configuration: defaults, config.yaml, .env and the environment (Koanf v2)
//  2. Upstream clients: the data client and the login client
//  3. Session gate: memory or BadgerDB session store with login lockout
//  4. HTTP router: chi with CORS, rate limiting and Prometheus metrics
//  5. Supervisor tree: HTTP server and session janitor under suture
//
// # Configuration
//
//	UPSTREAM_BASE_URL=https://food.example.com   # or VITE_API_BASE_URL
//	SESSION_STORE=badger SESSION_STORE_PATH=/data/sessions
//	COOKIE_SECURE=true
//	./masterfood
//
// # Signal Handling
//
// SIGINT and SIGTERM stop the supervisor tree. The HTTP server drains
// in-flight requests within HTTP_TIMEOUT and the session store is closed.
package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/tomtom215/masterfood/internal/config"
	"github.com/tomtom215/masterfood/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("base_url", cfg.DefaultBaseURL()).
		Str("session_store", cfg.Security.SessionStore).
		Str("environment", cfg.Server.Environment).
		Bool("audit", cfg.Audit.Enabled).
		Msg("Configuration loaded")
	if cfg.DefaultBaseURL() == "" {
		logging.Warn().Msg("No upstream base URL configured; set it from the settings page")
	}

	a, err := newApp(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize server")
	}
	defer a.close()

	tree, err := a.supervise()
	if err != nil {
		a.close()
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logging.Info().Str("addr", a.addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish")
		err = <-errCh
	case err = <-errCh:
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("MasterFood Admin stopped")
}
