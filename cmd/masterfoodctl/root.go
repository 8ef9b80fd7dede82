// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/masterfood/internal/auth"
	"github.com/tomtom215/masterfood/internal/config"
	"github.com/tomtom215/masterfood/internal/logging"
	"github.com/tomtom215/masterfood/internal/translator"
	"github.com/tomtom215/masterfood/internal/upstream"
)

// passwordEnvVar supplies --password when the flag is not given.
const passwordEnvVar = "MASTERFOOD_ADMIN_PASSWORD"

var errPasswordRequired = errors.New("password is required (--password or " + passwordEnvVar + ")")

// options holds the persistent flags.
type options struct {
	configPath string
	baseURL    string
	username   string
	password   string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "masterfoodctl",
		Short:         "Query the master food reference dataset",
		Long:          "masterfoodctl logs in to the food API with the admin password and runs read-only queries against the master food dataset.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			logging.Init(logging.Config{
				Level:  level,
				Format: "console",
				Output: cmd.ErrOrStderr(),
			})
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config.yaml (default: search the standard locations)")
	flags.StringVar(&opts.baseURL, "base-url", "", "food API base URL (overrides configuration)")
	flags.StringVar(&opts.username, "username", "", "admin username")
	flags.StringVar(&opts.password, "password", "", "admin password (env "+passwordEnvVar+")")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log upstream calls")

	rootCmd.AddCommand(
		newSearchCmd(opts),
		newRangeCmd(opts),
		newIngredientsCmd(opts),
		newNicknamesCmd(opts),
		newNicknameSearchCmd(opts),
		newCheckConfigCmd(opts),
	)
	return rootCmd
}

// loadConfig loads the layered configuration, honoring --config.
func (o *options) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		if _, err := os.Stat(o.configPath); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if err := os.Setenv(config.ConfigPathEnvVar, o.configPath); err != nil {
			return nil, err
		}
	}
	return config.Load()
}

// resolvedBaseURL returns --base-url when given, otherwise the configured
// default.
func (o *options) resolvedBaseURL(cfg *config.Config) string {
	if o.baseURL != "" {
		return config.NormalizeBaseURL(o.baseURL)
	}
	return cfg.DefaultBaseURL()
}

func (o *options) resolvedPassword() string {
	if o.password != "" {
		return o.password
	}
	return os.Getenv(passwordEnvVar)
}

// connect logs in through the gate and returns a translator together with
// a context carrying the session credential.
func (o *options) connect(ctx context.Context) (*translator.Translator, context.Context, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	baseURL := o.resolvedBaseURL(cfg)
	if baseURL == "" {
		return nil, nil, upstream.NewConfigurationError()
	}
	if err := config.ValidateBaseURL(baseURL); err != nil {
		return nil, nil, fmt.Errorf("base URL: %w", err)
	}
	password := o.resolvedPassword()
	if password == "" {
		return nil, nil, errPasswordRequired
	}

	store := config.NewBaseURLStore(baseURL, cfg.Upstream.LoginBaseURL)
	headers := upstream.NewHeadersWith(cfg.Upstream.Headers)
	client := upstream.New(upstream.Options{
		Name:         "api",
		BaseURL:      store,
		Timeout:      cfg.Upstream.Timeout,
		Headers:      headers,
		APIKeyHeader: cfg.Upstream.APIKeyHeader,
	})
	login := upstream.New(upstream.Options{
		Name:         "login",
		BaseURL:      upstream.BaseURLFunc(store.LoginBaseURL),
		Timeout:      cfg.Upstream.Timeout,
		Headers:      headers,
		APIKeyHeader: cfg.Upstream.APIKeyHeader,
	})

	gate := auth.NewGate(auth.NewMemorySessionStore(), login, auth.GateConfig{
		SessionTTL:    cfg.Security.SessionTTL,
		RequireAPIKey: cfg.Upstream.RequireAPIKey,
	})
	session, err := gate.Login(ctx, auth.LoginRequest{
		Username:  o.username,
		Password:  password,
		ClientIP:  "cli",
		UserAgent: "masterfoodctl",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("login failed: %w", err)
	}

	return translator.New(client), auth.ContextWithSession(ctx, session), nil
}

// runQuery logs in, runs query and prints its result.
func runQuery(cmd *cobra.Command, opts *options, query func(context.Context, *translator.Translator) (any, error)) error {
	tr, ctx, err := opts.connect(cmd.Context())
	if err != nil {
		return err
	}
	result, err := query(ctx, tr)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
