// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package main

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/masterfood/internal/config"
	"github.com/tomtom215/masterfood/internal/models"
	"github.com/tomtom215/masterfood/internal/translator"
	"github.com/tomtom215/masterfood/internal/upstream"
)

func parsePositiveID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", what, arg)
	}
	return id, nil
}

func newSearchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search ingredients by keyword",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword := strings.Join(args, " ")
			return runQuery(cmd, opts, func(ctx context.Context, tr *translator.Translator) (any, error) {
				return tr.Search(ctx, keyword)
			})
		},
	}
}

func newRangeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "range <digit>",
		Short: "List the ingredients of a digit range bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			digit, err := parsePositiveID(args[0], "digit number")
			if err != nil {
				return err
			}
			return runQuery(cmd, opts, func(ctx context.Context, tr *translator.Translator) (any, error) {
				return tr.SearchByRange(ctx, digit)
			})
		},
	}
}

func newIngredientsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ingredients <id>...",
		Short: "Fetch ingredients by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]models.LooseInt, 0, len(args))
			for _, arg := range args {
				id, err := parsePositiveID(arg, "ingredient id")
				if err != nil {
					return err
				}
				ids = append(ids, models.Int(id))
			}
			return runQuery(cmd, opts, func(ctx context.Context, tr *translator.Translator) (any, error) {
				return tr.FetchByIDs(ctx, ids)
			})
		},
	}
}

func newNicknamesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "nicknames <ingredient-id>",
		Short: "List the nicknames of an ingredient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePositiveID(args[0], "ingredient id")
			if err != nil {
				return err
			}
			return runQuery(cmd, opts, func(ctx context.Context, tr *translator.Translator) (any, error) {
				return tr.NicknamesByIngredient(ctx, id)
			})
		},
	}
}

func newNicknameSearchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "nickname-search <keyword>",
		Short: "Search nicknames by keyword",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword := strings.Join(args, " ")
			return runQuery(cmd, opts, func(ctx context.Context, tr *translator.Translator) (any, error) {
				return tr.SearchNicknames(ctx, keyword)
			})
		},
	}
}

// configReport is the output of check-config. Secrets are never printed.
type configReport struct {
	BaseURL          string   `json:"base_url"`
	BaseURLSource    string   `json:"base_url_source"`
	LoginBaseURL     string   `json:"login_base_url,omitempty"`
	APIKeyHeader     string   `json:"api_key_header"`
	Headers          []string `json:"headers"`
	SessionStore     string   `json:"session_store"`
	SessionTTL       string   `json:"session_ttl"`
	PasswordProvided bool     `json:"password_provided"`
}

// headerNames lists the header names of h in sorted order. Values may hold
// credentials and are left out.
func headerNames(h http.Header) []string {
	names := slices.Collect(maps.Keys(h))
	slices.Sort(names)
	return names
}

func newCheckConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Load and validate the configuration without contacting the food API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			report := configReport{
				BaseURL:          opts.resolvedBaseURL(cfg),
				LoginBaseURL:     cfg.Upstream.LoginBaseURL,
				APIKeyHeader:     cfg.Upstream.APIKeyHeader,
				Headers:          headerNames(upstream.NewHeadersWith(cfg.Upstream.Headers).Clone()),
				SessionStore:     cfg.Security.SessionStore,
				SessionTTL:       cfg.Security.SessionTTL.String(),
				PasswordProvided: opts.resolvedPassword() != "",
			}
			switch {
			case opts.baseURL != "":
				report.BaseURLSource = "flag"
			case cfg.Upstream.BaseURL != "":
				report.BaseURLSource = "upstream.base_url"
			case cfg.Upstream.LegacyBaseURL != "":
				report.BaseURLSource = "upstream.legacy_base_url"
			default:
				report.BaseURLSource = "unset"
			}

			if report.BaseURL != "" {
				if err := config.ValidateBaseURL(report.BaseURL); err != nil {
					return fmt.Errorf("base URL: %w", err)
				}
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
}
