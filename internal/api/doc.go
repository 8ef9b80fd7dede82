// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

/*
Package api provides the local HTTP REST API of MasterFood Admin.

The API is the only surface of the process. Every data endpoint maps onto one
logical operation of the request translator, which in turn issues a single
call against the upstream food API; the API itself stores nothing but
sessions, the upstream base URL and an in-memory audit trail.

Route groups:

  - /api/health/live, /api/health/ready: probes (public)
  - /api/admin, /api/auth/login, /api/auth/me, /api/auth/logout: session
    lifecycle (public)
  - /api/config: upstream base URL settings
  - /api/search, /api/range, /api/ingredients: ingredient reads
  - /api/food, /api/fooditem(s), /api/ingredient: ingredient mutations
  - /api/nickname(s): nickname reads and mutations
  - /api/migration, /api/migration/newfood: destructive merges and moves
  - /api/audit: recent administrative actions
  - /api-proxy/*: raw passthrough to the upstream base URL
  - /metrics: Prometheus exposition

All responses except /metrics and the passthrough use the APIResponse
envelope. Failures are mapped to status codes in WriteError.

Middleware stack, outermost first: request ID with logging context, real IP,
panic recovery, CORS (go-chi/cors), security headers, Prometheus metrics,
session check, and per-IP rate limits (go-chi/httprate).
*/
package api
