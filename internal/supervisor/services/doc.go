// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

// Package services provides suture.Service wrappers for the HTTP server, the
// session janitor and the audit retention sweep. Each wrapper blocks in Serve
// until its context is canceled and names itself through fmt.Stringer for
// supervisor logs.
package services
