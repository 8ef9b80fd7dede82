// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

// Command masterfoodctl queries the master food dataset from a terminal.
//
// It reuses the server's configuration, upstream client and session gate:
// every data command logs in against the upstream /admin endpoint first
// and then runs the read under that session. Results are printed as JSON.
//
//	export MASTERFOOD_ADMIN_PASSWORD=...
//	masterfoodctl --base-url https://food.example.com search leek
//	masterfoodctl range 3
//	masterfoodctl ingredients 12 13 14
//	masterfoodctl nicknames 12
//	masterfoodctl nickname-search 대파
//	masterfoodctl check-config
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
