// Package main is the entry point for the auth service.
//
// @title        Auth Service API
// @version      1.0
// @description  Username/password registration, bearer-token sessions and an admin-only user listing.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"os"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
