package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. Without a subcommand it serves.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authd",
		Short: "authd - username/password authentication service",
		Long: `authd registers users, issues opaque bearer tokens on login,
revokes them on logout and exposes an admin-only user listing.
Configuration is read from the environment.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runServe,
	}
	cmd.Version = versionString()

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server and block until SIGINT or SIGTERM,
then drain in-flight requests within SHUTDOWN_TIMEOUT.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

// NewVersionCmd creates the version subcommand.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("authd " + versionString())
			cmd.Println("Go Version: " + runtime.Version())
			cmd.Println("OS/Arch: " + runtime.GOOS + "/" + runtime.GOARCH)
		},
	}
}

func versionString() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
}
