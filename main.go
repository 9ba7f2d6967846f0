// Package main provides the entry point for the AdGuard VPN desktop controller.
// It drives adguardvpn-cli from the command line, a terminal UI or the
// system tray.
//
// Usage:
//
//	adguardvpn-desktop [command] [flags]
//
// Environment:
//
//	The application requires adguardvpn-cli to be installed and logged in.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yllada/adguardvpn-desktop/cli"
	"github.com/yllada/adguardvpn-desktop/common"
)

// Build-time variables injected via ldflags (-X main.appVersion=x.y.z)
var (
	appVersion = "dev"
	buildTime  = "unknown"
	commitSHA  = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	version := appVersion
	if buildTime != "unknown" {
		version = fmt.Sprintf("%s (built %s, commit %s)", appVersion, buildTime, commitSHA)
	}

	err := cli.NewApp(version).Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	_ = common.CloseLogger()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
