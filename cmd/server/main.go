package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/reshetovitsme/news-highlights/internal/di"
	"github.com/reshetovitsme/news-highlights/internal/modules/headline/service"
	"github.com/reshetovitsme/news-highlights/internal/shared/config"
	httpServer "github.com/reshetovitsme/news-highlights/internal/transport/http"
	"github.com/samber/do/v2"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serveCmd := newServeCmd()

	rootCmd := &cobra.Command{
		Use:          "news-highlights",
		Short:        "Aggregate news headlines into one cached feed",
		Long:         "news-highlights fetches headlines from miniflux and RSS/Atom sources, merges them and serves the newest ones over HTTP.",
		Version:      resolveVersion(version, readBuildInfo()),
		SilenceUsage: true,
		RunE:         serveCmd.RunE,
	}
	rootCmd.SetVersionTemplate("news-highlights version {{.Version}}\n")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func newFetchCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Run one aggregation and print the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetch(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), timeout)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "overall deadline for the aggregation")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "news-highlights version %s\n", cmd.Root().Version)
		},
	}
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	injector, err := di.Setup()
	if err != nil {
		slog.Error("Failed to setup dependency injection", "error", err)
		return err
	}

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		return err
	}
	slog.SetDefault(newLogger(cfg.IsDebug(), os.Stdout, os.Stderr))

	defer func() {
		if err := di.Shutdown(injector); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	server, err := do.Invoke[*httpServer.Server](injector)
	if err != nil {
		slog.Error("Failed to create HTTP server", "error", err)
		return err
	}
	warmer, err := do.Invoke[*service.Warmer](injector)
	if err != nil {
		slog.Error("Failed to create refresh scheduler", "error", err)
		return err
	}
	warmer.Start()

	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	slog.Info("Application started",
		"port", cfg.HTTPPort,
		"sources", len(cfg.Sources),
		"cache_ttl", cfg.CacheTTLDuration(),
		"snapshot_store", cfg.SnapshotStore,
		"refresh_cron", cfg.RefreshCron,
	)
	slog.Info("Press Ctrl+C to stop")

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("Failed to start HTTP server", "error", err)
			return err
		}
	case <-ctx.Done():
		slog.Info("Shutting down...")
	}
	return nil
}

func fetch(parent context.Context, stdout, stderr io.Writer, timeout time.Duration) error {
	if parent == nil {
		parent = context.Background()
	}

	injector, err := di.Setup()
	if err != nil {
		return err
	}
	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		return err
	}
	// stdout carries the result, so logs go to stderr only.
	slog.SetDefault(newLogger(cfg.IsDebug(), stderr, io.Discard))

	aggregator, err := do.Invoke[*service.Aggregator](injector)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	agg, err := aggregator.Aggregate(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return err
	}

	for _, failure := range agg.Failures {
		fmt.Fprintf(stderr, "source %s failed: %v\n", failure.Source, failure.Err)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(agg.Items)
}

// newLogger sends info (debug when verbose) to out as text and errors to errOut
// as JSON.
func newLogger(verbose bool, out, errOut io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	textHandler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	})
	jsonHandler := slog.NewJSONHandler(errOut, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	return slog.New(slogmulti.Fanout(textHandler, jsonHandler))
}

func readBuildInfo() *debug.BuildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	return info
}

// resolveVersion prefers the ldflags version, then the module version recorded by
// go install.
func resolveVersion(ldflags string, info *debug.BuildInfo) string {
	if ldflags != "dev" {
		return ldflags
	}
	if info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}
