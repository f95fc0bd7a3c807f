package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ironsheep/faraway-mcp/internal/catalog"
	"github.com/ironsheep/faraway-mcp/internal/config"
	"github.com/ironsheep/faraway-mcp/internal/guidance"
	"github.com/ironsheep/faraway-mcp/internal/server"
	"github.com/ironsheep/faraway-mcp/internal/stabilizer"
	"github.com/ironsheep/faraway-mcp/internal/telemetry"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("faraway-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp(os.Stdout)
			return
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "faraway-mcp: %v\n", err)
		os.Exit(1)
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "faraway-mcp - MCP server that scores Faraway tableaux from card detections")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: faraway-mcp [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v        Print version information")
	fmt.Fprintln(w, "  --help, -h           Print this help message")
	fmt.Fprintln(w, "  -catalog PATH        Card catalog CSV")
	fmt.Fprintln(w, "  -window N            Frames voted on (default 30)")
	fmt.Fprintln(w, "  -confidence C        Winning share of the window (default 0.7)")
	fmt.Fprintln(w, "  -log-level LEVEL     debug, info, warn or error")
	fmt.Fprintln(w, "  -locale TAG          Default hint language (en-US, pt-BR)")
	fmt.Fprintln(w, "  -viewport X1,Y1,X2,Y2  Ignore detections outside this rectangle")
	fmt.Fprintln(w, "  -otel-endpoint URL   OTLP/HTTP trace endpoint")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  FARAWAY_MCP_CATALOG, FARAWAY_MCP_WINDOW_SIZE, FARAWAY_MCP_CONFIDENCE,")
	fmt.Fprintln(w, "  FARAWAY_MCP_LOG_LEVEL, FARAWAY_MCP_LOCALE, FARAWAY_MCP_VIEWPORT,")
	fmt.Fprintln(w, "  FARAWAY_MCP_OTEL_ENDPOINT. Flags take precedence.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "This server communicates via MCP protocol over stdin/stdout.")
	fmt.Fprintln(w, "Configure it in your MCP client (e.g., Claude Desktop).")
}

// run wires the server from args and serves until ctx ends. Logs go to
// logOut because stdout is for the MCP protocol.
func run(ctx context.Context, args []string, logOut io.Writer) error {
	fs := flag.NewFlagSet("faraway-mcp", flag.ContinueOnError)
	fs.SetOutput(logOut)
	cfg, err := config.ParseConfig(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	logger, err := config.NewLogger(cfg.LogLevel, logOut)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit),
	)

	shutdown, err := telemetry.Setup(ctx, server.Name, Version, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("set up tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("flush traces", zap.Error(err))
		}
	}()

	cat, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded",
		zap.String("path", cfg.CatalogPath),
		zap.Int("regions", cat.RegionCount()),
		zap.Int("sanctuaries", cat.SanctuaryCount()),
	)

	window, err := stabilizer.New(cat,
		stabilizer.WithSize(cfg.WindowSize),
		stabilizer.WithThreshold(cfg.Confidence),
		stabilizer.WithViewport(cfg.Viewport.Bounds()),
		stabilizer.WithLogger(logger.Named("stabilizer")),
	)
	if err != nil {
		return err
	}

	guide, err := guidance.Load()
	if err != nil {
		return fmt.Errorf("load guidance: %w", err)
	}

	srv := server.New(cat, window, guide, server.Options{
		Version: Version,
		Locale:  cfg.Locale,
		Logger:  logger.Named("server"),
	})
	return srv.Serve(ctx)
}
