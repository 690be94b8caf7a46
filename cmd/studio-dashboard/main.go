package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bermudafunk/studio-dashboard/internal/config"
	"github.com/bermudafunk/studio-dashboard/internal/dashboard"
	"github.com/bermudafunk/studio-dashboard/internal/dispatcher"
	"github.com/bermudafunk/studio-dashboard/internal/graph"
	"github.com/bermudafunk/studio-dashboard/internal/led"
	"github.com/bermudafunk/studio-dashboard/internal/render"
	"github.com/bermudafunk/studio-dashboard/internal/subscription"
	"github.com/bermudafunk/studio-dashboard/internal/transport"
)

// version is set at build time via -ldflags "-X main.version=v1.0.0"
var version = "dev"

func main() {
	// Load config first to get log level
	cfg, err := config.Load()
	if err != nil {
		// Can't use slog yet as it isn't configured
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Configure slog with JSON handler and configured log level
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("Starting studio dashboard", "version", version)
	slog.Info("Dispatcher endpoint", "endpoint", cfg.DispatcherEndpoint)
	slog.Info("Reconnect delay", "delay", cfg.ReconnectDelay)

	view := render.NewLog()
	cache := led.NewCache(view)
	panel := graph.NewPanel(view, cfg.GraphURLs...)
	api := dispatcher.New(cfg.DispatcherEndpoint)

	tr, err := transport.New(cfg.DispatcherEndpoint, transport.RetryPolicy{Delay: cfg.ReconnectDelay})
	if err != nil {
		slog.Error("Invalid dispatcher endpoint", "error", err)
		os.Exit(1)
	}

	registry := subscription.New(tr)
	ctrl := dashboard.New(api, registry, tr, cache, panel, view, view)
	tr.Handlers = transport.Handlers{
		OnOpen:             registry.Resubscribe,
		OnDispatcherStatus: ctrl.HandleDispatcherStatus,
		OnLedStatus:        ctrl.HandleLedStatus,
	}
	tr.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := ctrl.Run(ctx); err != nil {
		slog.Error("Initial studio list fetch failed", "error", err)
		os.Exit(1)
	}

	// User actions arrive on stdin: the headless stand-in for the
	// selector, button and graph widgets.
	go commandLoop(ctx, ctrl)

	// Set up graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down gracefully")
	tr.Stop()
}

// commandLoop reads user actions line by line:
//
//	select <studio>   change the selected studio ("select" alone clears)
//	press <kind>      press a button in the selected studio
//	graph <url>       swap the displayed graph image ("graph" alone clears)
//	status            print the last dispatcher status
func commandLoop(ctx context.Context, ctrl *dashboard.Controller) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		arg := ""
		if len(fields) > 1 {
			arg = fields[1]
		}
		switch fields[0] {
		case "select":
			ctrl.SelectStudio(arg)
		case "press":
			ctrl.Press(ctx, arg)
		case "graph":
			ctrl.SelectGraph(arg)
		case "status":
			status := ctrl.DispatcherStatus()
			slog.Info("dispatcher status", "on_air_studio", status.OnAirStudio, "state", status.State)
		default:
			slog.Info("unknown command", "command", fields[0])
		}
	}
}

// parseLogLevel converts a string log level to slog.Level
func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
