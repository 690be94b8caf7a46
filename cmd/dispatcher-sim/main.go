package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/bermudafunk/studio-dashboard/internal/simulator"
)

// main runs a fake dispatcher backend so the dashboard can be
// developed and demoed without the real hardware behind it.
func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	port := getEnv("SIM_PORT", "8080")
	var studios []string
	for _, s := range strings.Split(getEnv("SIM_STUDIOS", "studio-a,studio-b"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			studios = append(studios, s)
		}
	}

	sim := simulator.New(studios...)

	// Keep late-joining clients fresh between presses
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			sim.BroadcastStatus()
		}
	}()

	addr := fmt.Sprintf(":%s", port)
	slog.Info("Simulated dispatcher listening", "component", "Simulator", "address", addr, "studios", strings.Join(studios, ","))
	if err := http.ListenAndServe(addr, sim.Router()); err != nil {
		slog.Error("Simulator failed", "component", "Simulator", "error", err)
		os.Exit(1)
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
