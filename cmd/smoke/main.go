// Web Modeler smoke driver. One linear run: login, create a process with
// an outbound REST connector, start an instance, verify it completed.
package main

import (
	"flag"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kuitang/modeler-smoke/internal/browser"
	"github.com/kuitang/modeler-smoke/internal/config"
	"github.com/kuitang/modeler-smoke/internal/modeler"
	"github.com/kuitang/modeler-smoke/internal/obs"
)

func main() {
	configPath := flag.String("config", "", "Path to a smoke.yaml config file (default: smoke.yaml in the working directory, if present)")
	flag.Parse()

	obs.Init()
	slog.SetDefault(slog.Default().With("run_id", uuid.NewString()))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading configuration failed", "error", err)
		return
	}

	slog.Info("smoke run starting", "base_url", cfg.BaseURL, "process", cfg.ProcessName)

	// Outcomes are reported through logs only; the exit status stays zero
	// for every outcome.
	modeler.Run(cfg, func() (modeler.Session, error) {
		return browser.NewSession(browser.Options{Headless: cfg.Headless})
	})
}
