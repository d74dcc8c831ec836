package modeler

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kuitang/modeler-smoke/internal/browser"
	"github.com/kuitang/modeler-smoke/internal/config"
	"github.com/kuitang/modeler-smoke/internal/errs"
)

// Session is the owned browser handle for one run.
type Session interface {
	Driver() browser.Driver
	Close() error
}

// Run opens a session through open, drives the pipeline, and closes the
// session on every exit path. Stage errors are terminal for the run and are
// reported through logs only; Run never re-raises them. An incomplete
// process or instance left behind in the target application is not rolled
// back.
func Run(cfg *config.Config, open func() (Session, error)) {
	sess, err := open()
	if err != nil {
		slog.Error("opening browser session failed", "error", err)
		return
	}
	defer func() {
		if err := sess.Close(); err != nil {
			slog.Error("closing browser session failed", "error", err)
		}
	}()

	p := NewPipeline(cfg)
	if err := p.Run(sess.Driver()); err != nil {
		slog.Error("smoke run failed", "stage", string(errs.StageOf(err)), "error", err)
		p.captureFailure(sess.Driver(), errs.StageOf(err))
	}
}

// captureFailure takes a best-effort screenshot of the page the failed
// stage left behind. Capture problems are logged, never escalated.
func (p *Pipeline) captureFailure(d browser.Driver, stage errs.Stage) {
	if p.cfg.ArtifactsDir == "" || stage == "" {
		return
	}
	if err := os.MkdirAll(p.cfg.ArtifactsDir, 0o755); err != nil {
		slog.Warn("creating artifacts directory failed", "dir", p.cfg.ArtifactsDir, "error", err)
		return
	}
	path := filepath.Join(p.cfg.ArtifactsDir, string(stage)+".png")
	if err := d.Screenshot(path); err != nil {
		slog.Warn("failure screenshot not captured", "path", path, "error", err)
		return
	}
	slog.Info("failure screenshot captured", "path", path)
}
