// Package modeler drives the target application through the five-stage
// smoke sequence: login, navigate, create process, run instance, verify
// completion. Stages execute strictly in order against one page; stage N+1
// depends on the DOM state stage N left behind.
package modeler

import (
	"log/slog"

	"github.com/kuitang/modeler-smoke/internal/browser"
	"github.com/kuitang/modeler-smoke/internal/config"
	"github.com/kuitang/modeler-smoke/internal/errs"
)

// Pipeline holds the run configuration for the five stages.
type Pipeline struct {
	cfg *config.Config
}

// NewPipeline creates a pipeline for the given configuration.
func NewPipeline(cfg *config.Config) *Pipeline {
	return &Pipeline{cfg: cfg}
}

// Run drives the stages in fixed order and stops at the first failure.
func (p *Pipeline) Run(d browser.Driver) error {
	if err := p.Login(d); err != nil {
		return err
	}
	if err := p.NavigateToModeler(d); err != nil {
		return err
	}
	if err := p.CreateProcess(d); err != nil {
		return err
	}
	if err := p.RunInstance(d); err != nil {
		return err
	}
	return p.VerifyCompletion(d)
}

// Login submits the credentials through the login form. Empty credentials
// are submitted as-is; the form itself decides whether they are acceptable.
func (p *Pipeline) Login(d browser.Driver) error {
	if err := p.login(d); err != nil {
		return errs.Wrap(errs.StageLogin, err)
	}
	slog.Info("logged in", "user", p.cfg.Username)
	return nil
}

func (p *Pipeline) login(d browser.Driver) error {
	if err := d.Goto(p.cfg.LoginURL()); err != nil {
		return err
	}
	if err := d.Fill(loginUsernameInput, p.cfg.Username); err != nil {
		return err
	}
	if err := d.Press(loginUsernameInput, "Enter"); err != nil {
		return err
	}
	if err := d.Fill(loginPasswordInput, p.cfg.Password); err != nil {
		return err
	}
	if err := d.Press(loginPasswordInput, "Enter"); err != nil {
		return err
	}
	return d.WaitForNavigation()
}

// NavigateToModeler loads the workspace and waits for the create-process
// affordance as the readiness signal.
func (p *Pipeline) NavigateToModeler(d browser.Driver) error {
	if err := p.navigate(d); err != nil {
		return errs.Wrap(errs.StageNavigate, err)
	}
	slog.Info("web modeler ready")
	return nil
}

func (p *Pipeline) navigate(d browser.Driver) error {
	if err := d.Goto(p.cfg.ModelerURL()); err != nil {
		return err
	}
	return d.WaitForVisible(createProcessButton, 0)
}

// CreateProcess creates the named process and attaches one outbound REST
// connector. The connector panel wait is the only bounded wait in the
// pipeline; if the panel never renders, the stage fails instead of hanging.
func (p *Pipeline) CreateProcess(d browser.Driver) error {
	if err := p.createProcess(d); err != nil {
		return errs.Wrap(errs.StageCreateProcess, err)
	}
	slog.Info("process created", "process", p.cfg.ProcessName, "connector_url", p.cfg.RestURL)
	return nil
}

func (p *Pipeline) createProcess(d browser.Driver) error {
	if err := d.Click(createProcessButton); err != nil {
		return err
	}
	if err := d.Fill(processNameInput, p.cfg.ProcessName); err != nil {
		return err
	}
	if err := d.Click(confirmCreateButton); err != nil {
		return err
	}
	if err := d.Click(addConnectorButton); err != nil {
		return err
	}
	if err := d.WaitForVisible(connectorURLInput, p.cfg.ConnectorTimeout); err != nil {
		return err
	}
	if err := d.Fill(connectorURLInput, p.cfg.RestURL); err != nil {
		return err
	}
	if err := d.Click(saveConnectorButton); err != nil {
		return err
	}
	return d.Click(saveProcessButton)
}

// RunInstance starts one instance of the created process from the
// monitoring view.
func (p *Pipeline) RunInstance(d browser.Driver) error {
	if err := p.runInstance(d); err != nil {
		return errs.Wrap(errs.StageRunInstance, err)
	}
	slog.Info("process instance started", "process", p.cfg.ProcessName)
	return nil
}

func (p *Pipeline) runInstance(d browser.Driver) error {
	if err := d.Goto(p.cfg.RunURL()); err != nil {
		return err
	}
	if err := d.Click(runInstanceButton); err != nil {
		return err
	}
	if err := d.Click(monitorSidebarToggle); err != nil {
		return err
	}
	if err := d.Click(monitorLink); err != nil {
		return err
	}
	if err := d.SelectOption(processSelect, p.cfg.ProcessName); err != nil {
		return err
	}
	return d.Click(startInstanceButton)
}

// VerifyCompletion searches the monitoring view for the instance and reads
// its status cell. The outcome is observational: either result logs one
// line and neither changes the run's success signal. It re-opens the
// sidebar and monitoring link on its own; it shares no view state with
// RunInstance.
func (p *Pipeline) VerifyCompletion(d browser.Driver) error {
	status, err := p.readStatus(d)
	if err != nil {
		return errs.Wrap(errs.StageVerify, err)
	}
	if status == completedStatus {
		slog.Info("process completed", "process", p.cfg.ProcessName)
	} else {
		slog.Info("process did not complete", "process", p.cfg.ProcessName, "status", status)
	}
	return nil
}

func (p *Pipeline) readStatus(d browser.Driver) (string, error) {
	if err := d.Click(monitorSidebarToggle); err != nil {
		return "", err
	}
	if err := d.Click(monitorLink); err != nil {
		return "", err
	}
	if err := d.Fill(instanceSearchInput, p.cfg.ProcessName); err != nil {
		return "", err
	}
	if err := d.Press(instanceSearchInput, "Enter"); err != nil {
		return "", err
	}
	statusCell := completionStatusCell(p.cfg.ProcessName)
	if err := d.WaitForVisible(statusCell, 0); err != nil {
		return "", err
	}
	return d.TextContent(statusCell)
}
