package modeler

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kuitang/modeler-smoke/internal/browser"
	"github.com/kuitang/modeler-smoke/internal/browser/mock"
	"github.com/kuitang/modeler-smoke/internal/config"
	"github.com/kuitang/modeler-smoke/internal/errs"
	"github.com/kuitang/modeler-smoke/internal/obs"
)

func testConfig() *config.Config {
	return &config.Config{
		BaseURL:          "http://localhost:8080",
		Username:         "demo",
		Password:         "demo",
		ProcessName:      "Test Process",
		RestURL:          "https://api.example.com/data",
		Headless:         true,
		ConnectorTimeout: 5 * time.Second,
	}
}

// fakeSession adapts a mock driver to the Session interface and counts
// releases.
type fakeSession struct {
	d      *mock.Driver
	closes int
}

func (s *fakeSession) Driver() browser.Driver { return s.d }

func (s *fakeSession) Close() error {
	s.closes++
	return nil
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	restore := obs.SetOutputForTests(&buf)
	t.Cleanup(restore)
	return &buf
}

func happyDriver(cfg *config.Config) *mock.Driver {
	return &mock.Driver{
		Texts: map[string]string{
			completionStatusCell(cfg.ProcessName): "Completed",
		},
	}
}

func TestRun_FullSequence(t *testing.T) {
	cfg := testConfig()
	logs := captureLogs(t)

	sess := &fakeSession{d: happyDriver(cfg)}
	opened := 0
	Run(cfg, func() (Session, error) {
		opened++
		return sess, nil
	})

	if opened != 1 {
		t.Fatalf("opener invoked %d times, want 1", opened)
	}
	if sess.closes != 1 {
		t.Fatalf("session closed %d times, want exactly 1", sess.closes)
	}

	wantCalls := []mock.Call{
		// login
		{Op: mock.OpGoto, Selector: "http://localhost:8080/login"},
		{Op: mock.OpFill, Selector: loginUsernameInput, Value: "demo"},
		{Op: mock.OpPress, Selector: loginUsernameInput, Value: "Enter"},
		{Op: mock.OpFill, Selector: loginPasswordInput, Value: "demo"},
		{Op: mock.OpPress, Selector: loginPasswordInput, Value: "Enter"},
		{Op: mock.OpWaitNav},
		// navigate
		{Op: mock.OpGoto, Selector: "http://localhost:8080"},
		{Op: mock.OpWaitVisible, Selector: createProcessButton},
		// create process
		{Op: mock.OpClick, Selector: createProcessButton},
		{Op: mock.OpFill, Selector: processNameInput, Value: "Test Process"},
		{Op: mock.OpClick, Selector: confirmCreateButton},
		{Op: mock.OpClick, Selector: addConnectorButton},
		{Op: mock.OpWaitVisible, Selector: connectorURLInput, Timeout: 5 * time.Second},
		{Op: mock.OpFill, Selector: connectorURLInput, Value: "https://api.example.com/data"},
		{Op: mock.OpClick, Selector: saveConnectorButton},
		{Op: mock.OpClick, Selector: saveProcessButton},
		// run instance
		{Op: mock.OpGoto, Selector: "http://localhost:8080/run"},
		{Op: mock.OpClick, Selector: runInstanceButton},
		{Op: mock.OpClick, Selector: monitorSidebarToggle},
		{Op: mock.OpClick, Selector: monitorLink},
		{Op: mock.OpSelectOption, Selector: processSelect, Value: "Test Process"},
		{Op: mock.OpClick, Selector: startInstanceButton},
		// verify completion
		{Op: mock.OpClick, Selector: monitorSidebarToggle},
		{Op: mock.OpClick, Selector: monitorLink},
		{Op: mock.OpFill, Selector: instanceSearchInput, Value: "Test Process"},
		{Op: mock.OpPress, Selector: instanceSearchInput, Value: "Enter"},
		{Op: mock.OpWaitVisible, Selector: completionStatusCell("Test Process")},
		{Op: mock.OpTextContent, Selector: completionStatusCell("Test Process")},
	}
	if len(sess.d.Calls) != len(wantCalls) {
		t.Fatalf("recorded %d calls, want %d: %v", len(sess.d.Calls), len(wantCalls), sess.d.Ops())
	}
	for i, want := range wantCalls {
		if sess.d.Calls[i] != want {
			t.Errorf("call %d = %+v, want %+v", i, sess.d.Calls[i], want)
		}
	}

	out := logs.String()
	successLines := []string{
		"logged in",
		"web modeler ready",
		"process created",
		"process instance started",
		"process completed",
	}
	last := -1
	for _, msg := range successLines {
		idx := strings.Index(out, `"msg":"`+msg+`"`)
		if idx < 0 {
			t.Errorf("missing success line %q in logs:\n%s", msg, out)
			continue
		}
		if idx < last {
			t.Errorf("success line %q logged out of order", msg)
		}
		last = idx
	}
	if strings.Contains(out, "smoke run failed") {
		t.Errorf("unexpected failure line in logs:\n%s", out)
	}
}

func TestRun_FailureStopsLaterStages(t *testing.T) {
	cfg := testConfig()

	cases := []struct {
		name         string
		failOp       string
		failSelector string
		wantStage    errs.Stage
		wantMessage  string
	}{
		{
			name:         "login",
			failOp:       mock.OpFill,
			failSelector: loginUsernameInput,
			wantStage:    errs.StageLogin,
			wantMessage:  "Login failed: timeout",
		},
		{
			name:         "navigate",
			failOp:       mock.OpWaitVisible,
			failSelector: createProcessButton,
			wantStage:    errs.StageNavigate,
			wantMessage:  "Navigation to Web Modeler failed: timeout",
		},
		{
			name:         "create process",
			failOp:       mock.OpWaitVisible,
			failSelector: connectorURLInput,
			wantStage:    errs.StageCreateProcess,
			wantMessage:  "Process creation failed: timeout",
		},
		{
			name:         "run instance",
			failOp:       mock.OpGoto,
			failSelector: "http://localhost:8080/run",
			wantStage:    errs.StageRunInstance,
			wantMessage:  "Running process instance failed: timeout",
		},
		{
			name:         "verify completion",
			failOp:       mock.OpTextContent,
			failSelector: completionStatusCell("Test Process"),
			wantStage:    errs.StageVerify,
			wantMessage:  "Verification of process completion failed: timeout",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logs := captureLogs(t)

			d := happyDriver(cfg)
			d.FailOp = tc.failOp
			d.FailSelector = tc.failSelector
			d.Err = errors.New("timeout")
			sess := &fakeSession{d: d}

			Run(cfg, func() (Session, error) { return sess, nil })

			if sess.closes != 1 {
				t.Fatalf("session closed %d times, want exactly 1", sess.closes)
			}

			// The failing call is the last one recorded; no later stage ran.
			last := d.LastCall()
			if last.Op != tc.failOp || last.Selector != tc.failSelector {
				t.Errorf("last call = %+v, want failing %s on %s", last, tc.failOp, tc.failSelector)
			}

			out := logs.String()
			if !strings.Contains(out, `"msg":"smoke run failed"`) {
				t.Errorf("missing failure line in logs:\n%s", out)
			}
			if !strings.Contains(out, tc.wantMessage) {
				t.Errorf("logs missing wrapped message %q:\n%s", tc.wantMessage, out)
			}
			if !strings.Contains(out, `"stage":"`+string(tc.wantStage)+`"`) {
				t.Errorf("logs missing stage tag %q:\n%s", tc.wantStage, out)
			}
		})
	}
}

func TestRun_OpenerFailureRunsNoStage(t *testing.T) {
	cfg := testConfig()
	logs := captureLogs(t)

	Run(cfg, func() (Session, error) {
		return nil, errors.New("chromium missing")
	})

	out := logs.String()
	if !strings.Contains(out, `"msg":"opening browser session failed"`) {
		t.Errorf("missing open-failure line in logs:\n%s", out)
	}
	if strings.Contains(out, "logged in") {
		t.Errorf("stage ran despite opener failure:\n%s", out)
	}
}

func TestPipeline_ErrorWrappingPreservesCause(t *testing.T) {
	cfg := testConfig()
	captureLogs(t)

	cause := errors.New("net::ERR_CONNECTION_REFUSED")
	d := &mock.Driver{FailOp: mock.OpGoto, Err: cause}

	err := NewPipeline(cfg).Run(d)
	if err == nil {
		t.Fatal("expected a stage error")
	}
	if !errors.Is(err, cause) {
		t.Error("stage error lost its cause")
	}
	if got := errs.StageOf(err); got != errs.StageLogin {
		t.Errorf("StageOf = %q, want login", got)
	}
	if want := "Login failed: net::ERR_CONNECTION_REFUSED"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestVerifyCompletion_Classification(t *testing.T) {
	cfg := testConfig()

	cases := []struct {
		status  string
		wantMsg string
	}{
		{"Completed", "process completed"},
		{"Running", "process did not complete"},
		{"", "process did not complete"},
		{"Incomplete", "process did not complete"},
		// Case-sensitive comparison: lowercase must not match.
		{"completed", "process did not complete"},
	}

	for _, tc := range cases {
		t.Run("status "+tc.status, func(t *testing.T) {
			logs := captureLogs(t)

			d := &mock.Driver{
				Texts: map[string]string{
					completionStatusCell(cfg.ProcessName): tc.status,
				},
			}
			if err := NewPipeline(cfg).VerifyCompletion(d); err != nil {
				t.Fatalf("VerifyCompletion failed: %v", err)
			}

			out := logs.String()
			if !strings.Contains(out, `"msg":"`+tc.wantMsg+`"`) {
				t.Errorf("status %q: missing log %q:\n%s", tc.status, tc.wantMsg, out)
			}
			if tc.wantMsg == "process did not complete" && !strings.Contains(out, `"status":"`+tc.status+`"`) {
				t.Errorf("status %q not attached to log:\n%s", tc.status, out)
			}
		})
	}
}

func TestWaits_BoundedOnlyForConnectorPanel(t *testing.T) {
	cfg := testConfig()
	cfg.ConnectorTimeout = 7 * time.Second
	captureLogs(t)

	d := happyDriver(cfg)
	if err := NewPipeline(cfg).Run(d); err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	for _, call := range d.Calls {
		if call.Op != mock.OpWaitVisible {
			continue
		}
		if call.Selector == connectorURLInput {
			if call.Timeout != 7*time.Second {
				t.Errorf("connector wait timeout = %v, want 7s", call.Timeout)
			}
		} else if call.Timeout != 0 {
			t.Errorf("wait on %s has timeout %v, want engine default", call.Selector, call.Timeout)
		}
	}
}

func TestRun_FailureScreenshotCaptured(t *testing.T) {
	cfg := testConfig()
	cfg.ArtifactsDir = t.TempDir()
	captureLogs(t)

	d := happyDriver(cfg)
	d.FailOp = mock.OpSelectOption
	d.Err = errors.New("option not found")
	sess := &fakeSession{d: d}

	Run(cfg, func() (Session, error) { return sess, nil })

	last := d.LastCall()
	if last.Op != mock.OpScreenshot {
		t.Fatalf("last call = %+v, want screenshot after failure", last)
	}
	if !strings.HasSuffix(last.Selector, string(errs.StageRunInstance)+".png") {
		t.Errorf("screenshot path = %q, want named after failed stage", last.Selector)
	}
	if sess.closes != 1 {
		t.Errorf("session closed %d times, want exactly 1", sess.closes)
	}
}
