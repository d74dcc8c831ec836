// Package mock provides a recording mock driver for testing the pipeline
// without a real browser.
package mock

import (
	"errors"
	"time"

	"github.com/kuitang/modeler-smoke/internal/browser"
)

// Operation names recorded per call.
const (
	OpGoto         = "goto"
	OpWaitNav      = "wait_navigation"
	OpFill         = "fill"
	OpPress        = "press"
	OpClick        = "click"
	OpWaitVisible  = "wait_visible"
	OpSelectOption = "select_option"
	OpTextContent  = "text_content"
	OpScreenshot   = "screenshot"
)

// Call records one driver invocation. Selector carries the URL for goto and
// the file path for screenshot.
type Call struct {
	Op       string
	Selector string
	Value    string
	Timeout  time.Duration
}

// Driver is a mock implementation of browser.Driver.
type Driver struct {
	// Calls records every invocation in order.
	Calls []Call

	// FailOp arms a failure: the first call whose op matches FailOp (and
	// whose selector matches FailSelector, when set) returns Err.
	FailOp       string
	FailSelector string
	// Err is returned for the armed failure. Nil means a generic error.
	Err error

	// Texts maps selectors to TextContent results.
	Texts map[string]string
}

var _ browser.Driver = (*Driver)(nil)

func (d *Driver) record(op, selector, value string, timeout time.Duration) error {
	d.Calls = append(d.Calls, Call{
		Op:       op,
		Selector: selector,
		Value:    value,
		Timeout:  timeout,
	})
	if d.FailOp == op && (d.FailSelector == "" || d.FailSelector == selector) {
		if d.Err != nil {
			return d.Err
		}
		return errors.New("mock failure")
	}
	return nil
}

func (d *Driver) Goto(url string) error {
	return d.record(OpGoto, url, "", 0)
}

func (d *Driver) WaitForNavigation() error {
	return d.record(OpWaitNav, "", "", 0)
}

func (d *Driver) Fill(selector, value string) error {
	return d.record(OpFill, selector, value, 0)
}

func (d *Driver) Press(selector, key string) error {
	return d.record(OpPress, selector, key, 0)
}

func (d *Driver) Click(selector string) error {
	return d.record(OpClick, selector, "", 0)
}

func (d *Driver) WaitForVisible(selector string, timeout time.Duration) error {
	return d.record(OpWaitVisible, selector, "", timeout)
}

func (d *Driver) SelectOption(selector, label string) error {
	return d.record(OpSelectOption, selector, label, 0)
}

func (d *Driver) TextContent(selector string) (string, error) {
	if err := d.record(OpTextContent, selector, "", 0); err != nil {
		return "", err
	}
	return d.Texts[selector], nil
}

func (d *Driver) Screenshot(path string) error {
	return d.record(OpScreenshot, path, "", 0)
}

// Ops returns the recorded operation names in order.
func (d *Driver) Ops() []string {
	ops := make([]string, len(d.Calls))
	for i, call := range d.Calls {
		ops[i] = call.Op
	}
	return ops
}

// LastCall returns the most recent call, or a zero Call when none were made.
func (d *Driver) LastCall() Call {
	if len(d.Calls) == 0 {
		return Call{}
	}
	return d.Calls[len(d.Calls)-1]
}
