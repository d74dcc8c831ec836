// Package browser wraps the Playwright automation surface behind a narrow
// driver interface so the pipeline stages stay independent of the engine.
package browser

import "time"

// Driver is the page-automation surface the pipeline stages consume.
// Implementations block until the underlying browser operation resolves.
type Driver interface {
	// Goto navigates the page and waits for DOMContentLoaded.
	Goto(url string) error
	// WaitForNavigation waits for the load state after a form submit.
	WaitForNavigation() error
	// Fill replaces the value of the first element matching selector.
	Fill(selector, value string) error
	// Press sends a single key to the first element matching selector.
	Press(selector, key string) error
	// Click clicks the first element matching selector.
	Click(selector string) error
	// WaitForVisible waits for the first match to become visible.
	// A timeout <= 0 leaves the engine's default timeout in effect.
	WaitForVisible(selector string, timeout time.Duration) error
	// SelectOption picks a dropdown option by its visible label.
	SelectOption(selector, label string) error
	// TextContent reads the text content of the first match.
	TextContent(selector string) (string, error)
	// Screenshot writes a full-page capture to path.
	Screenshot(path string) error
}
