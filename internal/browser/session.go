package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Options configures session creation.
type Options struct {
	Headless bool
}

// Session owns one Playwright instance, one browser, and one page for the
// duration of a run. The orchestrator must call Close on every exit path;
// Close is idempotent.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	closed  bool
}

// NewSession starts the Playwright driver, launches Chromium, and opens a
// single page. On any failure the partially acquired resources are released
// before the error is returned.
func NewSession(opts Options) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright driver: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	page, err := browser.NewPage()
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("open page: %w", err)
	}

	return &Session{
		pw:      pw,
		browser: browser,
		page:    page,
	}, nil
}

// Driver returns the automation surface backed by this session's page.
func (s *Session) Driver() Driver {
	return s
}

// Close releases the page, the browser, and the Playwright driver.
// Subsequent calls are no-ops.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	if s.page != nil {
		if err := s.page.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
