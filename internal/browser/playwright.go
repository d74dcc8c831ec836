package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session implements Driver directly against its page.
var _ Driver = (*Session)(nil)

func (s *Session) Goto(url string) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	return err
}

func (s *Session) WaitForNavigation() error {
	return s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateDomcontentloaded,
	})
}

func (s *Session) Fill(selector, value string) error {
	return s.page.Locator(selector).First().Fill(value)
}

func (s *Session) Press(selector, key string) error {
	return s.page.Locator(selector).First().Press(key)
}

func (s *Session) Click(selector string) error {
	return s.page.Locator(selector).First().Click()
}

func (s *Session) WaitForVisible(selector string, timeout time.Duration) error {
	opts := playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateVisible,
	}
	if timeout > 0 {
		opts.Timeout = playwright.Float(float64(timeout.Milliseconds()))
	}
	return s.page.Locator(selector).First().WaitFor(opts)
}

func (s *Session) SelectOption(selector, label string) error {
	_, err := s.page.Locator(selector).First().SelectOption(playwright.SelectOptionValues{
		Labels: &[]string{label},
	})
	return err
}

func (s *Session) TextContent(selector string) (string, error) {
	return s.page.Locator(selector).First().TextContent()
}

func (s *Session) Screenshot(path string) error {
	_, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}
