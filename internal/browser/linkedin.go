// Package browser owns the authenticated LinkedIn browsing session.
//
// One Crawl call launches one Chrome, logs in, runs the search, applies the
// "Posts" filter, scrolls to trigger lazy-loading and returns the page HTML.
// The browser is always torn down before returning, success or failure.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

const (
	loginURL = "https://www.linkedin.com/login"
	feedURL  = "https://www.linkedin.com/feed/"

	usernameSelector  = "input#username"
	passwordSelector  = "input#password"
	submitSelector    = `button[type="submit"]`
	searchBoxSelector = "input.search-global-typeahead__input"
	postsFilterRegex  = "Posts"

	navTimeout     = 30 * time.Second
	controlTimeout = 30 * time.Second
	filterTimeout  = 15 * time.Second
	settleTimeout  = 10 * time.Second
	settleFallback = 2 * time.Second
)

// ErrLoginRejected is returned when LinkedIn refuses the configured
// credentials. Fatal to the run; the caller does not retry.
var ErrLoginRejected = errors.New("browser: linkedin login rejected")

// LinkedIn crawls the LinkedIn feed behind a logged-in session.
type LinkedIn struct {
	Email    string
	Password string
	Headless bool

	// ScrollTimes is the number of scroll actions used to trigger
	// lazy-loading of additional results.
	ScrollTimes int
}

// NewLinkedIn constructs a crawler with the session credentials.
func NewLinkedIn(email, password string, headless bool) *LinkedIn {
	return &LinkedIn{
		Email:       email,
		Password:    password,
		Headless:    headless,
		ScrollTimes: 3,
	}
}

// Crawl performs one full authenticated session and returns the raw HTML of
// the filtered search results page.
//
// A missing search box or "Posts" filter is recoverable: it is logged and
// ("", nil) is returned so the run completes with zero posts. A rejected
// login or a browser-level failure is returned as an error.
func (l *LinkedIn) Crawl(ctx context.Context, searchTerm string) (string, error) {
	lnch := launcher.New().Headless(l.Headless)
	controlURL, err := lnch.Launch()
	if err != nil {
		return "", fmt.Errorf("browser: launch chrome: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		lnch.Cleanup()
		return "", fmt.Errorf("browser: connect: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			log.Printf("[browser] Close error: %v", err)
		}
		lnch.Cleanup()
	}()

	page, err := stealth.Page(b)
	if err != nil {
		return "", fmt.Errorf("browser: create stealth page: %w", err)
	}
	page = page.Context(ctx)

	if err := l.login(page); err != nil {
		return "", err
	}

	if err := page.Timeout(navTimeout).Navigate(feedURL); err != nil {
		return "", fmt.Errorf("browser: navigate feed: %w", err)
	}
	if err := page.Timeout(navTimeout).WaitLoad(); err != nil {
		log.Printf("[browser] Feed load wait timed out: %v", err)
	}
	settle(page)

	// Search. The box not appearing usually means LinkedIn changed its UI
	// or the login silently failed — either way this run yields nothing.
	box, err := page.Timeout(controlTimeout).Element(searchBoxSelector)
	if err != nil {
		log.Printf("[browser] Search box not found — skipping run: %v", err)
		return "", nil
	}
	if err := box.Input(searchTerm); err != nil {
		return "", fmt.Errorf("browser: fill search box: %w", err)
	}
	if err := box.Type(input.Enter); err != nil {
		return "", fmt.Errorf("browser: submit search: %w", err)
	}
	settle(page)

	filter, err := page.Timeout(filterTimeout).ElementR("button", postsFilterRegex)
	if err != nil {
		log.Printf("[browser] Posts filter not found — skipping run: %v", err)
		return "", nil
	}
	if err := filter.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return "", fmt.Errorf("browser: click posts filter: %w", err)
	}
	settle(page)

	for i := 0; i < l.ScrollTimes; i++ {
		if _, err := page.Eval(`() => window.scrollBy(0, 1000)`); err != nil {
			return "", fmt.Errorf("browser: scroll %d: %w", i+1, err)
		}
		settle(page)
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("browser: capture page: %w", err)
	}
	return html, nil
}

// login fills the credential form and verifies the session left the login
// flow. LinkedIn redirects to a checkpoint page on suspicious or rejected
// logins; both count as rejection here.
func (l *LinkedIn) login(page *rod.Page) error {
	if err := page.Timeout(navTimeout).Navigate(loginURL); err != nil {
		return fmt.Errorf("browser: navigate login: %w", err)
	}

	user, err := page.Timeout(controlTimeout).Element(usernameSelector)
	if err != nil {
		return fmt.Errorf("browser: find username field: %w", err)
	}
	if err := user.Input(l.Email); err != nil {
		return fmt.Errorf("browser: fill username: %w", err)
	}

	pass, err := page.Timeout(controlTimeout).Element(passwordSelector)
	if err != nil {
		return fmt.Errorf("browser: find password field: %w", err)
	}
	if err := pass.Input(l.Password); err != nil {
		return fmt.Errorf("browser: fill password: %w", err)
	}

	submit, err := page.Timeout(controlTimeout).Element(submitSelector)
	if err != nil {
		return fmt.Errorf("browser: find submit button: %w", err)
	}
	if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("browser: click submit: %w", err)
	}

	if err := page.Timeout(navTimeout).WaitLoad(); err != nil {
		log.Printf("[browser] Post-login load wait timed out: %v", err)
	}
	settle(page)

	info, err := page.Info()
	if err != nil {
		return fmt.Errorf("browser: read page info: %w", err)
	}
	if strings.Contains(info.URL, "/login") || strings.Contains(info.URL, "/checkpoint") {
		return ErrLoginRejected
	}
	return nil
}

// settle waits for the DOM to stop mutating, falling back to a short fixed
// delay when the page never stabilizes within the bound.
func settle(page *rod.Page) {
	if err := page.Timeout(settleTimeout).WaitDOMStable(time.Second, 0.2); err != nil {
		time.Sleep(settleFallback)
	}
}
