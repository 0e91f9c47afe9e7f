// Package scraper acquires recent posts from a LinkedIn profile's
// activity feed using a controlled Chrome instance.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/celestial/post-api/internal/domain"
)

// Feed selectors. LinkedIn churns its DOM regularly; these are the
// stable-ish data attributes as of early 2026.
const (
	postSelector      = "div.feed-shared-update-v2"
	postTextSelector  = "div.update-components-text"
	reactionsSelector = "span.social-details-social-counts__reactions-count"
	seeMoreSelector   = "button.feed-shared-inline-show-more-text__see-more-less-toggle"
)

const (
	loginURL    = "https://www.linkedin.com/login"
	scrollPause = 2 * time.Second
	loginPause  = 3 * time.Second
)

// ErrLoginFailed is returned when the feed cannot be reached with the
// configured credentials.
var ErrLoginFailed = errors.New("login failed")

// Scraper acquires recent posts for a profile. The profile argument is
// either a full profile URL or a bare profile slug.
type Scraper interface {
	RecentPosts(ctx context.Context, profile string) ([]*domain.ContentRecord, error)
}

// Config holds browser and session settings.
type Config struct {
	Email      string
	Password   string
	Headless   bool
	MaxScrolls int
}

// RodScraper drives a Chrome instance through go-rod.
type RodScraper struct {
	cfg    Config
	logger *slog.Logger
}

var _ Scraper = (*RodScraper)(nil)

// NewRodScraper creates a scraper. If logger is nil, the default logger
// is used.
func NewRodScraper(cfg Config, logger *slog.Logger) *RodScraper {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxScrolls <= 0 {
		cfg.MaxScrolls = 10
	}
	return &RodScraper{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "scraper")),
	}
}

// RecentPosts logs in, walks the profile's recent activity feed, and
// returns the cleaned posts found there. The browser lives only for the
// duration of the call.
func (s *RodScraper) RecentPosts(ctx context.Context, profile string) ([]*domain.ContentRecord, error) {
	if s.cfg.Email == "" || s.cfg.Password == "" {
		return nil, fmt.Errorf("%w: credentials not configured", ErrLoginFailed)
	}

	controlURL, err := launcher.New().Headless(s.cfg.Headless).Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{URL: loginURL})
	if err != nil {
		return nil, fmt.Errorf("open login page: %w", err)
	}

	if err := s.login(ctx, page); err != nil {
		return nil, err
	}

	feedURL := FeedURL(profile)
	if err := page.Context(ctx).Navigate(feedURL); err != nil {
		return nil, fmt.Errorf("navigate to activity feed: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("load activity feed: %w", err)
	}

	s.scrollFeed(ctx, page)
	s.expandPosts(ctx, page)

	return s.collectPosts(ctx, page, feedURL)
}

func (s *RodScraper) login(ctx context.Context, page *rod.Page) error {
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("%w: load login page: %v", ErrLoginFailed, err)
	}

	email, err := page.Context(ctx).Element("#username")
	if err != nil {
		return fmt.Errorf("%w: username field not found: %v", ErrLoginFailed, err)
	}
	if err := email.Input(s.cfg.Email); err != nil {
		return fmt.Errorf("%w: fill username: %v", ErrLoginFailed, err)
	}

	password, err := page.Context(ctx).Element("#password")
	if err != nil {
		return fmt.Errorf("%w: password field not found: %v", ErrLoginFailed, err)
	}
	if err := password.Input(s.cfg.Password); err != nil {
		return fmt.Errorf("%w: fill password: %v", ErrLoginFailed, err)
	}

	submit, err := page.Context(ctx).Element(`button[type="submit"]`)
	if err != nil {
		return fmt.Errorf("%w: submit button not found: %v", ErrLoginFailed, err)
	}
	if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("%w: submit login form: %v", ErrLoginFailed, err)
	}

	sleepFor(ctx, loginPause)

	// A checkpoint or challenge page means the session is unusable.
	info, err := page.Info()
	if err != nil {
		return fmt.Errorf("%w: inspect post-login page: %v", ErrLoginFailed, err)
	}
	if strings.Contains(info.URL, "/checkpoint/") || strings.Contains(info.URL, "/login") {
		return fmt.Errorf("%w: landed on %s", ErrLoginFailed, info.URL)
	}

	s.logger.InfoContext(ctx, "login succeeded")
	return nil
}

// scrollFeed scrolls to the bottom repeatedly so lazy-loaded posts
// render. Scrolling stops early when the page height stops growing.
func (s *RodScraper) scrollFeed(ctx context.Context, page *rod.Page) {
	lastHeight := -1
	for i := 0; i < s.cfg.MaxScrolls; i++ {
		if ctx.Err() != nil {
			return
		}

		if _, err := page.Context(ctx).Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
			s.logger.WarnContext(ctx, "scroll failed", "error", err)
			return
		}
		sleepFor(ctx, scrollPause)

		res, err := page.Context(ctx).Eval(`() => document.body.scrollHeight`)
		if err != nil {
			return
		}
		height := res.Value.Int()
		if height == lastHeight {
			return
		}
		lastHeight = height
	}
}

// expandPosts clicks every "see more" toggle so truncated posts yield
// their full text.
func (s *RodScraper) expandPosts(ctx context.Context, page *rod.Page) {
	toggles, err := page.Context(ctx).Elements(seeMoreSelector)
	if err != nil {
		return
	}
	for _, toggle := range toggles {
		if ctx.Err() != nil {
			return
		}
		if err := toggle.Click(proto.InputMouseButtonLeft, 1); err != nil {
			// Toggles can detach as the feed re-renders; skip them.
			continue
		}
	}
}

func (s *RodScraper) collectPosts(ctx context.Context, page *rod.Page, sourceURL string) ([]*domain.ContentRecord, error) {
	elements, err := page.Context(ctx).Elements(postSelector)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}

	records := make([]*domain.ContentRecord, 0, len(elements))
	for _, el := range elements {
		textEl, err := el.Element(postTextSelector)
		if err != nil {
			continue
		}
		raw, err := textEl.Text()
		if err != nil {
			continue
		}

		content := CleanPost(raw)
		if content == "" {
			continue
		}

		likes := 0
		if reactions, err := el.Element(reactionsSelector); err == nil {
			if text, err := reactions.Text(); err == nil {
				likes = ParseCount(text)
			}
		}

		rec, err := domain.NewContentRecord(content, sourceURL, likes, 0, 0)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}

	s.logger.InfoContext(ctx, "scraped activity feed",
		"posts_found", len(elements),
		"posts_kept", len(records))

	return records, nil
}

// FeedURL resolves a profile URL or bare slug to its recent-activity
// feed URL.
func FeedURL(profile string) string {
	profile = strings.TrimSpace(profile)
	if strings.HasPrefix(profile, "http://") || strings.HasPrefix(profile, "https://") {
		base := strings.TrimSuffix(profile, "/")
		if strings.HasSuffix(base, "/recent-activity/all") {
			return base + "/"
		}
		return base + "/recent-activity/all/"
	}
	return fmt.Sprintf("https://www.linkedin.com/in/%s/recent-activity/all/",
		url.PathEscape(profile))
}

func sleepFor(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
