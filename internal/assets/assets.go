// Package assets downloads the storefront stylesheet and logo and keeps them
// cached. Every failure degrades to "no asset" and is only logged.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const maxAssetBytes = 5 << 20

type Config struct {
	CSSURL   string
	LogoURL  string
	LogoPath string
	// TTL bounds the age of cached assets. Zero keeps them until Refresh.
	TTL        time.Duration
	HTTPClient *http.Client
}

// Fetcher is a cache-or-fetch store for the brand assets. A cached logo file
// older than TTL is refetched; if that fails the stale file is still served.
// Failed fetches are remembered for TTL so callers are not held up by a dead
// upstream. Downloads run outside the mutex.
type Fetcher struct {
	cfg    Config
	client *http.Client
	now    func() time.Time

	mu              sync.Mutex
	css             string
	cssFetchedAt    time.Time
	logoAttemptedAt time.Time
}

func NewFetcher(cfg Config) *Fetcher {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Fetcher{cfg: cfg, client: client, now: time.Now}
}

func (f *Fetcher) expired(at time.Time) bool {
	if at.IsZero() {
		return true
	}
	return f.cfg.TTL > 0 && f.now().Sub(at) > f.cfg.TTL
}

// Stylesheet returns the CSS text, or "" when it could not be fetched.
func (f *Fetcher) Stylesheet(ctx context.Context) string {
	f.mu.Lock()
	if !f.expired(f.cssFetchedAt) {
		css := f.css
		f.mu.Unlock()
		return css
	}
	f.cssFetchedAt = f.now()
	f.mu.Unlock()

	return f.refreshCSS(ctx)
}

func (f *Fetcher) refreshCSS(ctx context.Context) string {
	var body []byte
	var err error
	if f.cfg.CSSURL != "" {
		body, err = f.get(ctx, f.cfg.CSSURL)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case f.cfg.CSSURL == "":
	case err != nil:
		log.WithError(err).Warn("could not fetch CSS, using fallback")
	default:
		f.css = string(body)
	}
	return f.css
}

// Logo returns the local path of the cached logo and whether it exists.
func (f *Fetcher) Logo(ctx context.Context) (string, bool) {
	f.mu.Lock()
	info, err := os.Stat(f.cfg.LogoPath)
	exists := err == nil
	if (exists && !f.expired(info.ModTime())) || !f.expired(f.logoAttemptedAt) {
		f.mu.Unlock()
		return f.cfg.LogoPath, exists
	}
	f.logoAttemptedAt = f.now()
	f.mu.Unlock()

	if err := f.fetchLogo(ctx); err != nil {
		log.WithError(err).Warn("could not fetch logo")
		return f.cfg.LogoPath, exists
	}
	return f.cfg.LogoPath, true
}

func (f *Fetcher) fetchLogo(ctx context.Context) error {
	if f.cfg.LogoURL == "" || f.cfg.LogoPath == "" {
		return errors.New("logo source not configured")
	}
	body, err := f.get(ctx, f.cfg.LogoURL)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.cfg.LogoPath)
	tmp, err := os.CreateTemp(dir, ".logo-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("write logo: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write logo: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.cfg.LogoPath); err != nil {
		return fmt.Errorf("install logo: %w", err)
	}
	return nil
}

// Refresh refetches both assets regardless of age.
func (f *Fetcher) Refresh(ctx context.Context) {
	f.mu.Lock()
	f.cssFetchedAt = f.now()
	f.logoAttemptedAt = f.now()
	f.mu.Unlock()

	f.refreshCSS(ctx)
	if err := f.fetchLogo(ctx); err != nil {
		log.WithError(err).Warn("could not refresh logo")
	}
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// ScheduleRefresh runs Refresh on the given cron spec. The returned scheduler
// is already started; callers stop it on shutdown.
func (f *Fetcher) ScheduleRefresh(spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		log.Info("refreshing brand assets")
		f.Refresh(context.Background())
	}); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
