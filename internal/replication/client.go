// Package replication keeps a scanner session and the station's shared
// scan store converged. Local mutations are pushed debounced as a full
// snapshot; the store version is polled on a fixed interval and remote
// changes are merged back by entry key. Sync failures are retried silently
// on the next cycle so a dead wifi link never blocks scanning.
package replication

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"partsrecv/internal/config"
	"partsrecv/internal/ledger"
)

// Client replicates one ledger against the sync server.
type Client struct {
	cfg    *config.Config
	http   *http.Client
	logger *zap.Logger
	token  string

	mu      sync.Mutex
	ledger  *ledger.Ledger
	version uint64
	timer   *time.Timer
	onMerge func()
}

// New builds a client around the given ledger. The ledger must only be
// touched through WithLedger once the client is running.
func New(cfg *config.Config, l *ledger.Ledger, logger *zap.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.HTTPTimeout},
		logger: logger,
		ledger: l,
	}
}

// SetToken sets the pairing session token sent on every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// OnMerge registers a callback invoked after remote entries are merged in.
func (c *Client) OnMerge(fn func()) {
	c.mu.Lock()
	c.onMerge = fn
	c.mu.Unlock()
}

// WithLedger runs fn with exclusive access to the ledger and schedules a
// debounced push afterwards when fn reports a mutation.
func (c *Client) WithLedger(fn func(l *ledger.Ledger) bool) {
	c.mu.Lock()
	mutated := fn(c.ledger)
	if mutated {
		c.scheduleLocked()
	}
	c.mu.Unlock()
}

// Run polls the server until the context is cancelled. An initial fetch
// seeds the ledger with whatever the station already holds.
func (c *Client) Run(ctx context.Context) {
	if err := c.fetch(ctx); err != nil {
		c.logger.Debug("initial fetch failed", zap.Error(err))
	}
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.poll(ctx); err != nil {
				c.logger.Debug("poll failed", zap.Error(err))
			}
		}
	}
}

// Flush pushes immediately, cancelling any scheduled debounce. Used on
// shutdown so the last few scans are not lost.
func (c *Client) Flush(ctx context.Context) error {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	return c.push(ctx)
}

// scheduleLocked arms (or re-arms) the debounce timer. A new mutation
// inside the window supersedes the pending push.
func (c *Client) scheduleLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.cfg.PushDebounce, func() {
		if err := c.push(context.Background()); err != nil {
			c.logger.Warn("push failed, will retry on next change", zap.Error(err))
		}
	})
}

func (c *Client) push(ctx context.Context) error {
	c.mu.Lock()
	snapshot := c.ledger.Snapshot()
	c.mu.Unlock()
	if snapshot == nil {
		snapshot = []*ledger.Entry{}
	}

	body, err := json.Marshal(map[string]interface{}{"scans": snapshot})
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/scans", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp struct {
		OK      bool   `json:"ok"`
		Version uint64 `json:"version"`
	}
	if err := c.do(req, &resp); err != nil {
		return err
	}

	c.mu.Lock()
	c.version = resp.Version
	c.mu.Unlock()
	c.logger.Debug("pushed snapshot", zap.Int("entries", len(snapshot)), zap.Uint64("version", resp.Version))
	return nil
}

func (c *Client) poll(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/version", nil)
	if err != nil {
		return err
	}
	var resp struct {
		Version uint64 `json:"version"`
		Count   int    `json:"count"`
	}
	if err := c.do(req, &resp); err != nil {
		return err
	}

	c.mu.Lock()
	stale := resp.Version != c.version
	c.mu.Unlock()
	if !stale {
		return nil
	}
	return c.fetch(ctx)
}

func (c *Client) fetch(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/scans", nil)
	if err != nil {
		return err
	}
	var resp struct {
		Scans   []*ledger.Entry `json:"scans"`
		Version uint64          `json:"version"`
	}
	if err := c.do(req, &resp); err != nil {
		return err
	}

	c.mu.Lock()
	c.ledger.Merge(resp.Scans)
	c.version = resp.Version
	fn := c.onMerge
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
	c.logger.Debug("merged remote entries", zap.Int("entries", len(resp.Scans)), zap.Uint64("version", resp.Version))
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body *bytes.Reader) (*http.Request, error) {
	url := c.cfg.SyncServerURL + path
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, url, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, url, nil)
	}
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.Unlock()
	return req, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sync server returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
