package router

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/andrelmaraujo/mandacaru/agents/persona"
	"github.com/andrelmaraujo/mandacaru/core/conversation"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// =============================================================================
// Route Cache
// =============================================================================
//
// CachedRouter remembers decisions for transcripts it has already routed,
// so a client retrying the same turn does not pay for a second
// classification call. Only successful decisions are stored.

// CacheConfig configures the route cache
type CacheConfig struct {
	Size          int           // Maximum entries (default: 1024)
	TTL           time.Duration // Entry lifetime (default: 10 minutes)
	HistoryWindow int           // Must match the wrapped router's window
	Logger        *slog.Logger
}

// DefaultCacheConfig returns sensible defaults
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Size:          1024,
		TTL:           10 * time.Minute,
		HistoryWindow: DefaultHistoryWindow,
	}
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits   int64
	Misses int64
	Size   int
}

// CachedRouter wraps a Router with a TTL-bounded LRU. Each instance keeps
// one background expiry goroutine for the life of the process.
type CachedRouter struct {
	next   Router
	cache  *expirable.LRU[string, persona.ID]
	window int
	logger *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCachedRouter wraps next with an LRU of decisions.
func NewCachedRouter(next Router, cfg CacheConfig) *CachedRouter {
	defaults := DefaultCacheConfig()
	if cfg.Size <= 0 {
		cfg.Size = defaults.Size
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaults.TTL
	}
	cfg.HistoryWindow = clampWindow(cfg.HistoryWindow)
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &CachedRouter{
		next:   next,
		cache:  expirable.NewLRU[string, persona.ID](cfg.Size, nil, cfg.TTL),
		window: cfg.HistoryWindow,
		logger: cfg.Logger,
	}
}

func (c *CachedRouter) Route(ctx context.Context, history conversation.History) (persona.ID, error) {
	key := c.key(history)

	if id, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		c.logger.Debug("route cache hit", "persona", id)
		return id, nil
	}
	c.misses.Add(1)

	id, err := c.next.Route(ctx, history)
	if err != nil {
		return "", err
	}

	c.cache.Add(key, id)
	return id, nil
}

// key covers what a routing decision depends on: whether a persona has
// spoken yet and the recent transcript.
func (c *CachedRouter) key(history conversation.History) string {
	h := sha256.New()
	if history.HasAgentTurn() {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	h.Write([]byte(Transcript(history.Last(c.window))))
	return hex.EncodeToString(h.Sum(nil))
}

// Stats returns cache statistics
func (c *CachedRouter) Stats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.cache.Len(),
	}
}

// Purge drops every cached decision.
func (c *CachedRouter) Purge() {
	c.cache.Purge()
}
