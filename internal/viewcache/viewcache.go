// Package viewcache decides whether a post view should count toward the
// post's view total. A view is admitted when the viewer has not been
// admitted for that post within the cooldown window; otherwise it is
// suppressed. State is in-memory and process-wide.
package viewcache

import (
	"context"
	"sync"
	"time"

	"github.com/ermnvldmr/wboard/internal/domain"
	"github.com/ermnvldmr/wboard/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	viewsAdmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wboard_views_admitted_total",
		Help: "Post views that counted toward a view total",
	})
	viewsSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wboard_views_suppressed_total",
		Help: "Post views dropped by the cooldown window",
	})
	trackedEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wboard_viewcache_tracked_entries",
		Help: "Currently tracked (post, viewer) pairs",
	})
	sweptEntries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wboard_viewcache_swept_entries_total",
		Help: "View records reclaimed by the background sweep",
	})
)

// Cache tracks the last admitted view time per (post, viewer) pair.
// The outer lock only guards shard lookup/creation; each post has its own
// shard with its own mutex, so admits on different posts never contend
// and the read-then-write admit decision is atomic per post.
type Cache struct {
	mu    sync.RWMutex
	posts map[domain.PostId]*postViews

	cooldown  time.Duration
	retention time.Duration
}

type postViews struct {
	mu   sync.Mutex
	seen map[string]time.Time // viewer key -> last admitted view
	dead bool                 // shard was dropped from the map; writers must not use it
}

// New creates a Cache with the given cooldown window. Records are retained
// for twice the cooldown: anything older can no longer suppress a view, so
// sweeping at 2x keeps the memory bound without racing borderline lookups.
func New(cooldown time.Duration) *Cache {
	return &Cache{
		posts:     make(map[domain.PostId]*postViews),
		cooldown:  cooldown,
		retention: 2 * cooldown,
	}
}

// Admit reports whether a view of postId by viewer at time now should
// increment the post's view counter. On admission the pair's record is
// overwritten with now; on suppression nothing changes. Total: no errors,
// safe for concurrent use.
func (c *Cache) Admit(postId domain.PostId, viewer domain.Viewer, now time.Time) bool {
	key := viewer.Key()

	var pv *postViews
	for {
		pv = c.getOrCreate(postId)
		pv.mu.Lock()
		if !pv.dead {
			break
		}
		// Lost a race with the sweep dropping this shard; fetch a live one.
		pv.mu.Unlock()
	}
	defer pv.mu.Unlock()

	last, ok := pv.seen[key]
	if ok && now.Sub(last) <= c.cooldown {
		viewsSuppressed.Inc()
		return false
	}

	pv.seen[key] = now
	if !ok {
		trackedEntries.Inc()
	}
	viewsAdmitted.Inc()
	return true
}

func (c *Cache) getOrCreate(postId domain.PostId) *postViews {
	c.mu.RLock()
	pv, exists := c.posts[postId]
	c.mu.RUnlock()
	if exists {
		return pv
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	pv, exists = c.posts[postId]
	if exists {
		return pv
	}

	pv = &postViews{seen: make(map[string]time.Time)}
	c.posts[postId] = pv
	return pv
}

// Sweep reclaims records whose last admitted view is older than the
// retention horizon, then drops post shards that went empty. Each shard
// is locked only for its own prune, never for the whole sweep.
func (c *Cache) Sweep(now time.Time) int {
	c.mu.RLock()
	postIds := make([]domain.PostId, 0, len(c.posts))
	for id := range c.posts {
		postIds = append(postIds, id)
	}
	c.mu.RUnlock()

	removed := 0
	for _, id := range postIds {
		c.mu.RLock()
		pv, exists := c.posts[id]
		c.mu.RUnlock()
		if !exists {
			continue
		}

		pv.mu.Lock()
		for key, last := range pv.seen {
			if now.Sub(last) > c.retention {
				delete(pv.seen, key)
				removed++
			}
		}
		empty := len(pv.seen) == 0
		pv.mu.Unlock()

		if empty {
			c.dropIfEmpty(id)
		}
	}

	if removed > 0 {
		trackedEntries.Sub(float64(removed))
		sweptEntries.Add(float64(removed))
	}
	return removed
}

// dropIfEmpty removes a post shard, re-checking emptiness under both locks
// so a concurrent Admit that just repopulated the shard is not lost.
func (c *Cache) dropIfEmpty(id domain.PostId) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pv, exists := c.posts[id]
	if !exists {
		return
	}
	pv.mu.Lock()
	if len(pv.seen) == 0 {
		pv.dead = true
		delete(c.posts, id)
	}
	pv.mu.Unlock()
}

// Len returns the number of tracked (post, viewer) pairs.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, pv := range c.posts {
		pv.mu.Lock()
		n += len(pv.seen)
		pv.mu.Unlock()
	}
	return n
}

// StartBackgroundSweep starts a goroutine that sweeps periodically until
// ctx is cancelled.
func (c *Cache) StartBackgroundSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started view cache background sweep",
		"component", "viewcache",
		"interval", interval,
		"retention", c.retention)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				removed := c.Sweep(time.Now())
				if removed > 0 {
					logger.Log.Debug("view cache swept",
						"component", "viewcache",
						"removed", removed)
				}
			case <-ctx.Done():
				logger.Log.Info("view cache sweep shutting down gracefully",
					"component", "viewcache")
				return
			}
		}
	}()
}
