package cache

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
)

// Dashboard versions cached partner views. Every attendance or report
// mutation bumps the version, which changes the cache key and so retires
// the old entries; they age out after the expiration.
type Dashboard struct {
	version    atomic.Uint64
	expiration time.Duration
}

func NewDashboard(expiration time.Duration) *Dashboard {
	if expiration <= 0 {
		expiration = 30 * time.Second
	}
	return &Dashboard{expiration: expiration}
}

func (d *Dashboard) Version() uint64 { return d.version.Load() }

func (d *Dashboard) Invalidate() { d.version.Add(1) }

func (d *Dashboard) Key(c *fiber.Ctx) string {
	return c.Path() + "?" + string(c.Request().URI().QueryString()) + "#v" + strconv.FormatUint(d.Version(), 10)
}

// Middleware caches GET responses under the versioned key.
func (d *Dashboard) Middleware() fiber.Handler {
	return cache.New(cache.Config{
		Expiration:   d.expiration,
		KeyGenerator: d.Key,
		CacheHeader:  "X-Cache",
	})
}
