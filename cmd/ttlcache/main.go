// ttlcache is a small demo of the cache library: it shows
// least-recently-used eviction under a capacity bound, then TTL
// expiration being reclaimed by the background sweep.
package main

import (
	"context"
	"time"

	cli "github.com/urfave/cli/v2"

	"go.skia.org/ttlcache/go/sklog"
	"go.skia.org/ttlcache/go/ttlcache"
)

func main() {
	app := &cli.App{
		Name:  "ttlcache",
		Usage: "Demonstrates LRU eviction and TTL expiration.",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "max-items",
				Value: 2,
				Usage: "Capacity bound for the demo cache.",
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Value: 200 * time.Millisecond,
				Usage: "TTL for the short-lived demo entry.",
			},
			&cli.DurationFlag{
				Name:  "sweep-interval",
				Value: 100 * time.Millisecond,
				Usage: "How often the background sweep runs.",
			},
		},
		Action: run,
	}
	app.RunAndExitOnError()
}

func run(c *cli.Context) error {
	ctx := context.Background()
	cache := ttlcache.New[string, string](ctx, ttlcache.Config{
		MaxItems:      c.Int("max-items"),
		SweepInterval: c.Duration("sweep-interval"),
		Name:          "demo",
	})
	defer cache.Close()

	// LRU eviction: touching "a" makes "b" the eviction victim when "c"
	// overflows the capacity bound.
	cache.Set(ctx, "a", "A")
	cache.Set(ctx, "b", "B")
	if v, ok := cache.Get(ctx, "a"); ok {
		sklog.Infof("get a = %q (promoted to most recently used)", v)
	}
	cache.Set(ctx, "c", "C")
	if _, ok := cache.Get(ctx, "b"); !ok {
		sklog.Infof("get b: missing (evicted as least recently used)")
	}
	sklog.Infof("keys after eviction (MRU->LRU): %v", cache.Keys())

	// TTL expiration: the entry is never read again, so the background
	// sweep is what reclaims it.
	ttl := c.Duration("ttl")
	cache.SetWithTTL(ctx, "short", "lived", ttl)
	sklog.Infof("keys after ttl set (MRU->LRU): %v", cache.Keys())

	time.Sleep(ttl + 3*c.Duration("sweep-interval"))
	sklog.Infof("keys after ttl + sweep (MRU->LRU): %v", cache.Keys())
	if _, ok := cache.Get(ctx, "short"); !ok {
		sklog.Infof("get short: missing (expired and swept)")
	}
	return nil
}
