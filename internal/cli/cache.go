package cli

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/adviser/pkg/cache"
	"github.com/matzehuels/adviser/pkg/pipeline"
)

// defaultCacheTTL bounds how long a built configuration is reused.
const defaultCacheTTL = 24 * time.Hour

// openCache returns a file cache rooted at dir, or a null cache if dir is empty.
func openCache(dir string) (cache.Cache, error) {
	if dir == "" {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cachedBuild returns the configuration stored under key, or runs build and
// stores its result. Cache failures are logged and never fail the build.
func (c *CLI) cachedBuild(ctx context.Context, store cache.Cache, key string, ttl time.Duration, build func() (*pipeline.Configuration, error)) (*pipeline.Configuration, bool, error) {
	data, hit, err := store.Get(ctx, key)
	if err != nil {
		c.Logger.Warn("cache read failed", "error", err)
	}
	if hit {
		var cfg pipeline.Configuration
		if err := json.Unmarshal(data, &cfg); err == nil {
			c.Logger.Debug("cache hit", "key", key)
			return &cfg, true, nil
		}
		c.Logger.Warn("discarding unreadable cache entry", "key", key)
		_ = store.Delete(ctx, key)
	}

	cfg, err := build()
	if err != nil {
		return nil, false, err
	}
	if data, err = json.Marshal(cfg); err != nil {
		return nil, false, err
	}
	if err := store.Set(ctx, key, data, ttl); err != nil {
		c.Logger.Warn("cache write failed", "error", err)
	}
	return cfg, false, nil
}
