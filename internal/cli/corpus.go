package cli

import (
	"context"
	"fmt"

	charmlog "github.com/charmbracelet/log"

	"github.com/mibscope/mibscope/internal/index"
	"github.com/mibscope/mibscope/pkg/cache"
	"github.com/mibscope/mibscope/pkg/corpus"
)

// openCache constructs the parse cache backend selected by cfg.
func openCache(ctx context.Context, cfg *Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case CacheBackendNone:
		return cache.NewNullCache(), nil
	case CacheBackendRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
	default:
		dir, err := cfg.Cache.cacheDir()
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	}
}

// loadCorpus parses the corpus directory into a store and builds the
// search index over it. The caller owns both and the cache behind them.
func loadCorpus(ctx context.Context, cfg *Config, dir string, logger *charmlog.Logger) (*corpus.Store, *index.DB, cache.Cache, error) {
	c, err := openCache(ctx, cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open cache: %w", err)
	}

	store := corpus.NewStore(c, logger)

	sp := newSpinner(ctx, fmt.Sprintf("Parsing MIB modules in %s", dir))
	sp.Start()
	err = store.Load(ctx, dir)
	sp.Stop()
	if err != nil {
		c.Close()
		return nil, nil, nil, fmt.Errorf("load corpus: %w", err)
	}

	idx, err := index.Open(":memory:")
	if err != nil {
		c.Close()
		return nil, nil, nil, fmt.Errorf("open index: %w", err)
	}
	if err := idx.Rebuild(store.Modules()); err != nil {
		idx.Close()
		c.Close()
		return nil, nil, nil, fmt.Errorf("build index: %w", err)
	}

	return store, idx, c, nil
}
