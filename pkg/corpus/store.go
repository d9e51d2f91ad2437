// Package corpus maintains the in-memory set of parsed MIB modules served
// to browsers.
//
// The store owns a module map guarded by a RWMutex: loads replace the whole
// map atomically, reads never observe a half-loaded corpus. Parse results
// are memoized through a pkg/cache backend keyed by source content
// checksum, so reloading a large directory only re-parses files that
// actually changed.
package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mibscope/mibscope/pkg/cache"
	"github.com/mibscope/mibscope/pkg/mib"
	"github.com/mibscope/mibscope/pkg/observability"
)

// parseCacheTTL bounds how long a cached parse result may outlive its
// source file.
const parseCacheTTL = 30 * 24 * time.Hour

// loadConcurrency bounds the number of files parsed in parallel.
const loadConcurrency = 8

// Store holds the loaded corpus.
type Store struct {
	cache  cache.Cache
	logger *log.Logger

	mu         sync.RWMutex
	modules    map[string]*mib.Module
	generation string
}

// NewStore creates an empty store. Parse results are memoized in c; pass a
// null cache to disable memoization.
func NewStore(c cache.Cache, logger *log.Logger) *Store {
	return &Store{
		cache:   c,
		logger:  logger,
		modules: make(map[string]*mib.Module),
	}
}

// Load walks dir for MIB sources (.mib and .txt), parses them and replaces
// the store's contents. Files that fail to parse are logged and skipped;
// Load fails only when the directory itself cannot be read. Each successful
// load gets a fresh generation ID.
func (s *Store) Load(ctx context.Context, dir string) error {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".mib", ".txt":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("corpus: walk %s: %w", dir, err)
	}
	sort.Strings(paths)

	var (
		mu      sync.Mutex
		modules = make(map[string]*mib.Module, len(paths))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for _, path := range paths {
		g.Go(func() error {
			mod, err := s.parseFile(gctx, path)
			if err != nil {
				s.logger.Warn("corpus: skipping file", "path", path, "error", err)
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			if prev, ok := modules[mod.Name]; ok && prev != mod {
				s.logger.Warn("corpus: duplicate module name", "module", mod.Name, "path", path)
			}
			modules[mod.Name] = mod
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	generation := uuid.NewString()

	s.mu.Lock()
	s.modules = modules
	s.generation = generation
	s.mu.Unlock()

	s.logger.Info("corpus: loaded", "modules", len(modules), "files", len(paths), "generation", generation)
	return nil
}

// parseFile parses one MIB source, consulting the parse cache first.
func (s *Store) parseFile(ctx context.Context, path string) (*mib.Module, error) {
	start := time.Now()
	observability.Parse().OnParseStart(ctx, path)

	mod, err := s.parseFileUncached(ctx, path)
	nodes := 0
	if mod != nil {
		nodes = len(mod.Doc)
	}
	observability.Parse().OnParseComplete(ctx, path, nodes, time.Since(start), err)
	return mod, err
}

func (s *Store) parseFileUncached(ctx context.Context, path string) (*mib.Module, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	key := "mib:" + cache.Hash(content)
	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		if mod, err := mib.DecodeModule(data); err == nil {
			return mod, nil
		}
		// Undecodable entry: fall through to a fresh parse.
		_ = s.cache.Delete(ctx, key)
	}

	mod, err := mib.Parse(string(content))
	if err != nil {
		return nil, err
	}
	if len(mod.Doc) == 0 {
		return nil, fmt.Errorf("module %s has no resolvable nodes", mod.Name)
	}

	if data, err := mib.EncodeModule(mod); err == nil {
		if err := s.cache.Set(ctx, key, data, parseCacheTTL); err != nil {
			s.logger.Debug("corpus: cache set failed", "path", path, "error", err)
		}
	}
	return mod, nil
}

// Module returns the named module.
func (s *Store) Module(name string) (*mib.Module, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.modules[name]
	return m, ok
}

// Names returns the sorted names of all loaded modules.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.modules))
	for name := range s.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Modules returns all loaded modules in sorted-name order.
func (s *Store) Modules() []*mib.Module {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.modules))
	for name := range s.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*mib.Module, 0, len(names))
	for _, name := range names {
		out = append(out, s.modules[name])
	}
	return out
}

// Generation returns the ID of the most recent successful load, or the
// empty string before the first one.
func (s *Store) Generation() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Len returns the number of loaded modules.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.modules)
}
