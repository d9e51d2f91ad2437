package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mibscope/mibscope/internal/server"
	"github.com/mibscope/mibscope/pkg/corpus"
)

// newServeCmd creates the "serve" command: parse a corpus directory and
// expose it over HTTP, re-parsing when the directory changes on disk.
func newServeCmd() *cobra.Command {
	var (
		configPath string
		dir        string
		addr       string
		noWatch    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a MIB corpus over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if dir != "" {
				cfg.Corpus.Dir = dir
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if cfg.Corpus.Dir == "" {
				return errors.New("no corpus directory: pass --dir or set corpus.dir in the config")
			}

			p := newProgress(logger)
			store, idx, c, err := loadCorpus(ctx, cfg, cfg.Corpus.Dir, logger)
			if err != nil {
				return err
			}
			defer c.Close()
			defer idx.Close()
			p.done(fmt.Sprintf("Parsed %d modules", store.Len()))

			handler := server.NewHandler(store, idx)
			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           server.NewRouter(handler, logger),
				ReadHeaderTimeout: 5 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				logger.Info("serving corpus", "addr", cfg.Server.Addr, "modules", store.Len())
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})

			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			if !noWatch {
				g.Go(func() error {
					return corpus.Watch(gctx, store, cfg.Corpus.Dir, logger, func() {
						if err := idx.Rebuild(store.Modules()); err != nil {
							logger.Error("rebuild index", "err", err)
						}
					})
				})
			}

			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "f", "", "path to config file (TOML)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "directory of MIB source files")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not re-parse when the corpus directory changes")

	return cmd
}
