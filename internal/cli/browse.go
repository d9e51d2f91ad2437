package cli

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mibscope/mibscope/internal/browser"
	"github.com/mibscope/mibscope/internal/server"
)

// newBrowseCmd creates the "browse" command: the interactive terminal
// browser. It either connects to a running serve instance (--server) or
// parses a local directory and serves it on a loopback listener for the
// lifetime of the session (--dir).
func newBrowseCmd() *cobra.Command {
	var (
		configPath string
		dir        string
		serverURL  string
		oid        string
	)

	cmd := &cobra.Command{
		Use:   "browse [module]",
		Short: "Browse a MIB corpus interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			baseURL := serverURL
			if baseURL == "" {
				cfg, err := loadConfig(configPath)
				if err != nil {
					return err
				}
				if dir != "" {
					cfg.Corpus.Dir = dir
				}
				if cfg.Corpus.Dir == "" {
					return errors.New("nothing to browse: pass --server, --dir, or set corpus.dir in the config")
				}

				store, idx, c, err := loadCorpus(ctx, cfg, cfg.Corpus.Dir, logger)
				if err != nil {
					return err
				}
				defer c.Close()
				defer idx.Close()

				// Loopback server for this session only.
				ln, err := net.Listen("tcp", "127.0.0.1:0")
				if err != nil {
					return fmt.Errorf("listen: %w", err)
				}
				srv := &http.Server{
					Handler:           server.NewRouter(server.NewHandler(store, idx), logger),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go srv.Serve(ln)
				defer srv.Close()

				baseURL = "http://" + ln.Addr().String()
			}

			model := browser.New(browser.NewClient(baseURL))
			if len(args) == 1 {
				model = model.WithTarget(args[0], oid)
			}

			prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
			_, err := prog.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "f", "", "path to config file (TOML)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "directory of MIB source files")
	cmd.Flags().StringVarP(&serverURL, "server", "s", "", "URL of a running mibscope serve instance")
	cmd.Flags().StringVar(&oid, "oid", "", "OID to reveal in the opened module")

	return cmd
}
