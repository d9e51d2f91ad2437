package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mibscope/mibscope/internal/browser"
	"github.com/mibscope/mibscope/pkg/mib"
	"github.com/mibscope/mibscope/pkg/render/oidtree"
)

// newExportCmd creates the "export" command: render one module's OID tree
// as a Graphviz diagram.
func newExportCmd() *cobra.Command {
	var (
		configPath string
		dir        string
		serverURL  string
		format     string
		out        string
		detailed   bool
	)

	cmd := &cobra.Command{
		Use:   "export <module>",
		Short: "Export a module's OID tree as DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			name := args[0]

			var mod *mib.Module
			if serverURL != "" {
				var err error
				mod, err = browser.NewClient(serverURL).Module(ctx, name)
				if errors.Is(err, browser.ErrNotFound) {
					return fmt.Errorf("module %s not found on %s", name, serverURL)
				}
				if err != nil {
					return err
				}
			} else {
				cfg, err := loadConfig(configPath)
				if err != nil {
					return err
				}
				if dir != "" {
					cfg.Corpus.Dir = dir
				}
				if cfg.Corpus.Dir == "" {
					return errors.New("nothing to export: pass --server, --dir, or set corpus.dir in the config")
				}

				store, idx, c, err := loadCorpus(ctx, cfg, cfg.Corpus.Dir, logger)
				if err != nil {
					return err
				}
				defer c.Close()
				defer idx.Close()

				var ok bool
				mod, ok = store.Module(name)
				if !ok {
					return fmt.Errorf("module %s not found in %s", name, cfg.Corpus.Dir)
				}
			}

			dot := oidtree.ToDOT(mod, oidtree.Options{Detailed: detailed})

			var data []byte
			switch strings.ToLower(format) {
			case "dot":
				data = []byte(dot)
			case "svg":
				var err error
				data, err = oidtree.RenderSVG(dot)
				if err != nil {
					return fmt.Errorf("render SVG: %w", err)
				}
			default:
				return fmt.Errorf("unknown format %q (want dot or svg)", format)
			}

			if out == "" {
				out = name + "." + strings.ToLower(format)
			}
			if out == "-" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			printSuccess("Exported %s", name)
			printFile(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "f", "", "path to config file (TOML)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "directory of MIB source files")
	cmd.Flags().StringVarP(&serverURL, "server", "s", "", "URL of a running mibscope serve instance")
	cmd.Flags().StringVarP(&format, "format", "t", "svg", "output format: dot or svg")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default <module>.<format>, - for stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include OIDs and macro classes in node labels")

	return cmd
}
