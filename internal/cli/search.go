package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mibscope/mibscope/internal/browser"
	"github.com/mibscope/mibscope/pkg/mib"
)

// newSearchCmd creates the "search" command: a one-shot corpus search for
// scripts and quick lookups.
func newSearchCmd() *cobra.Command {
	var (
		configPath string
		dir        string
		serverURL  string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search the corpus for a name, OID or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			term := args[0]

			var hits []mib.SearchHit
			if serverURL != "" {
				var err error
				hits, err = browser.NewClient(serverURL).Search(ctx, term)
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
					return errors.New("nothing to search: pass --server, --dir, or set corpus.dir in the config")
				}

				store, idx, c, err := loadCorpus(ctx, cfg, cfg.Corpus.Dir, logger)
				if err != nil {
					return err
				}
				defer c.Close()
				defer idx.Close()

				hits, err = idx.Search(term, limit)
				if err != nil {
					return err
				}
				logger.Debug("searched corpus", "modules", store.Len(), "hits", len(hits))
			}

			if len(hits) == 0 {
				printInfo("No matches for %q", term)
				return nil
			}
			fmt.Println(renderHits(hits))
			printDetail("%d matches", len(hits))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "f", "", "path to config file (TOML)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "directory of MIB source files")
	cmd.Flags().StringVarP(&serverURL, "server", "s", "", "URL of a running mibscope serve instance")
	cmd.Flags().IntVarP(&limit, "limit", "n", 200, "maximum number of matches")

	return cmd
}

func renderHits(hits []mib.SearchHit) string {
	rows := make([][]string, 0, len(hits))
	for _, h := range hits {
		rows = append(rows, []string{h.Name, h.OID, h.Module, h.Description})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "OID", "Module", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}
