package browser

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mibscope/mibscope/pkg/mib"
)

// requestTimeout bounds every backend call issued by the UI.
const requestTimeout = 15 * time.Second

type modulesMsg struct {
	list ModuleList
	err  error
}

type moduleMsg struct {
	seq       int
	name      string
	highlight string
	mod       *mib.Module
	err       error
}

type detailMsg struct {
	seq    int
	detail *mib.NodeDetail
	err    error
}

type searchDebounceMsg struct {
	seq int
}

type searchResultMsg struct {
	seq  int
	term string
	hits []mib.SearchHit
	err  error
}

type copiedMsg struct {
	seq int
}

type copyRevertMsg struct {
	seq int
}

func (m Model) fetchModules() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		list, err := client.Modules(ctx)
		return modulesMsg{list: list, err: err}
	}
}

func (m Model) fetchModule(seq int, name, highlight string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		mod, err := client.Module(ctx, name)
		return moduleMsg{seq: seq, name: name, highlight: highlight, mod: mod, err: err}
	}
}

func (m Model) fetchDetail(seq int, module, oid string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		detail, err := client.NodeDetail(ctx, module, oid)
		return detailMsg{seq: seq, detail: detail, err: err}
	}
}

func (m Model) runSearch(seq int, term string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		hits, err := client.Search(ctx, term)
		return searchResultMsg{seq: seq, term: term, hits: hits, err: err}
	}
}

// writeClipboard copies text via the OSC 52 escape sequence, which works
// over SSH and inside terminal multiplexers where no display server is
// reachable. The sequence goes to the controlling terminal rather than
// stdout so bubbletea's renderer never sees it.
func writeClipboard(text string, seq int) tea.Cmd {
	return func() tea.Msg {
		payload := base64.StdEncoding.EncodeToString([]byte(text))
		tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
		if err != nil {
			return copiedMsg{seq: seq}
		}
		defer tty.Close()
		fmt.Fprintf(tty, "\x1b]52;c;%s\x07", payload)
		return copiedMsg{seq: seq}
	}
}
