// Package browser implements the interactive MIB corpus browser.
//
// The model follows the bubbletea architecture: a single state record, a
// pure Update dispatching on messages, and commands for everything that
// touches the network or a timer. Three user-triggered flows run through
// it: tree navigation (loading and rendering a module), debounced search,
// and node inspection. Each flow tags its requests with a monotonic
// sequence number and drops responses that arrive after a newer request of
// the same kind, so late replies can never clobber fresher state.
package browser

import (
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mibscope/mibscope/pkg/mib"
)

const (
	// searchDebounce is the quiet period after the last keystroke before a
	// search request is issued.
	searchDebounce = 300 * time.Millisecond

	// minSearchLen is the shortest trimmed term that triggers a search.
	minSearchLen = 2

	// copyFeedback is how long the "Copied!" label stays up.
	copyFeedback = 2 * time.Second
)

// pane identifies which part of the UI owns key input.
type pane int

const (
	paneModules pane = iota
	paneTree
	paneSearch
	paneImports
)

// Model is the complete state of the browser.
type Model struct {
	client *Client

	width  int
	height int
	focus  pane

	// Module sidebar.
	moduleNames  []string
	moduleCursor int
	moduleOffset int
	activeModule string
	listErr      string

	// Loaded module view.
	mod          *mib.Module
	headerTitle  string
	imports      []string
	rows         []Row
	expanded     map[string]bool
	treeCursor   int
	treeOffset   int
	treeErr      string
	placeholder  bool
	toolbar      bool
	highlightOID string
	loadSeq      int

	// Imports picker overlay.
	importCursor int

	// Search.
	searchInput  string
	searchSeq    int
	searchHits   []mib.SearchHit
	searchOpen   bool
	searchCursor int

	// Inspector panel.
	detail        *mib.NodeDetail
	inspectorOpen bool
	detailSeq     int

	// Copy-to-clipboard feedback.
	copied  bool
	copySeq int

	statusErr string

	initModule string
	initOID    string
}

// New creates a browser model backed by the given corpus client.
func New(client *Client) Model {
	return Model{
		client:      client,
		focus:       paneModules,
		expanded:    make(map[string]bool),
		placeholder: true,
		height:      24,
		width:       80,
	}
}

// WithTarget makes the browser open on the given module, revealing oid
// inside it when non-empty. The load sequence is claimed here so the
// response Init triggers is accepted by Update.
func (m Model) WithTarget(module, oid string) Model {
	m.initModule = module
	m.initOID = oid
	m.activeModule = module
	m.highlightOID = oid
	m.loadSeq = 1
	m.focus = paneTree
	return m
}

// Init fetches the module list and, when a target was set, starts loading
// it right away.
func (m Model) Init() tea.Cmd {
	if m.initModule == "" {
		return m.fetchModules()
	}
	return tea.Batch(m.fetchModules(), m.fetchModule(m.loadSeq, m.initModule, m.initOID))
}

// Update is the single transition function for every event.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case modulesMsg:
		if msg.err != nil {
			m.listErr = "Failed to list modules: " + msg.err.Error()
			return m, nil
		}
		m.listErr = ""
		m.moduleNames = msg.list.Modules
		return m, nil

	case moduleMsg:
		return m.updateModuleLoaded(msg)

	case detailMsg:
		if msg.seq != m.detailSeq {
			return m, nil
		}
		if msg.err != nil {
			m.statusErr = msg.err.Error()
			return m, nil
		}
		if msg.detail == nil || msg.detail.Name == "" {
			// Nothing to show; leave the panel as it was.
			return m, nil
		}
		m.detail = msg.detail
		m.inspectorOpen = true
		m.copied = false
		m.statusErr = ""
		return m, nil

	case searchDebounceMsg:
		if msg.seq != m.searchSeq {
			return m, nil
		}
		return m, m.runSearch(msg.seq, strings.TrimSpace(m.searchInput))

	case searchResultMsg:
		if msg.seq != m.searchSeq {
			return m, nil
		}
		if msg.err != nil || len(msg.hits) == 0 {
			m.searchOpen = false
			m.searchHits = nil
			return m, nil
		}
		m.searchHits = msg.hits
		m.searchOpen = true
		m.searchCursor = 0
		return m, nil

	case copiedMsg:
		if msg.seq != m.copySeq {
			return m, nil
		}
		m.copied = true
		return m, tea.Tick(copyFeedback, func(time.Time) tea.Msg {
			return copyRevertMsg{seq: msg.seq}
		})

	case copyRevertMsg:
		if msg.seq == m.copySeq {
			m.copied = false
		}
		return m, nil
	}

	return m, nil
}

// loadModule starts the navigation flow: request the module, mark its
// entry active immediately, and remember the OID to reveal once the tree
// is in. Supersedes any in-flight load.
func (m Model) loadModule(name, highlightOID string) (Model, tea.Cmd) {
	m.loadSeq++
	m.activeModule = name
	m.highlightOID = highlightOID
	return m, m.fetchModule(m.loadSeq, name, highlightOID)
}

// updateModuleLoaded applies a module response: render header, imports and
// tree, then perform the deep-link reveal when requested. Loading fully
// supersedes the previous tree and never closes an open inspector panel.
func (m Model) updateModuleLoaded(msg moduleMsg) (Model, tea.Cmd) {
	if msg.seq != m.loadSeq {
		return m, nil
	}
	if msg.err != nil {
		m.rows = nil
		m.mod = nil
		m.placeholder = false
		m.toolbar = false
		m.treeErr = "Failed to load " + msg.name + ": " + msg.err.Error()
		return m, nil
	}

	m.mod = msg.mod
	m.headerTitle = msg.mod.DisplayName()
	m.imports = importNames(msg.mod.Imports)
	m.importCursor = 0
	m.expanded = make(map[string]bool)
	m.rows = Flatten(msg.mod.Doc, m.expanded)
	m.treeCursor = 0
	m.treeOffset = 0
	m.treeErr = ""
	m.statusErr = ""
	m.placeholder = false
	m.toolbar = true
	if m.focus == paneImports {
		m.focus = paneTree
	}

	if msg.highlight == "" {
		return m, nil
	}
	return m.reveal(msg.highlight)
}

// reveal deep-links to the node with the given OID: every ancestor
// container is forced open, the cursor lands on the row, centered, and the
// inspect flow runs for it. An unknown OID is silently ignored.
func (m Model) reveal(oid string) (Model, tea.Cmd) {
	keys, ok := AncestorKeys(m.mod.Doc, oid)
	if !ok {
		return m, nil
	}
	for _, key := range keys {
		m.expanded[key] = true
	}
	m.rows = Flatten(m.mod.Doc, m.expanded)

	for i, row := range m.rows {
		if row.OID == oid {
			m.treeCursor = i
			m.centerCursor()
			m.detailSeq++
			return m, m.fetchDetail(m.detailSeq, row.Module, row.OID)
		}
	}
	return m, nil
}

// inspect starts the inspection flow for a row. Rows without an OID have
// no detail record to fetch.
func (m Model) inspect(row Row) (Model, tea.Cmd) {
	if row.OID == "" {
		return m, nil
	}
	m.detailSeq++
	return m, m.fetchDetail(m.detailSeq, row.Module, row.OID)
}

// setSearchInput applies one edit to the search input and arms the
// debounce timer. Bumping the sequence cancels any pending timer and
// orphans any in-flight search response.
func (m Model) setSearchInput(s string) (Model, tea.Cmd) {
	m.searchInput = s
	m.searchSeq++
	if len(strings.TrimSpace(s)) < minSearchLen {
		m.searchOpen = false
		m.searchHits = nil
		return m, nil
	}
	seq := m.searchSeq
	return m, tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
}

// selectHit navigates to a search hit and resets the search box.
func (m Model) selectHit(hit mib.SearchHit) (Model, tea.Cmd) {
	m.searchInput = ""
	m.searchSeq++
	m.searchOpen = false
	m.searchHits = nil
	m.focus = paneTree
	return m.loadModule(hit.Module, hit.OID)
}

// copyOID kicks off the clipboard write for the inspector's OID.
func (m Model) copyOID() (Model, tea.Cmd) {
	if m.detail == nil || m.detail.OID == "" {
		return m, nil
	}
	m.copySeq++
	return m, writeClipboard(m.detail.OID, m.copySeq)
}

func (m *Model) centerCursor() {
	h := m.treeHeight()
	m.treeOffset = m.treeCursor - h/2
	m.clampTreeOffset()
}

func (m *Model) clampTreeOffset() {
	h := m.treeHeight()
	max := len(m.rows) - h
	if max < 0 {
		max = 0
	}
	if m.treeOffset > max {
		m.treeOffset = max
	}
	if m.treeOffset < 0 {
		m.treeOffset = 0
	}
}

// treeHeight is the number of tree rows that fit the current window.
func (m Model) treeHeight() int {
	h := m.height - 9 // header, search bar, toolbar, status, borders
	if h < 3 {
		h = 3
	}
	return h
}

func importNames(imports map[string][]string) []string {
	if len(imports) == 0 {
		return nil
	}
	names := make([]string, 0, len(imports))
	for name := range imports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
