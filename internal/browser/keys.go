package browser

import (
	tea "github.com/charmbracelet/bubbletea"
)

// updateKey routes key input to the focused pane. A handful of bindings
// are global; everything else depends on focus. Any key press clears a
// status-line error so the help line comes back.
func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusErr = ""
	if m.focus == paneSearch {
		return m.updateSearchKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.focus = paneSearch
		return m, nil
	case "tab":
		if m.focus == paneModules {
			m.focus = paneTree
		} else {
			m.focus = paneModules
		}
		return m, nil
	case "esc":
		if m.focus == paneImports {
			m.focus = paneTree
			return m, nil
		}
		if m.inspectorOpen {
			m.inspectorOpen = false
			m.detail = nil
			return m, nil
		}
		return m, nil
	case "y":
		next, cmd := m.copyOID()
		return next, cmd
	}

	switch m.focus {
	case paneModules:
		return m.updateModulesKey(msg)
	case paneTree:
		return m.updateTreeKey(msg)
	case paneImports:
		return m.updateImportsKey(msg)
	}
	return m, nil
}

func (m Model) updateModulesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.moduleCursor > 0 {
			m.moduleCursor--
		}
	case "down", "j":
		if m.moduleCursor < len(m.moduleNames)-1 {
			m.moduleCursor++
		}
	case "enter":
		if m.moduleCursor < len(m.moduleNames) {
			next, cmd := m.loadModule(m.moduleNames[m.moduleCursor], "")
			next.focus = paneTree
			return next, cmd
		}
	}
	m.clampModuleOffset()
	return m, nil
}

func (m Model) updateTreeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.treeCursor > 0 {
			m.treeCursor--
		}
	case "down", "j":
		if m.treeCursor < len(m.rows)-1 {
			m.treeCursor++
		}
	case " ", "right", "l":
		if row, ok := m.currentRow(); ok && row.HasChildren {
			m.expanded[row.Key] = !m.expanded[row.Key]
			m.rows = Flatten(m.mod.Doc, m.expanded)
			if m.treeCursor >= len(m.rows) {
				m.treeCursor = len(m.rows) - 1
			}
		}
	case "left", "h":
		if row, ok := m.currentRow(); ok && row.HasChildren && m.expanded[row.Key] {
			delete(m.expanded, row.Key)
			m.rows = Flatten(m.mod.Doc, m.expanded)
			if m.treeCursor >= len(m.rows) {
				m.treeCursor = len(m.rows) - 1
			}
		}
	case "enter":
		if row, ok := m.currentRow(); ok {
			return m.inspect(row)
		}
	case "e":
		if m.mod != nil {
			for _, key := range ContainerKeys(m.mod.Doc) {
				m.expanded[key] = true
			}
			m.rows = Flatten(m.mod.Doc, m.expanded)
		}
	case "c":
		if m.mod != nil {
			m.expanded = make(map[string]bool)
			m.rows = Flatten(m.mod.Doc, m.expanded)
			m.treeCursor = 0
			m.treeOffset = 0
		}
	case "m":
		if len(m.imports) > 0 {
			m.focus = paneImports
			m.importCursor = 0
		}
	}
	m.scrollTreeToCursor()
	return m, nil
}

func (m Model) updateImportsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.importCursor > 0 {
			m.importCursor--
		}
	case "down", "j":
		if m.importCursor < len(m.imports)-1 {
			m.importCursor++
		}
	case "enter":
		if m.importCursor < len(m.imports) {
			next, cmd := m.loadModule(m.imports[m.importCursor], "")
			next.focus = paneTree
			return next, cmd
		}
	}
	return m, nil
}

// updateSearchKey edits the query or, when the dropdown is open, walks the
// hit list. Escape clears and blurs.
func (m Model) updateSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.focus = paneTree
		m.searchOpen = false
		m.searchHits = nil
		m.searchInput = ""
		m.searchSeq++
		return m, nil
	case "up":
		if m.searchOpen && m.searchCursor > 0 {
			m.searchCursor--
		}
		return m, nil
	case "down":
		if m.searchOpen && m.searchCursor < len(m.searchHits)-1 {
			m.searchCursor++
		}
		return m, nil
	case "enter":
		if m.searchOpen && m.searchCursor < len(m.searchHits) {
			return m.selectHit(m.searchHits[m.searchCursor])
		}
		return m, nil
	case "backspace":
		if m.searchInput != "" {
			runes := []rune(m.searchInput)
			return m.setSearchInput(string(runes[:len(runes)-1]))
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		return m.setSearchInput(m.searchInput + string(msg.Runes))
	case tea.KeySpace:
		return m.setSearchInput(m.searchInput + " ")
	}
	return m, nil
}

func (m Model) currentRow() (Row, bool) {
	if m.treeCursor < 0 || m.treeCursor >= len(m.rows) {
		return Row{}, false
	}
	return m.rows[m.treeCursor], true
}

// scrollTreeToCursor keeps the cursor inside the viewport without
// recentering on every step.
func (m *Model) scrollTreeToCursor() {
	h := m.treeHeight()
	if m.treeCursor < m.treeOffset {
		m.treeOffset = m.treeCursor
	}
	if m.treeCursor >= m.treeOffset+h {
		m.treeOffset = m.treeCursor - h + 1
	}
	m.clampTreeOffset()
}

func (m *Model) clampModuleOffset() {
	h := m.treeHeight()
	if m.moduleCursor < m.moduleOffset {
		m.moduleOffset = m.moduleCursor
	}
	if m.moduleCursor >= m.moduleOffset+h {
		m.moduleOffset = m.moduleCursor - h + 1
	}
	if m.moduleOffset < 0 {
		m.moduleOffset = 0
	}
}
