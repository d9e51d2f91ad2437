package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	sidebarWidth   = 30
	inspectorWidth = 46
)

// View renders the full browser screen: search bar on top, module sidebar
// on the left, tree in the middle, inspector on the right, key help at the
// bottom.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderSearchBar())
	b.WriteString("\n")
	if m.searchOpen {
		b.WriteString(m.renderSearchResults())
		b.WriteString("\n")
	}

	treeWidth := m.width - sidebarWidth - 4
	if m.inspectorOpen {
		treeWidth -= inspectorWidth
	}
	if treeWidth < 20 {
		treeWidth = 20
	}

	panes := []string{
		m.renderModules(),
		m.renderMain(treeWidth),
	}
	if m.inspectorOpen {
		panes = append(panes, m.renderInspector(inspectorWidth))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panes...))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	return b.String()
}

func (m Model) renderSearchBar() string {
	label := styleGray.Render("Search")
	input := m.searchInput
	if m.focus == paneSearch {
		input += styleSelected.Render("▌")
	} else if input == "" {
		input = styleDim.Render("press / to search")
	}
	return label + " " + input
}

// renderSearchResults shows the dropdown of hits under the search bar.
func (m Model) renderSearchResults() string {
	var b strings.Builder
	for i, hit := range m.searchHits {
		if i >= 10 {
			b.WriteString(styleDim.Render(fmt.Sprintf("… %d more", len(m.searchHits)-i)))
			break
		}
		line := fmt.Sprintf("%s  %s  %s", hit.Name, styleOID.Render(hit.OID), styleDim.Render(hit.Module))
		if hit.Description != "" {
			line += "\n  " + styleDim.Render(hit.Description)
		}
		if i == m.searchCursor {
			b.WriteString(styleSelected.Render("▸ "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return styleBlurBorder.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderModules() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Modules"))
	b.WriteString("\n")
	if m.listErr != "" {
		b.WriteString(styleError.Render(m.listErr))
	}

	h := m.treeHeight()
	end := m.moduleOffset + h
	if end > len(m.moduleNames) {
		end = len(m.moduleNames)
	}
	for i := m.moduleOffset; i < end; i++ {
		name := m.moduleNames[i]
		cursor := "  "
		if i == m.moduleCursor && m.focus == paneModules {
			cursor = styleSelected.Render("▸ ")
		}
		switch {
		case name == m.activeModule:
			b.WriteString(cursor + styleActive.Render(name))
		case i == m.moduleCursor && m.focus == paneModules:
			b.WriteString(cursor + styleSelected.Render(name))
		default:
			b.WriteString(cursor + styleNormal.Render(name))
		}
		b.WriteString("\n")
	}

	style := styleBlurBorder
	if m.focus == paneModules {
		style = styleFocusBorder
	}
	return style.Width(sidebarWidth).Render(strings.TrimRight(b.String(), "\n"))
}

// renderMain draws the tree pane, or whichever of the placeholder, load
// error, and imports picker replaces it.
func (m Model) renderMain(width int) string {
	var body string
	switch {
	case m.focus == paneImports:
		body = m.renderImports()
	case m.treeErr != "":
		body = styleError.Render(m.treeErr)
	case m.placeholder:
		body = styleDim.Render("Select a module to browse.")
	default:
		body = m.renderHeader() + "\n" + m.renderTree(width)
	}

	style := styleBlurBorder
	if m.focus == paneTree || m.focus == paneImports {
		style = styleFocusBorder
	}
	return style.Width(width).Render(body)
}

func (m Model) renderHeader() string {
	header := styleTitle.Render(m.headerTitle)
	if len(m.imports) > 0 {
		header += styleDim.Render(fmt.Sprintf("  (%d imports, m to browse)", len(m.imports)))
	}
	return header
}

func (m Model) renderTree(width int) string {
	var b strings.Builder
	h := m.treeHeight()
	end := m.treeOffset + h
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.treeOffset; i < end; i++ {
		row := m.rows[i]
		indent := strings.Repeat("  ", row.Depth)
		marker := "  "
		if row.HasChildren {
			if row.Expanded {
				marker = "▾ "
			} else {
				marker = "▸ "
			}
		}

		name := styleNormal.Render(row.Name)
		if i == m.treeCursor && m.focus == paneTree {
			name = styleSelected.Render(row.Name)
		}
		line := indent + styleGray.Render(marker) + name
		if row.Suffix != "" {
			line += " " + styleDim.Render(row.Suffix)
		}
		b.WriteString(truncateLine(line, width-4))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderImports() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Imports of " + m.headerTitle))
	b.WriteString("\n")
	b.WriteString(styleDim.Render("⏎ open module · esc back"))
	b.WriteString("\n\n")
	for i, name := range m.imports {
		if i == m.importCursor {
			b.WriteString(styleSelected.Render("▸ " + name))
		} else {
			b.WriteString("  " + styleNormal.Render(name))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderStatus() string {
	if m.statusErr != "" {
		return styleError.Render(m.statusErr)
	}
	help := "↑/↓ move · ⏎ inspect · space fold · e expand all · c collapse all · y copy OID · / search · tab panes · q quit"
	if !m.toolbar {
		help = "↑/↓ move · ⏎ load module · / search · q quit"
	}
	return styleDim.Render(help)
}

// truncateLine trims a rendered line to width terminal cells, accounting
// for the ANSI styling lipgloss emits.
func truncateLine(line string, width int) string {
	if width <= 0 || lipgloss.Width(line) <= width {
		return line
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}
