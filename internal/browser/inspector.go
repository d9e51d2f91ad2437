package browser

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mibscope/mibscope/pkg/mib"
)

// renderInspector draws the detail panel for the currently inspected node.
func (m Model) renderInspector(width int) string {
	if !m.inspectorOpen || m.detail == nil {
		return ""
	}
	d := m.detail

	var b strings.Builder
	b.WriteString(styleTitle.Render(d.Name))
	b.WriteString("\n\n")

	writeField(&b, "OID", d.OID+"  "+m.copyLabel())
	writeField(&b, "Symbolic", d.SymOID)
	writeField(&b, "Module", d.Module)
	writeField(&b, "Class", d.Class)

	if d.Syntax != "" {
		b.WriteString(styleGray.Render("Syntax"))
		b.WriteString("\n")
		b.WriteString(renderSyntax(d.Syntax))
		b.WriteString("\n")
	}
	if d.Description != "" {
		b.WriteString(styleGray.Render("Description"))
		b.WriteString("\n")
		b.WriteString(styleNormal.Width(width - 4).Render(d.Description))
		b.WriteString("\n")
	}

	style := styleBlurBorder
	if m.copied {
		style = styleFocusBorder
	}
	return style.Width(width).Render(b.String())
}

func (m Model) copyLabel() string {
	if m.copied {
		return styleCopied.Render("Copied!")
	}
	return styleDim.Render("[y] copy")
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	b.WriteString(styleGray.Render(label))
	b.WriteString("  ")
	b.WriteString(styleNormal.Render(value))
	b.WriteString("\n")
}

// renderSyntax formats a SYNTAX clause. Enumerated INTEGER types become a
// name/value table; anything else is shown verbatim, dimmed.
func renderSyntax(syntax string) string {
	values, ok := mib.ParseEnum(syntax)
	if !ok {
		return styleDim.Render(syntax)
	}

	rows := make([][]string, 0, len(values))
	for _, v := range values {
		rows = append(rows, []string{v.Name, v.Value})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleGray.Bold(true).Padding(0, 1)
			}
			return styleNormal.Padding(0, 1)
		})
	return t.Render()
}
