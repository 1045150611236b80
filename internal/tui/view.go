package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bizoo/KeymapTools/internal/model"
	"github.com/bizoo/KeymapTools/internal/report"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	keysStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")). // Sky Blue/Cyan
			Bold(true)

	adviceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	popupStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))
)

func (m AppModel) View() string {
	if m.Loading {
		return "\n  Scanning keymap files... please wait.\n"
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n", m.Err)
	}

	if m.ShowHelp {
		return m.renderHelpDialog()
	}
	if m.ShowDiagnostics {
		return m.renderDiagnosticsPopup()
	}

	// Subtracting 6 for horizontal margin (borders x2 + buffer)
	// Subtracting 6 for vertical margin (tabs, footer, borders)
	netWidth := m.WindowSize.Width - 6
	if netWidth < 20 {
		netWidth = 20
	}
	leftWidth := netWidth / 2
	rightWidth := netWidth - leftWidth

	boxHeight := m.WindowSize.Height - 6
	if boxHeight < 6 {
		boxHeight = 6
	}
	interiorHeight := boxHeight - 2

	sec, _ := m.section()

	// LEFT PANEL: groups of the current section
	var leftView strings.Builder
	leftView.WriteString(titleStyle.Render(sec.Title))
	leftView.WriteString("\n\n")

	visibleItems := interiorHeight - 2
	if visibleItems < 1 {
		visibleItems = 1
	}
	startIdx := 0
	endIdx := len(m.FilteredIndices)
	if len(m.FilteredIndices) > visibleItems {
		if m.SelectedIdx >= visibleItems/2 {
			startIdx = m.SelectedIdx - (visibleItems / 2)
		}
		if startIdx+visibleItems > len(m.FilteredIndices) {
			startIdx = len(m.FilteredIndices) - visibleItems
		}
		endIdx = startIdx + visibleItems
	}

	if len(m.FilteredIndices) == 0 {
		if m.SearchActive {
			leftView.WriteString(dimStyle.Render("No groups match the filter."))
		} else {
			leftView.WriteString(dimStyle.Render("Nothing to report."))
		}
	}

	icon := sectionIcon(sec.Title)
	for i := startIdx; i < endIdx; i++ {
		g := sec.Groups[m.FilteredIndices[i]]
		line := fmt.Sprintf("%3d. %s %s (%d)", m.FilteredIndices[i]+1, icon, g.Key.String(), len(g.Bindings))
		if len(line) > leftWidth-2 && leftWidth > 5 {
			line = line[:leftWidth-5] + "..."
		}
		style := normalStyle
		if i == m.SelectedIdx {
			style = selectedStyle
		}
		leftView.WriteString(style.Render(line))
		leftView.WriteString("\n")
	}

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("205")).
		Render(strings.TrimSuffix(leftView.String(), "\n"))

	// RIGHT PANEL: bindings of the selected group
	right := lipgloss.NewStyle().
		Width(rightWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(m.DetailsViewport.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	return m.renderTabs() + "\n" + body + "\n" + m.renderFooter()
}

// renderTabs shows the report kind and the sections it produced.
func (m AppModel) renderTabs() string {
	var parts []string
	for i, k := range report.Kinds() {
		label := fmt.Sprintf("%d:%s", i+1, k)
		if k == m.Kind {
			parts = append(parts, titleStyle.Render(label))
		} else {
			parts = append(parts, dimStyle.Render(label))
		}
	}
	tabs := strings.Join(parts, "  ")
	if len(m.Reports) > 1 {
		tabs += dimStyle.Render(fmt.Sprintf("   section %d/%d (tab)", m.SectionIdx+1, len(m.Reports)))
	}
	summary := fmt.Sprintf("   %d bindings, %d files", len(m.Scan.Collection), len(m.Scan.Files))
	if n := len(m.Scan.Failures) + len(m.Scan.Malformed); n > 0 {
		summary += adviceStyle.Render(fmt.Sprintf(", %d skipped (d)", n))
	}
	return tabs + dimStyle.Render(summary)
}

func (m AppModel) renderFooter() string {
	if m.InputMode || m.SearchActive {
		return "Filter: " + m.InputBuffer.View() + dimStyle.Render("  enter: keep • esc: clear")
	}
	return dimStyle.Render("↑/↓: Navigate • Tab: Section • 1/2/3: Report • /: Filter • r: Rescan • d: Diagnostics • ?: Help • q: Quit")
}

func sectionIcon(title string) string {
	switch title {
	case report.TitleConflicts:
		return model.IconConflict
	case report.TitleShadowing:
		return model.IconShadow
	default:
		return model.IconOK
	}
}

// renderGroupDetails lists every member of a group.
func renderGroupDetails(g model.Group, width int) string {
	var b strings.Builder
	b.WriteString(keysStyle.Render(g.Key.Quoted()))
	b.WriteString("\n\n")
	for _, kb := range g.Bindings {
		icon := model.IconOK
		if kb.IsMultiChord() {
			icon = model.IconMultiPart
		}
		b.WriteString(fmt.Sprintf("%s %s\n", icon, kb.Keys.String()))
		b.WriteString(fmt.Sprintf("    command: %s\n", kb.Command))
		b.WriteString(fmt.Sprintf("    package: %s\n", kb.Package))
		if len(kb.Args) > 0 {
			b.WriteString(fmt.Sprintf("    args:    %s\n", string(kb.Args)))
		}
		if kb.Context.Present() {
			b.WriteString(fmt.Sprintf("    %s context: %s\n", model.IconContext, kb.Context.String()))
		}
		if kb.Source != "" {
			b.WriteString(dimStyle.Render("    " + model.ShortenHome(kb.Source)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if width > 0 {
		return lipgloss.NewStyle().Width(width).Render(b.String())
	}
	return b.String()
}

func (m AppModel) renderDiagnosticsPopup() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Scan Diagnostics"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Root:     %s\n", model.ShortenHome(m.Scan.Root)))
	b.WriteString(fmt.Sprintf("Platform: %s\n", m.Scan.Platform))
	b.WriteString(fmt.Sprintf("Files:    %d\n", len(m.Scan.Files)))
	b.WriteString(fmt.Sprintf("Ignored:  %d bindings\n\n", m.Scan.Ignored))

	diags := m.Scan.Diagnostics()
	if len(diags) == 0 {
		b.WriteString("No problems found.")
	}
	for _, d := range diags {
		b.WriteString(adviceStyle.Render(model.IconFailure + " " + d))
		b.WriteString("\n")
	}
	b.WriteString("\n\n" + dimStyle.Render("esc/d: close"))
	return m.popup(b.String())
}

func (m AppModel) renderHelpDialog() string {
	help := `Reports
  1  All keymaps, grouped by key sequence
  2  Key sequences declared more than once in the same context
  3  Redeclared keymaps, then multi part keymaps whose first
     chord is already bound on its own in the same context

Keys
  ↑/↓ j/k     Select group
  pgup/pgdn   Scroll details
  tab         Next report section
  /           Filter groups by keys, command or package
  r           Rescan keymap files
  d           Scan diagnostics
  q           Quit`
	return m.popup(titleStyle.Render("keymaps "+model.Version) + "\n\n" + help + "\n\n" + dimStyle.Render("esc/?: close"))
}

func (m AppModel) popup(content string) string {
	w := m.WindowSize.Width * 80 / 100
	if w < 40 {
		w = 40
	}
	box := popupStyle.Width(w).Render(content)
	return lipgloss.Place(m.WindowSize.Width, m.WindowSize.Height, lipgloss.Center, lipgloss.Center, box)
}
