package tui

import (
	"context"
	"strings"

	"github.com/bizoo/KeymapTools/internal/keymap"
	"github.com/bizoo/KeymapTools/internal/model"
	"github.com/bizoo/KeymapTools/internal/report"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// MsgScanReady indicates that the scan has completed.
type MsgScanReady model.ScanResult

// MsgError indicates an error occurred.
type MsgError error

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.DetailsViewport.Width = msg.Width / 2
		m.DetailsViewport.Height = msg.Height - 8 // minus title, footer and borders
		m.refreshDetails()
		return m, nil

	case MsgScanReady:
		m.Loading = false
		m.Err = nil
		m.Scan = model.ScanResult(msg)
		m.regenerate()
		return m, nil

	case MsgError:
		m.Err = msg
		m.Loading = false
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				// Keep the filter, leave input mode
				m.InputMode = false
				m.InputBuffer.Blur()
				m.performSearch()
				return m, nil
			case tea.KeyEsc:
				m.clearSearch()
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			// Filter as you type
			m.performSearch()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			switch {
			case m.ShowHelp:
				m.ShowHelp = false
			case m.ShowDiagnostics:
				m.ShowDiagnostics = false
			case m.SearchActive:
				m.clearSearch()
			}
		case "up", "k":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
				m.refreshDetails()
			}
		case "down", "j":
			if m.SelectedIdx < len(m.FilteredIndices)-1 {
				m.SelectedIdx++
				m.refreshDetails()
			}
		case "pgup":
			m.DetailsViewport.HalfViewUp()
		case "pgdown":
			m.DetailsViewport.HalfViewDown()
		case "tab":
			if len(m.Reports) > 0 {
				m.SectionIdx = (m.SectionIdx + 1) % len(m.Reports)
				m.SelectedIdx = 0
				m.performSearch()
			}
		case "shift+tab":
			if len(m.Reports) > 0 {
				m.SectionIdx = (m.SectionIdx + len(m.Reports) - 1) % len(m.Reports)
				m.SelectedIdx = 0
				m.performSearch()
			}
		case "1", "2", "3":
			kinds := report.Kinds()
			m.Kind = kinds[int(msg.String()[0]-'1')]
			m.regenerate()
		case "r":
			if !m.Loading {
				m.Loading = true
				return m, InitScanCmd(m.scan)
			}
		case "d":
			m.ShowDiagnostics = !m.ShowDiagnostics
			m.ShowHelp = false
		case "?":
			m.ShowHelp = !m.ShowHelp
			m.ShowDiagnostics = false
		case "/":
			m.InputMode = true
			m.InputBuffer.Focus()
			m.InputBuffer.SetValue("")
			return m, textinput.Blink
		}
	}

	return m, cmd
}

// regenerate rebuilds the reports for the current kind from the last scan.
func (m *AppModel) regenerate() {
	gr, err := report.Generate(m.Kind, m.Scan.Collection)
	if err != nil {
		m.Err = err
		return
	}
	m.Reports = gr
	if m.SectionIdx >= len(m.Reports) {
		m.SectionIdx = 0
	}
	m.SelectedIdx = 0
	m.performSearch()
}

func (m *AppModel) clearSearch() {
	m.InputMode = false
	m.InputBuffer.Blur()
	m.InputBuffer.SetValue("")
	m.performSearch()
}

func (m *AppModel) performSearch() {
	term := strings.ToLower(strings.TrimSpace(m.InputBuffer.Value()))
	sec, _ := m.section()

	filtered := make([]int, 0, len(sec.Groups))
	m.SearchActive = term != ""
	for i, g := range sec.Groups {
		if !m.SearchActive || groupMatches(g, term) {
			filtered = append(filtered, i)
		}
	}
	m.FilteredIndices = filtered

	// Bounds check
	if m.SelectedIdx >= len(m.FilteredIndices) {
		if len(m.FilteredIndices) > 0 {
			m.SelectedIdx = len(m.FilteredIndices) - 1
		} else {
			m.SelectedIdx = 0
		}
	}
	m.refreshDetails()
}

// groupMatches reports whether term occurs in the group's keys or in any
// member's command or package.
func groupMatches(g model.Group, term string) bool {
	if strings.Contains(strings.ToLower(g.Key.String()), term) {
		return true
	}
	for _, kb := range g.Bindings {
		if strings.Contains(strings.ToLower(kb.Command), term) ||
			strings.Contains(strings.ToLower(kb.Package), term) ||
			strings.Contains(strings.ToLower(kb.Keys.String()), term) {
			return true
		}
	}
	return false
}

func (m *AppModel) refreshDetails() {
	g, ok := m.selectedGroup()
	if !ok {
		m.DetailsViewport.SetContent("")
		return
	}
	m.DetailsViewport.SetContent(renderGroupDetails(g, m.DetailsViewport.Width))
	m.DetailsViewport.GotoTop()
}

// InitScanCmd runs the scan in the background.
func InitScanCmd(scan keymap.ScanFunc) tea.Cmd {
	return func() tea.Msg {
		res, err := scan(context.Background())
		if err != nil {
			return MsgError(err)
		}
		return MsgScanReady(res)
	}
}
