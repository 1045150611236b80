package tui

import (
	"github.com/bizoo/KeymapTools/internal/keymap"
	"github.com/bizoo/KeymapTools/internal/model"
	"github.com/bizoo/KeymapTools/internal/report"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	Scan    model.ScanResult
	Kind    report.Kind
	Reports model.GroupedReport
	Loading bool
	Err     error

	// UI State
	SectionIdx  int // Index of the report section being browsed
	SelectedIdx int // Index into FilteredIndices
	WindowSize  tea.WindowSizeMsg

	// View Modes
	ShowDiagnostics bool
	ShowHelp        bool

	// Search State
	InputMode       bool
	InputBuffer     textinput.Model
	FilteredIndices []int // Indices of groups in the current section to show
	SearchActive    bool

	// Components
	DetailsViewport viewport.Model

	scan keymap.ScanFunc
}

// InitialModel returns the initial state.
func InitialModel(scan keymap.ScanFunc, kind report.Kind) AppModel {
	ti := textinput.New()
	ti.Placeholder = "keys, command or package..."
	ti.CharLimit = 50
	ti.Width = 30

	return AppModel{
		Loading:         true,
		Kind:            kind,
		InputBuffer:     ti,
		DetailsViewport: viewport.New(0, 0),
		scan:            scan,
	}
}

// Init starts the first scan.
func (m AppModel) Init() tea.Cmd {
	return InitScanCmd(m.scan)
}

// section returns the report section being browsed.
func (m AppModel) section() (model.Report, bool) {
	if m.SectionIdx < 0 || m.SectionIdx >= len(m.Reports) {
		return model.Report{}, false
	}
	return m.Reports[m.SectionIdx], true
}

// selectedGroup returns the group under the cursor.
func (m AppModel) selectedGroup() (model.Group, bool) {
	sec, ok := m.section()
	if !ok || m.SelectedIdx < 0 || m.SelectedIdx >= len(m.FilteredIndices) {
		return model.Group{}, false
	}
	return sec.Groups[m.FilteredIndices[m.SelectedIdx]], true
}
