package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bizoo/KeymapTools/internal/model"
)

// Format selects how a grouped report is written.
type Format string

const (
	FormatText Format = "text"
	FormatList Format = "list"
	FormatJSON Format = "json"
)

// ParseFormat accepts a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatText, FormatList, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (must be text, list, or json)", s)
}

// Render writes gr to w in the given format. scan is only used by the JSON
// format, which embeds a summary of the scan.
func Render(w io.Writer, format Format, gr model.GroupedReport, scan model.ScanResult) error {
	switch format {
	case FormatText:
		return RenderText(w, gr)
	case FormatList:
		return RenderList(w, gr)
	case FormatJSON:
		return RenderJSON(w, gr, scan)
	}
	return fmt.Errorf("unknown output format %q", format)
}

// RenderText writes the report in the scratch buffer layout:
//
//	-----------
//	All Keymaps
//	-----------
//	 ["ctrl+k"]
//	   command                                            package                         context
//
// Titles and key headers are styled only when w is a color terminal.
func RenderText(w io.Writer, gr model.GroupedReport) error {
	r := lipgloss.NewRenderer(w)
	titleStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	keysStyle := r.NewStyle().Foreground(lipgloss.Color("81"))

	bw := bufio.NewWriter(w)
	for _, rep := range gr {
		rule := strings.Repeat("-", len(rep.Title))
		fmt.Fprintf(bw, "%s\n%s\n%s\n", rule, titleStyle.Render(rep.Title), rule)
		for _, g := range rep.Groups {
			fmt.Fprintf(bw, " %s\n", keysStyle.Render(g.Key.Quoted()))
			for _, kb := range g.Bindings {
				fmt.Fprintf(bw, "   %-50s %-30s  %s\n", kb.Command, kb.Package, kb.Context.String())
			}
		}
	}
	return bw.Flush()
}

// RenderList writes one line per binding: keys, command and package.
func RenderList(w io.Writer, gr model.GroupedReport) error {
	bw := bufio.NewWriter(w)
	for _, rep := range gr {
		for _, g := range rep.Groups {
			for _, kb := range g.Bindings {
				fmt.Fprintf(bw, "%-30s\t\t%s\t%s\n", kb.Keys.String(), kb.Command, kb.Package)
			}
		}
	}
	return bw.Flush()
}

// Document is the JSON envelope shared by the CLI and the web API.
type Document struct {
	Version string              `json:"version"`
	Scan    model.ScanResult    `json:"scan"`
	Reports model.GroupedReport `json:"reports"`
}

// RenderJSON writes gr and a scan summary as indented JSON.
func RenderJSON(w io.Writer, gr model.GroupedReport, scan model.ScanResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Document{Version: model.Version, Scan: scan, Reports: gr})
}
