package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/tessro/sonosync/internal/group"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// terminalWidth returns the column count of w, or 0 when w is not a
// terminal.
func terminalWidth(w io.Writer) int {
	if !isTerminal(w) {
		return 0
	}
	width, _, err := term.GetSize(int(w.(*os.File).Fd()))
	if err != nil {
		return 0
	}
	return width
}

// paint applies style only when w is a terminal.
func paint(w io.Writer, style lipgloss.Style, s string) string {
	if !isTerminal(w) {
		return s
	}
	return style.Render(s)
}

// renderZoneTable lays out one row per speaker. The zone name is printed
// on the first row of each zone only. A positive width truncates rows.
func renderZoneTable(infos []zoneInfo, width int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if width > 0 {
		tw.SetAllowedRowLength(width)
	}
	tw.AppendHeader(table.Row{"Zone", "UID", "Address", "Model"})

	for _, z := range infos {
		for i, s := range z.Speakers {
			zone := ""
			if i == 0 {
				zone = z.Zone
			}
			tw.AppendRow(table.Row{zone, s.UID, s.Address, s.Model})
		}
	}

	return tw.Render()
}

// printOutcomes writes successful joins to stdout and failures to stderr.
func printOutcomes(stdout, stderr io.Writer, outcomes []group.Outcome) {
	for _, o := range outcomes {
		switch o.Status {
		case group.StatusJoined:
			fmt.Fprintf(stdout, "%s Joined %s to %s\n", paint(stdout, okStyle, "✓"), o.Member, o.Master)
		case group.StatusNotFound:
			fmt.Fprintf(stderr, "%s Could not find zone '%s' on the network while joining %s\n",
				paint(stderr, warnStyle, "!"), o.Master, o.Member)
		case group.StatusUnknownZone:
			fmt.Fprintf(stderr, "%s Unknown zone: %s\n", paint(stderr, warnStyle, "!"), unknownZoneName(o))
		default:
			fmt.Fprintf(stderr, "%s Failed to join %s to %s: %v\n",
				paint(stderr, failStyle, "✗"), o.Member, o.Master, o.Err)
		}
	}
}
