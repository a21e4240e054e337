package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			PaddingRight(2)

	cellStyle = lipgloss.NewStyle().PaddingRight(2)

	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// renderTable writes rows under headers with columns padded to fit.
func renderTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	line := func(style lipgloss.Style, cells []string) string {
		parts := make([]string, len(widths))
		for i := range widths {
			v := ""
			if i < len(cells) {
				v = cells[i]
			}
			parts[i] = style.Width(widths[i] + 2).Render(v)
		}
		return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, parts...), " ")
	}

	fmt.Fprintln(w, line(headerStyle, headers))
	for _, row := range rows {
		fmt.Fprintln(w, line(cellStyle, row))
	}
}
