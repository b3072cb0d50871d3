package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dtroode/coined/internal/model"
)

var (
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#2C4A54")
)

// styles holds the styles bound to one output. The renderer inspects the
// writer, so colors are dropped when it is not a terminal.
type styles struct {
	header  lipgloss.Style
	cell    lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		header:  r.NewStyle().Bold(true).Padding(0, 1),
		cell:    r.NewStyle().Padding(0, 1),
		muted:   r.NewStyle().Foreground(colorMuted),
		success: r.NewStyle().Foreground(colorSuccess),
		warning: r.NewStyle().Foreground(colorWarning),
		failure: r.NewStyle().Foreground(colorError),
	}
}

// renderNotice formats a notification with an icon and color matching
// its kind.
func renderNotice(out io.Writer, n model.Notice) string {
	s := newStyles(out)
	switch n.Kind {
	case model.NoticeError:
		return s.failure.Render("✗") + " " + s.failure.Render(n.Message)
	case model.NoticeWarning:
		return s.warning.Render("⚠") + " " + s.warning.Render(n.Message)
	default:
		return s.success.Render("✓") + " " + n.Message
	}
}

// table buffers rows and renders them in aligned columns on flush.
type table struct {
	out    io.Writer
	styles styles
	header []string
	rows   [][]string
}

func newTable(out io.Writer, header ...any) *table {
	return &table{out: out, styles: newStyles(out), header: cells(header)}
}

func (t *table) row(cols ...any) {
	t.rows = append(t.rows, cells(cols))
}

func (t *table) flush() {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range t.rows {
		for i, c := range r {
			if i < len(widths) && lipgloss.Width(c) > widths[i] {
				widths[i] = lipgloss.Width(c)
			}
		}
	}

	// Padding counts towards the style width.
	total := len(widths) - 1
	for i := range widths {
		widths[i] += 2
		total += widths[i]
	}

	var sb strings.Builder
	t.line(&sb, t.header, widths, t.styles.header)
	if total > 0 {
		sb.WriteString(t.styles.muted.Render(strings.Repeat("-", total)))
		sb.WriteString("\n")
	}
	for _, r := range t.rows {
		t.line(&sb, r, widths, t.styles.cell)
	}
	_, _ = io.WriteString(t.out, sb.String())
}

func (t *table) line(sb *strings.Builder, cols []string, widths []int, style lipgloss.Style) {
	for i, c := range cols {
		if i >= len(widths) {
			break
		}
		if i > 0 {
			sb.WriteString(t.styles.muted.Render("|"))
		}
		sb.WriteString(style.Width(widths[i]).Render(c))
	}
	sb.WriteString("\n")
}

func cells(cols []any) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = fmt.Sprint(c)
	}
	return out
}
