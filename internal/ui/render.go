package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/tmx/internal/format/table"
	"github.com/atomicstack/tmx/internal/fuzzy"
	"github.com/atomicstack/tmx/internal/state"
	"github.com/atomicstack/tmx/internal/theme"
	"github.com/atomicstack/tmx/internal/tmux"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	previewPanelMinWidth = 40  // below this the preview is not drawn
	previewPanelFraction = 0.6 // share of the width given to the preview
	listMinWidth         = 24
	bottomBarRows        = 2
	ellipsis             = "…"
)

// PreviewPane is the preview content for the selected session.
type PreviewPane struct {
	Title   string
	Lines   []string
	Err     string
	Loading bool
}

// Status is the transient message on the bottom bar.
type Status struct {
	Text  string
	Error bool
}

// HelpEntry is one row of the help overlay.
type HelpEntry struct {
	Keys string
	Desc string
}

// Frame is a read-only snapshot of everything the screen shows.
type Frame struct {
	Width     int
	Height    int
	Mode      Mode
	Loaded    bool
	Query     string
	TagFilter string
	Total     int
	Rows      []state.Row
	Cursor    int
	Offset    int
	Preview   PreviewPane
	Prompt    string
	Confirm   string
	Pending   []string
	Status    Status
	Warning   string
	Help      []HelpEntry
}

// Renderer paints a Frame.
type Renderer interface {
	Render(Frame) string
}

type lipglossRenderer struct {
	styles *theme.Styles
}

// NewRenderer returns the default Lip Gloss renderer.
func NewRenderer(styles *theme.Styles) Renderer {
	if styles == nil {
		styles = theme.Default()
	}
	return &lipglossRenderer{styles: styles}
}

type styledLine struct {
	text  string
	style *lipgloss.Style
	raw   bool // text is already styled; skip style wrapping
}

func (r *lipglossRenderer) Render(f Frame) string {
	header := styledLine{text: r.header(f), raw: true}
	bodyH, topH := 0, 0
	if f.Height > 0 {
		bodyH = max(f.Height-1-bottomBarRows, 1)
		topH = bodyH + 1
	}

	var top string
	if f.Mode == ModeHelp {
		lines := append([]styledLine{header}, r.helpLines(f.Help)...)
		top = renderLines(fitLines(lines, topH, f.Width))
	} else if listW, previewW, ok := splitWidths(f.Width); ok && bodyH > 0 {
		left := append([]styledLine{header}, r.listLines(f, listW, bodyH)...)
		leftStr := renderLines(fitLines(left, topH, listW))
		top = lipgloss.JoinHorizontal(lipgloss.Top, leftStr, r.previewPanel(f.Preview, previewW, topH))
	} else {
		lines := append([]styledLine{header}, r.listLines(f, f.Width, bodyH)...)
		top = renderLines(fitLines(lines, topH, f.Width))
	}

	bottom := []styledLine{r.statusLine(f), r.inputLine(f)}
	return top + "\n" + renderLines(fitLines(bottom, 0, f.Width))
}

func splitWidths(total int) (int, int, bool) {
	previewW := int(float64(total) * previewPanelFraction)
	listW := total - previewW
	if previewW < previewPanelMinWidth || listW < listMinWidth {
		return total, 0, false
	}
	return listW, previewW, true
}

func (r *lipglossRenderer) header(f Frame) string {
	var b strings.Builder
	b.WriteString(r.styles.Header.Render("tmx"))
	count := fmt.Sprintf(" %d sessions", f.Total)
	if len(f.Rows) != f.Total {
		count = fmt.Sprintf(" %d/%d sessions", len(f.Rows), f.Total)
	}
	b.WriteString(r.styles.Meta.Render(count))
	if f.TagFilter != "" {
		b.WriteString(" ")
		b.WriteString(r.styles.Tag.Render("#" + f.TagFilter))
	}
	if f.Query != "" && f.Mode != ModeSearch {
		b.WriteString(" ")
		b.WriteString(r.styles.Filter.Render("/" + f.Query))
	}
	return b.String()
}

// listLines renders the rows and their expanded children, scrolled so the
// selected row is on screen.
func (r *lipglossRenderer) listLines(f Frame, width, height int) []styledLine {
	if !f.Loaded {
		return []styledLine{{text: "Loading sessions…", style: r.styles.Loading}}
	}
	if len(f.Rows) == 0 {
		msg := "(no sessions)"
		switch {
		case f.Query != "":
			msg = fmt.Sprintf("No matches for %q", f.Query)
		case f.TagFilter != "":
			msg = fmt.Sprintf("No sessions tagged %q", f.TagFilter)
		}
		return []styledLine{{text: msg, style: r.styles.Info}}
	}
	var lines []styledLine
	selectedLine, offsetLine := 0, 0
	for i, row := range f.Rows {
		if i == f.Offset {
			offsetLine = len(lines)
		}
		if i == f.Cursor {
			selectedLine = len(lines)
		}
		lines = append(lines, styledLine{text: r.rowLine(row, i == f.Cursor, width), raw: true})
		if row.Expanded {
			lines = append(lines, r.childLines(row.Session)...)
		}
	}
	if height <= 0 || len(lines) <= height {
		return lines
	}
	start := offsetLine
	if selectedLine < start {
		start = selectedLine
	}
	if selectedLine >= start+height {
		start = selectedLine - height + 1
	}
	if start+height > len(lines) {
		start = len(lines) - height
	}
	return lines[start : start+height]
}

func (r *lipglossRenderer) rowLine(row state.Row, selected bool, width int) string {
	base, indicator := r.styles.Item, r.styles.ItemIndicator
	prefix := "  "
	if selected {
		base, indicator = r.styles.SelectedItem, r.styles.SelectedItemIndicator
		prefix = "▌ "
	}
	highlight := r.styles.Highlight.Inherit(*base)
	var b strings.Builder
	b.WriteString(indicator.Render(prefix))
	for _, seg := range fuzzy.Segments(row.Name(), row.Highlights) {
		if seg.Matched {
			b.WriteString(highlight.Render(seg.Text))
		} else {
			b.WriteString(base.Render(seg.Text))
		}
	}
	meta := r.styles.Meta.Inherit(*base)
	b.WriteString(meta.Render(fmt.Sprintf(" %dw", len(row.Session.Windows))))
	if row.Session.Attached {
		b.WriteString(r.styles.Attached.Inherit(*base).Render(" ●"))
	}
	tag := r.styles.Tag.Inherit(*base)
	for _, t := range row.Tags {
		b.WriteString(tag.Render(" #" + t))
	}
	line := b.String()
	if width > 0 && selected {
		if pad := width - ansi.StringWidth(line); pad > 0 {
			line += base.Render(strings.Repeat(" ", pad))
		}
	}
	return line
}

func (r *lipglossRenderer) childLines(s tmux.Session) []styledLine {
	var lines []styledLine
	for _, w := range s.Windows {
		marker := " "
		if w.Active {
			marker = "*"
		}
		lines = append(lines, styledLine{
			text:  fmt.Sprintf("    %s%d: %s", marker, w.Index, w.Name),
			style: r.styles.Child,
		})
		for _, p := range w.Panes {
			label := p.Command
			if p.Path != "" {
				label += " " + p.Path
			}
			lines = append(lines, styledLine{
				text:  fmt.Sprintf("        %d.%d %s", w.Index, p.Index, label),
				style: r.styles.Meta,
			})
		}
	}
	return lines
}

func (r *lipglossRenderer) helpLines(entries []HelpEntry) []styledLine {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Keys, e.Desc}
	}
	lines := []styledLine{{}}
	for _, cols := range table.Columns(rows, nil) {
		lines = append(lines, styledLine{
			text: "  " + r.styles.HelpKey.Render(cols[0]) + "  " + r.styles.HelpText.Render(cols[1]),
			raw:  true,
		})
	}
	lines = append(lines, styledLine{}, styledLine{text: "  press any key to return", style: r.styles.Footer})
	return lines
}

func (r *lipglossRenderer) statusLine(f Frame) styledLine {
	switch {
	case f.Status.Text != "" && f.Status.Error:
		return styledLine{text: "Error: " + f.Status.Text, style: r.styles.Error}
	case f.Status.Text != "":
		return styledLine{text: f.Status.Text, style: r.styles.Info}
	case f.Warning != "":
		return styledLine{text: "Warning: " + f.Warning, style: r.styles.Warning}
	}
	return styledLine{}
}

func (r *lipglossRenderer) inputLine(f Frame) styledLine {
	switch {
	case f.Mode == ModeSearch:
		return styledLine{
			text: r.styles.FilterPrompt.Render("/") + r.styles.Filter.Render(f.Query+"█"),
			raw:  true,
		}
	case f.Mode == ModeConfirmKill:
		return styledLine{text: fmt.Sprintf("Kill session %q? (y/N)", f.Confirm), style: r.styles.Confirm}
	case f.Mode.prompting():
		return styledLine{text: f.Prompt, raw: true}
	case len(f.Pending) > 0:
		return styledLine{text: strings.Join(f.Pending, "") + "…", style: r.styles.Footer}
	}
	return styledLine{text: "enter attach  / search  tab expand  t tag  ? help  q quit", style: r.styles.Footer}
}

// previewPanel draws a bordered box holding the tail of the capture.
// Captured lines keep their escape sequences.
func (r *lipglossRenderer) previewPanel(p PreviewPane, totalWidth, height int) string {
	const (
		tlc = "╭"
		trc = "╮"
		blc = "╰"
		brc = "╯"
		hz  = "─"
		vt  = "│"
	)
	innerW := max(totalWidth-2, 1)
	innerH := max(height-2, 1)
	border := r.styles.PreviewBorder

	title := "Preview"
	if p.Title != "" {
		title = "Preview: " + p.Title
	}
	titleSeg := ansi.Truncate(" "+title+" ", max(totalWidth-4, 0), ellipsis)
	dashes := max(totalWidth-4-ansi.StringWidth(titleSeg), 0)
	topLine := border.Render(tlc+hz) + r.styles.PreviewTitle.Render(titleSeg) +
		border.Render(strings.Repeat(hz, dashes)+hz+trc)
	bottomLine := border.Render(blc + strings.Repeat(hz, innerW) + brc)

	content := p.Lines
	bodyStyle := r.styles.PreviewBody
	raw := true
	switch {
	case p.Err != "":
		content, bodyStyle, raw = []string{p.Err}, r.styles.PreviewError, false
	case p.Loading:
		content, raw = []string{"Loading…"}, false
	case len(content) > innerH:
		content = content[len(content)-innerH:]
	}

	rows := make([]string, 0, height)
	rows = append(rows, topLine)
	for i := 0; i < innerH; i++ {
		var line string
		if i < len(content) {
			line = content[i]
		}
		if ansi.StringWidth(line) > innerW {
			line = ansi.Truncate(line, innerW, ellipsis)
		}
		if w := ansi.StringWidth(line); w < innerW {
			line += strings.Repeat(" ", innerW-w)
		}
		if !raw && bodyStyle != nil {
			line = bodyStyle.Render(line)
		} else if raw {
			line += ansi.ResetStyle
		}
		rows = append(rows, border.Render(vt)+line+border.Render(vt))
	}
	rows = append(rows, bottomLine)
	return strings.Join(rows, "\n")
}

// fitLines truncates every line to width and pads the list to height rows.
// Zero disables either bound.
func fitLines(lines []styledLine, height, width int) []styledLine {
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	out := make([]styledLine, 0, max(height, len(lines)))
	for _, line := range lines {
		if width > 0 {
			if line.raw {
				if ansi.StringWidth(line.text) > width {
					line.text = ansi.Truncate(line.text, width, ellipsis)
				}
			} else {
				line.text = truncateText(line.text, width)
			}
		}
		out = append(out, line)
	}
	for len(out) < height {
		out = append(out, styledLine{})
	}
	if width > 0 {
		for i := range out {
			if w := ansi.StringWidth(out[i].render()); w < width {
				out[i].text += strings.Repeat(" ", width-w)
			}
		}
	}
	return out
}

func (l styledLine) render() string {
	if l.raw || l.style == nil {
		return l.text
	}
	return l.style.Render(l.text)
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line.render()
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	if ansi.StringWidth(text) <= width {
		return text
	}
	if width == 1 {
		return ansi.Truncate(text, 1, "")
	}
	return ansi.Truncate(text, width, ellipsis)
}

func previewLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
