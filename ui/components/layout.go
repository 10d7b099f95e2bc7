package components

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"

	"github.com/Rorical/agentic/ui/styles"
)

const (
	// FallbackWidth is used when the terminal size cannot be determined.
	FallbackWidth = 100

	// MaxBoxWidth caps boxes rendered without an explicit width.
	MaxBoxWidth = 76

	minBoxWidth = 6
)

var banner = []string{
	`   _   ___ ___ _  _ _____ ___ ___     _   ___ `,
	`  /_\ / __| __| \| |_   _|_ _/ __|   /_\ |_ _|`,
	` / _ \ (_ | _|| .` + "`" + ` | | |  | | (__   / _ \ | | `,
	`/_/ \_\___|___|_|\_| |_| |___\___| /_/ \_\___|`,
}

var bannerColors = []styles.Token{styles.Magenta, styles.Purple, styles.Indigo, styles.Cyan}

const tagline = "◆  LOCAL-FIRST   ◆   NO CLOUD   ◆   NO PAID APIs  ◆"

// TerminalWidthOf resolves the width for w: COLUMNS wins, then the size of w
// (or stdout) when it is a terminal, then FallbackWidth.
func TerminalWidthOf(w io.Writer) int {
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 0 {
		return cols
	}
	candidates := []*os.File{os.Stdout}
	if f, ok := w.(*os.File); ok {
		candidates = []*os.File{f, os.Stdout}
	}
	for _, f := range candidates {
		fd := int(f.Fd())
		if !term.IsTerminal(fd) {
			continue
		}
		if width, _, err := term.GetSize(fd); err == nil && width > 0 {
			return width
		}
	}
	return FallbackWidth
}

// Divider prints char repeated across width columns. A width <= 0 uses the
// terminal width.
func (p *Printer) Divider(char string, tok styles.Token, width int) {
	if width <= 0 {
		width = p.Width()
	}
	p.Println(p.c(strings.Repeat(char, width), tok))
}

// ThickDivider prints a full-width heavy rule.
func (p *Printer) ThickDivider(tok styles.Token) {
	p.Divider("━", tok, 0)
}

// Section prints a centred title flanked by dashes, surrounded by blank lines.
func (p *Printer) Section(title string, tok styles.Token) {
	p.lines("", p.flanked(title, "─", tok), "")
}

// IterationHeader prints the dashed marker between engine iterations.
func (p *Printer) IterationHeader(n, total int) {
	p.lines("", p.flanked(fmt.Sprintf("ITERATION %d / %d", n, total), "╌", styles.Yellow), "")
}

func (p *Printer) flanked(title, fill string, tok styles.Token) string {
	label := "  " + title + "  "
	left, right := splitGap(p.Width()-styles.VisibleLength(label), 2)
	return p.c(strings.Repeat(fill, left), styles.Grey) +
		p.c(label, tok, styles.Bold) +
		p.c(strings.Repeat(fill, right), styles.Grey)
}

// splitGap divides gap columns between two sides, each at least min.
func splitGap(gap, min int) (int, int) {
	left := gap / 2
	right := gap - left
	return max(left, min), max(right, min)
}

// Banner prints the logo and tagline centred to the terminal width.
func (p *Printer) Banner() {
	w := p.Width()
	p.Blank()
	for i, line := range banner {
		col := bannerColors[min(i, len(bannerColors)-1)]
		p.Println(p.c(center(line, w), col, styles.Bold))
	}
	p.Blank()
	p.Println(p.c(center(tagline, w), styles.Grey))
	p.Blank()
}

func center(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

// BoxWidth returns the width a box uses when none is given.
func (p *Printer) BoxWidth() int {
	return min(p.Width()-4, MaxBoxWidth)
}

// Box prints lines inside a rounded border. Every row has the same visible
// width; content wider than the inner area is truncated.
func (p *Printer) Box(lines []string, title string, tok styles.Token, width int) {
	p.write(p.RenderBox(lines, title, tok, width))
}

// RenderBox returns the rows Box would print.
func (p *Printer) RenderBox(lines []string, title string, tok styles.Token, width int) string {
	if width <= 0 {
		width = p.BoxWidth()
	}
	width = max(width, minBoxWidth)
	inner := width - 2
	content := inner - 2
	border := lipgloss.RoundedBorder()

	var top string
	if title != "" {
		label := ansi.Truncate(" "+title+" ", inner-2, "")
		left, right := splitGap(inner-styles.VisibleLength(label), 1)
		top = border.TopLeft + strings.Repeat(border.Top, left) + label + strings.Repeat(border.Top, right) + border.TopRight
	} else {
		top = border.TopLeft + strings.Repeat(border.Top, inner) + border.TopRight
	}

	var b strings.Builder
	b.WriteString(p.c(top, tok) + "\n")
	for _, line := range lines {
		if styles.VisibleLength(line) > content {
			line = ansi.Truncate(line, content, "…")
		}
		pad := max(content-styles.VisibleLength(line), 0)
		b.WriteString(p.c(border.Left, tok) + "  " + line + strings.Repeat(" ", pad) + p.c(border.Right, tok) + "\n")
	}
	b.WriteString(p.c(border.BottomLeft+strings.Repeat(border.Bottom, inner)+border.BottomRight, tok) + "\n")
	return b.String()
}
