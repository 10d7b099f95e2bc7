package components

import (
	"fmt"
	"strings"

	"github.com/Rorical/agentic/ui/styles"
)

// DefaultBarWidth is the number of cells in a progress bar.
const DefaultBarWidth = 32

// ProgressBar renders a determinate bar in place on the current line.
type ProgressBar struct {
	p     *Printer
	Width int
	Token styles.Token
}

func (p *Printer) NewProgressBar() *ProgressBar {
	return &ProgressBar{p: p, Width: DefaultBarWidth, Token: styles.Cyan}
}

// Percent is floor(100*current/total) with the ratio clamped to [0, 1]. A
// total <= 0 is treated as 1.
func Percent(current, total int) int {
	return scaled(100, current, total)
}

// scaled is floor(n*current/total) in integers, with current clamped to
// [0, total].
func scaled(n, current, total int) int {
	total = max(total, 1)
	current = min(max(current, 0), total)
	return n * current / total
}

// Render redraws the bar. When current reaches total the line is finished
// with a newline so later output does not overwrite it.
func (b *ProgressBar) Render(current, total int, label string) {
	line := "\r" + b.Line(current, total, label)
	if current >= max(total, 1) {
		line += "\n"
	}
	b.p.write(line)
}

// Line returns the bar without carriage control.
func (b *ProgressBar) Line(current, total int, label string) string {
	width := b.Width
	if width <= 0 {
		width = DefaultBarWidth
	}
	filled := scaled(width, current, total)
	bar := b.p.c(strings.Repeat("█", filled), b.Token) + b.p.c(strings.Repeat("░", width-filled), styles.Grey)
	pct := b.p.c(fmt.Sprintf("%3d%%", Percent(current, total)), styles.White, styles.Bold)
	return "  " + bar + "  " + pct + "  " + b.p.c(label, styles.Muted) + "  "
}
