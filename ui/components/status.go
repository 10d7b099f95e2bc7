package components

import (
	"strings"

	"github.com/Rorical/agentic/ui/styles"
)

// KeyColumn is the visible column at which KeyValue starts values.
const KeyColumn = 28

func (p *Printer) Success(msg string) {
	p.Println("  " + p.c("✓", styles.Green) + "  " + p.c(msg, styles.White))
}

func (p *Printer) Failure(msg string) {
	p.Println("  " + p.c("✗", styles.Red) + "  " + p.c(msg, styles.White))
}

func (p *Printer) Warning(msg string) {
	p.Println("  " + p.c("!", styles.Yellow) + "  " + p.c(msg, styles.Yellow))
}

func (p *Printer) Info(msg string) {
	p.Println("  " + p.c("›", styles.Cyan) + "  " + msg)
}

// Muted prints every line of msg indented and dimmed, so embedded line breaks
// keep the same indentation.
func (p *Printer) Muted(msg string) {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.TrimSuffix(msg, "\n")
	if msg == "" {
		return
	}
	for _, line := range strings.Split(msg, "\n") {
		p.Println("    " + p.c(line, styles.Muted))
	}
}

// KeyValue prints an aligned "label: value" row.
func (p *Printer) KeyValue(label, value string) {
	lbl := p.c(label+":", styles.Blue)
	pad := max(KeyColumn-styles.VisibleLength(lbl), 0)
	p.Println("  " + lbl + strings.Repeat(" ", pad) + "  " + p.c(value, styles.White))
}
