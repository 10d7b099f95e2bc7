// Package components renders the fixed vocabulary of terminal primitives:
// dividers, sections, banners, boxes, status lines, event rows, spinners,
// progress bars and the result/crash composites built from them.
package components

import (
	"io"
	"strings"
	"sync"

	"github.com/Rorical/agentic/ui/styles"
)

// DefaultLogPath is the log file pointed at by failure renderers.
const DefaultLogPath = "logs/orchestrator.log"

// Printer writes styled output to a single terminal. Writes are serialised so a
// running spinner and the foreground never interleave within a line.
type Printer struct {
	mu      sync.Mutex
	out     io.Writer
	palette *styles.Palette
	width   func() int
	logPath string
}

// Option configures a Printer.
type Option func(*Printer)

// WithWidth overrides terminal width discovery.
func WithWidth(fn func() int) Option {
	return func(p *Printer) {
		p.width = fn
	}
}

// WithLogPath sets the log file referenced by failure output.
func WithLogPath(path string) Option {
	return func(p *Printer) {
		if path != "" {
			p.logPath = path
		}
	}
}

func NewPrinter(out io.Writer, palette *styles.Palette, opts ...Option) *Printer {
	p := &Printer{
		out:     out,
		palette: palette,
		logPath: DefaultLogPath,
	}
	p.width = func() int { return TerminalWidthOf(out) }
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Palette returns the palette used for styling.
func (p *Printer) Palette() *styles.Palette {
	return p.palette
}

// Width resolves the current terminal width. It is queried on every call.
func (p *Printer) Width() int {
	w := p.width()
	if w < 1 {
		return FallbackWidth
	}
	return w
}

func (p *Printer) c(text string, tokens ...styles.Token) string {
	return p.palette.Wrap(text, tokens...)
}

func (p *Printer) write(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	io.WriteString(p.out, s)
}

// Println writes one raw line.
func (p *Printer) Println(line string) {
	p.write(line + "\n")
}

// Blank writes an empty line.
func (p *Printer) Blank() {
	p.write("\n")
}

func (p *Printer) lines(lines ...string) {
	p.write(strings.Join(lines, "\n") + "\n")
}
