// Package styles holds the closed set of terminal style tokens and the palette
// that turns them into escape sequences.
package styles

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// Token names a terminal style independently of its escape sequence.
type Token int

const (
	Bold Token = iota
	Dim
	Italic

	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	Grey

	BgDark

	Purple
	Orange
	Pink
	Teal
	Indigo

	// Semantic aliases.
	OK
	Fail
	Warn
	Info
	Muted
	Accent
	Label

	numTokens
)

// Reset is the universal reset sequence appended after styled text.
const Reset = termenv.CSI + termenv.ResetSeq + "m"

var tokenNames = [numTokens]string{
	"bold", "dim", "italic",
	"red", "green", "yellow", "blue", "magenta", "cyan", "white", "grey",
	"bg-dark",
	"purple", "orange", "pink", "teal", "indigo",
	"ok", "fail", "warn", "info", "muted", "accent", "label",
}

func (t Token) String() string {
	if t < 0 || t >= numTokens {
		return "unknown"
	}
	return tokenNames[t]
}

// Tokens returns every defined token in declaration order.
func Tokens() []Token {
	out := make([]Token, 0, numTokens)
	for t := Token(0); t < numTokens; t++ {
		out = append(out, t)
	}
	return out
}

// apply layers a token's attributes onto s.
func apply(s lipgloss.Style, t Token) lipgloss.Style {
	switch t {
	case Bold:
		return s.Bold(true)
	case Dim:
		return s.Faint(true)
	case Italic:
		return s.Italic(true)
	case Red, Fail:
		return s.Foreground(lipgloss.Color("9"))
	case Green, OK:
		return s.Foreground(lipgloss.Color("10"))
	case Yellow, Warn:
		return s.Foreground(lipgloss.Color("11"))
	case Blue, Label:
		return s.Foreground(lipgloss.Color("12"))
	case Magenta, Accent:
		return s.Foreground(lipgloss.Color("13"))
	case Cyan, Info:
		return s.Foreground(lipgloss.Color("14"))
	case White:
		return s.Foreground(lipgloss.Color("15"))
	case Grey:
		return s.Foreground(lipgloss.Color("8"))
	case BgDark:
		return s.Background(lipgloss.Color("234"))
	case Purple:
		return s.Foreground(lipgloss.Color("135"))
	case Orange:
		return s.Foreground(lipgloss.Color("208"))
	case Pink:
		return s.Foreground(lipgloss.Color("213"))
	case Teal:
		return s.Foreground(lipgloss.Color("43"))
	case Indigo:
		return s.Foreground(lipgloss.Color("99"))
	case Muted:
		return s.Faint(true).Foreground(lipgloss.Color("7"))
	}
	return s
}

// Palette renders tokens for one output. It is built once at startup and is
// safe for concurrent use since it is never mutated afterwards.
type Palette struct {
	renderer *lipgloss.Renderer
}

// Option configures a Palette.
type Option func(*lipgloss.Renderer)

// WithProfile forces a colour profile instead of detecting it from the writer.
func WithProfile(p termenv.Profile) Option {
	return func(r *lipgloss.Renderer) {
		r.SetColorProfile(p)
	}
}

// NewPalette creates a palette whose colour support is detected from w.
func NewPalette(w io.Writer, opts ...Option) *Palette {
	r := lipgloss.NewRenderer(w)
	for _, opt := range opts {
		opt(r)
	}
	return &Palette{renderer: r}
}

// Style composes tokens into a single lipgloss style. Later colour tokens
// override earlier ones; weight tokens accumulate.
func (p *Palette) Style(tokens ...Token) lipgloss.Style {
	s := p.renderer.NewStyle()
	for _, t := range tokens {
		s = apply(s, t)
	}
	return s
}

// Wrap returns the escape prefix for tokens, text unchanged, and a reset.
// Without colour support text is returned as is.
func (p *Palette) Wrap(text string, tokens ...Token) string {
	if text == "" {
		return ""
	}
	seq := p.Sequence(tokens...)
	if seq == "" {
		return text
	}
	return seq + text + Reset
}

// Sequence returns the raw escape prefix for the composed tokens, or an empty
// string when the output has no colour support.
func (p *Palette) Sequence(tokens ...Token) string {
	const marker = "\x01"
	rendered := p.Style(tokens...).Render(marker)
	if i := strings.Index(rendered, marker); i > 0 {
		return rendered[:i]
	}
	return ""
}

// VisibleLength is the display width of s with escape sequences removed. A
// tab counts as one cell.
func VisibleLength(s string) int {
	return ansi.StringWidth(s) + strings.Count(ansi.Strip(s), "\t")
}

// Strip removes escape sequences from s.
func Strip(s string) string {
	return ansi.Strip(s)
}
