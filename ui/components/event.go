package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/Rorical/agentic/ui/styles"
)

// Actor identifies a participant in a multi-actor pipeline.
type Actor int

const (
	Unknown Actor = iota
	Planner
	Developer
	Reviewer
	QA
	RepoManager
)

var actorNames = map[string]Actor{
	"Planner":     Planner,
	"Developer":   Developer,
	"Reviewer":    Reviewer,
	"QA":          QA,
	"RepoManager": RepoManager,
}

// ParseActor maps a pipeline actor name to its Actor, or Unknown.
func ParseActor(name string) Actor {
	return actorNames[name]
}

func (a Actor) String() string {
	for name, actor := range actorNames {
		if actor == a {
			return name
		}
	}
	return "Unknown"
}

// badge returns the colour and short tag for a known actor. Unknown actors get
// a neutral colour and a tag derived from their name.
func (a Actor) badge(name string) (styles.Token, string) {
	switch a {
	case Planner:
		return styles.Blue, "PLAN"
	case Developer:
		return styles.Green, "CODE"
	case Reviewer:
		return styles.Yellow, "REVIEW"
	case QA:
		return styles.Magenta, "TEST"
	case RepoManager:
		return styles.Cyan, "REPO"
	default:
		tag := []rune(strings.ToUpper(name))
		return styles.White, string(tag[:min(len(tag), 4)])
	}
}

// Status classifies a pipeline event.
type Status int

const (
	StatusInfo Status = iota
	StatusOK
	StatusFail
	StatusWarn
	// StatusNeutral is any status the renderer does not recognise.
	StatusNeutral
)

// ParseStatus maps "ok", "fail", "warn" and "info"; anything else is
// StatusNeutral and renders white.
func ParseStatus(s string) Status {
	switch strings.ToLower(s) {
	case "ok":
		return StatusOK
	case "fail":
		return StatusFail
	case "warn":
		return StatusWarn
	case "info":
		return StatusInfo
	}
	return StatusNeutral
}

func (s Status) token() styles.Token {
	switch s {
	case StatusOK:
		return styles.Green
	case StatusFail:
		return styles.Red
	case StatusWarn:
		return styles.Yellow
	case StatusInfo:
		return styles.Cyan
	default:
		return styles.White
	}
}

const (
	tagColumn    = 6
	actorColumn  = 13
	eventColumn  = 20
	detailColumn = 52
)

// Event prints one fixed-column pipeline row so consecutive rows stay aligned.
func (p *Printer) Event(actor, event, detail string, status Status) {
	col, tag := ParseActor(actor).badge(actor)

	tagBadge := p.c(fmt.Sprintf("[%s]", fit(tag, tagColumn)), styles.Grey, styles.Bold)
	actorStr := p.c(fit(actor, actorColumn), col, styles.Bold)
	eventStr := p.c(fit(event, eventColumn), status.token())
	detailStr := ""
	if detail != "" {
		detail = strings.ReplaceAll(detail, "\n", " ")
		detailStr = p.c(ansi.Truncate(detail, detailColumn, ""), styles.Muted)
	}

	p.Println("  " + tagBadge + "  " + actorStr + "  " + eventStr + "  " + detailStr)
}

// fit truncates or right-pads s to exactly width visible columns.
func fit(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	return s + strings.Repeat(" ", max(width-styles.VisibleLength(s), 0))
}
