package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/Rorical/agentic/ui/styles"
)

const goalPreviewWidth = 65

// GoalResult is the read-only view of an engine run that PrintGoalResult needs.
type GoalResult interface {
	Succeeded() bool
	// IterationCount reports the number of iterations, or false when unknown.
	IterationCount() (int, bool)
	// OutputRef is the produced artifact, or "" when there is none.
	OutputRef() string
}

// PrintGoalResult renders the bordered summary of a finished goal.
func (p *Printer) PrintGoalResult(res GoalResult, goal string) {
	border := styles.Green
	if !res.Succeeded() {
		border = styles.Red
	}

	iterations := "?"
	if n, ok := res.IterationCount(); ok {
		iterations = strconv.Itoa(n)
	}
	output := res.OutputRef()
	if output == "" {
		output = "N/A"
	}
	goal = ansi.Truncate(goal, goalPreviewWidth, "")

	var lines []string
	if res.Succeeded() {
		lines = []string{
			p.c("  ✓  GOAL COMPLETED SUCCESSFULLY", styles.Green, styles.Bold),
			"",
			p.c("  Goal       : ", styles.Muted) + p.c(goal, styles.White),
			p.c("  Iterations : ", styles.Muted) + p.c(iterations, styles.White),
			p.c("  Output     : ", styles.Muted) + p.c(output, styles.Cyan),
		}
	} else {
		lines = []string{
			p.c("  ✗  GOAL FAILED", styles.Red, styles.Bold),
			"",
			p.c("  Goal       : ", styles.Muted) + p.c(goal, styles.White),
			p.c("  Iterations : ", styles.Muted) + p.c(iterations, styles.White),
			"",
			p.c(fmt.Sprintf("  › Check %s for details.", p.logPath), styles.Yellow),
		}
	}

	p.Blank()
	p.ThickDivider(border)
	p.Blank()
	p.Box(lines, "RESULT", border, 0)
	p.Blank()
	p.ThickDivider(border)
	p.Blank()
}

// PrintCrash renders an unhandled failure trace.
func (p *Printer) PrintCrash(trace string) {
	p.Blank()
	p.ThickDivider(styles.Red)
	p.Println(p.c("  ✗  CRASH DETECTED", styles.Red, styles.Bold))
	p.Divider("─", styles.Red, 0)
	for _, line := range strings.Split(strings.TrimRight(trace, "\n"), "\n") {
		p.Println(p.c("  │ ", styles.Grey) + p.c(line, styles.White))
	}
	p.ThickDivider(styles.Red)
	p.Blank()
	p.Warning(fmt.Sprintf("Check %s for the full trace.", p.logPath))
	p.Blank()
}

// PrintValidationHeader opens a self-validation run.
func (p *Printer) PrintValidationHeader() {
	p.Banner()
	p.Section("SELF-VALIDATION", styles.Cyan)
}

// PrintValidationResult renders the aggregate verdict of a validation run.
func (p *Printer) PrintValidationResult(errs []string) {
	p.Blank()
	if len(errs) > 0 {
		lines := []string{
			p.c(fmt.Sprintf("  ✗  FAILED — %d issue(s)", len(errs)), styles.Red, styles.Bold),
			"",
		}
		for _, e := range errs {
			lines = append(lines, p.c("  ✗  "+e, styles.Red))
		}
		p.Box(lines, "VALIDATION RESULT", styles.Red, 0)
	} else {
		p.Box([]string{
			p.c("  ✓  ALL CHECKS PASSED", styles.Green, styles.Bold),
			"",
			p.c("  System is ready to run goals.", styles.Muted),
		}, "VALIDATION RESULT", styles.Green, 0)
	}
	p.Blank()
}

// MenuEntry is one numbered option of the interactive menu.
type MenuEntry struct {
	Key         string
	Title       string
	Description string
	Token       styles.Token
}

// PrintMenu renders the banner and the numbered options.
func (p *Printer) PrintMenu(entries []MenuEntry) {
	p.Banner()
	p.ThickDivider(styles.Grey)
	p.Blank()
	for _, e := range entries {
		badge := p.c(" "+e.Key+" ", styles.BgDark, e.Token, styles.Bold)
		title := p.c(fmt.Sprintf("  %-22s", e.Title), styles.White, styles.Bold)
		p.Println("  " + badge + title + "  " + p.c(e.Description, styles.Grey))
		p.Blank()
	}
	p.ThickDivider(styles.Grey)
	p.Blank()
}
