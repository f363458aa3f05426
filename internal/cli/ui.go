package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/spread/pkg/pipeline"
)

// uiOut receives all status output. Tests swap it for a buffer.
var uiOut io.Writer = os.Stdout

var (
	colorAccent = lipgloss.Color("36")  // spread IDs, titles
	colorOK     = lipgloss.Color("35")  // success
	colorWarn   = lipgloss.Color("220") // skipped dependencies
	colorFail   = lipgloss.Color("167") // errors
	colorLink   = lipgloss.Color("75")  // URLs and commands
	colorFile   = lipgloss.Color("255") // written targets
	colorMuted  = lipgloss.Color("240")
)

var (
	// StyleTitle is used for section headings in list and prompt output.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	// StyleHighlight marks spread IDs.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleLink      = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorMuted)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorWarn)

	styleFile        = lipgloss.NewStyle().Foreground(colorFile)
	styleCommand     = lipgloss.NewStyle().Foreground(colorLink)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
)

// A statusIcon prefixes one line of command output.
type statusIcon struct {
	glyph string
	style lipgloss.Style
}

var (
	iconOK   = statusIcon{"✓", lipgloss.NewStyle().Foreground(colorOK)}
	iconFail = statusIcon{"✗", lipgloss.NewStyle().Foreground(colorFail)}
	iconWarn = statusIcon{"!", lipgloss.NewStyle().Foreground(colorWarn)}
	iconInfo = statusIcon{"›", lipgloss.NewStyle().Foreground(colorMuted)}
)

func status(icon statusIcon, format string, args ...any) {
	fmt.Fprintln(uiOut, icon.style.Render(icon.glyph)+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { status(iconOK, format, args...) }
func printError(format string, args ...any)   { status(iconFail, format, args...) }
func printInfo(format string, args ...any)    { status(iconInfo, format, args...) }

func printWarning(format string, args ...any) {
	status(iconWarn, "%s", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, muted line below a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file written below the project root.
func printFile(path string) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render("→")+" "+styleFile.Render(path))
}

// printFiles prints every target written by a run.
func printFiles(result *pipeline.Result) {
	for _, target := range result.Written {
		printFile(target)
	}
}

// printStats prints the non-zero counters of a run on one line, e.g.
// "3 spreads · 2 packages · 5 files".
func printStats(s pipeline.Stats) {
	var parts []string
	for _, c := range []struct {
		n    int
		noun string
	}{{s.Spreads, "spread"}, {s.Packages, "package"}, {s.Files, "file"}} {
		if c.n > 0 {
			parts = append(parts, plural(c.n, c.noun))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintln(uiOut, "  "+StyleDim.Render(strings.Join(parts, " · ")))
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// printWarnings lists the spread dependencies that were skipped.
func printWarnings(result *pipeline.Result) {
	warnings := result.Warnings()
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(uiOut)
	for _, w := range warnings {
		printWarning("%s", w)
	}
}

// printNextStep suggests a command to run after this one.
func printNextStep(description, cmd string) {
	fmt.Fprintln(uiOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() { fmt.Fprintln(uiOut) }
