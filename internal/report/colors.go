package report

import (
	"io"

	"github.com/fatih/color"
)

var (
	Bold   = color.New(color.Bold)
	Green  = color.New(color.FgGreen)
	Red    = color.New(color.FgRed)
	Yellow = color.New(color.FgYellow)
	Cyan   = color.New(color.FgCyan)
)

const rule = "═══════════════════════════════════════════════════════════"

func colorPrintLn(w io.Writer, c *color.Color, a ...any) {
	_, _ = c.Fprintln(w, a...)
}

func colorPrintf(w io.Writer, c *color.Color, format string, a ...any) {
	_, _ = c.Fprintf(w, format, a...)
}

func printSectionHeader(w io.Writer, title string, descriptions ...string) {
	_, _ = io.WriteString(w, "\n")
	colorPrintLn(w, Bold, rule)
	colorPrintLn(w, Bold, title)
	colorPrintLn(w, Bold, rule)
	for _, desc := range descriptions {
		_, _ = io.WriteString(w, desc+"\n")
	}
	_, _ = io.WriteString(w, "\n")
}
