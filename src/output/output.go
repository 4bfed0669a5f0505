// Package output renders human-facing build summaries: framed sections,
// status icons, CI collapsible sections and JUnit reports.
package output

import (
	"os"
	"strings"
)

// Colors for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
)

// Status values understood by StatusIcon and RowStatus.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
	StatusWarning = "warning"
)

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// UseColor returns true if colored output should be used.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal() || IsCI()
}

// Bold returns bold text if color is enabled.
func Bold(text string, color bool) string {
	if !color {
		return text
	}
	return colorBold + text + colorReset
}

// Warning renders a warning line prefix.
func Warning(text string, color bool) string {
	if !color {
		return "! " + text
	}
	return colorYellow + "! " + colorReset + text
}

// RowStatus writes a row with label, detail, and a status icon.
func RowStatus(sec *Section, label, detail, status string, color bool) {
	icon := StatusIcon(status, color)
	if detail != "" {
		sec.Row("%-16s%s  %s", label, icon, detail)
	} else {
		sec.Row("%-16s%s", label, icon)
	}
}

// RowField writes an aligned "label → value" row.
func RowField(sec *Section, label, value string) {
	sec.Row("%-16s→ %s", label, value)
}

// RowList writes label once and one value per row beneath it.
func RowList(sec *Section, label string, values []string) {
	if len(values) == 0 {
		RowField(sec, label, "(none)")
		return
	}
	RowField(sec, label, values[0])
	pad := strings.Repeat(" ", 16)
	for _, v := range values[1:] {
		sec.Row("%s  %s", pad, v)
	}
}
