package output

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// frameWidth is the number of rule characters after the box corner.
const frameWidth = 61

const (
	indent  = "    "
	ruleMid = "├"
	ruleEnd = "└"
	rowBar  = "│"
)

// Section is a titled block of rows framed with box-drawing characters:
//
//	── Artifact ────────────────────────────── 1.2s ──
//	│ path            → Builds/Game-main_240615_01.apk
//	└──────────────────────────────────────────────────
type Section struct {
	w     io.Writer
	title string
	color bool
}

// NewSection writes the section title line and returns the section. A
// non-zero elapsed is shown at the right end of the title line.
func NewSection(w io.Writer, title string, elapsed time.Duration, color bool) *Section {
	s := &Section{w: w, title: title, color: color}
	fmt.Fprintf(w, "\n%s%s\n", indent, s.titleLine(elapsed))
	return s
}

// Row writes one line inside the frame.
func (s *Section) Row(format string, args ...any) {
	fmt.Fprintf(s.w, "%s%s %s\n", indent, rowBar, fmt.Sprintf(format, args...))
}

// Separator divides the section, e.g. between profile and result rows.
func (s *Section) Separator() { s.rule(ruleMid) }

// Close ends the section.
func (s *Section) Close() { s.rule(ruleEnd) }

func (s *Section) rule(corner string) {
	fmt.Fprintf(s.w, "%s%s%s\n", indent, corner, strings.Repeat("─", frameWidth))
}

func (s *Section) titleLine(elapsed time.Duration) string {
	head := "── " + s.title + " "
	tail := "──"
	if elapsed > 0 {
		tail = " " + FormatElapsed(elapsed) + " ──"
	}
	fill := max(frameWidth+4-len(head)-len(tail), 1)
	line := head + strings.Repeat("─", fill) + tail
	if s.color {
		return "\033[2;36m" + line + colorReset
	}
	return line
}

// StatusIcon returns the icon for a status, colored when color is set.
func StatusIcon(status string, color bool) string {
	icon, c := "⊘", colorYellow
	switch status {
	case StatusSuccess:
		icon, c = "✓", colorGreen
	case StatusFailed:
		icon, c = "✗", colorRed
	case StatusWarning:
		icon = "!"
	}
	if !color {
		return icon
	}
	return c + icon + colorReset
}

// KV is one entry of a ContextBlock.
type KV struct {
	Key   string
	Value string
}

// ContextBlock prints the build context above the first section, two
// pairs per line.
func ContextBlock(w io.Writer, kv []KV) {
	if len(kv) == 0 {
		return
	}
	fmt.Fprintln(w)
	for i := 0; i < len(kv); i += 2 {
		left := fmt.Sprintf("%-12s%-14s", kv[i].Key, kv[i].Value)
		if i+1 == len(kv) {
			fmt.Fprintf(w, "%s%s\n", indent, strings.TrimRight(left, " "))
			continue
		}
		fmt.Fprintf(w, "%s%s%-11s%s\n", indent, left, kv[i+1].Key, kv[i+1].Value)
	}
}

// FormatElapsed renders a duration as "<1ms", "840ms", "12.3s" or "4m05.2s".
func FormatElapsed(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return "<1ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	mins := int(d / time.Minute)
	secs := (d - time.Duration(mins)*time.Minute).Seconds()
	return fmt.Sprintf("%dm%04.1fs", mins, secs)
}
