package output

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteJUnit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	cases := []TestCase{
		{Name: "android-apk", Classname: "playerforge.build", Elapsed: 90 * time.Second},
		{
			Name:      "ios",
			Classname: "playerforge.build",
			Elapsed:   30 * time.Second,
			Failure:   "build ios failed: result Failed, 2 error(s)",
			FailType:  "compiling",
			Detail:    "stage compiling",
		},
	}
	if err := WriteJUnit(dir, "build", cases); err != nil {
		t.Fatalf("WriteJUnit: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "build.xml"))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.HasPrefix(string(data), xml.Header) {
		t.Error("missing xml header")
	}

	var root junitSuites
	if err := xml.Unmarshal(data, &root); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if root.Tests != 2 || root.Failures != 1 || root.Time != "120.000" {
		t.Errorf("root = tests %d failures %d time %s", root.Tests, root.Failures, root.Time)
	}
	if len(root.Suites) != 1 || root.Suites[0].Name != "playerforge/build" {
		t.Fatalf("suites = %+v", root.Suites)
	}
	got := root.Suites[0].Cases
	if got[0].Failure != nil || got[1].Failure == nil || got[1].Failure.Type != "compiling" {
		t.Errorf("cases = %+v", got)
	}
}

func TestStatusIcon(t *testing.T) {
	tests := map[string]string{
		StatusSuccess: "✓",
		StatusFailed:  "✗",
		StatusWarning: "!",
		StatusSkipped: "⊘",
	}
	for status, want := range tests {
		if got := StatusIcon(status, false); got != want {
			t.Errorf("StatusIcon(%s) = %q, want %q", status, got, want)
		}
	}
	if got := StatusIcon(StatusSuccess, true); got != colorGreen+"✓"+colorReset {
		t.Errorf("colored = %q", got)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Microsecond, "<1ms"},
		{250 * time.Millisecond, "250ms"},
		{12500 * time.Millisecond, "12.5s"},
		{3*time.Minute + 4*time.Second, "3m04.0s"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.d); got != tt.want {
			t.Errorf("FormatElapsed(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestSectionRows(t *testing.T) {
	var buf bytes.Buffer
	sec := NewSection(&buf, "Artifact", 0, false)
	RowField(sec, "path", "Builds/Game-main_240615_01.apk")
	RowList(sec, "scenes", []string{"Boot.unity", "Main.unity"})
	RowStatus(sec, "resolver", "skipped", StatusSkipped, false)
	sec.Close()

	out := buf.String()
	for _, want := range []string{
		"── Artifact ",
		"│ path            → Builds/Game-main_240615_01.apk",
		"│ scenes          → Boot.unity",
		"│                   Main.unity",
		"│ resolver        ⊘  skipped",
		"└──",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestIsCI(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("JENKINS_URL", "")
	if IsCI() {
		t.Error("IsCI with empty env")
	}
	t.Setenv("JENKINS_URL", "https://jenkins.example.com/")
	if !IsCI() {
		t.Error("Jenkins not detected")
	}
}
