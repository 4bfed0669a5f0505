package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// IsCI reports whether a CI system is driving the process. GitLab and most
// hosted runners set CI; Jenkins sets JENKINS_URL.
func IsCI() bool {
	return os.Getenv("CI") == "true" || os.Getenv("JENKINS_URL") != ""
}

// IsGitLabCI reports whether the process runs in a GitLab job.
func IsGitLabCI() bool {
	return os.Getenv("GITLAB_CI") == "true"
}

// SectionStart opens a GitLab job log section. Outside GitLab it is a no-op,
// as are SectionStartCollapsed and SectionEnd.
func SectionStart(w io.Writer, id, title string) {
	gitlabMarker(w, "section_start", id, title)
}

// SectionStartCollapsed opens a section that GitLab shows folded.
func SectionStartCollapsed(w io.Writer, id, title string) {
	gitlabMarker(w, "section_start", id+"[collapsed=true]", title)
}

// SectionEnd closes the section opened with id.
func SectionEnd(w io.Writer, id string) {
	gitlabMarker(w, "section_end", id, "")
}

func gitlabMarker(w io.Writer, kind, id, title string) {
	if !IsGitLabCI() {
		return
	}
	fmt.Fprintf(w, "\033[0K%s:%d:%s\r\033[0K%s\n", kind, time.Now().Unix(), id, title)
}

// ciContext lists the variables shown by CIHeader, first set one wins per
// label. GitLab names come first, Jenkins second.
var ciContext = []struct {
	label string
	vars  []string
}{
	{"sha", []string{"CI_COMMIT_SHORT_SHA", "GIT_COMMIT"}},
	{"pipeline", []string{"CI_PIPELINE_ID"}},
	{"job", []string{"CI_JOB_NAME", "JOB_NAME"}},
	{"build", []string{"BUILD_NUMBER"}},
	{"runner", []string{"CI_RUNNER_DESCRIPTION", "NODE_NAME"}},
}

// CIHeader prints one line of pipeline context when running in CI.
func CIHeader(w io.Writer) {
	if !IsCI() {
		return
	}
	var parts []string
	for _, c := range ciContext {
		for _, name := range c.vars {
			v := os.Getenv(name)
			if v == "" {
				continue
			}
			if c.label == "sha" && len(v) > 8 {
				v = v[:8]
			}
			parts = append(parts, c.label+"="+v)
			break
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "  ci: %s\n", strings.Join(parts, "  "))
	}
}

// TestCase is one JUnit case: a build target and how it ended.
type TestCase struct {
	Name      string
	Classname string
	Elapsed   time.Duration
	Failure   string // empty for a passing case
	FailType  string
	Detail    string
}

type junitSuites struct {
	XMLName  xml.Name     `xml:"testsuites"`
	Name     string       `xml:"name,attr"`
	Tests    int          `xml:"tests,attr"`
	Failures int          `xml:"failures,attr"`
	Time     string       `xml:"time,attr"`
	Suites   []junitSuite `xml:"testsuite"`
}

type junitSuite struct {
	Name     string      `xml:"name,attr"`
	Tests    int         `xml:"tests,attr"`
	Failures int         `xml:"failures,attr"`
	Time     string      `xml:"time,attr"`
	Cases    []junitCase `xml:"testcase"`
}

type junitCase struct {
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

func seconds(d time.Duration) string { return fmt.Sprintf("%.3f", d.Seconds()) }

// WriteJUnit writes cases as one suite to {dir}/{name}.xml.
func WriteJUnit(dir, name string, cases []TestCase) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}

	suite := junitSuite{Name: "playerforge/" + name, Tests: len(cases)}
	var total time.Duration
	for _, c := range cases {
		jc := junitCase{Name: c.Name, Classname: c.Classname, Time: seconds(c.Elapsed)}
		if c.Failure != "" {
			jc.Failure = &junitFailure{Message: c.Failure, Type: c.FailType, Body: c.Detail}
			suite.Failures++
		}
		suite.Cases = append(suite.Cases, jc)
		total += c.Elapsed
	}
	suite.Time = seconds(total)

	data, err := xml.MarshalIndent(junitSuites{
		Name:     "playerforge-" + name,
		Tests:    suite.Tests,
		Failures: suite.Failures,
		Time:     suite.Time,
		Suites:   []junitSuite{suite},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding junit xml: %w", err)
	}

	path := filepath.Join(dir, name+".xml")
	out := append([]byte(xml.Header), data...)
	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
