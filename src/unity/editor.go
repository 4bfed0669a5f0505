package unity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrEditorNotStarted reports that the editor process could not be launched.
var ErrEditorNotStarted = errors.New("unity: editor could not be started")

// DefaultBuildMethod is the editor-side entry that reads the manifest and
// calls BuildPipeline.BuildPlayer.
const DefaultBuildMethod = "PlayerForge.Editor.BuildEntry.Run"

// Editor wraps Unity batch mode invocations.
type Editor struct {
	Path        string // editor executable
	ProjectDir  string
	BuildMethod string
	Verbose     bool
	Stdout      io.Writer
	Stderr      io.Writer
}

// NewEditor creates an editor runner with default output writers.
func NewEditor(path, projectDir string, verbose bool) *Editor {
	return &Editor{
		Path:        path,
		ProjectDir:  projectDir,
		BuildMethod: DefaultBuildMethod,
		Verbose:     verbose,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}
}

// ExecuteMethod runs a static editor method in batch mode and waits for the
// editor to quit.
func (e *Editor) ExecuteMethod(ctx context.Context, method string) error {
	return e.run(ctx, e.baseArgs(method))
}

// BuildPlayer writes the settings manifest, runs the build entry method and
// reads back the editor's report. An error is returned only when the build
// could not be attempted; a failed build is reported through Report.
func (e *Editor) BuildPlayer(ctx context.Context, opts PlayerOptions) (*Report, error) {
	work, err := os.MkdirTemp("", "playerforge-*")
	if err != nil {
		return nil, fmt.Errorf("creating build work dir: %w", err)
	}
	defer os.RemoveAll(work)

	reportPath := filepath.Join(work, "report.json")
	manifestPath := filepath.Join(work, "manifest.json")
	if err := NewManifest(opts, reportPath).Write(manifestPath); err != nil {
		return nil, err
	}

	runErr := e.run(ctx, e.buildArgs(opts.Target, manifestPath, reportPath))

	if errors.Is(runErr, ErrEditorNotStarted) {
		return nil, runErr
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	report, ok, err := readReport(reportPath)
	if err != nil {
		return nil, err
	}
	if ok {
		return report, nil
	}

	// No report: the process exit status decides.
	if runErr != nil {
		return &Report{Result: ResultFailed, Detail: runErr.Error()}, nil
	}
	return &Report{Result: ResultSucceeded, TotalSize: sizeOf(opts.LocationPath)}, nil
}

func (e *Editor) run(ctx context.Context, args []string) error {
	if e.Verbose {
		fmt.Fprintf(e.stderr(), "exec: %s %s\n", e.Path, strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, e.Path, args...)
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", ErrEditorNotStarted, err)
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("unity %s: %w", args[len(args)-1], err)
	}
	return nil
}

// baseArgs constructs the batch mode argument list for a method call.
// The method name is always last.
func (e *Editor) baseArgs(method string) []string {
	return []string{
		"-batchmode",
		"-nographics",
		"-quit",
		"-projectPath", e.ProjectDir,
		"-logFile", "-",
		"-executeMethod", method,
	}
}

// buildArgs adds the player build switches ahead of the method.
func (e *Editor) buildArgs(target BuildTarget, manifestPath, reportPath string) []string {
	method := e.BuildMethod
	if method == "" {
		method = DefaultBuildMethod
	}
	base := e.baseArgs(method)
	head := base[:len(base)-2]
	args := make([]string, 0, len(base)+6)
	args = append(args, head...)
	args = append(args,
		"-buildTarget", string(target),
		"-playerforgeManifest", manifestPath,
		"-playerforgeReport", reportPath,
		"-executeMethod", method,
	)
	return args
}

func (e *Editor) stderr() io.Writer {
	if e.Stderr == nil {
		return io.Discard
	}
	return e.Stderr
}

// sizeOf returns the size of a file, or the total size of a directory tree.
func sizeOf(path string) uint64 {
	var total uint64
	_ = filepath.Walk(path, func(_ string, fi os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !fi.IsDir() {
			total += uint64(fi.Size())
		}
		return nil
	})
	return total
}
