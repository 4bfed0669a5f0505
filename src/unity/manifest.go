package unity

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sofmeright/playerforge/src/profile"
)

// manifestVersion is bumped when the editor-side contract changes.
const manifestVersion = 1

// Manifest is the settings file the editor entry method reads before it
// builds. It replaces any editor-global build settings for this build.
type Manifest struct {
	Version      int              `json:"version"`
	RunID        string           `json:"runId,omitempty"`
	BuildTarget  BuildTarget      `json:"buildTarget"`
	Scenes       []string         `json:"scenes"`
	LocationPath string           `json:"locationPathName"`
	Options      []string         `json:"options"`
	Profile      *profile.Profile `json:"profile"`
	ReportPath   string           `json:"reportPath"`
}

// NewManifest builds the manifest for a request.
func NewManifest(opts PlayerOptions, reportPath string) *Manifest {
	scenes := opts.Scenes
	if scenes == nil {
		scenes = []string{}
	}
	options := opts.Options.Names()
	if options == nil {
		options = []string{}
	}
	return &Manifest{
		Version:      manifestVersion,
		RunID:        opts.RunID,
		BuildTarget:  opts.Target,
		Scenes:       scenes,
		LocationPath: opts.LocationPath,
		Options:      options,
		Profile:      opts.Profile,
		ReportPath:   reportPath,
	}
}

// Write stores the manifest as JSON at path.
func (m *Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding build manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing build manifest: %w", err)
	}
	return nil
}

// readReport loads the report the editor wrote. ok is false when no report
// exists.
func readReport(path string) (r *Report, ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading build report: %w", err)
	}
	r = &Report{}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, false, fmt.Errorf("parsing build report: %w", err)
	}
	if r.Result == "" {
		r.Result = ResultUnknown
	}
	return r, true, nil
}
