// Package unity talks to the Unity editor: it reads the project's scene list
// and player settings, and runs the editor in batch mode to resolve
// dependencies or build a player from a settings manifest.
package unity

import "fmt"

const (
	editorBuildSettingsAsset = "ProjectSettings/EditorBuildSettings.asset"
	projectSettingsAsset     = "ProjectSettings/ProjectSettings.asset"
)

// Project is a Unity project on disk.
type Project struct {
	Dir string
}

// ListScenes reads the project's build scene list.
func (p Project) ListScenes() ([]Scene, error) {
	return ReadScenes(p.Dir)
}

// Scene is one entry of the project's build scene list.
type Scene struct {
	Path    string
	Enabled bool
}

// ReadScenes returns the build scene list in project order.
func ReadScenes(projectDir string) ([]Scene, error) {
	var doc struct {
		EditorBuildSettings struct {
			Scenes []struct {
				Enabled int    `yaml:"enabled"`
				Path    string `yaml:"path"`
			} `yaml:"m_Scenes"`
		} `yaml:"EditorBuildSettings"`
	}
	if err := readAsset(projectDir, editorBuildSettingsAsset, &doc); err != nil {
		return nil, fmt.Errorf("reading scene list: %w", err)
	}

	scenes := make([]Scene, 0, len(doc.EditorBuildSettings.Scenes))
	for _, s := range doc.EditorBuildSettings.Scenes {
		scenes = append(scenes, Scene{Path: s.Path, Enabled: s.Enabled != 0})
	}
	return scenes, nil
}

// EnabledScenes filters scenes to the enabled ones, keeping order.
func EnabledScenes(scenes []Scene) []string {
	var paths []string
	for _, s := range scenes {
		if s.Enabled {
			paths = append(paths, s.Path)
		}
	}
	return paths
}

// PlayerSettings holds the version fields artifact naming needs.
type PlayerSettings struct {
	ProductName       string
	BundleVersion     string
	BundleVersionCode string
}

// ReadPlayerSettings reads version information from ProjectSettings.asset.
func ReadPlayerSettings(projectDir string) (*PlayerSettings, error) {
	var doc struct {
		PlayerSettings struct {
			ProductName       string `yaml:"productName"`
			BundleVersion     string `yaml:"bundleVersion"`
			BundleVersionCode string `yaml:"AndroidBundleVersionCode"`
		} `yaml:"PlayerSettings"`
	}
	if err := readAsset(projectDir, projectSettingsAsset, &doc); err != nil {
		return nil, fmt.Errorf("reading player settings: %w", err)
	}
	return &PlayerSettings{
		ProductName:       doc.PlayerSettings.ProductName,
		BundleVersion:     doc.PlayerSettings.BundleVersion,
		BundleVersionCode: doc.PlayerSettings.BundleVersionCode,
	}, nil
}
