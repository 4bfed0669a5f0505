package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// EDM4UMethod is the editor entry point that forces a synchronous Android
// dependency resolution in the External Dependency Manager. Where it returns
// before resolution finishes, point dependencies.method at a static editor
// wrapper calling PlayServicesResolver.ResolveSync(true).
const EDM4UMethod = "GooglePlayServices.PlayServicesResolver.MenuForceResolve"

// edm4uPackage is the UPM package id of the External Dependency Manager.
const edm4uPackage = "com.google.external-dependency-manager"

// edm4uDirs are the asset folders the plugin installs into when imported
// as a .unitypackage.
var edm4uDirs = []string{
	"Assets/ExternalDependencyManager",
	"Assets/PlayServicesResolver",
}

func init() {
	Register("edm4u", newEDM4U)
	Register("none", func(Host) (Resolver, error) {
		return nil, fmt.Errorf("resolution disabled: %w", ErrPluginMissing)
	})
}

type edm4u struct {
	runner MethodRunner
	method string
}

func newEDM4U(h Host) (Resolver, error) {
	if h.Runner == nil {
		return nil, fmt.Errorf("edm4u: no editor available: %w", ErrPluginMissing)
	}
	found, err := hasEDM4U(h.ProjectDir)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("edm4u: plugin not installed in %s: %w", h.ProjectDir, ErrPluginMissing)
	}
	method := h.Method
	if method == "" {
		method = EDM4UMethod
	}
	return &edm4u{runner: h.Runner, method: method}, nil
}

// Resolve runs the force-resolve entry point. The editor resolves without
// prompting in batch mode, so force only documents intent here.
func (e *edm4u) Resolve(ctx context.Context, force bool) error {
	if !force {
		return nil
	}
	if err := e.runner.ExecuteMethod(ctx, e.method); err != nil {
		return fmt.Errorf("edm4u: %s: %w", e.method, err)
	}
	return nil
}

// hasEDM4U reports whether the project carries the plugin, either as an
// imported asset folder or as a package manifest dependency.
func hasEDM4U(projectDir string) (bool, error) {
	for _, d := range edm4uDirs {
		fi, err := os.Stat(filepath.Join(projectDir, filepath.FromSlash(d)))
		if err == nil && fi.IsDir() {
			return true, nil
		}
	}

	data, err := os.ReadFile(filepath.Join(projectDir, "Packages", "manifest.json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("edm4u: reading package manifest: %w", err)
	}
	var manifest struct {
		Dependencies map[string]string `json:"dependencies"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return false, fmt.Errorf("edm4u: parsing package manifest: %w", err)
	}
	_, ok := manifest.Dependencies[edm4uPackage]
	return ok, nil
}
