package build

import (
	"fmt"

	"github.com/sofmeright/playerforge/src/artifact"
	"github.com/sofmeright/playerforge/src/profile"
	"github.com/sofmeright/playerforge/src/unity"
)

// Plan is what a build would do, computed without resolving dependencies or
// invoking the editor.
type Plan struct {
	Target   profile.Target
	Profile  *profile.Profile
	Artifact *artifact.Descriptor
	Path     string
	Location string
	Scenes   []string
	Options  profile.BuildOptions
}

// Plan configures the profile and resolves the artifact path for req. The
// output directory is created as a side effect of naming. A missing scene
// list is not an error here; Scenes is left empty.
func (o *Orchestrator) Plan(req Request) (*Plan, error) {
	if _, err := profile.ParseTarget(string(req.Target)); err != nil {
		return nil, err
	}
	p := o.Configurator.Configure(req.Target, req.Inputs)

	desc, err := o.Namer.Describe(p, req.Facts)
	if err != nil {
		return nil, fmt.Errorf("resolving artifact path: %w", err)
	}

	plan := &Plan{
		Target:   req.Target,
		Profile:  p,
		Artifact: desc,
		Path:     desc.Path(),
		Location: unity.PlayerLocation(p, desc.Path()),
		Options:  p.Options(),
	}
	if o.Scenes != nil {
		if scenes, err := o.Scenes.ListScenes(); err == nil {
			plan.Scenes = unity.EnabledScenes(scenes)
		} else {
			o.logger().WithError(err).Warn("scene list unavailable")
		}
	}
	return plan, nil
}
