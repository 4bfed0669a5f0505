package build

import (
	"github.com/sirupsen/logrus"

	"github.com/sofmeright/playerforge/src/artifact"
	"github.com/sofmeright/playerforge/src/config"
	"github.com/sofmeright/playerforge/src/gitver"
	"github.com/sofmeright/playerforge/src/unity"
)

// Overrides are command-line values that take precedence over the
// environment and the config file.
type Overrides struct {
	OutputDir string
	Prefix    string
	Branch    string
}

// GatherFacts assembles the artifact naming inputs from flags, environment,
// config and the project itself. Nothing here fails a build: unreadable
// project settings or an unversioned checkout only produce warnings.
func GatherFacts(cfg *config.Config, env *config.Env, o Overrides, log logrus.FieldLogger) artifact.Facts {
	f := artifact.Facts{
		Dir:             firstNonEmpty(o.OutputDir, env.OutputDir(cfg)),
		Prefix:          firstNonEmpty(o.Prefix, env.ArtifactPrefix(cfg)),
		BuildType:       env.BuildType,
		Variant:         env.Variant,
		CanonicalBranch: cfg.Naming.CanonicalBranch,
	}

	branch := gitver.ResolveBranch(firstNonEmpty(o.Branch, env.Branch), cfg.Project, cfg.Naming.UnknownBranch)
	f.Branch = branch.Name
	fields := logrus.Fields{"branch": branch.Name, "source": branch.Source}
	if branch.SHA != "" {
		fields["sha"] = branch.SHA
	}
	log.WithFields(fields).Debug("branch resolved")
	if branch.Source == gitver.SourceFallback {
		log.Warnf("branch unknown, using %q", branch.Name)
	}

	f.AppVersion = env.AppVersion
	f.BundleVersionCode = env.BundleVersionCode
	if f.AppVersion == "" || f.BundleVersionCode == "" {
		ps, err := unity.ReadPlayerSettings(cfg.Project)
		if err != nil {
			log.WithError(err).Warn("player settings unavailable, version fields may be empty")
		} else {
			f.AppVersion = firstNonEmpty(f.AppVersion, ps.BundleVersion)
			f.BundleVersionCode = firstNonEmpty(f.BundleVersionCode, ps.BundleVersionCode)
		}
	}
	if f.AppVersion != "" {
		if _, err := gitver.ParseAppVersion(f.AppVersion); err != nil {
			log.Warn(err.Error())
		}
	}
	return f
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
