package profile

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Inputs are the environment-supplied values the configurator consumes.
// They only feed signing and tool path settings; the flag matrix never
// depends on them.
type Inputs struct {
	KeystorePath     string
	KeystorePassword string
	KeyAliasName     string
	KeyAliasPassword string

	AndroidSDKRoot string
	AndroidNDKRoot string
	JavaHome       string
	GradlePath     string

	IOSTeamID              string
	IOSProvisioningProfile string
}

// Configurator builds profiles. The zero value is usable and logs nowhere.
type Configurator struct {
	Log logrus.FieldLogger

	// stat checks path existence; replaced in tests.
	stat func(string) (os.FileInfo, error)
}

// NewConfigurator returns a configurator logging to log.
func NewConfigurator(log logrus.FieldLogger) *Configurator {
	return &Configurator{Log: log}
}

// Configure returns the profile for target. It never fails: missing signing
// inputs degrade to an unsigned profile and are recorded as warnings.
// Configure panics only for a Target value outside Targets(), which
// ParseTarget never produces.
func (c *Configurator) Configure(target Target, in Inputs) *Profile {
	r, ok := matrix[target]
	if !ok {
		panic(fmt.Sprintf("profile: no matrix row for target %q", target))
	}

	p := &Profile{
		Target:           target,
		Platform:         target.Platform(),
		PackageFormat:    r.format,
		Development:      r.development,
		AllowDebugging:   r.development,
		ConnectProfiler:  r.development,
		WaitForDebugger:  r.development,
		Minification:     r.minify,
		ScriptingBackend: r.backend,
		ScriptDebugging:  r.development,
		StackTraces:      r.stackTraces,
		Configuration:    r.configuration,
	}
	if len(r.architectures) > 0 {
		p.Architectures = append([]string(nil), r.architectures...)
	}

	switch p.Platform {
	case PlatformAndroid:
		c.configureAndroid(p, in)
	case PlatformIOS:
		c.configureIOS(p, in)
	}

	log := c.logger().WithField("target", string(target))
	log.WithFields(logrus.Fields{
		"format":       p.PackageFormat,
		"development":  p.Development,
		"minification": p.Minification,
		"backend":      backendLabel(p.ScriptingBackend),
	}).Info("build settings configured")
	for _, w := range p.Warnings {
		log.Warn(w)
	}
	return p
}

func (c *Configurator) configureAndroid(p *Profile, in Inputs) {
	if in.KeystorePath != "" && c.exists(in.KeystorePath) {
		p.AndroidSigning = &AndroidSigning{
			KeystorePath:     in.KeystorePath,
			KeystorePassword: in.KeystorePassword,
			KeyAlias:         in.KeyAliasName,
			KeyAliasPassword: in.KeyAliasPassword,
		}
	} else {
		p.Warnings = append(p.Warnings, fmt.Sprintf("android keystore not found: %q, building unsigned", in.KeystorePath))
	}

	tools := AndroidToolPaths{
		SDKRoot:    in.AndroidSDKRoot,
		NDKRoot:    in.AndroidNDKRoot,
		JavaHome:   in.JavaHome,
		GradlePath: in.GradlePath,
	}
	for _, tp := range []struct{ name, path string }{
		{"android sdk root", tools.SDKRoot},
		{"android ndk root", tools.NDKRoot},
		{"java home", tools.JavaHome},
		{"gradle path", tools.GradlePath},
	} {
		if tp.path != "" && !c.exists(tp.path) {
			p.Warnings = append(p.Warnings, fmt.Sprintf("%s does not exist: %s", tp.name, tp.path))
		}
	}
	if tools != (AndroidToolPaths{}) {
		p.ToolPaths = &tools
	}
}

func (c *Configurator) configureIOS(p *Profile, in Inputs) {
	if in.IOSTeamID == "" && in.IOSProvisioningProfile == "" {
		p.Warnings = append(p.Warnings, "ios team id and provisioning profile not set, using project signing settings")
		return
	}
	p.IOSSigning = &IOSSigning{
		TeamID:                in.IOSTeamID,
		ProvisioningProfileID: in.IOSProvisioningProfile,
	}
}

func (c *Configurator) exists(path string) bool {
	stat := c.stat
	if stat == nil {
		stat = os.Stat
	}
	_, err := stat(path)
	return err == nil
}

func (c *Configurator) logger() logrus.FieldLogger {
	if c.Log == nil {
		l := logrus.New()
		l.Out = io.Discard
		return l
	}
	return c.Log
}

func backendLabel(b ScriptingBackend) string {
	if b == BackendProjectDefault {
		return "project"
	}
	return string(b)
}
