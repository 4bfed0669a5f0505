// Package profile turns a build target into the complete set of
// build-affecting settings the player build observes. The mapping is
// table-driven (see matrix.go) and pure: the same target and inputs always
// yield the same Profile.
package profile

import "strings"

// PackageFormat is the kind of artifact the player build emits.
type PackageFormat string

const (
	FormatAPK          PackageFormat = "apk"
	FormatAAB          PackageFormat = "aab"
	FormatXcodeProject PackageFormat = "xcode"
)

// Minification selects which Android build type runs code shrinking.
// The values are mutually exclusive.
type Minification string

const (
	MinifyNone        Minification = "none"
	MinifyDebugOnly   Minification = "debug"
	MinifyReleaseOnly Minification = "release"
)

// ScriptingBackend overrides the project's scripting backend. The empty
// value keeps whatever the project is configured with.
type ScriptingBackend string

const (
	BackendProjectDefault ScriptingBackend = ""
	BackendIL2CPP         ScriptingBackend = "il2cpp"
)

// StackTraceLevel is the amount of stack trace attached to a log entry.
// The empty value keeps the project setting.
type StackTraceLevel string

const (
	StackTraceDefault    StackTraceLevel = ""
	StackTraceNone       StackTraceLevel = "none"
	StackTraceScriptOnly StackTraceLevel = "script-only"
	StackTraceFull       StackTraceLevel = "full"
)

// StackTraces holds the per-log-type stack trace levels.
type StackTraces struct {
	Log     StackTraceLevel `json:"log,omitempty"`
	Warning StackTraceLevel `json:"warning,omitempty"`
	Error   StackTraceLevel `json:"error,omitempty"`
}

// AndroidSigning is the keystore configuration for the Android family.
type AndroidSigning struct {
	KeystorePath     string `json:"keystorePath"`
	KeystorePassword string `json:"keystorePassword"`
	KeyAlias         string `json:"keyAlias"`
	KeyAliasPassword string `json:"keyAliasPassword"`
}

// IOSSigning is the code signing configuration for the iOS family.
// Either field may be empty.
type IOSSigning struct {
	TeamID                string `json:"teamId,omitempty"`
	ProvisioningProfileID string `json:"provisioningProfileId,omitempty"`
}

// AndroidToolPaths are forwarded verbatim to the editor preferences.
type AndroidToolPaths struct {
	SDKRoot    string `json:"sdkRoot,omitempty"`
	NDKRoot    string `json:"ndkRoot,omitempty"`
	JavaHome   string `json:"javaHome,omitempty"`
	GradlePath string `json:"gradlePath,omitempty"`
}

// Profile is every build-affecting setting for one invocation. It is owned
// by the caller of Configure and treated as read-only afterwards.
type Profile struct {
	Target          Target        `json:"target"`
	Platform        Platform      `json:"platform"`
	PackageFormat   PackageFormat `json:"packageFormat"`
	Development     bool          `json:"development"`
	AllowDebugging  bool          `json:"allowDebugging"`
	ConnectProfiler bool          `json:"connectProfiler"`
	WaitForDebugger bool          `json:"waitForManagedDebugger"`
	ScriptsOnly     bool          `json:"buildScriptsOnly"`
	Minification    Minification  `json:"minification"`

	ScriptingBackend ScriptingBackend `json:"scriptingBackend,omitempty"`
	ScriptDebugging  bool             `json:"scriptDebugging"`
	Architectures    []string         `json:"architectures,omitempty"`
	StackTraces      StackTraces      `json:"stackTraces"`

	// Configuration is the label the native toolchain uses ("Release", "Debug").
	Configuration string `json:"configuration"`

	AndroidSigning *AndroidSigning   `json:"androidSigning,omitempty"`
	IOSSigning     *IOSSigning       `json:"iosSigning,omitempty"`
	ToolPaths      *AndroidToolPaths `json:"toolPaths,omitempty"`

	// Warnings lists recoverable problems found while configuring
	// (missing keystore, missing tool paths). They never fail a build.
	Warnings []string `json:"-"`
}

// Signed reports whether the profile carries any signing configuration.
func (p *Profile) Signed() bool {
	switch p.Platform {
	case PlatformAndroid:
		return p.AndroidSigning != nil
	case PlatformIOS:
		return p.IOSSigning != nil
	}
	return false
}

// BuildOptions are the option flags handed to the player build.
type BuildOptions uint8

const (
	OptionDevelopment BuildOptions = 1 << iota
	OptionAllowDebugging
	OptionConnectProfiler
)

// Has reports whether all bits of o are set.
func (b BuildOptions) Has(o BuildOptions) bool {
	return b&o == o
}

// Names returns the set flags in a stable order.
func (b BuildOptions) Names() []string {
	var names []string
	if b.Has(OptionDevelopment) {
		names = append(names, "Development")
	}
	if b.Has(OptionAllowDebugging) {
		names = append(names, "AllowDebugging")
	}
	if b.Has(OptionConnectProfiler) {
		names = append(names, "ConnectWithProfiler")
	}
	return names
}

func (b BuildOptions) String() string {
	if b == 0 {
		return "None"
	}
	return strings.Join(b.Names(), "|")
}

// Options derives the build option flags from the profile. Development
// turns on all three flags; a non-development profile sets none.
func (p *Profile) Options() BuildOptions {
	if !p.Development {
		return 0
	}
	return OptionDevelopment | OptionAllowDebugging | OptionConnectProfiler
}
