package config

import (
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/sofmeright/playerforge/src/profile"
)

// envBindings maps snapshot keys to the CI environment variable names.
var envBindings = map[string]string{
	"prefix":              "BUILD_PREFIX",
	"build_dir":           "BUILD_DIR",
	"workspace":           "WORKSPACE",
	"build_type":          "BUILD_TYPE",
	"variant":             "CONFIG",
	"branch":              "GIT_BRANCH",
	"keystore":            "KEYSTORE",
	"keystore_pass":       "KEYSTORE_PASS",
	"alias_name":          "ALIAS_NAME",
	"alias_pass":          "ALIAS_PASS",
	"android_sdk_root":    "ANDROID_SDK_ROOT",
	"android_ndk_root":    "ANDROID_NDK_ROOT",
	"java_home":           "JAVA_HOME",
	"gradle_path":         "GRADLE_PATH",
	"ios_team_id":         "IOS_TEAM_ID",
	"ios_provision":       "IOS_PROVISION_PROFILE",
	"app_version":         "APP_VERSION",
	"bundle_version_code": "BUNDLE_VERSION_CODE",
	"unity_editor":        "UNITY_EDITOR",
}

// Env is a snapshot of the build environment, taken once per invocation.
// Every value is optional.
type Env struct {
	Prefix    string
	BuildDir  string
	Workspace string
	BuildType string
	Variant   string
	Branch    string

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

	AppVersion        string
	BundleVersionCode string
	UnityEditor       string
}

// LoadEnv reads the process environment.
func LoadEnv() *Env {
	v := viper.New()
	for key, name := range envBindings {
		_ = v.BindEnv(key, name)
	}
	return envFrom(v)
}

func envFrom(v *viper.Viper) *Env {
	return &Env{
		Prefix:    v.GetString("prefix"),
		BuildDir:  v.GetString("build_dir"),
		Workspace: v.GetString("workspace"),
		BuildType: v.GetString("build_type"),
		Variant:   v.GetString("variant"),
		Branch:    v.GetString("branch"),

		KeystorePath:     v.GetString("keystore"),
		KeystorePassword: v.GetString("keystore_pass"),
		KeyAliasName:     v.GetString("alias_name"),
		KeyAliasPassword: v.GetString("alias_pass"),

		AndroidSDKRoot: v.GetString("android_sdk_root"),
		AndroidNDKRoot: v.GetString("android_ndk_root"),
		JavaHome:       v.GetString("java_home"),
		GradlePath:     v.GetString("gradle_path"),

		IOSTeamID:              v.GetString("ios_team_id"),
		IOSProvisioningProfile: v.GetString("ios_provision"),

		AppVersion:        v.GetString("app_version"),
		BundleVersionCode: v.GetString("bundle_version_code"),
		UnityEditor:       v.GetString("unity_editor"),
	}
}

// OutputDir resolves the artifact directory: BUILD_DIR, then the config
// value, then "$WORKSPACE/Builds" (WORKSPACE defaults to ".").
func (e *Env) OutputDir(cfg *Config) string {
	if e.BuildDir != "" {
		return e.BuildDir
	}
	if cfg != nil && cfg.Naming.OutputDir != "" {
		return cfg.Naming.OutputDir
	}
	ws := e.Workspace
	if ws == "" {
		ws = "."
	}
	return filepath.Join(ws, "Builds")
}

// ArtifactPrefix resolves the artifact prefix: BUILD_PREFIX, then config.
func (e *Env) ArtifactPrefix(cfg *Config) string {
	if e.Prefix != "" {
		return e.Prefix
	}
	if cfg != nil {
		return cfg.Naming.Prefix
	}
	return ""
}

// EditorPath resolves the editor executable: UNITY_EDITOR, then config.
func (e *Env) EditorPath(cfg *Config) string {
	if e.UnityEditor != "" {
		return e.UnityEditor
	}
	return cfg.Editor.Path
}

// ProfileInputs extracts the values the profile configurator consumes.
func (e *Env) ProfileInputs() profile.Inputs {
	return profile.Inputs{
		KeystorePath:           e.KeystorePath,
		KeystorePassword:       e.KeystorePassword,
		KeyAliasName:           e.KeyAliasName,
		KeyAliasPassword:       e.KeyAliasPassword,
		AndroidSDKRoot:         e.AndroidSDKRoot,
		AndroidNDKRoot:         e.AndroidNDKRoot,
		JavaHome:               e.JavaHome,
		GradlePath:             e.GradlePath,
		IOSTeamID:              e.IOSTeamID,
		IOSProvisioningProfile: e.IOSProvisioningProfile,
	}
}
