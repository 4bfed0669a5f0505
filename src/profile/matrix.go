package profile

// row is one line of the target matrix. Fields left zero stay disabled.
type row struct {
	format        PackageFormat
	development   bool
	minify        Minification
	backend       ScriptingBackend
	architectures []string
	stackTraces   StackTraces
	configuration string
}

// matrix is the single source of per-target build settings. Debugging,
// profiler connection and waiting for a debugger all follow development.
var matrix = map[Target]row{
	AndroidAPK: {
		format:        FormatAPK,
		minify:        MinifyReleaseOnly,
		configuration: "Release",
	},
	AndroidAAB: {
		format:        FormatAAB,
		minify:        MinifyReleaseOnly,
		configuration: "Release",
	},
	AndroidDevelopment: {
		format:        FormatAPK,
		development:   true,
		minify:        MinifyDebugOnly,
		backend:       BackendIL2CPP,
		architectures: []string{"ARM64"},
		stackTraces: StackTraces{
			Log:     StackTraceScriptOnly,
			Warning: StackTraceScriptOnly,
			Error:   StackTraceFull,
		},
		configuration: "Debug",
	},
	IOSRelease: {
		format:        FormatXcodeProject,
		minify:        MinifyNone,
		configuration: "Release",
	},
	IOSDevelopment: {
		format:        FormatXcodeProject,
		development:   true,
		minify:        MinifyNone,
		backend:       BackendIL2CPP,
		configuration: "Release",
	},
	IOSAppStore: {
		format:        FormatXcodeProject,
		minify:        MinifyNone,
		configuration: "Release (App Store)",
	},
}
