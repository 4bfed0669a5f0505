package profile

import (
	"fmt"
	"strings"
)

// Target identifies one platform + variant combination. It is selected once
// per invocation and never changes afterwards.
type Target string

const (
	AndroidAPK         Target = "android-apk"
	AndroidAAB         Target = "android-aab"
	AndroidDevelopment Target = "android-development"
	IOSRelease         Target = "ios"
	IOSDevelopment     Target = "ios-development"
	IOSAppStore        Target = "ios-appstore"
)

// Platform is the operating system family a target builds for.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

// Targets returns every target in declaration order.
func Targets() []Target {
	return []Target{
		AndroidAPK,
		AndroidAAB,
		AndroidDevelopment,
		IOSRelease,
		IOSDevelopment,
		IOSAppStore,
	}
}

// legacyAliases maps older entry point names onto their current target.
var legacyAliases = map[string]Target{
	"android": AndroidAPK,
}

// ParseTarget resolves a target name (case-insensitive), including legacy aliases.
func ParseTarget(name string) (Target, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, t := range Targets() {
		if string(t) == n {
			return t, nil
		}
	}
	if t, ok := legacyAliases[n]; ok {
		return t, nil
	}
	return "", fmt.Errorf("profile: unknown build target %q", name)
}

// Platform returns the platform family of the target.
func (t Target) Platform() Platform {
	switch t {
	case IOSRelease, IOSDevelopment, IOSAppStore:
		return PlatformIOS
	default:
		return PlatformAndroid
	}
}

// Title is the human label used in log banners.
func (t Target) Title() string {
	switch t {
	case AndroidAPK:
		return "Android APK"
	case AndroidAAB:
		return "Android AAB"
	case AndroidDevelopment:
		return "Android Development APK"
	case IOSRelease:
		return "iOS IPA"
	case IOSDevelopment:
		return "iOS Development IPA"
	case IOSAppStore:
		return "iOS App Store"
	default:
		return string(t)
	}
}
