// Package artifact computes collision-free output paths for build artifacts.
//
// A name is "{baseName}_{seq}.{ext}" where baseName encodes prefix, branch and
// either the build date or the app version, and seq is one more than the
// highest sequence already present in the output directory.
package artifact

import (
	"fmt"
	"strings"
	"time"

	"github.com/sofmeright/playerforge/src/profile"
)

// DefaultCanonicalBranch is the branch left out of iOS artifact names.
const DefaultCanonicalBranch = "master"

// dateLayout renders the build date as YYMMDD.
const dateLayout = "060102"

// Facts are the environment values that feed the artifact name.
type Facts struct {
	Dir               string    // output directory
	Prefix            string    // artifact name prefix
	Branch            string    // raw source control branch, e.g. "origin/main"
	BuildType         string    // "APK", "AAB" or "" (follow the profile)
	Variant           string    // variant label; "Development" adds the debug marker
	AppVersion        string    // e.g. "1.4.2"
	BundleVersionCode string    // Android version code, AAB names only
	Date              time.Time // build date; zero means now
	CanonicalBranch   string    // omitted from iOS names; "" means DefaultCanonicalBranch
}

// Kind is the naming template an artifact uses.
type Kind string

const (
	KindAndroidAAB Kind = "android-aab"
	KindAndroidAPK Kind = "android-apk"
	KindIOS        Kind = "ios"
)

// SanitizeBranch strips a leading "origin/" and nothing else.
func SanitizeBranch(raw string) string {
	return strings.TrimPrefix(raw, "origin/")
}

// flatten keeps prefix, branch and version text from introducing path
// separators or scan wildcards into a file name.
var flatten = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	"*", "-",
)

// KindFor selects the naming template. iOS ignores the build-type switch.
// Development Android builds are always APKs; other Android builds follow
// the switch when set, else the profile's package format.
func KindFor(p *profile.Profile, buildType string) Kind {
	if p.Platform == profile.PlatformIOS {
		return KindIOS
	}
	if p.Development {
		return KindAndroidAPK
	}
	switch strings.ToUpper(strings.TrimSpace(buildType)) {
	case "AAB":
		return KindAndroidAAB
	case "APK":
		return KindAndroidAPK
	}
	if p.PackageFormat == profile.FormatAAB {
		return KindAndroidAAB
	}
	return KindAndroidAPK
}

// Extension returns the file extension (without dot) for a naming kind.
func (k Kind) Extension() string {
	switch k {
	case KindAndroidAAB:
		return "aab"
	case KindIOS:
		return "ipa"
	default:
		return "apk"
	}
}

// BaseName renders the base name for an artifact: no sequence number and
// no extension.
func BaseName(p *profile.Profile, f Facts) string {
	kind := KindFor(p, f.BuildType)
	prefix := flatten.Replace(f.Prefix)
	branch := flatten.Replace(SanitizeBranch(f.Branch))
	date := f.Date.Format(dateLayout)

	switch kind {
	case KindAndroidAAB:
		return fmt.Sprintf("%s-%s_%s_%s", prefix, branch,
			flatten.Replace(f.AppVersion), flatten.Replace(f.BundleVersionCode))
	case KindIOS:
		canonical := f.CanonicalBranch
		if canonical == "" {
			canonical = DefaultCanonicalBranch
		}
		suffix := ""
		if branch != canonical {
			suffix = "-" + branch
		}
		return fmt.Sprintf("%s%s_%s", prefix, suffix, date)
	default:
		debug := ""
		if p.Development || strings.EqualFold(f.Variant, "Development") {
			debug = "_debug"
		}
		return fmt.Sprintf("%s-%s_%s%s", prefix, branch, date, debug)
	}
}

// FileName renders "{base}_{seq}.{ext}" with at least two sequence digits.
func FileName(base string, seq int, ext string) string {
	return fmt.Sprintf("%s_%02d.%s", base, seq, ext)
}
