package artifact

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sofmeright/playerforge/src/profile"
)

// Descriptor is a resolved artifact slot in an output directory.
type Descriptor struct {
	Dir       string
	BaseName  string
	Extension string
	Kind      Kind

	// Existing holds the sequence numbers already taken, ascending.
	Existing []int
}

// Next returns the sequence number the next artifact should use.
func (d *Descriptor) Next() int {
	if len(d.Existing) == 0 {
		return 1
	}
	return d.Existing[len(d.Existing)-1] + 1
}

// Path returns the full path for the next artifact.
func (d *Descriptor) Path() string {
	return filepath.Join(d.Dir, FileName(d.BaseName, d.Next(), d.Extension))
}

// Namer resolves artifact paths. The zero value is usable.
type Namer struct {
	Log logrus.FieldLogger

	// Now supplies the build date when Facts.Date is zero.
	Now func() time.Time
}

// NewNamer returns a namer logging to log.
func NewNamer(log logrus.FieldLogger) *Namer {
	return &Namer{Log: log}
}

// NextPath returns the first unused artifact path for p in f.Dir. The output
// directory is created when missing; I/O errors are returned unchanged in
// meaning (wrapped with context).
//
// Two processes sharing an output directory can pick the same sequence
// number. Callers must serialize builds per directory.
func (n *Namer) NextPath(p *profile.Profile, f Facts) (string, error) {
	d, err := n.Describe(p, f)
	if err != nil {
		return "", err
	}
	return d.Path(), nil
}

// Describe computes the base name and scans the directory for taken
// sequence numbers.
func (n *Namer) Describe(p *profile.Profile, f Facts) (*Descriptor, error) {
	if f.Date.IsZero() {
		f.Date = n.now()
	}
	kind := KindFor(p, f.BuildType)
	d := &Descriptor{
		Dir:       f.Dir,
		BaseName:  BaseName(p, f),
		Extension: kind.Extension(),
		Kind:      kind,
	}

	log := n.logger().WithFields(logrus.Fields{
		"kind":   kind,
		"branch": SanitizeBranch(f.Branch),
	})
	if f.Prefix == "" {
		log.Warn("artifact prefix is empty")
	}
	if kind == KindAndroidAAB && (f.AppVersion == "" || f.BundleVersionCode == "") {
		log.WithFields(logrus.Fields{
			"version":     f.AppVersion,
			"bundle_code": f.BundleVersionCode,
		}).Warn("app version or bundle version code missing from AAB name")
	}

	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", d.Dir, err)
	}

	existing, err := scanSequences(d.Dir, d.BaseName, d.Extension, p.PackageFormat == profile.FormatXcodeProject)
	if err != nil {
		return nil, err
	}
	d.Existing = existing

	log.WithFields(logrus.Fields{
		"pattern":  d.BaseName + "_*." + d.Extension,
		"existing": len(existing),
		"sequence": fmt.Sprintf("%02d", d.Next()),
	}).Info("artifact name resolved")

	return d, nil
}

// scanSequences lists dir (non-recursively) and returns the sequence numbers
// of entries named "{base}_{digits}.{ext}". With projectDirs set, directories
// named "{base}_{digits}" (exported Xcode projects) count as taken too.
func scanSequences(dir, base, ext string, projectDirs bool) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing output directory %s: %w", dir, err)
	}

	re := regexp.MustCompile(`^` + regexp.QuoteMeta(base) + `_(\d+)$`)
	prefix := base + "_"
	suffix := "." + ext

	seen := map[int]bool{}
	for _, e := range entries {
		name := e.Name()
		var stem string
		switch {
		case !e.IsDir() && strings.HasSuffix(name, suffix):
			stem = strings.TrimSuffix(name, suffix)
		case e.IsDir() && projectDirs:
			stem = name
		default:
			continue
		}
		if !strings.HasPrefix(stem, prefix) {
			continue
		}
		m := re.FindStringSubmatch(stem)
		if m == nil {
			continue
		}
		seq, err := strconv.Atoi(m[1])
		if err != nil {
			continue // out of int range
		}
		seen[seq] = true
	}

	seqs := make([]int, 0, len(seen))
	for s := range seen {
		seqs = append(seqs, s)
	}
	sort.Ints(seqs)
	return seqs, nil
}

func (n *Namer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

func (n *Namer) logger() logrus.FieldLogger {
	if n.Log == nil {
		l := logrus.New()
		l.Out = io.Discard
		return l
	}
	return n.Log
}
