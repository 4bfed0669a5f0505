// Package resolver runs an optional native dependency resolution step before
// a player build. Resolvers are looked up by name; a resolver that is not
// registered or whose plugin is not installed in the project is skipped, and
// a resolver that fails never aborts the build.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrPluginMissing reports that the resolution plugin, its entry type, or
// its resolve operation is not available. It is not a failure.
var ErrPluginMissing = errors.New("resolver: plugin not available")

// Resolver performs dependency resolution synchronously. force requests an
// immediate fetch without prompting.
type Resolver interface {
	Resolve(ctx context.Context, force bool) error
}

// MethodRunner executes a static editor method in the project.
type MethodRunner interface {
	ExecuteMethod(ctx context.Context, method string) error
}

// Host is what a resolver factory may use from the build environment.
type Host struct {
	ProjectDir string
	Runner     MethodRunner
	Method     string // overrides the resolver's default entry method
}

// Factory constructs a resolver for a host. It returns ErrPluginMissing
// when the project does not carry the plugin.
type Factory func(Host) (Resolver, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register adds a resolver factory to the global registry.
// Called from init() in each resolver file.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("resolver: duplicate registration: %s", name))
	}
	registry[name] = f
}

// Lookup returns the named factory.
func Lookup(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// All returns sorted names of all registered resolvers.
func All() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Outcome classifies a resolution attempt.
type Outcome int

const (
	Resolved Outcome = iota
	SkippedMissingPlugin
	FailedNonFatal
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case SkippedMissingPlugin:
		return "skipped"
	case FailedNonFatal:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the outcome of one resolution attempt.
type Result struct {
	Outcome Outcome
	Reason  string
}

// DependencyResolver resolves dependencies through a named resolver.
type DependencyResolver struct {
	Name string
	Host Host
	Log  logrus.FieldLogger
}

// Resolve looks up the named resolver and runs it. It never returns an error:
// absence yields SkippedMissingPlugin and any error or panic from the
// resolver yields FailedNonFatal.
func (d *DependencyResolver) Resolve(ctx context.Context) Result {
	log := d.logger().WithField("resolver", d.Name)

	factory, ok := Lookup(d.Name)
	if !ok {
		res := Result{Outcome: SkippedMissingPlugin, Reason: fmt.Sprintf("resolver %q not registered", d.Name)}
		log.Warnf("%s, skipping dependency resolution", res.Reason)
		return res
	}

	res := run(ctx, factory, d.Host)
	switch res.Outcome {
	case Resolved:
		log.Info("dependency resolution completed")
	case SkippedMissingPlugin:
		log.Warnf("%s, skipping dependency resolution", res.Reason)
	case FailedNonFatal:
		log.WithField("reason", res.Reason).Warn("dependency resolution failed, continuing build without it")
	}
	return res
}

// run constructs and invokes a resolver, converting every failure mode into
// a Result.
func run(ctx context.Context, factory Factory, host Host) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Outcome: FailedNonFatal,
				Reason:  fmt.Sprintf("panic: %v\n%s", r, debug.Stack()),
			}
		}
	}()

	r, err := factory(host)
	if err != nil {
		return classify(err)
	}
	if r == nil {
		return Result{Outcome: SkippedMissingPlugin, Reason: ErrPluginMissing.Error()}
	}
	if err := r.Resolve(ctx, true); err != nil {
		return classify(err)
	}
	return Result{Outcome: Resolved}
}

func classify(err error) Result {
	if errors.Is(err, ErrPluginMissing) {
		return Result{Outcome: SkippedMissingPlugin, Reason: err.Error()}
	}
	return Result{Outcome: FailedNonFatal, Reason: err.Error()}
}

func (d *DependencyResolver) logger() logrus.FieldLogger {
	if d.Log == nil {
		l := logrus.New()
		l.Out = io.Discard
		return l
	}
	return d.Log
}
