// Package health runs the readiness checks of the components a command
// depends on. The status command prints the report.
package health

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jsamuelsen11/teamspace/internal/ports"
)

var _ ports.HealthRegistry = (*Registry)(nil)

// Registry holds one checker per component name. Registering a second
// checker under a taken name replaces the first. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]ports.HealthChecker
	timeout  time.Duration
}

type Option func(*Registry)

// WithTimeout bounds each check. Zero means the caller's context alone
// decides.
func WithTimeout(d time.Duration) Option {
	return func(r *Registry) { r.timeout = d }
}

func New(opts ...Option) *Registry {
	r := &Registry{checkers: make(map[string]ports.HealthChecker)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) Register(checker ports.HealthChecker) {
	name := checker.Name()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

// CheckAll runs every check outside the lock and returns the outcome per
// component name.
func (r *Registry) CheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	checkers := maps.Clone(r.checkers)
	r.mu.RUnlock()

	results := make(map[string]error, len(checkers))
	for name, c := range checkers {
		results[name] = r.check(ctx, c)
	}
	return results
}

func (r *Registry) check(ctx context.Context, c ports.HealthChecker) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return c.HealthCheck(ctx)
}

// Result is the outcome of one named check.
type Result struct {
	Name string
	Err  error
}

func (r Result) Healthy() bool { return r.Err == nil }

// Report runs every check and returns the results ordered by name, plus
// whether all of them passed. An empty registry is healthy.
func Report(ctx context.Context, reg ports.HealthRegistry) ([]Result, bool) {
	checks := reg.CheckAll(ctx)
	ok := true
	results := make([]Result, 0, len(checks))
	for _, name := range slices.Sorted(maps.Keys(checks)) {
		err := checks[name]
		ok = ok && err == nil
		results = append(results, Result{Name: name, Err: err})
	}
	return results, ok
}
