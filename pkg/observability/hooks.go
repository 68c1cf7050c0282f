// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline builds and run registry mutations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetBuilderHooks(&myBuilderHooks{})
//	    observability.SetRegistryHooks(&myRegistryHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Builder().OnBuildStart(ctx, "adviser", candidates)
//	// ... converge ...
//	observability.Builder().OnBuildComplete(ctx, passes, included, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Builder Hooks
// =============================================================================

// BuilderHooks receives events from the pipeline builder.
type BuilderHooks interface {
	// OnBuildStart records the start of a build over the given number of candidate units.
	OnBuildStart(ctx context.Context, mode string, candidates int)

	// OnUnitIncluded records a unit selected during the given pass.
	OnUnitIncluded(ctx context.Context, stage, unit string, pass int)

	// OnPassComplete records the end of a pass and how many units it included.
	OnPassComplete(ctx context.Context, pass, included int)

	// OnBuildComplete records the end of a build.
	OnBuildComplete(ctx context.Context, passes, units int, duration time.Duration, err error)
}

// =============================================================================
// Registry Hooks
// =============================================================================

// RegistryHooks receives events from a run's package-version registry.
// Registry operations carry no context; hooks are called synchronously.
type RegistryHooks interface {
	// OnRegister records a registration attempt; existed reports whether the
	// tuple was already bound.
	OnRegister(tuple string, existed bool)

	// OnLookupMiss records a lookup of a tuple that was never registered.
	OnLookupMiss(tuple string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopBuilderHooks is a no-op implementation of BuilderHooks.
type NoopBuilderHooks struct{}

func (NoopBuilderHooks) OnBuildStart(context.Context, string, int)                       {}
func (NoopBuilderHooks) OnUnitIncluded(context.Context, string, string, int)             {}
func (NoopBuilderHooks) OnPassComplete(context.Context, int, int)                        {}
func (NoopBuilderHooks) OnBuildComplete(context.Context, int, int, time.Duration, error) {}

// NoopRegistryHooks is a no-op implementation of RegistryHooks.
type NoopRegistryHooks struct{}

func (NoopRegistryHooks) OnRegister(string, bool) {}
func (NoopRegistryHooks) OnLookupMiss(string)     {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	builderHooks  BuilderHooks  = NoopBuilderHooks{}
	registryHooks RegistryHooks = NoopRegistryHooks{}
	hooksMu       sync.RWMutex
)

// SetBuilderHooks registers custom builder hooks.
// This should be called once at application startup before any build.
func SetBuilderHooks(h BuilderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		builderHooks = h
	}
}

// SetRegistryHooks registers custom registry hooks.
// This should be called once at application startup before any resolution run.
func SetRegistryHooks(h RegistryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		registryHooks = h
	}
}

// Builder returns the registered builder hooks.
func Builder() BuilderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return builderHooks
}

// Registry returns the registered registry hooks.
func Registry() RegistryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return registryHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	builderHooks = NoopBuilderHooks{}
	registryHooks = NoopRegistryHooks{}
}
