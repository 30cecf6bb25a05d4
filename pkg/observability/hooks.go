// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Hosts can register
// hooks at startup to receive events about layout passes, tree mutations,
// and document storage operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This keeps the core library dependency-free from observability
// frameworks and avoids import cycles, since hooks are registered by main
// rather than by libraries.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    // ... run application
//	}
//
// Surfaces call hooks to emit events:
//
//	start := time.Now()
//	nodes := layout.Layout(t, cfg)
//	observability.Layout().OnLayoutComplete(ctx, len(nodes), time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from layout computation.
type LayoutHooks interface {
	// OnLayoutStart records the beginning of a layout pass.
	OnLayoutStart(ctx context.Context, nodeCount int)

	// OnLayoutComplete records a finished layout pass with the number of
	// positioned (visible) nodes and the elapsed time.
	OnLayoutComplete(ctx context.Context, positioned int, duration time.Duration)
}

// =============================================================================
// Mutation Hooks
// =============================================================================

// MutationHooks receives events from tree mutation commands.
type MutationHooks interface {
	// OnMutation records an applied mutation (kind is "reparent",
	// "reorder", or "move").
	OnMutation(ctx context.Context, kind string, nodeID string)

	// OnMutationRejected records a mutation that resolved to a no-op.
	OnMutationRejected(ctx context.Context, kind string, nodeID string)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from document storage backends.
type StoreHooks interface {
	// OnStoreRead records a document load.
	OnStoreRead(ctx context.Context, backend, name string, err error)

	// OnStoreWrite records a document save with the encoded size.
	OnStoreWrite(ctx context.Context, backend, name string, size int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, int)                   {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, int, time.Duration) {}

// NoopMutationHooks is a no-op implementation of MutationHooks.
type NoopMutationHooks struct{}

func (NoopMutationHooks) OnMutation(context.Context, string, string)         {}
func (NoopMutationHooks) OnMutationRejected(context.Context, string, string) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreRead(context.Context, string, string, error)       {}
func (NoopStoreHooks) OnStoreWrite(context.Context, string, string, int, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks   LayoutHooks   = NoopLayoutHooks{}
	mutationHooks MutationHooks = NoopMutationHooks{}
	storeHooks    StoreHooks    = NoopStoreHooks{}
	hooksMu       sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetMutationHooks registers custom mutation hooks.
// This should be called once at application startup.
func SetMutationHooks(h MutationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		mutationHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Mutation returns the registered mutation hooks.
func Mutation() MutationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return mutationHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	mutationHooks = NoopMutationHooks{}
	storeHooks = NoopStoreHooks{}
}
