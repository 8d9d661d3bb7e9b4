package hook

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/tally/book"
)

// Registry manages all registered hooks and provides efficient dispatch.
// It caches hooks by event interface at registration time, so emitting an
// event touches only the hooks that care about it.
type Registry struct {
	mu     sync.RWMutex
	hooks  []Hook
	logger *slog.Logger

	// Type-cached hook lists for efficient dispatch
	onInit            []OnInit
	onShutdown        []OnShutdown
	onLoanIssued      []OnLoanIssued
	onLoanReceived    []OnLoanReceived
	onCollectorIssued []OnCollectorIssued
	onRepaid          []OnRepaid
	onCollected       []OnCollected
	onUnitAborted     []OnUnitAborted
	onSnapshotFlushed []OnSnapshotFlushed
}

// NewRegistry creates a new hook registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a hook to the registry and caches its interfaces.
func (r *Registry) Register(h Hook) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.hooks {
		if existing.Name() == h.Name() {
			return fmt.Errorf("hook: duplicate registration: %s", h.Name())
		}
	}

	r.hooks = append(r.hooks, h)

	if v, ok := h.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := h.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := h.(OnLoanIssued); ok {
		r.onLoanIssued = append(r.onLoanIssued, v)
	}
	if v, ok := h.(OnLoanReceived); ok {
		r.onLoanReceived = append(r.onLoanReceived, v)
	}
	if v, ok := h.(OnCollectorIssued); ok {
		r.onCollectorIssued = append(r.onCollectorIssued, v)
	}
	if v, ok := h.(OnRepaid); ok {
		r.onRepaid = append(r.onRepaid, v)
	}
	if v, ok := h.(OnCollected); ok {
		r.onCollected = append(r.onCollected, v)
	}
	if v, ok := h.(OnUnitAborted); ok {
		r.onUnitAborted = append(r.onUnitAborted, v)
	}
	if v, ok := h.(OnSnapshotFlushed); ok {
		r.onSnapshotFlushed = append(r.onSnapshotFlushed, v)
	}

	r.logger.Info("hook registered", "name", h.Name())

	return nil
}

// Get returns a hook by name.
func (r *Registry) Get(name string) Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, h := range r.hooks {
		if h.Name() == name {
			return h
		}
	}
	return nil
}

// Count returns the number of registered hooks.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all hooks that implement it.
func (r *Registry) EmitInit(ctx context.Context, l any) {
	r.mu.RLock()
	hooks := r.onInit
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnInit(ctx, l)
		}); err != nil {
			r.logger.Warn("hook OnInit failed", "hook", h.Name(), "error", err)
		}
	}
}

// EmitShutdown calls OnShutdown for all hooks that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	hooks := r.onShutdown
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("hook OnShutdown failed", "hook", h.Name(), "error", err)
		}
	}
}

// EmitLoanIssued emits a loan issued event.
func (r *Registry) EmitLoanIssued(ctx context.Context, ev book.LoanIssued) {
	r.mu.RLock()
	hooks := r.onLoanIssued
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnLoanIssued(ctx, ev)
		}); err != nil {
			r.logger.Warn("hook OnLoanIssued failed", "hook", h.Name(), "error", err)
		}
	}
}

// EmitLoanReceived emits a loan received event.
func (r *Registry) EmitLoanReceived(ctx context.Context, ev book.LoanReceived) {
	r.mu.RLock()
	hooks := r.onLoanReceived
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnLoanReceived(ctx, ev)
		}); err != nil {
			r.logger.Warn("hook OnLoanReceived failed", "hook", h.Name(), "error", err)
		}
	}
}

// EmitCollectorIssued emits a collector issued event.
func (r *Registry) EmitCollectorIssued(ctx context.Context, ev book.CollectorIssued) {
	r.mu.RLock()
	hooks := r.onCollectorIssued
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnCollectorIssued(ctx, ev)
		}); err != nil {
			r.logger.Warn("hook OnCollectorIssued failed", "hook", h.Name(), "error", err)
		}
	}
}

// EmitRepaid emits a repaid event.
func (r *Registry) EmitRepaid(ctx context.Context, ev book.Repaid) {
	r.mu.RLock()
	hooks := r.onRepaid
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnRepaid(ctx, ev)
		}); err != nil {
			r.logger.Warn("hook OnRepaid failed", "hook", h.Name(), "error", err)
		}
	}
}

// EmitCollected emits a collected event.
func (r *Registry) EmitCollected(ctx context.Context, ev book.Collected) {
	r.mu.RLock()
	hooks := r.onCollected
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnCollected(ctx, ev)
		}); err != nil {
			r.logger.Warn("hook OnCollected failed", "hook", h.Name(), "error", err)
		}
	}
}

// EmitUnitAborted emits a unit aborted event.
func (r *Registry) EmitUnitAborted(ctx context.Context, unitErr error) {
	r.mu.RLock()
	hooks := r.onUnitAborted
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnUnitAborted(ctx, unitErr)
		}); err != nil {
			r.logger.Warn("hook OnUnitAborted failed", "hook", h.Name(), "error", err)
		}
	}
}

// EmitSnapshotFlushed emits a snapshot flushed event.
func (r *Registry) EmitSnapshotFlushed(ctx context.Context, sheets int, elapsed time.Duration) {
	r.mu.RLock()
	hooks := r.onSnapshotFlushed
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnSnapshotFlushed(ctx, sheets, elapsed)
		}); err != nil {
			r.logger.Warn("hook OnSnapshotFlushed failed", "hook", h.Name(), "error", err)
		}
	}
}

// callWithTimeout calls a hook function with a timeout.
// Hooks should never block the settlement pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, hookName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("hook timeout: %s", hookName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
