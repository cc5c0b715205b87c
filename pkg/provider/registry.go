// Copyright Searchsuite Authors
// SPDX-License-Identifier: Apache-2.0

// Package provider implements a generic factory registry for pluggable backends.
//
// Each subsystem (websearch, chat) creates a typed Registry and
// implementations self-register via init(). This follows the database/sql
// driver pattern: the implementation file registers a factory under a key,
// then callers use Registry.New(name, params) to instantiate.
//
// Snapshot returns the set of names known at the time of its first call and
// keeps returning that set afterwards. It is a startup snapshot, not a live
// view: a factory registered later is only visible to Snapshot after
// Invalidate. New and Available always consult the live table.
package provider

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotRegistered is returned (wrapped) by New when no factory exists for
// the requested name.
var ErrNotRegistered = errors.New("provider not registered")

// Factory is a constructor function that creates a backend instance from
// construction parameters of type P.
type Factory[T, P any] func(ctx context.Context, params P) (T, error)

// Registry is a thread-safe registry of named factory functions for a
// given backend interface T built from parameters P.
type Registry[T, P any] struct {
	subsystem string
	mu        sync.RWMutex
	factories map[string]Factory[T, P]
	snapshot  []string
}

// NewRegistry creates a new Registry. The subsystem name is used in error
// messages (e.g. "websearch", "chat").
func NewRegistry[T, P any](subsystem string) *Registry[T, P] {
	return &Registry[T, P]{
		subsystem: subsystem,
		factories: make(map[string]Factory[T, P]),
	}
}

// Register adds a named factory. Panics if the name is already registered
// (catches duplicate init() registrations at startup).
func (r *Registry[T, P]) Register(name string, f Factory[T, P]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("provider: %s backend %q already registered", r.subsystem, name))
	}
	r.factories[name] = f
}

// New creates a backend instance by name. Returns an error wrapping
// ErrNotRegistered if the name is not registered.
func (r *Registry[T, P]) New(ctx context.Context, name string, params P) (T, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown %s provider %q (available: %v): %w", r.subsystem, name, r.Available(), ErrNotRegistered)
	}
	return f(ctx, params)
}

// Available returns the sorted list of registered backend names.
func (r *Registry[T, P]) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

// Snapshot returns the sorted names registered when Snapshot was first
// called. The returned slice is a copy.
func (r *Registry[T, P]) Snapshot() []string {
	r.mu.RLock()
	snap := r.snapshot
	r.mu.RUnlock()
	if snap == nil {
		r.mu.Lock()
		if r.snapshot == nil {
			r.snapshot = r.namesLocked()
		}
		snap = r.snapshot
		r.mu.Unlock()
	}
	return append([]string(nil), snap...)
}

// Contains reports whether name is part of the snapshot.
func (r *Registry[T, P]) Contains(name string) bool {
	for _, n := range r.Snapshot() {
		if n == name {
			return true
		}
	}
	return false
}

// Invalidate drops the memoized snapshot; the next Snapshot call rescans
// the live table.
func (r *Registry[T, P]) Invalidate() {
	r.mu.Lock()
	r.snapshot = nil
	r.mu.Unlock()
}

func (r *Registry[T, P]) namesLocked() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
