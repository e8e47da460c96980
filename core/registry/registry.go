package registry

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// State is the lifecycle state of a managed domain.
type State string

const (
	// StateAcquiring means an issuance or renewal is running for the domain.
	StateAcquiring State = "acquiring"

	// StateReady means a valid certificate is on disk.
	StateReady State = "ready"

	// StateFailed means the most recent attempt failed.
	StateFailed State = "failed"
)

// Status is the current state of a domain together with bookkeeping
// about the attempt that produced it.
type Status struct {
	State State
	// Reason is a human-readable failure message. Empty unless State is StateFailed.
	Reason string
	// AttemptID identifies the acquisition attempt that produced this status.
	AttemptID string
	UpdatedAt time.Time
}

// Acquiring returns an in-progress status for the given attempt.
func Acquiring(attemptID string) Status {
	return Status{State: StateAcquiring, AttemptID: attemptID}
}

// Ready returns a provisioned status.
func Ready(attemptID string) Status {
	return Status{State: StateReady, AttemptID: attemptID}
}

// Failed returns a failed status carrying the reason.
func Failed(attemptID, reason string) Status {
	return Status{State: StateFailed, Reason: reason, AttemptID: attemptID}
}

// Entry pairs a domain name with its status. Used for snapshots.
type Entry struct {
	Domain string
	Status Status
}

// Registry owns per-domain status and the global acquisition lock.
// The status map and the lock are separate resources, each with its own
// synchronization primitive. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	statuses map[string]Status

	// lock is a one-slot semaphore: holding the slot means an acquisition
	// is in flight somewhere in the process.
	lock chan struct{}

	now func() time.Time
}

// New creates an empty registry with the global lock released.
func New() *Registry {
	return &Registry{
		statuses: make(map[string]Status),
		lock:     make(chan struct{}, 1),
		now:      time.Now,
	}
}

// Get returns the status recorded for the domain, if any.
// The name is trimmed before lookup; matching is case-sensitive.
func (r *Registry) Get(name string) (Status, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.statuses[strings.TrimSpace(name)]
	return st, ok
}

// Set records the status for the domain, creating the entry if needed.
func (r *Registry) Set(name string, status Status) {
	if status.UpdatedAt.IsZero() {
		status.UpdatedAt = r.now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.statuses[strings.TrimSpace(name)] = status
}

// Snapshot returns all known domains sorted by name.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	entries := make([]Entry, 0, len(r.statuses))
	for name, st := range r.statuses {
		entries = append(entries, Entry{Domain: name, Status: st})
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Domain < entries[j].Domain
	})
	return entries
}

// TryAcquireGlobalLock takes the global acquisition lock without blocking.
// Returns false if another operation holds it. Not re-entrant.
func (r *Registry) TryAcquireGlobalLock() bool {
	select {
	case r.lock <- struct{}{}:
		return true
	default:
		return false
	}
}

// AcquireGlobalLock blocks until the global lock is taken or ctx is done.
func (r *Registry) AcquireGlobalLock(ctx context.Context) error {
	select {
	case r.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReleaseGlobalLock releases the global lock. Releasing a lock that is not
// held is a no-op.
func (r *Registry) ReleaseGlobalLock() {
	select {
	case <-r.lock:
	default:
	}
}

// GlobalLockHeld reports whether an acquisition is currently in flight.
func (r *Registry) GlobalLockHeld() bool {
	return len(r.lock) == 1
}
