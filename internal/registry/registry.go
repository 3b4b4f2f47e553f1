// Package registry holds the admin-curated set of driver chats that receive
// every confirmed order. It has no authorization logic; callers gate mutations.
package registry

import (
	"errors"
	"sync"
)

// MaxDrivers bounds the driver pool.
const MaxDrivers = 4

var (
	ErrCapacityExceeded = errors.New("driver registry is full")
	ErrDuplicate        = errors.New("driver already registered")
	ErrNotFound         = errors.New("driver not registered")
)

// Registry is an ordered set of driver chat IDs. It lives for the process
// lifetime only.
type Registry struct {
	mu      sync.RWMutex
	drivers []int64
	limit   int
}

func New() *Registry {
	return &Registry{limit: MaxDrivers}
}

// Add appends a driver. A full registry rejects any add, including a
// duplicate, and stays unchanged.
func (r *Registry) Add(chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.drivers) >= r.limit {
		return ErrCapacityExceeded
	}
	if r.indexOf(chatID) >= 0 {
		return ErrDuplicate
	}
	r.drivers = append(r.drivers, chatID)
	return nil
}

// Remove deletes a driver, keeping the order of the others.
func (r *Registry) Remove(chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(chatID)
	if i < 0 {
		return ErrNotFound
	}
	r.drivers = append(r.drivers[:i], r.drivers[i+1:]...)
	return nil
}

// List returns a copy of the driver IDs in insertion order.
func (r *Registry) List() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int64, len(r.drivers))
	copy(out, r.drivers)
	return out
}

func (r *Registry) Contains(chatID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexOf(chatID) >= 0
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.drivers)
}

func (r *Registry) indexOf(chatID int64) int {
	for i, id := range r.drivers {
		if id == chatID {
			return i
		}
	}
	return -1
}
