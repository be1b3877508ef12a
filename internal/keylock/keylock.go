// Package keylock serialises work per key, so callers touching different
// sessions never wait on each other.
package keylock

import "sync"

type entry struct {
	mu    sync.Mutex
	users int
}

// KeyLock hands out one mutex per key. An entry lives only while somebody
// holds or waits for it. The zero value is ready to use.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*entry
}

func New() *KeyLock {
	return &KeyLock{locks: make(map[string]*entry)}
}

// Lock blocks until key is free and returns the function that releases it.
func (that *KeyLock) Lock(key string) func() {
	that.mu.Lock()
	if that.locks == nil {
		that.locks = make(map[string]*entry)
	}

	e, ok := that.locks[key]
	if !ok {
		e = &entry{}
		that.locks[key] = e
	}
	e.users++
	that.mu.Unlock()

	e.mu.Lock()

	var once sync.Once

	return func() {
		once.Do(func() {
			e.mu.Unlock()

			that.mu.Lock()
			e.users--
			if e.users == 0 {
				delete(that.locks, key)
			}
			that.mu.Unlock()
		})
	}
}

// Len reports how many keys are currently held or waited on.
func (that *KeyLock) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.locks)
}
