package vault

import (
	"fmt"
	"sync"
)

// nameMutex hands out one mutex per wallet name, created on demand and dropped when the
// last holder or waiter releases it. Operations on different names never contend.
type nameMutex struct {
	// mutexes maps a name to its mutex plus the number of callers holding or waiting
	// for it.
	mutexes map[string]*cntMutex

	// mapMtx guards the mutexes map.
	mapMtx sync.Mutex
}

type cntMutex struct {
	cnt int
	sync.Mutex
}

func newNameMutex() *nameMutex {
	return &nameMutex{
		mutexes: make(map[string]*cntMutex),
	}
}

// Lock locks the mutex for name, blocking while another caller holds it
func (c *nameMutex) Lock(name string) {
	c.mapMtx.Lock()
	mtx, ok := c.mutexes[name]
	if ok {
		mtx.cnt++
	} else {
		mtx = &cntMutex{cnt: 1}
		c.mutexes[name] = mtx
	}
	c.mapMtx.Unlock()

	mtx.Lock()
}

// Unlock unlocks the mutex for name. It is a run-time error if name is not locked.
func (c *nameMutex) Unlock(name string) {
	c.mapMtx.Lock()
	mtx, ok := c.mutexes[name]
	if !ok {
		c.mapMtx.Unlock()
		panic(fmt.Sprintf("double unlock for wallet %q", name))
	}

	// The last caller removes the entry. Anyone arriving later takes mapMtx first and
	// creates a fresh mutex.
	mtx.cnt--
	if mtx.cnt == 0 {
		delete(c.mutexes, name)
	}
	c.mapMtx.Unlock()

	mtx.Unlock()
}

// LockPair locks two names in a fixed order so concurrent renames cannot deadlock.
// Equal names are locked once.
func (c *nameMutex) LockPair(a, b string) (unlock func()) {
	if a == b {
		c.Lock(a)
		return func() { c.Unlock(a) }
	}
	if b < a {
		a, b = b, a
	}
	c.Lock(a)
	c.Lock(b)
	return func() {
		c.Unlock(b)
		c.Unlock(a)
	}
}
