package heapfit

import (
	"runtime"
	"sync"
	"sync/atomic"
)

type Locker interface {
	sync.Locker
}

// processLocker is a CAS spin lock that lives inside the managed region, so
// it also serializes access from other processes attached to the same heap.
type processLocker struct {
	write int32
	read  int32
}

func (l *processLocker) Lock() {
	for !atomic.CompareAndSwapInt32(&l.write, 0, 1) {
		runtime.Gosched()
	}
}

func (l *processLocker) Unlock() {
	if !atomic.CompareAndSwapInt32(&l.write, 1, 0) {
		panic("unlock an unlocked-lock")
	}
}

func (l *processLocker) reset() {
	l.write = 0
	l.read = 0
}

type nopLocker struct{}

func (n *nopLocker) Lock() {
}

func (n *nopLocker) Unlock() {
}
