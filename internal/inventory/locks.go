package inventory

import (
	"sort"
	"sync"
)

// LockKey identifies one (product, warehouse) inventory row.
type LockKey struct {
	ProductID   uint
	WarehouseID uint
}

// KeyedLock serializes check-then-write sequences on individual inventory
// rows. Two concurrent export approvals for the same row must not both pass
// the availability check against a stale read.
type KeyedLock struct {
	mu    sync.Mutex
	locks map[LockKey]*sync.Mutex
}

func NewKeyedLock() *KeyedLock {
	return &KeyedLock{locks: make(map[LockKey]*sync.Mutex)}
}

func (k *KeyedLock) lockFor(key LockKey) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	return l
}

// Acquire locks every given key and returns the release function. Keys are
// deduplicated and locked in a fixed global order so two multi-line orders
// cannot deadlock each other.
func (k *KeyedLock) Acquire(keys ...LockKey) func() {
	uniq := make(map[LockKey]struct{}, len(keys))
	ordered := make([]LockKey, 0, len(keys))
	for _, key := range keys {
		if _, seen := uniq[key]; seen {
			continue
		}
		uniq[key] = struct{}{}
		ordered = append(ordered, key)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].ProductID != ordered[j].ProductID {
			return ordered[i].ProductID < ordered[j].ProductID
		}
		return ordered[i].WarehouseID < ordered[j].WarehouseID
	})

	held := make([]*sync.Mutex, 0, len(ordered))
	for _, key := range ordered {
		l := k.lockFor(key)
		l.Lock()
		held = append(held, l)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
