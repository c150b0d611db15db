// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package st

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/Fantom-foundation/MockVM/go/mockvm"
	"github.com/tidwall/btree"
	"golang.org/x/exp/maps"
)

// Storage is the in-memory key-value store of a contract, iterated in
// lexicographic key order. Values are never modified in place, so the
// copy-on-write trees may be shared between clones.
type Storage struct {
	entries *btree.Map[string, []byte]

	// mutations maps keys to the epoch of their last Set or Remove. It is
	// only maintained while iterators are live.
	mutations *btree.Map[string, uint64]
	epoch     uint64

	iterators      map[uint64]iterator
	nextIteratorId uint64

	failure error
}

// iterator covers the keys in [lower, upper), or all keys >= lower if
// unbounded is set.
type iterator struct {
	lower     string
	upper     string
	unbounded bool
	started   bool
	cursor    string // last returned key, if started
	epoch     uint64
}

func (it iterator) below(key string) bool {
	return it.unbounded || key < it.upper
}

// window returns the first key not yet consumed by the iterator. Mutations
// of keys at or after it, and within the bound, invalidate the iterator.
func (it iterator) window() string {
	if it.started {
		return it.cursor
	}
	return it.lower
}

func (it iterator) String() string {
	bound := "∞"
	if !it.unbounded {
		bound = fmt.Sprintf("0x%x", it.upper)
	}
	cursor := "-"
	if it.started {
		cursor = fmt.Sprintf("0x%x", it.cursor)
	}
	return fmt.Sprintf("[0x%x, %s) cursor: %s epoch: %d", it.lower, bound, cursor, it.epoch)
}

func NewStorage() *Storage {
	return &Storage{
		entries:   new(btree.Map[string, []byte]),
		mutations: new(btree.Map[string, uint64]),
		iterators: map[uint64]iterator{},
	}
}

// Clone creates an independent copy of the storage, including its
// iterators.
func (s *Storage) Clone() *Storage {
	return &Storage{
		entries:        s.entries.Copy(),
		mutations:      s.mutations.Copy(),
		epoch:          s.epoch,
		iterators:      maps.Clone(s.iterators),
		nextIteratorId: s.nextIteratorId,
		failure:        s.failure,
	}
}

// FailWith makes every subsequent storage access fail with a
// *mockvm.StorageError wrapping err. A nil err clears the failure.
func (s *Storage) FailWith(err error) {
	s.failure = err
}

func (s *Storage) check() error {
	if s.failure != nil {
		return &mockvm.StorageError{Err: s.failure}
	}
	return nil
}

func (s *Storage) mutated(key string) {
	if len(s.iterators) == 0 {
		return
	}
	s.epoch++
	s.mutations.Set(key, s.epoch)
}

// Set stores a copy of value under key and returns the previous value.
func (s *Storage) Set(key, value []byte) (prev []byte, existed bool, err error) {
	if err := s.check(); err != nil {
		return nil, false, err
	}
	stored := bytes.Clone(value)
	if stored == nil {
		stored = []byte{}
	}
	prev, existed = s.entries.Set(string(key), stored)
	s.mutated(string(key))
	return prev, existed, nil
}

// Get returns the value stored under key. The result must not be modified.
func (s *Storage) Get(key []byte) (value []byte, found bool, err error) {
	if err := s.check(); err != nil {
		return nil, false, err
	}
	value, found = s.entries.Get(string(key))
	return value, found, nil
}

// Remove deletes key and returns the value it held. Removing an absent key
// is not a mutation.
func (s *Storage) Remove(key []byte) (prev []byte, existed bool, err error) {
	if err := s.check(); err != nil {
		return nil, false, err
	}
	prev, existed = s.entries.Delete(string(key))
	if existed {
		s.mutated(string(key))
	}
	return prev, existed, nil
}

func (s *Storage) Has(key []byte) (bool, error) {
	_, found, err := s.Get(key)
	return found, err
}

// Len returns the number of stored entries.
func (s *Storage) Len() int {
	return s.entries.Len()
}

// Scan visits all entries in ascending key order until f returns false.
func (s *Storage) Scan(f func(key, value []byte) bool) {
	s.entries.Scan(func(key string, value []byte) bool {
		return f([]byte(key), value)
	})
}

// prefixEnd returns the smallest key greater than all keys starting with
// prefix. The second result is false if no such key exists.
func prefixEnd(prefix []byte) (string, bool) {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return string(end[:i+1]), true
		}
	}
	return "", false
}

func (s *Storage) newIterator(it iterator) uint64 {
	it.epoch = s.epoch
	id := s.nextIteratorId
	s.nextIteratorId++
	s.iterators[id] = it
	return id
}

// IterPrefix creates an iterator over all keys starting with prefix.
func (s *Storage) IterPrefix(prefix []byte) (uint64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	end, bounded := prefixEnd(prefix)
	return s.newIterator(iterator{
		lower:     string(prefix),
		upper:     end,
		unbounded: !bounded,
	}), nil
}

// IterRange creates an iterator over all keys in [start, end). If start is
// not less than end the iterator is immediately exhausted.
func (s *Storage) IterRange(start, end []byte) (uint64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	return s.newIterator(iterator{
		lower: string(start),
		upper: string(end),
	}), nil
}

// IterNext advances the iterator and returns the next entry in ascending key
// order. ok is false once the iterator is exhausted. If a key in the part of
// the iterator's range not yet consumed was modified since the iterator was
// created or last advanced, it fails with mockvm.ErrIteratorWasInvalidated.
func (s *Storage) IterNext(id uint64) (key, value []byte, ok bool, err error) {
	it, found := s.iterators[id]
	if !found {
		return nil, nil, false, mockvm.ErrInvalidIteratorId
	}
	if err := s.check(); err != nil {
		return nil, nil, false, err
	}

	from := it.window()
	invalidated := false
	s.mutations.Ascend(from, func(key string, epoch uint64) bool {
		if !it.below(key) {
			return false
		}
		if epoch > it.epoch {
			invalidated = true
			return false
		}
		return true
	})
	if invalidated {
		return nil, nil, false, mockvm.ErrIteratorWasInvalidated
	}

	s.entries.Ascend(from, func(k string, v []byte) bool {
		if it.started && k == it.cursor {
			return true
		}
		if it.below(k) {
			key, value, ok = []byte(k), v, true
		}
		return false
	})
	if !ok {
		return nil, nil, false, nil
	}
	it.started = true
	it.cursor = string(key)
	it.epoch = s.epoch
	s.iterators[id] = it
	return key, value, true, nil
}

// IterDrop invalidates the iterator handle. Handles are never reused.
func (s *Storage) IterDrop(id uint64) error {
	if _, found := s.iterators[id]; !found {
		return mockvm.ErrInvalidIteratorId
	}
	delete(s.iterators, id)
	if len(s.iterators) == 0 {
		s.mutations = new(btree.Map[string, uint64])
	}
	return nil
}

// Iterators returns the handles of all live iterators in ascending order.
func (s *Storage) Iterators() []uint64 {
	ids := maps.Keys(s.iterators)
	slices.Sort(ids)
	return ids
}

func entriesEqual(a, b *btree.Map[string, []byte]) bool {
	if a.Len() != b.Len() {
		return false
	}
	equal := true
	a.Scan(func(key string, valueA []byte) bool {
		valueB, found := b.Get(key)
		equal = found && bytes.Equal(valueA, valueB)
		return equal
	})
	return equal
}

func mutationsEqual(a, b *btree.Map[string, uint64]) bool {
	if a.Len() != b.Len() {
		return false
	}
	equal := true
	a.Scan(func(key string, epochA uint64) bool {
		epochB, found := b.Get(key)
		equal = found && epochA == epochB
		return equal
	})
	return equal
}

func (a *Storage) Eq(b *Storage) bool {
	return entriesEqual(a.entries, b.entries) &&
		mutationsEqual(a.mutations, b.mutations) &&
		a.epoch == b.epoch &&
		maps.Equal(a.iterators, b.iterators) &&
		a.nextIteratorId == b.nextIteratorId
}

func (a *Storage) Diff(b *Storage) (res []string) {
	a.entries.Scan(func(key string, valueA []byte) bool {
		valueB, found := b.entries.Get(key)
		if !found {
			res = append(res, fmt.Sprintf("Different storage entry:\n\t[0x%x]=0x%x\n\tvs\n\tmissing", key, valueA))
		} else if !bytes.Equal(valueA, valueB) {
			res = append(res, fmt.Sprintf("Different storage entry:\n\t[0x%x]=0x%x\n\tvs\n\t[0x%x]=0x%x", key, valueA, key, valueB))
		}
		return true
	})
	b.entries.Scan(func(key string, valueB []byte) bool {
		if _, found := a.entries.Get(key); !found {
			res = append(res, fmt.Sprintf("Different storage entry:\n\tmissing\n\tvs\n\t[0x%x]=0x%x", key, valueB))
		}
		return true
	})

	for _, id := range a.Iterators() {
		itB, found := b.iterators[id]
		if !found {
			res = append(res, fmt.Sprintf("Different iterator %d: %v vs missing", id, a.iterators[id]))
		} else if itA := a.iterators[id]; itA != itB {
			res = append(res, fmt.Sprintf("Different iterator %d: %v vs %v", id, itA, itB))
		}
	}
	for _, id := range b.Iterators() {
		if _, found := a.iterators[id]; !found {
			res = append(res, fmt.Sprintf("Different iterator %d: missing vs %v", id, b.iterators[id]))
		}
	}

	if a.nextIteratorId != b.nextIteratorId {
		res = append(res, fmt.Sprintf("Different next iterator id: %d vs %d", a.nextIteratorId, b.nextIteratorId))
	}
	if a.epoch != b.epoch {
		res = append(res, fmt.Sprintf("Different mutation epoch: %d vs %d", a.epoch, b.epoch))
	}
	if !mutationsEqual(a.mutations, b.mutations) {
		res = append(res, "Different mutation index")
	}
	return
}
