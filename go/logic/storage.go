// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package logic

import (
	"github.com/Fantom-foundation/MockVM/go/mockvm"
)

func (l *Logic) recordSize(key, value []byte) uint64 {
	return uint64(len(key)) + uint64(len(value)) + l.config.Limits.NumExtraBytesRecord
}

// StorageWrite stores value under key. If the key was present, the evicted
// value is written into register and 1 is returned, otherwise 0.
func (l *Logic) StorageWrite(key, value mockvm.Source, register uint64) (uint64, error) {
	if err := l.pay(mockvm.CostBase); err != nil {
		return 0, err
	}
	if err := l.pay(mockvm.CostStorageWriteBase); err != nil {
		return 0, err
	}
	k, err := l.get(key)
	if err != nil {
		return 0, err
	}
	v, err := l.get(value)
	if err != nil {
		return 0, err
	}
	if err := l.payPerByte(mockvm.CostStorageWriteKeyByte, uint64(len(k))); err != nil {
		return 0, err
	}
	if err := l.payPerByte(mockvm.CostStorageWriteValueByte, uint64(len(v))); err != nil {
		return 0, err
	}
	prev, existed, err := l.state.Storage.Set(k, v)
	if err != nil {
		return 0, err
	}
	if !existed {
		l.state.StorageUsage += l.recordSize(k, v)
		return 0, nil
	}
	if l.state.StorageUsage < uint64(len(prev)) {
		return 0, mockvm.ErrIntegerOverflow
	}
	l.state.StorageUsage = l.state.StorageUsage - uint64(len(prev)) + uint64(len(v))
	if err := l.payPerByte(mockvm.CostStorageWriteEvictedByte, uint64(len(prev))); err != nil {
		return 0, err
	}
	if err := l.registerSet(register, prev); err != nil {
		return 0, err
	}
	return 1, nil
}

// StorageRead writes the value stored under key into register and returns 1,
// or returns 0 if the key is absent.
func (l *Logic) StorageRead(key mockvm.Source, register uint64) (uint64, error) {
	if err := l.pay(mockvm.CostBase); err != nil {
		return 0, err
	}
	if err := l.pay(mockvm.CostStorageReadBase); err != nil {
		return 0, err
	}
	k, err := l.get(key)
	if err != nil {
		return 0, err
	}
	if err := l.payPerByte(mockvm.CostStorageReadKeyByte, uint64(len(k))); err != nil {
		return 0, err
	}
	value, found, err := l.state.Storage.Get(k)
	if err != nil || !found {
		return 0, err
	}
	if err := l.payPerByte(mockvm.CostStorageReadValueByte, uint64(len(value))); err != nil {
		return 0, err
	}
	if err := l.registerSet(register, value); err != nil {
		return 0, err
	}
	return 1, nil
}

// StorageRemove deletes key. If it was present, the removed value is written
// into register and 1 is returned, otherwise 0.
func (l *Logic) StorageRemove(key mockvm.Source, register uint64) (uint64, error) {
	if err := l.pay(mockvm.CostBase); err != nil {
		return 0, err
	}
	if err := l.pay(mockvm.CostStorageRemoveBase); err != nil {
		return 0, err
	}
	k, err := l.get(key)
	if err != nil {
		return 0, err
	}
	if err := l.payPerByte(mockvm.CostStorageRemoveKeyByte, uint64(len(k))); err != nil {
		return 0, err
	}
	prev, existed, err := l.state.Storage.Remove(k)
	if err != nil || !existed {
		return 0, err
	}
	size := l.recordSize(k, prev)
	if l.state.StorageUsage < size {
		return 0, mockvm.ErrIntegerOverflow
	}
	l.state.StorageUsage -= size
	if err := l.payPerByte(mockvm.CostStorageRemoveRetValueByte, uint64(len(prev))); err != nil {
		return 0, err
	}
	if err := l.registerSet(register, prev); err != nil {
		return 0, err
	}
	return 1, nil
}

// StorageHasKey returns 1 if key is present, 0 otherwise.
func (l *Logic) StorageHasKey(key mockvm.Source) (uint64, error) {
	if err := l.pay(mockvm.CostBase); err != nil {
		return 0, err
	}
	if err := l.pay(mockvm.CostStorageHasKeyBase); err != nil {
		return 0, err
	}
	k, err := l.get(key)
	if err != nil {
		return 0, err
	}
	if err := l.payPerByte(mockvm.CostStorageHasKeyByte, uint64(len(k))); err != nil {
		return 0, err
	}
	found, err := l.state.Storage.Has(k)
	if err != nil || !found {
		return 0, err
	}
	return 1, nil
}

// StorageIterPrefix creates an iterator over all keys starting with prefix.
func (l *Logic) StorageIterPrefix(prefix mockvm.Source) (uint64, error) {
	if err := l.pay(mockvm.CostBase); err != nil {
		return 0, err
	}
	if err := l.pay(mockvm.CostStorageIterCreatePrefixBase); err != nil {
		return 0, err
	}
	p, err := l.get(prefix)
	if err != nil {
		return 0, err
	}
	if err := l.payPerByte(mockvm.CostStorageIterCreatePrefixByte, uint64(len(p))); err != nil {
		return 0, err
	}
	return l.state.Storage.IterPrefix(p)
}

// StorageIterRange creates an iterator over all keys in [start, end).
func (l *Logic) StorageIterRange(start, end mockvm.Source) (uint64, error) {
	if err := l.pay(mockvm.CostBase); err != nil {
		return 0, err
	}
	if err := l.pay(mockvm.CostStorageIterCreateRangeBase); err != nil {
		return 0, err
	}
	from, err := l.get(start)
	if err != nil {
		return 0, err
	}
	to, err := l.get(end)
	if err != nil {
		return 0, err
	}
	if err := l.payPerByte(mockvm.CostStorageIterCreateFromByte, uint64(len(from))); err != nil {
		return 0, err
	}
	if err := l.payPerByte(mockvm.CostStorageIterCreateToByte, uint64(len(to))); err != nil {
		return 0, err
	}
	return l.state.Storage.IterRange(from, to)
}

// StorageIterNext advances iterator id. The next key and value are written
// into the given registers and 1 is returned, or 0 once the iterator is
// exhausted.
func (l *Logic) StorageIterNext(id, keyRegister, valueRegister uint64) (uint64, error) {
	if err := l.pay(mockvm.CostBase); err != nil {
		return 0, err
	}
	if keyRegister == valueRegister {
		return 0, mockvm.ErrMemoryAccessViolation
	}
	if err := l.pay(mockvm.CostStorageIterNextBase); err != nil {
		return 0, err
	}
	key, value, ok, err := l.state.Storage.IterNext(id)
	if err != nil || !ok {
		return 0, err
	}
	if err := l.payPerByte(mockvm.CostStorageIterNextKeyByte, uint64(len(key))); err != nil {
		return 0, err
	}
	if err := l.payPerByte(mockvm.CostStorageIterNextValueByte, uint64(len(value))); err != nil {
		return 0, err
	}
	if err := l.registerSet(keyRegister, key); err != nil {
		return 0, err
	}
	if err := l.registerSet(valueRegister, value); err != nil {
		return 0, err
	}
	return 1, nil
}

// StorageIterDrop releases iterator id.
func (l *Logic) StorageIterDrop(id uint64) error {
	if err := l.pay(mockvm.CostBase); err != nil {
		return err
	}
	return l.state.Storage.IterDrop(id)
}
