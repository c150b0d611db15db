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
	"math"
	"slices"

	"github.com/Fantom-foundation/MockVM/go/mockvm"
	"golang.org/x/exp/maps"
)

// Registers is the host side register bank. Stored contents are never
// modified in place, so clones may share them.
type Registers struct {
	regs  map[uint64][]byte
	total uint64
}

func NewRegisters() *Registers {
	return &Registers{regs: map[uint64][]byte{}}
}

func (r *Registers) Clone() *Registers {
	return &Registers{
		regs:  maps.Clone(r.regs),
		total: r.total,
	}
}

// Write replaces the content of register id with a copy of data. Exceeding
// any register limit is a memory access violation.
func (r *Registers) Write(id uint64, data []byte, limits mockvm.Limits) error {
	size := uint64(len(data))
	if size > limits.MaxRegisterSize {
		return mockvm.ErrMemoryAccessViolation
	}
	old, exists := r.regs[id]
	if !exists && uint64(len(r.regs)) >= limits.MaxNumberRegisters {
		return mockvm.ErrMemoryAccessViolation
	}
	total := r.total - uint64(len(old)) + size
	if total > limits.RegistersMemoryLimit {
		return mockvm.ErrMemoryAccessViolation
	}
	r.regs[id] = bytes.Clone(data)
	if r.regs[id] == nil {
		r.regs[id] = []byte{}
	}
	r.total = total
	return nil
}

// Read returns the content of register id. The result must not be modified.
func (r *Registers) Read(id uint64) ([]byte, error) {
	data, found := r.regs[id]
	if !found {
		return nil, mockvm.ErrInvalidRegisterId
	}
	return data, nil
}

// Len returns the length of the content of register id, or math.MaxUint64
// if the register is unused.
func (r *Registers) Len(id uint64) uint64 {
	data, found := r.regs[id]
	if !found {
		return math.MaxUint64
	}
	return uint64(len(data))
}

// Ids returns the ids of all used registers in ascending order.
func (r *Registers) Ids() []uint64 {
	ids := maps.Keys(r.regs)
	slices.Sort(ids)
	return ids
}

// Size returns the total number of bytes held by all registers.
func (r *Registers) Size() uint64 {
	return r.total
}

func (a *Registers) Eq(b *Registers) bool {
	return maps.EqualFunc(a.regs, b.regs, bytes.Equal)
}

func (a *Registers) Diff(b *Registers) (res []string) {
	for _, id := range a.Ids() {
		valueA := a.regs[id]
		valueB, found := b.regs[id]
		if !found {
			res = append(res, fmt.Sprintf("Different register %d: 0x%x vs missing", id, valueA))
		} else if !bytes.Equal(valueA, valueB) {
			res = append(res, fmt.Sprintf("Different register %d: 0x%x vs 0x%x", id, valueA, valueB))
		}
	}
	for _, id := range b.Ids() {
		if _, found := a.regs[id]; !found {
			res = append(res, fmt.Sprintf("Different register %d: missing vs 0x%x", id, b.regs[id]))
		}
	}
	return
}
