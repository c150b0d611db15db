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
	"fmt"
	"slices"

	"github.com/Fantom-foundation/MockVM/go/mockvm"
)

// DefaultMemorySize is the size of a single wasm memory page.
const DefaultMemorySize = 64 * 1024

// Memory is a fixed size guest memory. Accesses beyond its end fail with
// mockvm.ErrMemoryAccessViolation instead of growing it.
type Memory struct {
	mem []byte
}

var _ mockvm.Memory = (*Memory)(nil)

// NewMemory creates a zero-initialized memory of the given size.
func NewMemory(size int) *Memory {
	return &Memory{make([]byte, size)}
}

// NewMemoryWith creates a memory holding a copy of the given data.
func NewMemoryWith(data ...byte) *Memory {
	return &Memory{slices.Clone(data)}
}

// Clone creates an independent copy of the memory.
func (m *Memory) Clone() *Memory {
	return &Memory{slices.Clone(m.mem)}
}

// Size returns the memory size in bytes.
func (m *Memory) Size() int {
	return len(m.mem)
}

func (m *Memory) Fits(offset, length uint64) bool {
	size := uint64(len(m.mem))
	return offset <= size && length <= size-offset
}

func (m *Memory) Read(offset uint64, buffer []byte) error {
	if !m.Fits(offset, uint64(len(buffer))) {
		return mockvm.ErrMemoryAccessViolation
	}
	copy(buffer, m.mem[offset:])
	return nil
}

func (m *Memory) Write(offset uint64, buffer []byte) error {
	if !m.Fits(offset, uint64(len(buffer))) {
		return mockvm.ErrMemoryAccessViolation
	}
	copy(m.mem[offset:], buffer)
	return nil
}

func (m *Memory) ReadU8(offset uint64) (byte, error) {
	if !m.Fits(offset, 1) {
		return 0, mockvm.ErrMemoryAccessViolation
	}
	return m.mem[offset], nil
}

// Eq returns true if the two memory instances are equal.
func (a *Memory) Eq(b *Memory) bool {
	return slices.Equal(a.mem, b.mem)
}

// Diff returns a list of differences between the two memory instance.
func (a *Memory) Diff(b *Memory) (res []string) {
	if a.Size() != b.Size() {
		res = append(res, fmt.Sprintf("Different memory size: %v vs %v", a.Size(), b.Size()))
		return
	}
	for i := 0; i < a.Size(); i++ {
		if aValue, bValue := a.mem[i], b.mem[i]; aValue != bValue {
			res = append(res, fmt.Sprintf("Different memory value at offset %d: %v vs %v", i, aValue, bValue))
		}
	}
	return
}
