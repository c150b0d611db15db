// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package mockvm

import (
	"fmt"
	"math"
)

// Source selects where a byte-sequence argument of a host operation is taken
// from: a span of guest memory or a register.
type Source struct {
	register bool
	// ptr is the memory offset, or the register id for register sources.
	ptr    uint64
	length uint64
}

// FromMemory creates a source referring to length bytes at ptr in guest memory.
func FromMemory(ptr, length uint64) Source {
	return Source{ptr: ptr, length: length}
}

// FromRegister creates a source referring to the content of a register.
func FromRegister(id uint64) Source {
	return Source{register: true, ptr: id}
}

// SourceFromABI converts the (len, ptr) argument pair used at the guest
// boundary. A length of math.MaxUint64 selects the register whose id is ptr.
func SourceFromABI(length, ptr uint64) Source {
	if length == math.MaxUint64 {
		return FromRegister(ptr)
	}
	return FromMemory(ptr, length)
}

func (s Source) IsRegister() bool {
	return s.register
}

// Register returns the register id of a register source.
func (s Source) Register() uint64 {
	return s.ptr
}

// Span returns offset and length of a memory source.
func (s Source) Span() (ptr, length uint64) {
	return s.ptr, s.length
}

func (s Source) String() string {
	if s.register {
		return fmt.Sprintf("register(%d)", s.ptr)
	}
	return fmt.Sprintf("memory(%d,%d)", s.ptr, s.length)
}
