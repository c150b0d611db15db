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

//go:generate mockgen -source memory.go -destination memory_mock.go -package mockvm

// Memory grants access to the linear memory of the guest program. All
// operations fail closed: an access outside the guest's memory returns
// ErrMemoryAccessViolation and leaves memory and buffers untouched.
type Memory interface {
	// Fits reports whether [offset, offset+length) lies within memory. It
	// never panics, not even if offset+length overflows.
	Fits(offset, length uint64) bool
	// Read fills buffer with the bytes starting at offset.
	Read(offset uint64, buffer []byte) error
	// Write copies buffer into memory starting at offset.
	Write(offset uint64, buffer []byte) error
	// ReadU8 reads a single byte.
	ReadU8(offset uint64) (byte, error)
}
