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

import "github.com/Fantom-foundation/MockVM/go/mockvm"

// ReadRegister copies the content of register id into guest memory at ptr.
func (l *Logic) ReadRegister(id, ptr uint64) error {
	if err := l.pay(mockvm.CostBase); err != nil {
		return err
	}
	data, err := l.registerGet(id)
	if err != nil {
		return err
	}
	return l.memorySet(ptr, data)
}

// RegisterLen returns the length of register id, or math.MaxUint64 if it
// is unused.
func (l *Logic) RegisterLen(id uint64) (uint64, error) {
	if err := l.pay(mockvm.CostBase); err != nil {
		return 0, err
	}
	return l.state.Registers.Len(id), nil
}

// WriteRegister copies dataLen bytes of guest memory at dataPtr into
// register id.
func (l *Logic) WriteRegister(id, dataLen, dataPtr uint64) error {
	if err := l.pay(mockvm.CostBase); err != nil {
		return err
	}
	data, err := l.memoryGet(dataPtr, dataLen)
	if err != nil {
		return err
	}
	return l.registerSet(id, data)
}

// ReadRegisterBytes returns a copy of the content of register id.
func (l *Logic) ReadRegisterBytes(id uint64) ([]byte, error) {
	data, err := l.state.Registers.Read(id)
	if err != nil {
		return nil, err
	}
	return append([]byte{}, data...), nil
}
