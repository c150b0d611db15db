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

func (l *Logic) accountIdToRegister(id mockvm.AccountId, register uint64, view bool) error {
	var err error
	if view {
		err = l.startView()
	} else {
		err = l.pay(mockvm.CostBase)
	}
	if err != nil {
		return err
	}
	return l.registerSet(register, []byte(id))
}

func (l *Logic) CurrentAccountId(register uint64) error {
	return l.accountIdToRegister(l.ctx.CurrentAccountId, register, false)
}

func (l *Logic) SignerAccountId(register uint64) error {
	return l.accountIdToRegister(l.ctx.SignerAccountId, register, true)
}

func (l *Logic) SignerAccountPk(register uint64) error {
	if err := l.startView(); err != nil {
		return err
	}
	return l.registerSet(register, l.ctx.SignerAccountPk)
}

func (l *Logic) PredecessorAccountId(register uint64) error {
	return l.accountIdToRegister(l.ctx.PredecessorAccountId, register, true)
}

// Input writes the input of the current call into a register.
func (l *Logic) Input(register uint64) error {
	if err := l.pay(mockvm.CostBase); err != nil {
		return err
	}
	return l.registerSet(register, l.ctx.Input)
}

func (l *Logic) BlockIndex() (uint64, error) {
	if err := l.pay(mockvm.CostBase); err != nil {
		return 0, err
	}
	return l.ctx.BlockIndex, nil
}

func (l *Logic) BlockTimestamp() (uint64, error) {
	if err := l.pay(mockvm.CostBase); err != nil {
		return 0, err
	}
	return l.ctx.BlockTimestamp, nil
}

// StorageUsage returns the number of bytes the current account occupies,
// including changes made by this session.
func (l *Logic) StorageUsage() (uint64, error) {
	if err := l.pay(mockvm.CostBase); err != nil {
		return 0, err
	}
	return l.state.StorageUsage, nil
}

// AccountBalance writes the current balance as 16-byte little-endian value
// to guest memory. Deposits attached to created receipts are deducted.
func (l *Logic) AccountBalance(ptr uint64) error {
	if err := l.pay(mockvm.CostBase); err != nil {
		return err
	}
	return l.memorySet(ptr, l.state.Balance.LittleEndian())
}

func (l *Logic) AccountLockedBalance(ptr uint64) error {
	if err := l.pay(mockvm.CostBase); err != nil {
		return err
	}
	return l.memorySet(ptr, l.ctx.AccountLockedBalance.LittleEndian())
}

func (l *Logic) AttachedDeposit(ptr uint64) error {
	if err := l.startView(); err != nil {
		return err
	}
	return l.memorySet(ptr, l.ctx.AttachedDeposit.LittleEndian())
}

func (l *Logic) PrepaidGas() (mockvm.Gas, error) {
	if err := l.startView(); err != nil {
		return 0, err
	}
	return l.ctx.PrepaidGas, nil
}

func (l *Logic) UsedGas() (mockvm.Gas, error) {
	if err := l.startView(); err != nil {
		return 0, err
	}
	return l.state.Gas.Used, nil
}

func (l *Logic) RandomSeed(register uint64) error {
	if err := l.pay(mockvm.CostBase); err != nil {
		return err
	}
	return l.registerSet(register, l.ctx.RandomSeed)
}
