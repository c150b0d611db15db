// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package logic implements the host operations available to a guest program.
// A Logic instance executes operations against a single st.State, which it
// modifies in place; callers wanting commit-on-success semantics hand it a
// clone.
package logic

import (
	"encoding/binary"
	"math"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/Fantom-foundation/MockVM/go/mockvm"
	"github.com/Fantom-foundation/MockVM/go/st"
)

// Params are the inputs of a Logic besides the state it operates on.
type Params struct {
	Context        mockvm.Context
	Config         *mockvm.Config
	Memory         mockvm.Memory
	PromiseResults []mockvm.PromiseResult
	// Ledger receives created receipts. If nil, the receipts of the state
	// are used.
	Ledger mockvm.ReceiptLedger
}

type Logic struct {
	ctx     mockvm.Context
	config  *mockvm.Config
	memory  mockvm.Memory
	results []mockvm.PromiseResult
	ledger  mockvm.ReceiptLedger
	state   *st.State
}

// New creates a Logic operating on the given state.
func New(state *st.State, params Params) *Logic {
	config := params.Config
	if config == nil {
		config = mockvm.FreeConfig()
	}
	ledger := params.Ledger
	if ledger == nil {
		ledger = state.Receipts
	}
	return &Logic{
		ctx:     params.Context,
		config:  config,
		memory:  params.Memory,
		results: params.PromiseResults,
		ledger:  ledger,
		state:   state,
	}
}

// State returns the state the operations are applied to.
func (l *Logic) State() *st.State {
	return l.state
}

////////////////////////////////////////////////////////////
// Gas

func (l *Logic) gasLimits() st.GasLimits {
	return st.GasLimits{
		Prepaid:  l.ctx.PrepaidGas,
		MaxBurnt: l.config.Limits.MaxGasBurnt,
		IsView:   l.ctx.IsView,
	}
}

func (l *Logic) pay(cost mockvm.ExtCost) error {
	return l.state.Gas.Pay(l.config.ExtCost(cost), l.gasLimits())
}

func (l *Logic) payPerByte(cost mockvm.ExtCost, n uint64) error {
	return l.state.Gas.PayPerByte(0, l.config.ExtCost(cost), n, l.gasLimits())
}

func (l *Logic) payBaseAndBytes(base, perByte mockvm.ExtCost, n uint64) error {
	return l.state.Gas.PayPerByte(l.config.ExtCost(base), l.config.ExtCost(perByte), n, l.gasLimits())
}

func (l *Logic) payAction(kind mockvm.ActionKind, bytes uint64) error {
	return l.state.Gas.PayPerByte(l.config.ActionCost(kind), l.config.ActionByteCost(kind), bytes, l.gasLimits())
}

// startView pays the base cost and rejects the operation in view calls.
func (l *Logic) startView() error {
	if err := l.pay(mockvm.CostBase); err != nil {
		return err
	}
	if l.ctx.IsView {
		return mockvm.ErrProhibitedInView
	}
	return nil
}

////////////////////////////////////////////////////////////
// Memory and registers

func (l *Logic) memoryGet(ptr, length uint64) ([]byte, error) {
	if !l.memory.Fits(ptr, length) {
		return nil, mockvm.ErrMemoryAccessViolation
	}
	if err := l.payBaseAndBytes(mockvm.CostReadMemoryBase, mockvm.CostReadMemoryByte, length); err != nil {
		return nil, err
	}
	buffer := make([]byte, length)
	if err := l.memory.Read(ptr, buffer); err != nil {
		return nil, err
	}
	return buffer, nil
}

func (l *Logic) memoryGetU8(ptr uint64) (byte, error) {
	if err := l.payBaseAndBytes(mockvm.CostReadMemoryBase, mockvm.CostReadMemoryByte, 1); err != nil {
		return 0, err
	}
	return l.memory.ReadU8(ptr)
}

func (l *Logic) memorySet(ptr uint64, data []byte) error {
	if !l.memory.Fits(ptr, uint64(len(data))) {
		return mockvm.ErrMemoryAccessViolation
	}
	if err := l.payBaseAndBytes(mockvm.CostWriteMemoryBase, mockvm.CostWriteMemoryByte, uint64(len(data))); err != nil {
		return err
	}
	return l.memory.Write(ptr, data)
}

func (l *Logic) registerGet(id uint64) ([]byte, error) {
	data, err := l.state.Registers.Read(id)
	if err != nil {
		return nil, err
	}
	if err := l.payBaseAndBytes(mockvm.CostReadRegisterBase, mockvm.CostReadRegisterByte, uint64(len(data))); err != nil {
		return nil, err
	}
	return data, nil
}

func (l *Logic) registerSet(id uint64, data []byte) error {
	if err := l.payBaseAndBytes(mockvm.CostWriteRegisterBase, mockvm.CostWriteRegisterByte, uint64(len(data))); err != nil {
		return err
	}
	return l.state.Registers.Write(id, data, l.config.Limits)
}

// get reads a byte-sequence argument from guest memory or a register. The
// result must not be modified.
func (l *Logic) get(src mockvm.Source) ([]byte, error) {
	if src.IsRegister() {
		return l.registerGet(src.Register())
	}
	return l.memoryGet(src.Span())
}

func (l *Logic) getBalance(ptr uint64) (mockvm.Balance, error) {
	data, err := l.memoryGet(ptr, 16)
	if err != nil {
		return mockvm.Balance{}, err
	}
	return mockvm.BalanceFromLittleEndian(data)
}

////////////////////////////////////////////////////////////
// Strings

// getUtf8String reads a UTF-8 string of the given length, or a NUL
// terminated one if length is math.MaxUint64.
func (l *Logic) getUtf8String(length, ptr uint64) (string, error) {
	if err := l.pay(mockvm.CostUtf8DecodingBase); err != nil {
		return "", err
	}
	maxLen := l.config.Limits.MaxLogLen
	var data []byte
	if length != math.MaxUint64 {
		if length > maxLen {
			return "", mockvm.ErrBadUtf8
		}
		buffer, err := l.memoryGet(ptr, length)
		if err != nil {
			return "", err
		}
		data = buffer
	} else {
		for i := uint64(0); ; i++ {
			if i > maxLen {
				return "", mockvm.ErrBadUtf8
			}
			if ptr+i < ptr {
				return "", mockvm.ErrMemoryAccessViolation
			}
			c, err := l.memoryGetU8(ptr + i)
			if err != nil {
				return "", err
			}
			if c == 0 {
				break
			}
			data = append(data, c)
		}
	}
	if err := l.payPerByte(mockvm.CostUtf8DecodingByte, uint64(len(data))); err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", mockvm.ErrBadUtf8
	}
	return string(data), nil
}

// getUtf16String reads a little-endian UTF-16 string of the given length in
// bytes, or a NUL terminated one if length is math.MaxUint64.
func (l *Logic) getUtf16String(length, ptr uint64) (string, error) {
	if err := l.pay(mockvm.CostUtf16DecodingBase); err != nil {
		return "", err
	}
	maxLen := l.config.Limits.MaxLogLen
	var units []uint16
	if length != math.MaxUint64 {
		if length%2 != 0 || length/2 > maxLen {
			return "", mockvm.ErrBadUtf16
		}
		data, err := l.memoryGet(ptr, length)
		if err != nil {
			return "", err
		}
		units = make([]uint16, 0, length/2)
		for i := 0; i < len(data); i += 2 {
			units = append(units, binary.LittleEndian.Uint16(data[i:]))
		}
	} else {
		for i := uint64(0); ; i += 2 {
			if i/2 > maxLen {
				return "", mockvm.ErrBadUtf16
			}
			if ptr+i+1 < ptr {
				return "", mockvm.ErrMemoryAccessViolation
			}
			data, err := l.memoryGet(ptr+i, 2)
			if err != nil {
				return "", err
			}
			unit := binary.LittleEndian.Uint16(data)
			if unit == 0 {
				break
			}
			units = append(units, unit)
		}
	}
	if err := l.payPerByte(mockvm.CostUtf16DecodingByte, uint64(2*len(units))); err != nil {
		return "", err
	}
	if !validUtf16(units) {
		return "", mockvm.ErrBadUtf16
	}
	return string(utf16.Decode(units)), nil
}

// validUtf16 reports whether units contains only properly paired surrogates.
func validUtf16(units []uint16) bool {
	for i := 0; i < len(units); i++ {
		r := rune(units[i])
		if !utf16.IsSurrogate(r) {
			continue
		}
		if i+1 >= len(units) || utf16.DecodeRune(r, rune(units[i+1])) == utf8.RuneError {
			return false
		}
		i++
	}
	return true
}
