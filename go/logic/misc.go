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
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/Fantom-foundation/MockVM/go/mockvm"
)

// Gas charges the cost of amount regular operations.
func (l *Logic) Gas(amount uint32) error {
	hi, cost := bits.Mul64(uint64(l.config.RegularOpCost), uint64(amount))
	if hi != 0 {
		return mockvm.ErrIntegerOverflow
	}
	return l.state.Gas.Pay(mockvm.Gas(cost), l.gasLimits())
}

// ValueReturn sets the value returned by the current call.
func (l *Logic) ValueReturn(src mockvm.Source) error {
	if err := l.pay(mockvm.CostBase); err != nil {
		return err
	}
	value, err := l.get(src)
	if err != nil {
		return err
	}
	l.state.ReturnData = mockvm.ReturnData{
		Kind:  mockvm.ReturnValue,
		Value: append([]byte{}, value...),
	}
	return nil
}

// Panic terminates the guest with a generic message.
func (l *Logic) Panic() error {
	if err := l.pay(mockvm.CostBase); err != nil {
		return err
	}
	return &mockvm.GuestPanicError{Message: "explicit guest panic"}
}

// PanicUtf8 terminates the guest with the given message.
func (l *Logic) PanicUtf8(length, ptr uint64) error {
	if err := l.pay(mockvm.CostBase); err != nil {
		return err
	}
	message, err := l.getUtf8String(length, ptr)
	if err != nil {
		return err
	}
	return &mockvm.GuestPanicError{Message: message}
}

func (l *Logic) checkCanAddLog() error {
	if uint64(len(l.state.Logs)) >= l.config.Limits.MaxNumberLogs {
		return mockvm.ErrNumberOfLogsExceeded
	}
	return nil
}

func (l *Logic) addLog(message string) error {
	if err := l.payBaseAndBytes(mockvm.CostLogBase, mockvm.CostLogByte, uint64(len(message))); err != nil {
		return err
	}
	l.state.Logs = append(l.state.Logs, message)
	return nil
}

// LogUtf8 appends a UTF-8 message to the logs.
func (l *Logic) LogUtf8(length, ptr uint64) error {
	if err := l.pay(mockvm.CostBase); err != nil {
		return err
	}
	if err := l.checkCanAddLog(); err != nil {
		return err
	}
	message, err := l.getUtf8String(length, ptr)
	if err != nil {
		return err
	}
	return l.addLog(message)
}

// LogUtf16 appends a UTF-16 message to the logs.
func (l *Logic) LogUtf16(length, ptr uint64) error {
	if err := l.pay(mockvm.CostBase); err != nil {
		return err
	}
	if err := l.checkCanAddLog(); err != nil {
		return err
	}
	message, err := l.getUtf16String(length, ptr)
	if err != nil {
		return err
	}
	return l.addLog(message)
}

// Abort is called by AssemblyScript guests on failed assertions. Message and
// file name are UTF-16 strings whose byte length is stored as a 32-bit
// little-endian value in the four bytes before them.
func (l *Logic) Abort(msgPtr, filenamePtr uint64, line, col uint32) error {
	if err := l.pay(mockvm.CostBase); err != nil {
		return err
	}
	if msgPtr < 4 || filenamePtr < 4 {
		return mockvm.ErrBadUtf16
	}
	if err := l.checkCanAddLog(); err != nil {
		return err
	}
	message, err := l.getPrefixedUtf16String(msgPtr)
	if err != nil {
		return err
	}
	filename, err := l.getPrefixedUtf16String(filenamePtr)
	if err != nil {
		return err
	}
	return &mockvm.GuestPanicError{
		Message: fmt.Sprintf("%s, filename: %q line: %d col: %d", message, filename, line, col),
	}
}

func (l *Logic) getPrefixedUtf16String(ptr uint64) (string, error) {
	header, err := l.memoryGet(ptr-4, 4)
	if err != nil {
		return "", err
	}
	length := uint64(binary.LittleEndian.Uint32(header))
	return l.getUtf16String(length, ptr)
}
