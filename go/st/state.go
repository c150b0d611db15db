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
	"strings"

	"github.com/Fantom-foundation/MockVM/go/mockvm"
)

// State is everything a host session accumulates across calls. It is the
// unit of snapshot and restore.
type State struct {
	Registers    *Registers
	Storage      *Storage
	Receipts     *Receipts
	Promises     *Promises
	Gas          GasCounter
	Logs         []string
	ReturnData   mockvm.ReturnData
	Balance      mockvm.Balance
	StorageUsage uint64
}

// NewState creates an empty state for an account with the given balance and
// storage usage.
func NewState(balance mockvm.Balance, storageUsage uint64) *State {
	return &State{
		Registers:    NewRegisters(),
		Storage:      NewStorage(),
		Receipts:     NewReceipts(),
		Promises:     NewPromises(),
		Balance:      balance,
		StorageUsage: storageUsage,
	}
}

// Clone creates an independent copy of the state.
func (s *State) Clone() *State {
	return &State{
		Registers:    s.Registers.Clone(),
		Storage:      s.Storage.Clone(),
		Receipts:     s.Receipts.Clone(),
		Promises:     s.Promises.Clone(),
		Gas:          s.Gas,
		Logs:         slices.Clone(s.Logs),
		ReturnData:   s.ReturnData.Clone(),
		Balance:      s.Balance,
		StorageUsage: s.StorageUsage,
	}
}

func (s *State) Eq(other *State) bool {
	return s.Registers.Eq(other.Registers) &&
		s.Storage.Eq(other.Storage) &&
		s.Receipts.Eq(other.Receipts) &&
		s.Promises.Eq(other.Promises) &&
		s.Gas == other.Gas &&
		slices.Equal(s.Logs, other.Logs) &&
		s.ReturnData.Eq(other.ReturnData) &&
		s.Balance == other.Balance &&
		s.StorageUsage == other.StorageUsage
}

func (s *State) String() string {
	builder := strings.Builder{}
	builder.WriteString("{\n")
	builder.WriteString(fmt.Sprintf("\tGas: %v\n", s.Gas))
	builder.WriteString(fmt.Sprintf("\tBalance: %v\n", s.Balance))
	builder.WriteString(fmt.Sprintf("\tStorage usage: %d\n", s.StorageUsage))
	builder.WriteString(fmt.Sprintf("\tReturn data: %v\n", s.ReturnData))
	builder.WriteString("\tRegisters:\n")
	for _, id := range s.Registers.Ids() {
		data, _ := s.Registers.Read(id)
		builder.WriteString(fmt.Sprintf("\t    %d: 0x%x\n", id, data))
	}
	builder.WriteString(fmt.Sprintf("\tStorage: %d entries\n", s.Storage.Len()))
	s.Storage.Scan(func(key, value []byte) bool {
		builder.WriteString(fmt.Sprintf("\t    [0x%x]=0x%x\n", key, value))
		return true
	})
	builder.WriteString("\tIterators:\n")
	for _, id := range s.Storage.Iterators() {
		builder.WriteString(fmt.Sprintf("\t    %d: %v\n", id, s.Storage.iterators[id]))
	}
	builder.WriteString(fmt.Sprintf("\tReceipts: %d\n", s.Receipts.Len()))
	for i, receipt := range s.Receipts.receipts {
		builder.WriteString(fmt.Sprintf("\t    %d: %v <- %v %v\n", i, receipt.ReceiverId, receipt.Dependencies, receipt.Actions))
	}
	builder.WriteString(fmt.Sprintf("\tPromises: %v\n", s.Promises.list))
	builder.WriteString(fmt.Sprintf("\tLogs: %q\n", s.Logs))
	builder.WriteString("}")
	return builder.String()
}

func (s *State) Diff(o *State) []string {
	res := []string{}

	res = append(res, s.Registers.Diff(o.Registers)...)
	res = append(res, s.Storage.Diff(o.Storage)...)
	res = append(res, s.Receipts.Diff(o.Receipts)...)
	res = append(res, s.Promises.Diff(o.Promises)...)

	if s.Gas != o.Gas {
		res = append(res, fmt.Sprintf("Different gas: %v vs %v", s.Gas, o.Gas))
	}

	if !slices.Equal(s.Logs, o.Logs) {
		res = append(res, fmt.Sprintf("Different logs: %q vs %q", s.Logs, o.Logs))
	}

	if !s.ReturnData.Eq(o.ReturnData) {
		res = append(res, fmt.Sprintf("Different return data: %v vs %v", s.ReturnData, o.ReturnData))
	}

	if s.Balance != o.Balance {
		res = append(res, fmt.Sprintf("Different balance: %v vs %v", s.Balance, o.Balance))
	}

	if s.StorageUsage != o.StorageUsage {
		res = append(res, fmt.Sprintf("Different storage usage: %d vs %d", s.StorageUsage, o.StorageUsage))
	}

	return res
}
