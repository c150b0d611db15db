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
	"math/bits"

	"github.com/Fantom-foundation/MockVM/go/mockvm"
)

// GasCounter tracks the gas burnt by the current account and the gas used,
// which includes gas prepaid to created receipts.
type GasCounter struct {
	Burnt mockvm.Gas `json:"burnt"`
	Used  mockvm.Gas `json:"used"`
}

// GasLimits are the bounds a GasCounter is checked against.
type GasLimits struct {
	Prepaid  mockvm.Gas
	MaxBurnt mockvm.Gas
	IsView   bool
}

// Deduct burns burn and uses use gas. Exceeding the maximum burnt gas is
// ErrGasLimitExceeded, exceeding the prepaid gas outside of view calls is
// ErrGasExceeded. On failure the counters are clamped to their limits.
func (g *GasCounter) Deduct(burn, use mockvm.Gas, limits GasLimits) error {
	newBurnt, carry := bits.Add64(uint64(g.Burnt), uint64(burn), 0)
	if carry != 0 {
		return mockvm.ErrIntegerOverflow
	}
	newUsed, carry := bits.Add64(uint64(g.Used), uint64(use), 0)
	if carry != 0 {
		return mockvm.ErrIntegerOverflow
	}
	burnt, used := mockvm.Gas(newBurnt), mockvm.Gas(newUsed)
	if burnt <= limits.MaxBurnt && (limits.IsView || used <= limits.Prepaid) {
		g.Burnt, g.Used = burnt, used
		return nil
	}

	err := error(mockvm.ErrGasExceeded)
	if burnt > limits.MaxBurnt {
		err = mockvm.ErrGasLimitExceeded
	}
	g.Burnt = min(burnt, min(limits.MaxBurnt, limits.Prepaid))
	g.Used = min(used, limits.Prepaid)
	return err
}

// Pay burns and uses cost.
func (g *GasCounter) Pay(cost mockvm.Gas, limits GasLimits) error {
	return g.Deduct(cost, cost, limits)
}

// PayPerByte pays base plus perByte for each of n bytes.
func (g *GasCounter) PayPerByte(base, perByte mockvm.Gas, n uint64, limits GasLimits) error {
	hi, total := bits.Mul64(uint64(perByte), n)
	if hi != 0 {
		return mockvm.ErrIntegerOverflow
	}
	total, carry := bits.Add64(total, uint64(base), 0)
	if carry != 0 {
		return mockvm.ErrIntegerOverflow
	}
	return g.Pay(mockvm.Gas(total), limits)
}

func (g GasCounter) String() string {
	return fmt.Sprintf("burnt: %d, used: %d", g.Burnt, g.Used)
}
