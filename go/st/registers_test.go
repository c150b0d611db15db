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
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/Fantom-foundation/MockVM/go/mockvm"
)

func TestRegisters_UnusedRegister(t *testing.T) {
	regs := NewRegisters()
	if want, got := uint64(math.MaxUint64), regs.Len(0); want != got {
		t.Errorf("want %d, got %d", want, got)
	}
	if _, err := regs.Read(0); !errors.Is(err, mockvm.ErrInvalidRegisterId) {
		t.Errorf("want %v, got %v", mockvm.ErrInvalidRegisterId, err)
	}
}

func TestRegisters_WriteReplacesContent(t *testing.T) {
	limits := mockvm.DefaultConfig().Limits
	regs := NewRegisters()
	if err := regs.Write(1, []byte("a longer value"), limits); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := regs.Write(1, []byte("short"), limits); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := regs.Read(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := "short", string(data); want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if want, got := uint64(5), regs.Len(1); want != got {
		t.Errorf("want %d, got %d", want, got)
	}
	if want, got := uint64(5), regs.Size(); want != got {
		t.Errorf("want %d, got %d", want, got)
	}
}

func TestRegisters_ReadDoesNotConsume(t *testing.T) {
	limits := mockvm.DefaultConfig().Limits
	regs := NewRegisters()
	if err := regs.Write(0, []byte{1, 2}, limits); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if data, err := regs.Read(0); err != nil || !slices.Equal(data, []byte{1, 2}) {
			t.Errorf("read %d: unexpected result %v (%v)", i, data, err)
		}
	}
}

func TestRegisters_EmptyContentIsUsed(t *testing.T) {
	regs := NewRegisters()
	if err := regs.Write(3, nil, mockvm.DefaultConfig().Limits); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := uint64(0), regs.Len(3); want != got {
		t.Errorf("want %d, got %d", want, got)
	}
	if _, err := regs.Read(3); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRegisters_WriteStoresCopy(t *testing.T) {
	regs := NewRegisters()
	data := []byte{1, 2, 3}
	if err := regs.Write(0, data, mockvm.DefaultConfig().Limits); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data[0] = 9
	if got, _ := regs.Read(0); got[0] != 1 {
		t.Errorf("register aliased caller buffer")
	}
}

func TestRegisters_LimitsAreEnforced(t *testing.T) {
	limits := mockvm.Limits{
		MaxRegisterSize:      4,
		MaxNumberRegisters:   2,
		RegistersMemoryLimit: 6,
	}
	tests := map[string]func(*Registers) error{
		"register too large": func(r *Registers) error {
			return r.Write(0, make([]byte, 5), limits)
		},
		"too many registers": func(r *Registers) error {
			if err := r.Write(0, nil, limits); err != nil {
				return err
			}
			if err := r.Write(1, nil, limits); err != nil {
				return err
			}
			return r.Write(2, nil, limits)
		},
		"total memory exceeded": func(r *Registers) error {
			if err := r.Write(0, make([]byte, 4), limits); err != nil {
				return err
			}
			return r.Write(1, make([]byte, 3), limits)
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if err := test(NewRegisters()); !errors.Is(err, mockvm.ErrMemoryAccessViolation) {
				t.Errorf("want %v, got %v", mockvm.ErrMemoryAccessViolation, err)
			}
		})
	}

	regs := NewRegisters()
	if err := regs.Write(0, make([]byte, 4), limits); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := regs.Write(0, make([]byte, 4), limits); err != nil {
		t.Errorf("overwriting an existing register should not count twice: %v", err)
	}
}

func TestRegisters_CloneIsIndependent(t *testing.T) {
	limits := mockvm.DefaultConfig().Limits
	regs := NewRegisters()
	if err := regs.Write(0, []byte{1}, limits); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clone := regs.Clone()
	if !regs.Eq(clone) {
		t.Fatalf("clone differs: %v", regs.Diff(clone))
	}
	if err := clone.Write(0, []byte{2}, limits); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := clone.Write(1, []byte{3}, limits); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := regs.Read(0); got[0] != 1 {
		t.Errorf("original modified through clone")
	}
	if want, got := 2, len(regs.Diff(clone)); want != got {
		t.Errorf("want %d differences, got %v", want, regs.Diff(clone))
	}
	if want, got := []uint64{0, 1}, clone.Ids(); !slices.Equal(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
}
