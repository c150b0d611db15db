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
	"testing"

	"github.com/Fantom-foundation/MockVM/go/mockvm"
)

func TestGasCounter_Deduct(t *testing.T) {
	limits := GasLimits{Prepaid: 100, MaxBurnt: 150}
	tests := map[string]struct {
		start     GasCounter
		burn, use mockvm.Gas
		limits    GasLimits
		want      GasCounter
		wantErr   error
	}{
		"within limits": {
			start: GasCounter{Burnt: 10, Used: 20}, burn: 5, use: 5, limits: limits,
			want: GasCounter{Burnt: 15, Used: 25},
		},
		"exactly prepaid": {
			burn: 100, use: 100, limits: limits,
			want: GasCounter{Burnt: 100, Used: 100},
		},
		"prepaid exceeded": {
			start: GasCounter{Burnt: 50, Used: 90}, burn: 5, use: 20, limits: limits,
			want: GasCounter{Burnt: 55, Used: 100}, wantErr: mockvm.ErrGasExceeded,
		},
		"burnt limit exceeded": {
			burn: 151, use: 151, limits: GasLimits{Prepaid: 1000, MaxBurnt: 150},
			want: GasCounter{Burnt: 150, Used: 151}, wantErr: mockvm.ErrGasLimitExceeded,
		},
		"burnt limit checked before prepaid": {
			burn: 200, use: 200, limits: limits,
			want: GasCounter{Burnt: 100, Used: 100}, wantErr: mockvm.ErrGasLimitExceeded,
		},
		"view ignores prepaid": {
			burn: 120, use: 120, limits: GasLimits{Prepaid: 100, MaxBurnt: 150, IsView: true},
			want: GasCounter{Burnt: 120, Used: 120},
		},
		"burnt overflow": {
			start: GasCounter{Burnt: math.MaxUint64, Used: math.MaxUint64}, burn: 1, use: 1, limits: limits,
			want: GasCounter{Burnt: math.MaxUint64, Used: math.MaxUint64}, wantErr: mockvm.ErrIntegerOverflow,
		},
		"prepaid gas is used not burnt": {
			burn: 0, use: 60, limits: limits,
			want: GasCounter{Burnt: 0, Used: 60},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			counter := test.start
			err := counter.Deduct(test.burn, test.use, test.limits)
			if test.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if test.wantErr != nil && !errors.Is(err, test.wantErr) {
				t.Errorf("want %v, got %v", test.wantErr, err)
			}
			if test.want != counter {
				t.Errorf("want %v, got %v", test.want, counter)
			}
		})
	}
}

func TestGasCounter_PayPerByte(t *testing.T) {
	limits := GasLimits{Prepaid: 1000, MaxBurnt: 1000}
	counter := GasCounter{}
	if err := counter.PayPerByte(10, 3, 5, limits); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := (GasCounter{Burnt: 25, Used: 25}), counter; want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if err := counter.PayPerByte(0, math.MaxUint64, 2, limits); !errors.Is(err, mockvm.ErrIntegerOverflow) {
		t.Errorf("want %v, got %v", mockvm.ErrIntegerOverflow, err)
	}
	if err := counter.PayPerByte(math.MaxUint64, 1, 1, limits); !errors.Is(err, mockvm.ErrIntegerOverflow) {
		t.Errorf("want %v, got %v", mockvm.ErrIntegerOverflow, err)
	}
}
