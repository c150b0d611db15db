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
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/holiman/uint256"
)

func TestBalance_LittleEndianEncoding(t *testing.T) {
	balance := NewBalance(0x0102)
	want := make([]byte, 16)
	want[0] = 0x02
	want[1] = 0x01
	if got := balance.LittleEndian(); !bytes.Equal(want, got) {
		t.Errorf("want %x, got %x", want, got)
	}
	restored, err := BalanceFromLittleEndian(want)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restored != balance {
		t.Errorf("want %v, got %v", balance, restored)
	}
	if _, err := BalanceFromLittleEndian([]byte{1, 2}); err == nil {
		t.Errorf("expected short encoding to be rejected")
	}
}

func TestBalance_FromUint256RejectsValuesAbove128Bits(t *testing.T) {
	max128 := new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))
	if _, ok := BalanceFromUint256(max128); !ok {
		t.Errorf("2^128-1 should fit into a balance")
	}
	tooBig := new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	if _, ok := BalanceFromUint256(tooBig); ok {
		t.Errorf("2^128 should not fit into a balance")
	}
	if b, ok := BalanceFromUint256(nil); !ok || !b.IsZero() {
		t.Errorf("nil should convert to zero")
	}
}

func TestBalance_CheckedArithmetic(t *testing.T) {
	sum, err := AddBalance(NewBalance(2), NewBalance(3))
	if err != nil || sum != NewBalance(5) {
		t.Errorf("want 5, got %v (%v)", sum, err)
	}
	diff, err := SubBalance(NewBalance(5), NewBalance(3))
	if err != nil || diff != NewBalance(2) {
		t.Errorf("want 2, got %v (%v)", diff, err)
	}
	if _, err := SubBalance(NewBalance(1), NewBalance(2)); !errors.Is(err, ErrIntegerOverflow) {
		t.Errorf("want %v, got %v", ErrIntegerOverflow, err)
	}
	var max Balance
	for i := range max {
		max[i] = 0xff
	}
	if _, err := AddBalance(max, NewBalance(1)); !errors.Is(err, ErrIntegerOverflow) {
		t.Errorf("want %v, got %v", ErrIntegerOverflow, err)
	}
}

func TestBalance_TextEncodingIsDecimal(t *testing.T) {
	data, err := json.Marshal(NewBalance(1234))
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if want, got := `"1234"`, string(data); want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	var restored Balance
	if err := json.Unmarshal([]byte(`"0x10"`), &restored); err != nil {
		t.Fatalf("failed to parse hex balance: %v", err)
	}
	if restored != NewBalance(16) {
		t.Errorf("want 16, got %v", restored)
	}
	if err := json.Unmarshal([]byte(`"abc"`), &restored); err == nil {
		t.Errorf("expected invalid balance to be rejected")
	}
}

func TestReturnData_StringAndEquality(t *testing.T) {
	tests := map[string]struct {
		data ReturnData
		want string
	}{
		"none":    {ReturnData{}, "none"},
		"value":   {ReturnData{Kind: ReturnValue, Value: []byte{1, 2}}, "value(0x0102)"},
		"receipt": {ReturnData{Kind: ReturnReceiptIndex, ReceiptIndex: 3}, "receipt(3)"},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if got := test.data.String(); test.want != got {
				t.Errorf("want %v, got %v", test.want, got)
			}
			if !test.data.Eq(test.data.Clone()) {
				t.Errorf("clone of %v is not equal", test.data)
			}
		})
	}
	if (ReturnData{Kind: ReturnValue, Value: []byte{1}}).Eq(ReturnData{Kind: ReturnValue, Value: []byte{2}}) {
		t.Errorf("different values reported equal")
	}
}

func TestPromiseResultStatus_TextRoundTrip(t *testing.T) {
	for _, status := range []PromiseResultStatus{PromiseNotReady, PromiseSuccessful, PromiseFailed} {
		text, _ := status.MarshalText()
		var restored PromiseResultStatus
		if err := restored.UnmarshalText(text); err != nil || restored != status {
			t.Errorf("failed to restore %v from %s: %v", status, text, err)
		}
	}
	var status PromiseResultStatus
	if err := status.UnmarshalText([]byte("pending")); err == nil {
		t.Errorf("expected unknown status to be rejected")
	}
}
