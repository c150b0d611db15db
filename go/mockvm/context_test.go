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

import "testing"

func TestDefaultContext_Values(t *testing.T) {
	ctx := DefaultContext()
	if want, got := AccountId("alice"), ctx.CurrentAccountId; want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if want, got := uint64(10), ctx.BlockIndex; want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if want, got := NewBalance(2), ctx.AccountBalance; want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if want, got := Gas(100_000_000_000_000), ctx.PrepaidGas; want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if ctx.IsView {
		t.Errorf("default context should not be a view call")
	}
}

func TestContext_CloneIsIndependent(t *testing.T) {
	ctx := DefaultContext()
	ctx.OutputDataReceivers = []AccountId{"x"}
	clone := ctx.Clone()
	if !ctx.Eq(clone) {
		t.Fatalf("clone differs from original")
	}
	clone.Input[0] = 42
	clone.RandomSeed[0] = 42
	clone.OutputDataReceivers[0] = "y"
	if ctx.Input[0] == 42 || ctx.RandomSeed[0] == 42 || ctx.OutputDataReceivers[0] == "y" {
		t.Errorf("modifying clone changed original")
	}
	if ctx.Eq(clone) {
		t.Errorf("modified clone still equal")
	}
}

func TestReceipt_CloneIsIndependent(t *testing.T) {
	receipt := Receipt{
		ReceiverId:   "bob.near",
		Dependencies: []ReceiptIndex{0},
		Actions: []Action{
			{Kind: ActionFunctionCall, MethodName: "f", Args: []byte{1}},
		},
	}
	clone := receipt.Clone()
	if !receipt.Eq(clone) {
		t.Fatalf("clone differs")
	}
	clone.Actions[0].Args[0] = 2
	clone.Dependencies[0] = 5
	if receipt.Actions[0].Args[0] != 1 || receipt.Dependencies[0] != 0 {
		t.Errorf("modifying clone changed original")
	}
}

func TestActionKind_TextRoundTrip(t *testing.T) {
	for _, kind := range ActionKinds() {
		text, err := kind.MarshalText()
		if err != nil {
			t.Fatalf("failed to marshal %v: %v", kind, err)
		}
		var restored ActionKind
		if err := restored.UnmarshalText(text); err != nil || restored != kind {
			t.Errorf("failed to restore %v: %v", kind, err)
		}
	}
	if _, err := ActionKind(-1).MarshalText(); err == nil {
		t.Errorf("expected invalid kind to fail")
	}
}
