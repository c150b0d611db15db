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
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ActionKind enumerates the actions a receipt may carry.
type ActionKind int

const (
	ActionCreateAccount ActionKind = iota
	ActionDeployContract
	ActionFunctionCall
	ActionTransfer
	ActionStake
	ActionAddKeyWithFullAccess
	ActionAddKeyWithFunctionCall
	ActionDeleteKey
	ActionDeleteAccount
	numActionKinds
)

var actionKindNames = [numActionKinds]string{
	ActionCreateAccount:          "create_account",
	ActionDeployContract:         "deploy_contract",
	ActionFunctionCall:           "function_call",
	ActionTransfer:               "transfer",
	ActionStake:                  "stake",
	ActionAddKeyWithFullAccess:   "add_key_with_full_access",
	ActionAddKeyWithFunctionCall: "add_key_with_function_call",
	ActionDeleteKey:              "delete_key",
	ActionDeleteAccount:          "delete_account",
}

// ActionKinds returns all action kinds in declaration order.
func ActionKinds() []ActionKind {
	res := make([]ActionKind, 0, numActionKinds)
	for i := ActionKind(0); i < numActionKinds; i++ {
		res = append(res, i)
	}
	return res
}

func (k ActionKind) String() string {
	if k >= 0 && k < numActionKinds {
		return actionKindNames[k]
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

func (k ActionKind) MarshalText() ([]byte, error) {
	if k < 0 || k >= numActionKinds {
		return nil, fmt.Errorf("invalid action kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *ActionKind) UnmarshalText(data []byte) error {
	for i, name := range actionKindNames {
		if name == string(data) {
			*k = ActionKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown action kind %q", data)
}

// Action is a single action of a receipt. Only the fields relevant for its
// kind are set.
type Action struct {
	Kind          ActionKind    `json:"kind"`
	Code          hexutil.Bytes `json:"code,omitempty"`
	MethodName    string        `json:"method_name,omitempty"`
	Args          hexutil.Bytes `json:"args,omitempty"`
	Gas           Gas           `json:"gas,omitempty"`
	Amount        Balance       `json:"amount"`
	PublicKey     hexutil.Bytes `json:"public_key,omitempty"`
	Nonce         uint64        `json:"nonce,omitempty"`
	Allowance     Balance       `json:"allowance"`
	ReceiverId    AccountId     `json:"receiver_id,omitempty"`
	MethodNames   []string      `json:"method_names,omitempty"`
	BeneficiaryId AccountId     `json:"beneficiary_id,omitempty"`
}

func (a Action) Clone() Action {
	a.Code = bytes.Clone(a.Code)
	a.Args = bytes.Clone(a.Args)
	a.PublicKey = bytes.Clone(a.PublicKey)
	a.MethodNames = slices.Clone(a.MethodNames)
	return a
}

func (a Action) Eq(other Action) bool {
	return a.Kind == other.Kind &&
		bytes.Equal(a.Code, other.Code) &&
		a.MethodName == other.MethodName &&
		bytes.Equal(a.Args, other.Args) &&
		a.Gas == other.Gas &&
		a.Amount == other.Amount &&
		bytes.Equal(a.PublicKey, other.PublicKey) &&
		a.Nonce == other.Nonce &&
		a.Allowance == other.Allowance &&
		a.ReceiverId == other.ReceiverId &&
		slices.Equal(a.MethodNames, other.MethodNames) &&
		a.BeneficiaryId == other.BeneficiaryId
}

func (a Action) String() string {
	switch a.Kind {
	case ActionDeployContract:
		return fmt.Sprintf("%v(%d bytes)", a.Kind, len(a.Code))
	case ActionFunctionCall:
		return fmt.Sprintf("%v(%s, 0x%x, gas: %d, deposit: %v)", a.Kind, a.MethodName, []byte(a.Args), a.Gas, a.Amount)
	case ActionTransfer:
		return fmt.Sprintf("%v(%v)", a.Kind, a.Amount)
	case ActionStake:
		return fmt.Sprintf("%v(%v, 0x%x)", a.Kind, a.Amount, []byte(a.PublicKey))
	case ActionAddKeyWithFullAccess, ActionDeleteKey:
		return fmt.Sprintf("%v(0x%x)", a.Kind, []byte(a.PublicKey))
	case ActionAddKeyWithFunctionCall:
		return fmt.Sprintf("%v(0x%x, %s, %v)", a.Kind, []byte(a.PublicKey), a.ReceiverId, a.MethodNames)
	case ActionDeleteAccount:
		return fmt.Sprintf("%v(%s)", a.Kind, a.BeneficiaryId)
	}
	return a.Kind.String()
}

// Receipt is an entry of the receipt ledger.
type Receipt struct {
	ReceiverId   AccountId      `json:"receiver_id"`
	Dependencies []ReceiptIndex `json:"dependencies"`
	Actions      []Action       `json:"actions"`
}

func (r Receipt) Clone() Receipt {
	r.Dependencies = slices.Clone(r.Dependencies)
	actions := make([]Action, len(r.Actions))
	for i, action := range r.Actions {
		actions[i] = action.Clone()
	}
	if r.Actions == nil {
		actions = nil
	}
	r.Actions = actions
	return r
}

func (r Receipt) Eq(other Receipt) bool {
	return r.ReceiverId == other.ReceiverId &&
		slices.Equal(r.Dependencies, other.Dependencies) &&
		slices.EqualFunc(r.Actions, other.Actions, Action.Eq)
}
