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
	"slices"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Context is the environment a contract call observes: who is calling, on
// which account, with what input and resources.
type Context struct {
	CurrentAccountId     AccountId     `json:"current_account_id"`
	SignerAccountId      AccountId     `json:"signer_account_id"`
	SignerAccountPk      hexutil.Bytes `json:"signer_account_pk"`
	PredecessorAccountId AccountId     `json:"predecessor_account_id"`
	Input                hexutil.Bytes `json:"input"`
	BlockIndex           uint64        `json:"block_index"`
	BlockTimestamp       uint64        `json:"block_timestamp"`
	AccountBalance       Balance       `json:"account_balance"`
	AccountLockedBalance Balance       `json:"account_locked_balance"`
	StorageUsage         uint64        `json:"storage_usage"`
	AttachedDeposit      Balance       `json:"attached_deposit"`
	PrepaidGas           Gas           `json:"prepaid_gas"`
	RandomSeed           hexutil.Bytes `json:"random_seed"`
	IsView               bool          `json:"is_view"`
	OutputDataReceivers  []AccountId   `json:"output_data_receivers,omitempty"`
}

// DefaultContext returns the context a fresh session starts with unless
// told otherwise.
func DefaultContext() Context {
	return Context{
		CurrentAccountId:     "alice",
		SignerAccountId:      "bob",
		SignerAccountPk:      []byte{0, 1, 2, 3, 4},
		PredecessorAccountId: "carol",
		Input:                []byte{0, 1, 2, 3, 5},
		BlockIndex:           10,
		BlockTimestamp:       42,
		AccountBalance:       NewBalance(2),
		AccountLockedBalance: NewBalance(1),
		StorageUsage:         12,
		AttachedDeposit:      NewBalance(2),
		PrepaidGas:           100_000_000_000_000,
		RandomSeed:           []byte{0, 1, 2},
	}
}

func (c Context) Clone() Context {
	c.SignerAccountPk = bytes.Clone(c.SignerAccountPk)
	c.Input = bytes.Clone(c.Input)
	c.RandomSeed = bytes.Clone(c.RandomSeed)
	c.OutputDataReceivers = slices.Clone(c.OutputDataReceivers)
	return c
}

func (c Context) Eq(other Context) bool {
	return c.CurrentAccountId == other.CurrentAccountId &&
		c.SignerAccountId == other.SignerAccountId &&
		bytes.Equal(c.SignerAccountPk, other.SignerAccountPk) &&
		c.PredecessorAccountId == other.PredecessorAccountId &&
		bytes.Equal(c.Input, other.Input) &&
		c.BlockIndex == other.BlockIndex &&
		c.BlockTimestamp == other.BlockTimestamp &&
		c.AccountBalance == other.AccountBalance &&
		c.AccountLockedBalance == other.AccountLockedBalance &&
		c.StorageUsage == other.StorageUsage &&
		c.AttachedDeposit == other.AttachedDeposit &&
		c.PrepaidGas == other.PrepaidGas &&
		bytes.Equal(c.RandomSeed, other.RandomSeed) &&
		c.IsView == other.IsView &&
		slices.Equal(c.OutputDataReceivers, other.OutputDataReceivers)
}
