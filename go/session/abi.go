// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package session

import (
	"fmt"
	"slices"

	"github.com/Fantom-foundation/MockVM/go/logic"
	"github.com/Fantom-foundation/MockVM/go/mockvm"
	"golang.org/x/exp/maps"
)

const (
	ErrUnknownHostFunction = mockvm.ConstError("unknown host function")
	ErrWrongArgumentCount  = mockvm.ConstError("wrong number of arguments")
)

// hostFunction adapts a host operation to the raw calling convention, in
// which every argument is a 64-bit integer and byte sequences are passed as
// (length, pointer) pairs.
type hostFunction struct {
	params int
	call   func(l *logic.Logic, a []uint64) (uint64, error)
}

func src(length, ptr uint64) mockvm.Source {
	return mockvm.SourceFromABI(length, ptr)
}

func none(err error) (uint64, error) {
	return 0, err
}

func gas(g mockvm.Gas, err error) (uint64, error) {
	return uint64(g), err
}

var hostFunctions = map[string]hostFunction{
	"read_register": {2, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.ReadRegister(a[0], a[1]))
	}},
	"register_len": {1, func(l *logic.Logic, a []uint64) (uint64, error) {
		return l.RegisterLen(a[0])
	}},
	"write_register": {3, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.WriteRegister(a[0], a[1], a[2]))
	}},

	"current_account_id": {1, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.CurrentAccountId(a[0]))
	}},
	"signer_account_id": {1, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.SignerAccountId(a[0]))
	}},
	"signer_account_pk": {1, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.SignerAccountPk(a[0]))
	}},
	"predecessor_account_id": {1, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.PredecessorAccountId(a[0]))
	}},
	"input": {1, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.Input(a[0]))
	}},
	"block_index": {0, func(l *logic.Logic, a []uint64) (uint64, error) {
		return l.BlockIndex()
	}},
	"block_timestamp": {0, func(l *logic.Logic, a []uint64) (uint64, error) {
		return l.BlockTimestamp()
	}},
	"storage_usage": {0, func(l *logic.Logic, a []uint64) (uint64, error) {
		return l.StorageUsage()
	}},
	"account_balance": {1, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.AccountBalance(a[0]))
	}},
	"account_locked_balance": {1, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.AccountLockedBalance(a[0]))
	}},
	"attached_deposit": {1, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.AttachedDeposit(a[0]))
	}},
	"prepaid_gas": {0, func(l *logic.Logic, a []uint64) (uint64, error) {
		return gas(l.PrepaidGas())
	}},
	"used_gas": {0, func(l *logic.Logic, a []uint64) (uint64, error) {
		return gas(l.UsedGas())
	}},
	"random_seed": {1, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.RandomSeed(a[0]))
	}},

	"sha256": {3, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.Sha256(src(a[0], a[1]), a[2]))
	}},
	"keccak256": {3, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.Keccak256(src(a[0], a[1]), a[2]))
	}},

	"gas": {1, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.Gas(uint32(a[0])))
	}},
	"value_return": {2, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.ValueReturn(src(a[0], a[1])))
	}},
	"panic": {0, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.Panic())
	}},
	"panic_utf8": {2, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.PanicUtf8(a[0], a[1]))
	}},
	"log_utf8": {2, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.LogUtf8(a[0], a[1]))
	}},
	"log_utf16": {2, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.LogUtf16(a[0], a[1]))
	}},
	"abort": {4, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.Abort(a[0], a[1], uint32(a[2]), uint32(a[3])))
	}},

	"promise_create": {8, func(l *logic.Logic, a []uint64) (uint64, error) {
		return l.PromiseCreate(src(a[0], a[1]), src(a[2], a[3]), src(a[4], a[5]), a[6], mockvm.Gas(a[7]))
	}},
	"promise_then": {9, func(l *logic.Logic, a []uint64) (uint64, error) {
		return l.PromiseThen(a[0], src(a[1], a[2]), src(a[3], a[4]), src(a[5], a[6]), a[7], mockvm.Gas(a[8]))
	}},
	"promise_and": {2, func(l *logic.Logic, a []uint64) (uint64, error) {
		return l.PromiseAnd(a[0], a[1])
	}},
	"promise_batch_create": {2, func(l *logic.Logic, a []uint64) (uint64, error) {
		return l.PromiseBatchCreate(src(a[0], a[1]))
	}},
	"promise_batch_then": {3, func(l *logic.Logic, a []uint64) (uint64, error) {
		return l.PromiseBatchThen(a[0], src(a[1], a[2]))
	}},
	"promise_batch_action_create_account": {1, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.PromiseBatchActionCreateAccount(a[0]))
	}},
	"promise_batch_action_deploy_contract": {3, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.PromiseBatchActionDeployContract(a[0], src(a[1], a[2])))
	}},
	"promise_batch_action_function_call": {7, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.PromiseBatchActionFunctionCall(a[0], src(a[1], a[2]), src(a[3], a[4]), a[5], mockvm.Gas(a[6])))
	}},
	"promise_batch_action_transfer": {2, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.PromiseBatchActionTransfer(a[0], a[1]))
	}},
	"promise_batch_action_stake": {4, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.PromiseBatchActionStake(a[0], a[1], src(a[2], a[3])))
	}},
	"promise_batch_action_add_key_with_full_access": {4, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.PromiseBatchActionAddKeyWithFullAccess(a[0], src(a[1], a[2]), a[3]))
	}},
	"promise_batch_action_add_key_with_function_call": {9, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.PromiseBatchActionAddKeyWithFunctionCall(a[0], src(a[1], a[2]), a[3], a[4], src(a[5], a[6]), src(a[7], a[8])))
	}},
	"promise_batch_action_delete_key": {3, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.PromiseBatchActionDeleteKey(a[0], src(a[1], a[2])))
	}},
	"promise_batch_action_delete_account": {3, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.PromiseBatchActionDeleteAccount(a[0], src(a[1], a[2])))
	}},
	"promise_results_count": {0, func(l *logic.Logic, a []uint64) (uint64, error) {
		return l.PromiseResultsCount()
	}},
	"promise_result": {2, func(l *logic.Logic, a []uint64) (uint64, error) {
		return l.PromiseResult(a[0], a[1])
	}},
	"promise_return": {1, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.PromiseReturn(a[0]))
	}},

	"storage_write": {5, func(l *logic.Logic, a []uint64) (uint64, error) {
		return l.StorageWrite(src(a[0], a[1]), src(a[2], a[3]), a[4])
	}},
	"storage_read": {3, func(l *logic.Logic, a []uint64) (uint64, error) {
		return l.StorageRead(src(a[0], a[1]), a[2])
	}},
	"storage_remove": {3, func(l *logic.Logic, a []uint64) (uint64, error) {
		return l.StorageRemove(src(a[0], a[1]), a[2])
	}},
	"storage_has_key": {2, func(l *logic.Logic, a []uint64) (uint64, error) {
		return l.StorageHasKey(src(a[0], a[1]))
	}},
	"storage_iter_prefix": {2, func(l *logic.Logic, a []uint64) (uint64, error) {
		return l.StorageIterPrefix(src(a[0], a[1]))
	}},
	"storage_iter_range": {4, func(l *logic.Logic, a []uint64) (uint64, error) {
		return l.StorageIterRange(src(a[0], a[1]), src(a[2], a[3]))
	}},
	"storage_iter_next": {3, func(l *logic.Logic, a []uint64) (uint64, error) {
		return l.StorageIterNext(a[0], a[1], a[2])
	}},
	"storage_iter_drop": {1, func(l *logic.Logic, a []uint64) (uint64, error) {
		return none(l.StorageIterDrop(a[0]))
	}},
}

// HostFunctions returns the names accepted by Invoke in ascending order.
func HostFunctions() []string {
	names := maps.Keys(hostFunctions)
	slices.Sort(names)
	return names
}

// Arity returns the number of arguments of the named host function.
func Arity(name string) (int, bool) {
	f, found := hostFunctions[name]
	return f.params, found
}

// Invoke calls the named host function using the raw calling convention.
// Byte-sequence arguments are passed as a length followed by a pointer; a
// length of math.MaxUint64 selects the register whose id is given in place
// of the pointer. Operations without a result return 0.
func (s *Session) Invoke(name string, args ...uint64) (uint64, error) {
	f, found := hostFunctions[name]
	if !found {
		return 0, fmt.Errorf("%w: %s", ErrUnknownHostFunction, name)
	}
	if len(args) != f.params {
		return 0, fmt.Errorf("%w: %s expects %d, got %d", ErrWrongArgumentCount, name, f.params, len(args))
	}
	return execute(s, name, func(l *logic.Logic) (uint64, error) {
		return f.call(l, args)
	})
}
