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
	"github.com/Fantom-foundation/MockVM/go/logic"
	"github.com/Fantom-foundation/MockVM/go/mockvm"
)

// The methods below apply a single host operation each. See the package
// logic for their semantics.

////////////////////////////////////////////////////////////
// Registers

func (s *Session) ReadRegister(id, ptr uint64) error {
	return s.run("read_register", func(l *logic.Logic) error {
		return l.ReadRegister(id, ptr)
	})
}

func (s *Session) RegisterLen(id uint64) (uint64, error) {
	return execute(s, "register_len", func(l *logic.Logic) (uint64, error) {
		return l.RegisterLen(id)
	})
}

func (s *Session) WriteRegister(id, dataLen, dataPtr uint64) error {
	return s.run("write_register", func(l *logic.Logic) error {
		return l.WriteRegister(id, dataLen, dataPtr)
	})
}

////////////////////////////////////////////////////////////
// Context

func (s *Session) CurrentAccountId(register uint64) error {
	return s.run("current_account_id", func(l *logic.Logic) error {
		return l.CurrentAccountId(register)
	})
}

func (s *Session) SignerAccountId(register uint64) error {
	return s.run("signer_account_id", func(l *logic.Logic) error {
		return l.SignerAccountId(register)
	})
}

func (s *Session) SignerAccountPk(register uint64) error {
	return s.run("signer_account_pk", func(l *logic.Logic) error {
		return l.SignerAccountPk(register)
	})
}

func (s *Session) PredecessorAccountId(register uint64) error {
	return s.run("predecessor_account_id", func(l *logic.Logic) error {
		return l.PredecessorAccountId(register)
	})
}

func (s *Session) Input(register uint64) error {
	return s.run("input", func(l *logic.Logic) error {
		return l.Input(register)
	})
}

func (s *Session) BlockIndex() (uint64, error) {
	return execute(s, "block_index", (*logic.Logic).BlockIndex)
}

func (s *Session) BlockTimestamp() (uint64, error) {
	return execute(s, "block_timestamp", (*logic.Logic).BlockTimestamp)
}

func (s *Session) StorageUsage() (uint64, error) {
	return execute(s, "storage_usage", (*logic.Logic).StorageUsage)
}

func (s *Session) AccountBalance(ptr uint64) error {
	return s.run("account_balance", func(l *logic.Logic) error {
		return l.AccountBalance(ptr)
	})
}

func (s *Session) AccountLockedBalance(ptr uint64) error {
	return s.run("account_locked_balance", func(l *logic.Logic) error {
		return l.AccountLockedBalance(ptr)
	})
}

func (s *Session) AttachedDeposit(ptr uint64) error {
	return s.run("attached_deposit", func(l *logic.Logic) error {
		return l.AttachedDeposit(ptr)
	})
}

func (s *Session) PrepaidGas() (mockvm.Gas, error) {
	return execute(s, "prepaid_gas", (*logic.Logic).PrepaidGas)
}

func (s *Session) UsedGas() (mockvm.Gas, error) {
	return execute(s, "used_gas", (*logic.Logic).UsedGas)
}

func (s *Session) RandomSeed(register uint64) error {
	return s.run("random_seed", func(l *logic.Logic) error {
		return l.RandomSeed(register)
	})
}

////////////////////////////////////////////////////////////
// Math and miscellaneous

func (s *Session) Sha256(src mockvm.Source, register uint64) error {
	return s.run("sha256", func(l *logic.Logic) error {
		return l.Sha256(src, register)
	})
}

func (s *Session) Keccak256(src mockvm.Source, register uint64) error {
	return s.run("keccak256", func(l *logic.Logic) error {
		return l.Keccak256(src, register)
	})
}

func (s *Session) Gas(amount uint32) error {
	return s.run("gas", func(l *logic.Logic) error {
		return l.Gas(amount)
	})
}

func (s *Session) ValueReturn(src mockvm.Source) error {
	return s.run("value_return", func(l *logic.Logic) error {
		return l.ValueReturn(src)
	})
}

func (s *Session) Panic() error {
	return s.run("panic", (*logic.Logic).Panic)
}

func (s *Session) PanicUtf8(length, ptr uint64) error {
	return s.run("panic_utf8", func(l *logic.Logic) error {
		return l.PanicUtf8(length, ptr)
	})
}

func (s *Session) LogUtf8(length, ptr uint64) error {
	return s.run("log_utf8", func(l *logic.Logic) error {
		return l.LogUtf8(length, ptr)
	})
}

func (s *Session) LogUtf16(length, ptr uint64) error {
	return s.run("log_utf16", func(l *logic.Logic) error {
		return l.LogUtf16(length, ptr)
	})
}

func (s *Session) Abort(msgPtr, filenamePtr uint64, line, col uint32) error {
	return s.run("abort", func(l *logic.Logic) error {
		return l.Abort(msgPtr, filenamePtr, line, col)
	})
}

////////////////////////////////////////////////////////////
// Promises

func (s *Session) PromiseCreate(accountId, methodName, args mockvm.Source, amountPtr uint64, gas mockvm.Gas) (uint64, error) {
	return execute(s, "promise_create", func(l *logic.Logic) (uint64, error) {
		return l.PromiseCreate(accountId, methodName, args, amountPtr, gas)
	})
}

func (s *Session) PromiseThen(promiseIdx uint64, accountId, methodName, args mockvm.Source, amountPtr uint64, gas mockvm.Gas) (uint64, error) {
	return execute(s, "promise_then", func(l *logic.Logic) (uint64, error) {
		return l.PromiseThen(promiseIdx, accountId, methodName, args, amountPtr, gas)
	})
}

func (s *Session) PromiseAnd(ptr, count uint64) (uint64, error) {
	return execute(s, "promise_and", func(l *logic.Logic) (uint64, error) {
		return l.PromiseAnd(ptr, count)
	})
}

func (s *Session) PromiseBatchCreate(accountId mockvm.Source) (uint64, error) {
	return execute(s, "promise_batch_create", func(l *logic.Logic) (uint64, error) {
		return l.PromiseBatchCreate(accountId)
	})
}

func (s *Session) PromiseBatchThen(promiseIdx uint64, accountId mockvm.Source) (uint64, error) {
	return execute(s, "promise_batch_then", func(l *logic.Logic) (uint64, error) {
		return l.PromiseBatchThen(promiseIdx, accountId)
	})
}

func (s *Session) PromiseBatchActionCreateAccount(promiseIdx uint64) error {
	return s.run("promise_batch_action_create_account", func(l *logic.Logic) error {
		return l.PromiseBatchActionCreateAccount(promiseIdx)
	})
}

func (s *Session) PromiseBatchActionDeployContract(promiseIdx uint64, code mockvm.Source) error {
	return s.run("promise_batch_action_deploy_contract", func(l *logic.Logic) error {
		return l.PromiseBatchActionDeployContract(promiseIdx, code)
	})
}

func (s *Session) PromiseBatchActionFunctionCall(promiseIdx uint64, methodName, args mockvm.Source, amountPtr uint64, gas mockvm.Gas) error {
	return s.run("promise_batch_action_function_call", func(l *logic.Logic) error {
		return l.PromiseBatchActionFunctionCall(promiseIdx, methodName, args, amountPtr, gas)
	})
}

func (s *Session) PromiseBatchActionTransfer(promiseIdx, amountPtr uint64) error {
	return s.run("promise_batch_action_transfer", func(l *logic.Logic) error {
		return l.PromiseBatchActionTransfer(promiseIdx, amountPtr)
	})
}

func (s *Session) PromiseBatchActionStake(promiseIdx, amountPtr uint64, publicKey mockvm.Source) error {
	return s.run("promise_batch_action_stake", func(l *logic.Logic) error {
		return l.PromiseBatchActionStake(promiseIdx, amountPtr, publicKey)
	})
}

func (s *Session) PromiseBatchActionAddKeyWithFullAccess(promiseIdx uint64, publicKey mockvm.Source, nonce uint64) error {
	return s.run("promise_batch_action_add_key_with_full_access", func(l *logic.Logic) error {
		return l.PromiseBatchActionAddKeyWithFullAccess(promiseIdx, publicKey, nonce)
	})
}

func (s *Session) PromiseBatchActionAddKeyWithFunctionCall(promiseIdx uint64, publicKey mockvm.Source, nonce, allowancePtr uint64, receiverId, methodNames mockvm.Source) error {
	return s.run("promise_batch_action_add_key_with_function_call", func(l *logic.Logic) error {
		return l.PromiseBatchActionAddKeyWithFunctionCall(promiseIdx, publicKey, nonce, allowancePtr, receiverId, methodNames)
	})
}

func (s *Session) PromiseBatchActionDeleteKey(promiseIdx uint64, publicKey mockvm.Source) error {
	return s.run("promise_batch_action_delete_key", func(l *logic.Logic) error {
		return l.PromiseBatchActionDeleteKey(promiseIdx, publicKey)
	})
}

func (s *Session) PromiseBatchActionDeleteAccount(promiseIdx uint64, beneficiaryId mockvm.Source) error {
	return s.run("promise_batch_action_delete_account", func(l *logic.Logic) error {
		return l.PromiseBatchActionDeleteAccount(promiseIdx, beneficiaryId)
	})
}

func (s *Session) PromiseResultsCount() (uint64, error) {
	return execute(s, "promise_results_count", (*logic.Logic).PromiseResultsCount)
}

func (s *Session) PromiseResult(resultIdx, register uint64) (uint64, error) {
	return execute(s, "promise_result", func(l *logic.Logic) (uint64, error) {
		return l.PromiseResult(resultIdx, register)
	})
}

func (s *Session) PromiseReturn(promiseIdx uint64) error {
	return s.run("promise_return", func(l *logic.Logic) error {
		return l.PromiseReturn(promiseIdx)
	})
}

////////////////////////////////////////////////////////////
// Storage

func (s *Session) StorageWrite(key, value mockvm.Source, register uint64) (uint64, error) {
	return execute(s, "storage_write", func(l *logic.Logic) (uint64, error) {
		return l.StorageWrite(key, value, register)
	})
}

func (s *Session) StorageRead(key mockvm.Source, register uint64) (uint64, error) {
	return execute(s, "storage_read", func(l *logic.Logic) (uint64, error) {
		return l.StorageRead(key, register)
	})
}

func (s *Session) StorageRemove(key mockvm.Source, register uint64) (uint64, error) {
	return execute(s, "storage_remove", func(l *logic.Logic) (uint64, error) {
		return l.StorageRemove(key, register)
	})
}

func (s *Session) StorageHasKey(key mockvm.Source) (uint64, error) {
	return execute(s, "storage_has_key", func(l *logic.Logic) (uint64, error) {
		return l.StorageHasKey(key)
	})
}

func (s *Session) StorageIterPrefix(prefix mockvm.Source) (uint64, error) {
	return execute(s, "storage_iter_prefix", func(l *logic.Logic) (uint64, error) {
		return l.StorageIterPrefix(prefix)
	})
}

func (s *Session) StorageIterRange(start, end mockvm.Source) (uint64, error) {
	return execute(s, "storage_iter_range", func(l *logic.Logic) (uint64, error) {
		return l.StorageIterRange(start, end)
	})
}

func (s *Session) StorageIterNext(id, keyRegister, valueRegister uint64) (uint64, error) {
	return execute(s, "storage_iter_next", func(l *logic.Logic) (uint64, error) {
		return l.StorageIterNext(id, keyRegister, valueRegister)
	})
}

func (s *Session) StorageIterDrop(id uint64) error {
	return s.run("storage_iter_drop", func(l *logic.Logic) error {
		return l.StorageIterDrop(id)
	})
}
