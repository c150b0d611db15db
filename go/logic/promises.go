// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package logic

import (
	"bytes"
	"fmt"
	"encoding/binary"
	"math/bits"

	"github.com/Fantom-foundation/MockVM/go/mockvm"
	"github.com/Fantom-foundation/MockVM/go/st"
)

const errUnknownPromiseResultStatus = mockvm.ConstError("unknown promise result status")

func (l *Logic) getAccountId(src mockvm.Source) (mockvm.AccountId, error) {
	data, err := l.get(src)
	if err != nil {
		return "", err
	}
	return mockvm.AccountId(data), nil
}

// getPublicKey reads a public key, which is a curve tag followed by the key
// itself: 0 for ed25519 with 32 bytes, 1 for secp256k1 with 64 bytes.
func (l *Logic) getPublicKey(src mockvm.Source) ([]byte, error) {
	data, err := l.get(src)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, mockvm.ErrInvalidPublicKey
	}
	switch {
	case data[0] == 0 && len(data) == 1+32:
	case data[0] == 1 && len(data) == 1+64:
	default:
		return nil, mockvm.ErrInvalidPublicKey
	}
	return append([]byte{}, data...), nil
}

func (l *Logic) createReceipt(dependencies []mockvm.ReceiptIndex, receiver mockvm.AccountId) (uint64, error) {
	cost := l.config.NewReceiptCost
	if err := l.state.Gas.PayPerByte(cost, l.config.NewDataReceiptCost, uint64(len(dependencies)), l.gasLimits()); err != nil {
		return 0, err
	}
	index := l.ledger.CreateReceipt(dependencies, receiver)
	return l.state.Promises.Add(st.NewReceiptPromise(index)), nil
}

// receiptOf returns the receipt an action may be appended to.
func (l *Logic) receiptOf(promiseIdx uint64) (mockvm.ReceiptIndex, error) {
	promise, err := l.state.Promises.Get(promiseIdx)
	if err != nil {
		return 0, err
	}
	if promise.Joint {
		return 0, mockvm.ErrCannotAppendActionToJointPromise
	}
	return promise.Receipt(), nil
}

func (l *Logic) withdraw(amount mockvm.Balance) error {
	if amount.Cmp(l.state.Balance) > 0 {
		return mockvm.ErrBalanceExceeded
	}
	balance, err := mockvm.SubBalance(l.state.Balance, amount)
	if err != nil {
		return err
	}
	l.state.Balance = balance
	return nil
}

// PromiseCreate creates a receipt calling a method on another account and
// returns the index of the resulting promise.
func (l *Logic) PromiseCreate(accountId, methodName, args mockvm.Source, amountPtr uint64, gas mockvm.Gas) (uint64, error) {
	idx, err := l.PromiseBatchCreate(accountId)
	if err != nil {
		return 0, err
	}
	if err := l.PromiseBatchActionFunctionCall(idx, methodName, args, amountPtr, gas); err != nil {
		return 0, err
	}
	return idx, nil
}

// PromiseThen is PromiseCreate for a receipt waiting on promise promiseIdx.
func (l *Logic) PromiseThen(promiseIdx uint64, accountId, methodName, args mockvm.Source, amountPtr uint64, gas mockvm.Gas) (uint64, error) {
	idx, err := l.PromiseBatchThen(promiseIdx, accountId)
	if err != nil {
		return 0, err
	}
	if err := l.PromiseBatchActionFunctionCall(idx, methodName, args, amountPtr, gas); err != nil {
		return 0, err
	}
	return idx, nil
}

// PromiseAnd joins the promises whose indices are stored as count 64-bit
// little-endian values at ptr.
func (l *Logic) PromiseAnd(ptr, count uint64) (uint64, error) {
	if err := l.startView(); err != nil {
		return 0, err
	}
	if err := l.pay(mockvm.CostPromiseAndBase); err != nil {
		return 0, err
	}
	if count > l.config.Limits.MaxNumberInputDataDependencies {
		return 0, mockvm.ErrNumberInputDataDependencies
	}
	hi, length := bits.Mul64(count, 8)
	if hi != 0 {
		return 0, mockvm.ErrIntegerOverflow
	}
	if err := l.payPerByte(mockvm.CostPromiseAndPerPromise, count); err != nil {
		return 0, err
	}
	data, err := l.memoryGet(ptr, length)
	if err != nil {
		return 0, err
	}
	var receipts []mockvm.ReceiptIndex
	for i := uint64(0); i < count; i++ {
		promise, err := l.state.Promises.Get(binary.LittleEndian.Uint64(data[i*8:]))
		if err != nil {
			return 0, err
		}
		receipts = append(receipts, promise.Receipts...)
	}
	return l.state.Promises.Add(st.Promise{Joint: true, Receipts: receipts}), nil
}

// PromiseBatchCreate creates an empty receipt for accountId.
func (l *Logic) PromiseBatchCreate(accountId mockvm.Source) (uint64, error) {
	if err := l.startView(); err != nil {
		return 0, err
	}
	account, err := l.getAccountId(accountId)
	if err != nil {
		return 0, err
	}
	return l.createReceipt(nil, account)
}

// PromiseBatchThen creates an empty receipt for accountId waiting on the
// receipts of promise promiseIdx.
func (l *Logic) PromiseBatchThen(promiseIdx uint64, accountId mockvm.Source) (uint64, error) {
	if err := l.startView(); err != nil {
		return 0, err
	}
	account, err := l.getAccountId(accountId)
	if err != nil {
		return 0, err
	}
	promise, err := l.state.Promises.Get(promiseIdx)
	if err != nil {
		return 0, err
	}
	return l.createReceipt(append([]mockvm.ReceiptIndex{}, promise.Receipts...), account)
}

func (l *Logic) PromiseBatchActionCreateAccount(promiseIdx uint64) error {
	if err := l.startView(); err != nil {
		return err
	}
	receipt, err := l.receiptOf(promiseIdx)
	if err != nil {
		return err
	}
	if err := l.payAction(mockvm.ActionCreateAccount, 0); err != nil {
		return err
	}
	l.ledger.AppendAction(receipt, mockvm.Action{Kind: mockvm.ActionCreateAccount})
	return nil
}

func (l *Logic) PromiseBatchActionDeployContract(promiseIdx uint64, code mockvm.Source) error {
	if err := l.startView(); err != nil {
		return err
	}
	data, err := l.get(code)
	if err != nil {
		return err
	}
	receipt, err := l.receiptOf(promiseIdx)
	if err != nil {
		return err
	}
	if err := l.payAction(mockvm.ActionDeployContract, uint64(len(data))); err != nil {
		return err
	}
	l.ledger.AppendAction(receipt, mockvm.Action{
		Kind: mockvm.ActionDeployContract,
		Code: append([]byte{}, data...),
	})
	return nil
}

// PromiseBatchActionFunctionCall appends a function call. The attached gas
// is prepaid, the attached deposit is withdrawn from the balance.
func (l *Logic) PromiseBatchActionFunctionCall(promiseIdx uint64, methodName, args mockvm.Source, amountPtr uint64, gas mockvm.Gas) error {
	if err := l.startView(); err != nil {
		return err
	}
	amount, err := l.getBalance(amountPtr)
	if err != nil {
		return err
	}
	method, err := l.get(methodName)
	if err != nil {
		return err
	}
	if len(method) == 0 {
		return mockvm.ErrEmptyMethodName
	}
	arguments, err := l.get(args)
	if err != nil {
		return err
	}
	receipt, err := l.receiptOf(promiseIdx)
	if err != nil {
		return err
	}
	if err := l.payAction(mockvm.ActionFunctionCall, uint64(len(method))+uint64(len(arguments))); err != nil {
		return err
	}
	if err := l.withdraw(amount); err != nil {
		return err
	}
	if err := l.state.Gas.Deduct(0, gas, l.gasLimits()); err != nil {
		return err
	}
	l.ledger.AppendAction(receipt, mockvm.Action{
		Kind:       mockvm.ActionFunctionCall,
		MethodName: string(method),
		Args:       append([]byte{}, arguments...),
		Gas:        gas,
		Amount:     amount,
	})
	return nil
}

func (l *Logic) PromiseBatchActionTransfer(promiseIdx uint64, amountPtr uint64) error {
	if err := l.startView(); err != nil {
		return err
	}
	amount, err := l.getBalance(amountPtr)
	if err != nil {
		return err
	}
	receipt, err := l.receiptOf(promiseIdx)
	if err != nil {
		return err
	}
	if err := l.payAction(mockvm.ActionTransfer, 0); err != nil {
		return err
	}
	if err := l.withdraw(amount); err != nil {
		return err
	}
	l.ledger.AppendAction(receipt, mockvm.Action{Kind: mockvm.ActionTransfer, Amount: amount})
	return nil
}

func (l *Logic) PromiseBatchActionStake(promiseIdx uint64, amountPtr uint64, publicKey mockvm.Source) error {
	if err := l.startView(); err != nil {
		return err
	}
	amount, err := l.getBalance(amountPtr)
	if err != nil {
		return err
	}
	key, err := l.getPublicKey(publicKey)
	if err != nil {
		return err
	}
	receipt, err := l.receiptOf(promiseIdx)
	if err != nil {
		return err
	}
	if err := l.payAction(mockvm.ActionStake, 0); err != nil {
		return err
	}
	l.ledger.AppendAction(receipt, mockvm.Action{Kind: mockvm.ActionStake, Amount: amount, PublicKey: key})
	return nil
}

func (l *Logic) PromiseBatchActionAddKeyWithFullAccess(promiseIdx uint64, publicKey mockvm.Source, nonce uint64) error {
	if err := l.startView(); err != nil {
		return err
	}
	key, err := l.getPublicKey(publicKey)
	if err != nil {
		return err
	}
	receipt, err := l.receiptOf(promiseIdx)
	if err != nil {
		return err
	}
	if err := l.payAction(mockvm.ActionAddKeyWithFullAccess, 0); err != nil {
		return err
	}
	l.ledger.AppendAction(receipt, mockvm.Action{Kind: mockvm.ActionAddKeyWithFullAccess, PublicKey: key, Nonce: nonce})
	return nil
}

// PromiseBatchActionAddKeyWithFunctionCall adds an access key limited to
// calling the comma separated methodNames on receiverId. An empty list
// allows all methods.
func (l *Logic) PromiseBatchActionAddKeyWithFunctionCall(promiseIdx uint64, publicKey mockvm.Source, nonce uint64, allowancePtr uint64, receiverId, methodNames mockvm.Source) error {
	if err := l.startView(); err != nil {
		return err
	}
	key, err := l.getPublicKey(publicKey)
	if err != nil {
		return err
	}
	allowance, err := l.getBalance(allowancePtr)
	if err != nil {
		return err
	}
	receiver, err := l.getAccountId(receiverId)
	if err != nil {
		return err
	}
	names, err := l.get(methodNames)
	if err != nil {
		return err
	}
	var methods []string
	if len(names) > 0 {
		for _, name := range bytes.Split(names, []byte(",")) {
			if len(name) == 0 {
				return mockvm.ErrEmptyMethodName
			}
			methods = append(methods, string(name))
		}
	}
	receipt, err := l.receiptOf(promiseIdx)
	if err != nil {
		return err
	}
	if err := l.payAction(mockvm.ActionAddKeyWithFunctionCall, uint64(len(names))); err != nil {
		return err
	}
	l.ledger.AppendAction(receipt, mockvm.Action{
		Kind:        mockvm.ActionAddKeyWithFunctionCall,
		PublicKey:   key,
		Nonce:       nonce,
		Allowance:   allowance,
		ReceiverId:  receiver,
		MethodNames: methods,
	})
	return nil
}

func (l *Logic) PromiseBatchActionDeleteKey(promiseIdx uint64, publicKey mockvm.Source) error {
	if err := l.startView(); err != nil {
		return err
	}
	key, err := l.getPublicKey(publicKey)
	if err != nil {
		return err
	}
	receipt, err := l.receiptOf(promiseIdx)
	if err != nil {
		return err
	}
	if err := l.payAction(mockvm.ActionDeleteKey, 0); err != nil {
		return err
	}
	l.ledger.AppendAction(receipt, mockvm.Action{Kind: mockvm.ActionDeleteKey, PublicKey: key})
	return nil
}

func (l *Logic) PromiseBatchActionDeleteAccount(promiseIdx uint64, beneficiaryId mockvm.Source) error {
	if err := l.startView(); err != nil {
		return err
	}
	beneficiary, err := l.getAccountId(beneficiaryId)
	if err != nil {
		return err
	}
	receipt, err := l.receiptOf(promiseIdx)
	if err != nil {
		return err
	}
	if err := l.payAction(mockvm.ActionDeleteAccount, 0); err != nil {
		return err
	}
	l.ledger.AppendAction(receipt, mockvm.Action{Kind: mockvm.ActionDeleteAccount, BeneficiaryId: beneficiary})
	return nil
}

// PromiseResultsCount returns the number of receipts the current call
// waited on.
func (l *Logic) PromiseResultsCount() (uint64, error) {
	if err := l.startView(); err != nil {
		return 0, err
	}
	return uint64(len(l.results)), nil
}

// PromiseResult reports the status of result resultIdx: 0 if not ready,
// 1 if successful with its data written into register, 2 if failed.
func (l *Logic) PromiseResult(resultIdx, register uint64) (uint64, error) {
	if err := l.startView(); err != nil {
		return 0, err
	}
	if resultIdx >= uint64(len(l.results)) {
		return 0, mockvm.ErrInvalidPromiseResultIndex
	}
	result := l.results[resultIdx]
	switch result.Status {
	case mockvm.PromiseNotReady:
		return 0, nil
	case mockvm.PromiseSuccessful:
		if err := l.registerSet(register, result.Data); err != nil {
			return 0, err
		}
		return 1, nil
	case mockvm.PromiseFailed:
		return 2, nil
	}
	return 0, fmt.Errorf("%w: %v", errUnknownPromiseResultStatus, result.Status)
}

// PromiseReturn makes the result of the receipt behind promiseIdx the result
// of the current call.
func (l *Logic) PromiseReturn(promiseIdx uint64) error {
	if err := l.startView(); err != nil {
		return err
	}
	if err := l.pay(mockvm.CostPromiseReturn); err != nil {
		return err
	}
	promise, err := l.state.Promises.Get(promiseIdx)
	if err != nil {
		return err
	}
	if promise.Joint {
		return mockvm.ErrCannotReturnJointPromise
	}
	l.state.ReturnData = mockvm.ReturnData{
		Kind:         mockvm.ReturnReceiptIndex,
		ReceiptIndex: promise.Receipt(),
	}
	return nil
}
