// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package mockvm is a generated GoMock package.
package mockvm

import (
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockReceiptLedger is a mock of ReceiptLedger interface.
type MockReceiptLedger struct {
	ctrl     *gomock.Controller
	recorder *MockReceiptLedgerMockRecorder
}

// MockReceiptLedgerMockRecorder is the mock recorder for MockReceiptLedger.
type MockReceiptLedgerMockRecorder struct {
	mock *MockReceiptLedger
}

// NewMockReceiptLedger creates a new mock instance.
func NewMockReceiptLedger(ctrl *gomock.Controller) *MockReceiptLedger {
	mock := &MockReceiptLedger{ctrl: ctrl}
	mock.recorder = &MockReceiptLedgerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockReceiptLedger) EXPECT() *MockReceiptLedgerMockRecorder {
	return m.recorder
}

// AppendAction mocks base method.
func (m *MockReceiptLedger) AppendAction(index ReceiptIndex, action Action) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "AppendAction", index, action)
}

// AppendAction indicates an expected call of AppendAction.
func (mr *MockReceiptLedgerMockRecorder) AppendAction(index, action any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AppendAction", reflect.TypeOf((*MockReceiptLedger)(nil).AppendAction), index, action)
}

// CreateReceipt mocks base method.
func (m *MockReceiptLedger) CreateReceipt(dependencies []ReceiptIndex, receiver AccountId) ReceiptIndex {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateReceipt", dependencies, receiver)
	ret0, _ := ret[0].(ReceiptIndex)
	return ret0
}

// CreateReceipt indicates an expected call of CreateReceipt.
func (mr *MockReceiptLedgerMockRecorder) CreateReceipt(dependencies, receiver any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateReceipt", reflect.TypeOf((*MockReceiptLedger)(nil).CreateReceipt), dependencies, receiver)
}
