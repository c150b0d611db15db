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

// MockMemory is a mock of Memory interface.
type MockMemory struct {
	ctrl     *gomock.Controller
	recorder *MockMemoryMockRecorder
}

// MockMemoryMockRecorder is the mock recorder for MockMemory.
type MockMemoryMockRecorder struct {
	mock *MockMemory
}

// NewMockMemory creates a new mock instance.
func NewMockMemory(ctrl *gomock.Controller) *MockMemory {
	mock := &MockMemory{ctrl: ctrl}
	mock.recorder = &MockMemoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockMemory) EXPECT() *MockMemoryMockRecorder {
	return m.recorder
}

// Fits mocks base method.
func (m *MockMemory) Fits(offset, length uint64) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Fits", offset, length)
	ret0, _ := ret[0].(bool)
	return ret0
}

// Fits indicates an expected call of Fits.
func (mr *MockMemoryMockRecorder) Fits(offset, length any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Fits", reflect.TypeOf((*MockMemory)(nil).Fits), offset, length)
}

// Read mocks base method.
func (m *MockMemory) Read(offset uint64, buffer []byte) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Read", offset, buffer)
	ret0, _ := ret[0].(error)
	return ret0
}

// Read indicates an expected call of Read.
func (mr *MockMemoryMockRecorder) Read(offset, buffer any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Read", reflect.TypeOf((*MockMemory)(nil).Read), offset, buffer)
}

// ReadU8 mocks base method.
func (m *MockMemory) ReadU8(offset uint64) (byte, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ReadU8", offset)
	ret0, _ := ret[0].(byte)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ReadU8 indicates an expected call of ReadU8.
func (mr *MockMemoryMockRecorder) ReadU8(offset any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ReadU8", reflect.TypeOf((*MockMemory)(nil).ReadU8), offset)
}

// Write mocks base method.
func (m *MockMemory) Write(offset uint64, buffer []byte) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Write", offset, buffer)
	ret0, _ := ret[0].(error)
	return ret0
}

// Write indicates an expected call of Write.
func (mr *MockMemoryMockRecorder) Write(offset, buffer any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Write", reflect.TypeOf((*MockMemory)(nil).Write), offset, buffer)
}
