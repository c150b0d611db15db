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
	"errors"
	"fmt"
)

// ConstError is a error type that can be used to define immutable
// error constants.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

// Host error kinds. A failing host operation leaves the session unchanged.
const (
	ErrMemoryAccessViolation            = ConstError("memory access violation")
	ErrInvalidRegisterId                = ConstError("invalid register id")
	ErrBadUtf8                          = ConstError("bad utf-8 string")
	ErrBadUtf16                         = ConstError("bad utf-16 string")
	ErrProhibitedInView                 = ConstError("operation prohibited in view call")
	ErrInvalidPromiseIndex              = ConstError("invalid promise index")
	ErrInvalidPromiseResultIndex        = ConstError("invalid promise result index")
	ErrCannotAppendActionToJointPromise = ConstError("cannot append action to joint promise")
	ErrCannotReturnJointPromise         = ConstError("cannot return joint promise")
	ErrInvalidPublicKey                 = ConstError("invalid public key")
	ErrInvalidIteratorId                = ConstError("invalid iterator id")
	ErrIteratorWasInvalidated           = ConstError("iterator was invalidated")
	ErrEmptyMethodName                  = ConstError("empty method name")
	ErrGasLimitExceeded                 = ConstError("gas limit exceeded")
	ErrGasExceeded                      = ConstError("gas exceeded")
	ErrIntegerOverflow                  = ConstError("integer overflow")
	ErrBalanceExceeded                  = ConstError("balance exceeded")
	ErrNumberOfLogsExceeded             = ConstError("number of logs exceeded")
	ErrNumberInputDataDependencies      = ConstError("number of input data dependencies exceeded")
	ErrGuestPanic                       = ConstError("guest panicked")
)

// Session level errors.
const (
	ErrSessionPoisoned   = ConstError("session poisoned by storage failure")
	ErrNoSavedState      = ConstError("no saved state")
	ErrUnknownCheckpoint = ConstError("unknown checkpoint")
)

var hostErrors = []error{
	ErrMemoryAccessViolation,
	ErrInvalidRegisterId,
	ErrBadUtf8,
	ErrBadUtf16,
	ErrProhibitedInView,
	ErrInvalidPromiseIndex,
	ErrInvalidPromiseResultIndex,
	ErrCannotAppendActionToJointPromise,
	ErrCannotReturnJointPromise,
	ErrInvalidPublicKey,
	ErrInvalidIteratorId,
	ErrIteratorWasInvalidated,
	ErrEmptyMethodName,
	ErrGasLimitExceeded,
	ErrGasExceeded,
	ErrIntegerOverflow,
	ErrBalanceExceeded,
	ErrNumberOfLogsExceeded,
	ErrNumberInputDataDependencies,
	ErrGuestPanic,
}

// IsHostError reports whether err is one of the host error kinds reported
// back to the guest. Storage failures are not host errors.
func IsHostError(err error) bool {
	if err == nil {
		return false
	}
	for _, kind := range hostErrors {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// StorageError reports a failure of the backing store. Unlike host errors it
// poisons the session that observed it.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError reports whether err contains a *StorageError.
func IsStorageError(err error) bool {
	var target *StorageError
	return errors.As(err, &target)
}

// GuestPanicError is returned by panic, panic_utf8 and abort.
type GuestPanicError struct {
	Message string
}

func (e *GuestPanicError) Error() string {
	if e.Message == "" {
		return string(ErrGuestPanic)
	}
	return fmt.Sprintf("%v: %s", ErrGuestPanic, e.Message)
}

func (e *GuestPanicError) Is(target error) bool {
	return target == ErrGuestPanic
}
