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
	"testing"
)

func TestConstError_ErrorMessageIsTheConstant(t *testing.T) {
	const issue = ConstError("test error")
	if want, got := "test error", issue.Error(); want != got {
		t.Errorf("unexpected error message, wanted %v, got %v", want, got)
	}
}

func TestIsHostError_ClassifiesErrorKinds(t *testing.T) {
	tests := map[string]struct {
		err  error
		want bool
	}{
		"nil":                 {nil, false},
		"memory":              {ErrMemoryAccessViolation, true},
		"wrapped":             {fmt.Errorf("read_register: %w", ErrInvalidRegisterId), true},
		"guest panic":         {&GuestPanicError{Message: "boom"}, true},
		"storage":             {&StorageError{Err: errors.New("disk")}, false},
		"poisoned":            {ErrSessionPoisoned, false},
		"unrelated":           {errors.New("something"), false},
		"wrapped invalidated": {fmt.Errorf("x: %w", ErrIteratorWasInvalidated), true},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if want, got := test.want, IsHostError(test.err); want != got {
				t.Errorf("want %v, got %v", want, got)
			}
		})
	}
}

func TestStorageError_UnwrapsCause(t *testing.T) {
	cause := errors.New("backend down")
	err := fmt.Errorf("storage_write: %w", &StorageError{Err: cause})
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be reachable through %v", err)
	}
	if !IsStorageError(err) {
		t.Errorf("expected %v to be a storage error", err)
	}
	if IsStorageError(ErrGasExceeded) {
		t.Errorf("gas error classified as storage error")
	}
}

func TestGuestPanicError_MatchesGuestPanicKind(t *testing.T) {
	err := error(&GuestPanicError{Message: "explicit guest panic"})
	if !errors.Is(err, ErrGuestPanic) {
		t.Errorf("guest panic error does not match kind")
	}
	if want, got := "guest panicked: explicit guest panic", err.Error(); want != got {
		t.Errorf("want %q, got %q", want, got)
	}
	if want, got := "guest panicked", (&GuestPanicError{}).Error(); want != got {
		t.Errorf("want %q, got %q", want, got)
	}
}
