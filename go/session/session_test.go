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
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/Fantom-foundation/MockVM/go/mockvm"
	"github.com/Fantom-foundation/MockVM/go/st"
	"github.com/ethereum/go-ethereum/log"
)

func newTestSession(t *testing.T, options ...Option) (*Session, *st.Memory) {
	t.Helper()
	memory := st.NewMemory(1024)
	logger := log.NewLogger(log.NewTerminalHandler(io.Discard, false))
	session, err := New(mockvm.DefaultContext(), memory, append([]Option{WithLogger(logger)}, options...)...)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return session, memory
}

func writeMemory(t *testing.T, memory *st.Memory, ptr uint64, data string) mockvm.Source {
	t.Helper()
	if err := memory.Write(ptr, []byte(data)); err != nil {
		t.Fatalf("failed to prepare memory: %v", err)
	}
	return mockvm.FromMemory(ptr, uint64(len(data)))
}

func registerString(t *testing.T, session *Session, id uint64) string {
	t.Helper()
	data, err := session.RegisterBytes(id)
	if err != nil {
		t.Fatalf("failed to read register %d: %v", id, err)
	}
	return string(data)
}

func TestSession_NewRequiresMemory(t *testing.T) {
	if _, err := New(mockvm.DefaultContext(), nil); err == nil {
		t.Errorf("expected error for missing memory")
	}
}

func TestSession_InvalidCheckpointCapacityIsReported(t *testing.T) {
	if _, err := New(mockvm.DefaultContext(), st.NewMemory(16), WithCheckpointCapacity(0)); err == nil {
		t.Errorf("expected error for capacity 0")
	}
}

func TestSession_StateIsSeededFromContext(t *testing.T) {
	session, _ := newTestSession(t)
	outcome := session.Outcome()
	ctx := mockvm.DefaultContext()
	if want, got := ctx.AccountBalance, outcome.Balance; want != got {
		t.Errorf("want balance %v, got %v", want, got)
	}
	if want, got := ctx.StorageUsage, outcome.StorageUsage; want != got {
		t.Errorf("want storage usage %d, got %d", want, got)
	}
}

func TestSession_MostRecentWriteWins(t *testing.T) {
	session, memory := newTestSession(t)
	key := writeMemory(t, memory, 0, "key42")
	for i, value := range []string{"a", "bb", "ccc"} {
		v := writeMemory(t, memory, 100, value)
		if _, err := session.StorageWrite(key, v, 0); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}
	if found, err := session.StorageRead(key, 1); err != nil || found != 1 {
		t.Fatalf("want key found, got %d (%v)", found, err)
	}
	if want, got := "ccc", registerString(t, session, 1); want != got {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestSession_FailedCallsAreRolledBack(t *testing.T) {
	tests := map[string]func(*testing.T, *Session, *st.Memory) error{
		"gas limit": func(t *testing.T, s *Session, m *st.Memory) error {
			return s.Gas(1 << 31)
		},
		"memory out of bounds": func(t *testing.T, s *Session, m *st.Memory) error {
			_, err := s.StorageWrite(mockvm.FromMemory(1000, 100), mockvm.FromMemory(0, 1), 0)
			return err
		},
		"deposit exceeding balance": func(t *testing.T, s *Session, m *st.Memory) error {
			if err := m.Write(32, mockvm.NewBalance(1_000_000).LittleEndian()); err != nil {
				return err
			}
			return s.PromiseBatchActionFunctionCall(0, writeMemory(t, m, 0, "f"), writeMemory(t, m, 8, ""), 32, 10)
		},
		"invalid iterator": func(t *testing.T, s *Session, m *st.Memory) error {
			_, err := s.StorageIterNext(17, 0, 1)
			return err
		},
		"guest panic": func(t *testing.T, s *Session, m *st.Memory) error {
			return s.Panic()
		},
	}
	for name, run := range tests {
		t.Run(name, func(t *testing.T) {
			session, memory := newTestSession(t, WithConfig(mockvm.DefaultConfig()))
			if _, err := session.PromiseBatchCreate(writeMemory(t, memory, 0, "bob.near")); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			before := session.Save()
			if err := run(t, session, memory); err == nil {
				t.Fatalf("expected call to fail")
			} else if mockvm.IsStorageError(err) {
				t.Fatalf("unexpected storage error: %v", err)
			}
			if after := session.Save(); !before.Eq(after) {
				t.Errorf("failed call modified state: %v", before.Diff(after))
			}
			if session.Poisoned() {
				t.Errorf("session should not be poisoned")
			}
		})
	}
}

func TestSession_GasFailureKeepsEarlierCommits(t *testing.T) {
	session, memory := newTestSession(t, WithConfig(mockvm.DefaultConfig()))
	key := writeMemory(t, memory, 0, "key")
	if _, err := session.StorageWrite(key, key, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	committed := session.Save()
	if err := session.Gas(1 << 31); !errors.Is(err, mockvm.ErrGasExceeded) && !errors.Is(err, mockvm.ErrGasLimitExceeded) {
		t.Fatalf("want gas error, got %v", err)
	}
	if after := session.Save(); !committed.Eq(after) {
		t.Errorf("gas failure modified state: %v", committed.Diff(after))
	}
	if found, err := session.StorageHasKey(key); err != nil || found != 1 {
		t.Errorf("earlier write lost: %d (%v)", found, err)
	}
}

func TestSession_StorageFailurePoisonsSessionUntilRestore(t *testing.T) {
	session, memory := newTestSession(t)
	key := writeMemory(t, memory, 0, "key")
	if _, err := session.StorageWrite(key, key, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	healthy := session.Save()

	injected := errors.New("backend unavailable")
	session.FailStorage(injected)
	_, err := session.StorageRead(key, 0)
	if !mockvm.IsStorageError(err) || !errors.Is(err, injected) {
		t.Fatalf("want storage error wrapping %v, got %v", injected, err)
	}
	if !session.Poisoned() {
		t.Fatalf("session should be poisoned")
	}

	_, err = session.BlockIndex()
	if !errors.Is(err, mockvm.ErrSessionPoisoned) || !mockvm.IsStorageError(err) {
		t.Errorf("want poisoned storage error, got %v", err)
	}
	if _, err := session.Invoke("block_index"); !errors.Is(err, mockvm.ErrSessionPoisoned) {
		t.Errorf("want %v, got %v", mockvm.ErrSessionPoisoned, err)
	}

	session.Restore(healthy)
	if session.Poisoned() {
		t.Fatalf("restore should recover the session")
	}
	if found, err := session.StorageRead(key, 0); err != nil || found != 1 {
		t.Errorf("want key found after recovery, got %d (%v)", found, err)
	}
}

func TestSession_RestoreStateRecoversPoisonedSession(t *testing.T) {
	session, memory := newTestSession(t)
	session.SaveState()
	session.FailStorage(errors.New("boom"))
	if _, err := session.StorageHasKey(writeMemory(t, memory, 0, "k")); !mockvm.IsStorageError(err) {
		t.Fatalf("want storage error, got %v", err)
	}
	if err := session.RestoreState(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Poisoned() {
		t.Errorf("session should be recovered")
	}
}

func TestSession_RestoreStateWithoutSaveFails(t *testing.T) {
	session, _ := newTestSession(t)
	if err := session.RestoreState(); !errors.Is(err, mockvm.ErrNoSavedState) {
		t.Errorf("want %v, got %v", mockvm.ErrNoSavedState, err)
	}
}

func TestSession_SaveStateCanBeRestoredRepeatedly(t *testing.T) {
	session, memory := newTestSession(t)
	key := writeMemory(t, memory, 0, "key42")
	session.SaveState()
	for i := 0; i < 2; i++ {
		if _, err := session.StorageWrite(key, key, 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := session.RestoreState(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if found, err := session.StorageHasKey(key); err != nil || found != 0 {
			t.Errorf("round %d: want key absent, got %d (%v)", i, found, err)
		}
	}
}

func TestSession_SetContextKeepsAccumulatedState(t *testing.T) {
	session, memory := newTestSession(t)
	key := writeMemory(t, memory, 0, "key")
	if _, err := session.StorageWrite(key, key, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := mockvm.DefaultContext()
	ctx.AccountBalance = mockvm.NewBalance(77)
	ctx.StorageUsage = 5
	ctx.BlockIndex = 99
	session.SetContext(ctx)

	if got, err := session.BlockIndex(); err != nil || got != 99 {
		t.Errorf("want block index 99, got %d (%v)", got, err)
	}
	outcome := session.Outcome()
	if want, got := mockvm.NewBalance(77), outcome.Balance; want != got {
		t.Errorf("want balance %v, got %v", want, got)
	}
	if want, got := uint64(5), outcome.StorageUsage; want != got {
		t.Errorf("want storage usage %d, got %d", want, got)
	}
	if found, err := session.StorageHasKey(key); err != nil || found != 1 {
		t.Errorf("storage should survive context change, got %d (%v)", found, err)
	}
}

func TestSession_SetInputAndCurrentAccountId(t *testing.T) {
	session, _ := newTestSession(t)
	session.SetInput([]byte("payload"))
	session.SetCurrentAccountId("dave.near")
	if err := session.Input(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := session.CurrentAccountId(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := "payload", registerString(t, session, 1); want != got {
		t.Errorf("want %q, got %q", want, got)
	}
	if want, got := "dave.near", registerString(t, session, 2); want != got {
		t.Errorf("want %q, got %q", want, got)
	}
	if want, got := mockvm.AccountId("dave.near"), session.Context().CurrentAccountId; want != got {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestSession_PromiseResultsOption(t *testing.T) {
	session, _ := newTestSession(t, WithPromiseResults(mockvm.PromiseResult{Status: mockvm.PromiseSuccessful, Data: []byte("x")}))
	if count, err := session.PromiseResultsCount(); err != nil || count != 1 {
		t.Errorf("want 1 result, got %d (%v)", count, err)
	}
	session.SetPromiseResults()
	if count, err := session.PromiseResultsCount(); err != nil || count != 0 {
		t.Errorf("want no results, got %d (%v)", count, err)
	}
}

func TestSession_ReceiptScenario(t *testing.T) {
	session, memory := newTestSession(t)
	charli := writeMemory(t, memory, 0, "charli.near")
	bob := writeMemory(t, memory, 16, "bob.near")

	first, err := session.PromiseBatchCreate(charli)
	if err != nil || first != 0 {
		t.Fatalf("want promise 0, got %d (%v)", first, err)
	}
	second, err := session.PromiseBatchThen(first, bob)
	if err != nil || second != 1 {
		t.Fatalf("want promise 1, got %d (%v)", second, err)
	}
	if err := session.PromiseBatchActionCreateAccount(2); !errors.Is(err, mockvm.ErrInvalidPromiseIndex) {
		t.Errorf("want %v, got %v", mockvm.ErrInvalidPromiseIndex, err)
	}
	receipts := session.State().Receipts
	if want, got := 2, receipts.Len(); want != got {
		t.Fatalf("want %d receipts, got %d", want, got)
	}
	receipt, _ := receipts.Get(1)
	if receipt.ReceiverId != "bob.near" || len(receipt.Dependencies) != 1 || receipt.Dependencies[0] != 0 {
		t.Errorf("unexpected receipt %v", receipt)
	}
}

func TestSession_ConcurrentCallsAreSerialized(t *testing.T) {
	session, memory := newTestSession(t)
	const N = 32
	for i := 0; i < N; i++ {
		writeMemory(t, memory, uint64(i*4), fmt.Sprintf("k%02d", i))
	}
	var wg sync.WaitGroup
	errs := make([]error, N)
	for i := 0; i < N; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := mockvm.FromMemory(uint64(i*4), 3)
			_, errs[i] = session.StorageWrite(key, key, 0)
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Errorf("write %d failed: %v", i, err)
		}
	}
	if want, got := N, session.State().Storage.Len(); want != got {
		t.Errorf("want %d entries, got %d", want, got)
	}
}
