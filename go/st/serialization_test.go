// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package st

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Fantom-foundation/MockVM/go/mockvm"
)

func TestSerialization_ExportImportPreservesState(t *testing.T) {
	state := newPopulatedState(t)
	path := filepath.Join(t.TempDir(), "state.json")
	if err := ExportStateJSON(state, path); err != nil {
		t.Fatalf("failed to export state: %v", err)
	}
	restored, err := ImportStateJSON(path)
	if err != nil {
		t.Fatalf("failed to import state: %v", err)
	}
	if !state.Eq(restored) {
		t.Errorf("restored state differs: %v", state.Diff(restored))
	}
}

func TestSerialization_RestoredIteratorsContinue(t *testing.T) {
	state := newPopulatedState(t)
	path := filepath.Join(t.TempDir(), "state.json")
	if err := ExportStateJSON(state, path); err != nil {
		t.Fatalf("failed to export state: %v", err)
	}
	restored, err := ImportStateJSON(path)
	if err != nil {
		t.Fatalf("failed to import state: %v", err)
	}
	// Iterator 0 was invalidated by the write of key44 before export.
	if _, _, _, err := restored.Storage.IterNext(0); !errors.Is(err, mockvm.ErrIteratorWasInvalidated) {
		t.Errorf("want %v, got %v", mockvm.ErrIteratorWasInvalidated, err)
	}
	if _, _, ok, err := restored.Storage.IterNext(1); ok || err != nil {
		t.Errorf("expected exhausted iterator, got %v %v", ok, err)
	}
	if id, _ := restored.Storage.IterPrefix(nil); id != 2 {
		t.Errorf("want next handle 2, got %d", id)
	}
}

func TestSerialization_ImportRejectsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	if _, err := ImportStateJSON(filepath.Join(dir, "missing.json")); err == nil {
		t.Errorf("expected error for missing file")
	}
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte(`{"Unknown": 1}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportStateJSON(path); err == nil {
		t.Errorf("expected error for unknown field")
	}
}
