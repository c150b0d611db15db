// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Fantom-foundation/MockVM/go/mockvm"
	"github.com/Fantom-foundation/MockVM/go/st"
)

func TestScenario_TestdataScenariosPass(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.json"))
	if err != nil {
		t.Fatalf("failed to list scenarios: %v", err)
	}
	if len(files) == 0 {
		t.Fatalf("no scenarios found")
	}
	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			scenario, err := LoadScenario(file)
			if err != nil {
				t.Fatalf("failed to load scenario: %v", err)
			}
			if _, _, err := scenario.Run(mockvm.FreeConfig()); err != nil {
				t.Errorf("scenario failed: %v", err)
			}
		})
	}
}

func TestScenario_ScenariosRunWithDefaultFees(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "key42.json"))
	if err != nil {
		t.Fatalf("failed to load scenario: %v", err)
	}
	s, calls, err := scenario.Run(mockvm.DefaultConfig())
	if err != nil {
		t.Fatalf("scenario failed: %v", err)
	}
	if calls == 0 {
		t.Errorf("no host calls counted")
	}
	if outcome := s.Outcome(); outcome.BurntGas == 0 || outcome.UsedGas < outcome.BurntGas {
		t.Errorf("unexpected gas accounting: burnt %d, used %d", outcome.BurntGas, outcome.UsedGas)
	}
}

func writeScenario(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "scenario.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write scenario: %v", err)
	}
	return path
}

func TestScenario_MismatchesAreReported(t *testing.T) {
	tests := map[string]struct {
		steps string
		want  string
	}{
		"wrong result": {
			steps: `{"op": "block_index", "expect": 11}`,
			want:  "expected result 11, got 10",
		},
		"missing error": {
			steps: `{"op": "block_index", "expect_error": "boom"}`,
			want:  `expected error "boom"`,
		},
		"unexpected error": {
			steps: `{"op": "read_register", "args": [0, 0]}`,
			want:  "invalid register id",
		},
		"register content": {
			steps: `{"op": "current_account_id", "args": [1], "expect_register": {"id": 1, "text": "bob"}}`,
			want:  "register 1",
		},
		"unknown function": {
			steps: `{"op": "frobnicate"}`,
			want:  "unknown host function",
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), `{"steps": [`+test.steps+`]}`)
			scenario, err := LoadScenario(path)
			if err != nil {
				t.Fatalf("failed to load scenario: %v", err)
			}
			_, _, err = scenario.Run(mockvm.FreeConfig())
			if err == nil || !strings.Contains(err.Error(), test.want) {
				t.Errorf("want error containing %q, got %v", test.want, err)
			}
		})
	}
}

func TestScenario_UnknownFieldsAreRejected(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `{"steps": [], "stpes": []}`)
	if _, err := LoadScenario(path); err == nil {
		t.Errorf("expected parse error")
	}
}

func TestScenario_NameDefaultsToFileName(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `{"steps": []}`)
	scenario, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("failed to load scenario: %v", err)
	}
	if want, got := "scenario", scenario.Name; want != got {
		t.Errorf("want %q, got %q", want, got)
	}
	if want, got := mockvm.DefaultContext(), *scenario.Context; !want.Eq(got) {
		t.Errorf("want default context, got %v", got)
	}
}

func TestScenario_InitialStateIsLoaded(t *testing.T) {
	dir := t.TempDir()
	state := st.NewState(mockvm.NewBalance(5), 0)
	if _, _, err := state.Storage.Set([]byte("key"), []byte("stored")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := st.ExportStateJSON(state, filepath.Join(dir, "state.json")); err != nil {
		t.Fatalf("failed to export state: %v", err)
	}
	path := writeScenario(t, dir, `{
		"initial_state": "state.json",
		"steps": [
			{"op": "write_memory", "ptr": 0, "text": "key"},
			{"op": "storage_read", "args": [3, 0, 1], "expect": 1, "expect_register": {"id": 1, "text": "stored"}}
		]
	}`)
	scenario, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("failed to load scenario: %v", err)
	}
	s, _, err := scenario.Run(mockvm.FreeConfig())
	if err != nil {
		t.Fatalf("scenario failed: %v", err)
	}
	if want, got := mockvm.NewBalance(5), s.Outcome().Balance; want != got {
		t.Errorf("want balance %v, got %v", want, got)
	}
}
