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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Fantom-foundation/MockVM/go/mockvm"
	"github.com/Fantom-foundation/MockVM/go/session"
	"github.com/Fantom-foundation/MockVM/go/st"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Scenario is a sequence of host calls replayed against a fresh session.
type Scenario struct {
	Name string `json:"name"`
	// Context overrides fields of mockvm.DefaultContext().
	Context    *mockvm.Context `json:"context,omitempty"`
	MemorySize int             `json:"memory_size,omitempty"`
	// InitialState names a state file, relative to the scenario, created
	// with st.ExportStateJSON.
	InitialState   string                 `json:"initial_state,omitempty"`
	PromiseResults []mockvm.PromiseResult `json:"promise_results,omitempty"`
	Steps          []Step                 `json:"steps"`

	dir string
}

// Step is either a host function call or one of the session control
// operations listed in controlOps.
type Step struct {
	Op   string   `json:"op"`
	Args []uint64 `json:"args,omitempty"`

	// Parameters of control operations.
	Ptr  uint64        `json:"ptr,omitempty"`
	Data hexutil.Bytes `json:"data,omitempty"`
	Text string        `json:"text,omitempty"`
	Name string        `json:"name,omitempty"`

	Expect         *uint64              `json:"expect,omitempty"`
	ExpectError    string               `json:"expect_error,omitempty"`
	ExpectRegister *RegisterExpectation `json:"expect_register,omitempty"`
}

type RegisterExpectation struct {
	Id   uint64        `json:"id"`
	Text string        `json:"text,omitempty"`
	Data hexutil.Bytes `json:"data,omitempty"`
}

func payload(data hexutil.Bytes, text string) []byte {
	if data != nil {
		return data
	}
	return []byte(text)
}

// LoadScenario reads a scenario from a JSON file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ctx := mockvm.DefaultContext()
	scenario := &Scenario{Context: &ctx}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(scenario); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}
	if scenario.Context == nil {
		scenario.Context = &ctx
	}
	if scenario.Name == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	scenario.dir = filepath.Dir(path)
	return scenario, nil
}

type controlOp func(s *session.Session, memory *st.Memory, step Step) error

var controlOps = map[string]controlOp{
	"write_memory": func(s *session.Session, memory *st.Memory, step Step) error {
		return memory.Write(step.Ptr, payload(step.Data, step.Text))
	},
	"set_input": func(s *session.Session, memory *st.Memory, step Step) error {
		s.SetInput(payload(step.Data, step.Text))
		return nil
	},
	"set_current_account_id": func(s *session.Session, memory *st.Memory, step Step) error {
		s.SetCurrentAccountId(mockvm.AccountId(step.Text))
		return nil
	},
	"save_state": func(s *session.Session, memory *st.Memory, step Step) error {
		s.SaveState()
		return nil
	},
	"restore_state": func(s *session.Session, memory *st.Memory, step Step) error {
		return s.RestoreState()
	},
	"checkpoint": func(s *session.Session, memory *st.Memory, step Step) error {
		s.Checkpoint(step.Name)
		return nil
	},
	"restore_checkpoint": func(s *session.Session, memory *st.Memory, step Step) error {
		return s.RestoreCheckpoint(step.Name)
	},
	"fail_storage": func(s *session.Session, memory *st.Memory, step Step) error {
		if step.Text == "" {
			s.FailStorage(nil)
		} else {
			s.FailStorage(errors.New(step.Text))
		}
		return nil
	},
}

// Run replays the scenario and returns the session it was run on together
// with the number of host calls performed.
func (sc *Scenario) Run(config *mockvm.Config) (*session.Session, int, error) {
	size := sc.MemorySize
	if size <= 0 {
		size = st.DefaultMemorySize
	}
	memory := st.NewMemory(size)
	s, err := session.New(*sc.Context, memory,
		session.WithConfig(config),
		session.WithPromiseResults(sc.PromiseResults...),
	)
	if err != nil {
		return nil, 0, err
	}
	if sc.InitialState != "" {
		state, err := st.ImportStateJSON(filepath.Join(sc.dir, sc.InitialState))
		if err != nil {
			return nil, 0, fmt.Errorf("failed to load initial state: %w", err)
		}
		s.Restore(session.NewSnapshot(state))
	}

	calls := 0
	for i, step := range sc.Steps {
		var result uint64
		var err error
		if op, found := controlOps[step.Op]; found {
			err = op(s, memory, step)
		} else {
			calls++
			result, err = s.Invoke(step.Op, step.Args...)
		}
		if err := step.check(s, result, err); err != nil {
			return s, calls, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
	}
	return s, calls, nil
}

func (step *Step) check(s *session.Session, result uint64, err error) error {
	if step.ExpectError != "" {
		if err == nil {
			return fmt.Errorf("expected error %q, got result %d", step.ExpectError, result)
		}
		if !strings.Contains(err.Error(), step.ExpectError) {
			return fmt.Errorf("expected error %q, got %w", step.ExpectError, err)
		}
		return nil
	}
	if err != nil {
		return err
	}
	if step.Expect != nil && *step.Expect != result {
		return fmt.Errorf("expected result %d, got %d", *step.Expect, result)
	}
	if want := step.ExpectRegister; want != nil {
		got, err := s.RegisterBytes(want.Id)
		if err != nil {
			return fmt.Errorf("register %d: %w", want.Id, err)
		}
		if data := payload(want.Data, want.Text); !bytes.Equal(data, got) {
			return fmt.Errorf("register %d: expected 0x%x, got 0x%x", want.Id, data, got)
		}
	}
	return nil
}
