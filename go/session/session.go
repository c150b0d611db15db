// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package session provides the host call dispatcher. A Session owns the
// state a guest accumulates across host calls and applies every call with
// commit-on-success semantics: the call runs on a copy of the committed state
// which replaces it only if the call succeeds.
package session

import (
	"fmt"
	"sync"

	"github.com/Fantom-foundation/MockVM/go/logic"
	"github.com/Fantom-foundation/MockVM/go/mockvm"
	"github.com/Fantom-foundation/MockVM/go/st"
	"github.com/ethereum/go-ethereum/log"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCheckpointCapacity is the number of named checkpoints retained
// unless configured otherwise.
const DefaultCheckpointCapacity = 16

type Option func(*Session)

// WithConfig sets the fee configuration. The default is mockvm.FreeConfig().
func WithConfig(config *mockvm.Config) Option {
	return func(s *Session) {
		s.config = config
	}
}

// WithPromiseResults sets the results of the receipts the current call
// depends on.
func WithPromiseResults(results ...mockvm.PromiseResult) Option {
	return func(s *Session) {
		s.results = results
	}
}

func WithLogger(logger log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithCheckpointCapacity bounds the number of named checkpoints. The least
// recently used checkpoint is evicted once the capacity is exceeded.
func WithCheckpointCapacity(capacity int) Option {
	return func(s *Session) {
		s.checkpointCapacity = capacity
	}
}

// Session is a single logical execution context of a guest. All methods are
// safe for concurrent use; calls are serialized.
type Session struct {
	mu sync.Mutex

	ctx     mockvm.Context
	config  *mockvm.Config
	memory  mockvm.Memory
	results []mockvm.PromiseResult
	logger  log.Logger

	state *st.State
	// poisoned holds the storage error that made the session unusable.
	poisoned error
	saved    *st.State

	checkpointCapacity int
	checkpoints        *lru.Cache[string, *st.State]
}

// New creates a session for the given context, using memory as the guest's
// linear memory. Balance and storage usage are seeded from the context.
func New(ctx mockvm.Context, memory mockvm.Memory, options ...Option) (*Session, error) {
	s := &Session{
		ctx:                ctx.Clone(),
		config:             mockvm.FreeConfig(),
		memory:             memory,
		logger:             log.New("module", "session"),
		checkpointCapacity: DefaultCheckpointCapacity,
	}
	for _, option := range options {
		option(s)
	}
	if memory == nil {
		return nil, fmt.Errorf("session requires guest memory")
	}
	checkpoints, err := lru.New[string, *st.State](s.checkpointCapacity)
	if err != nil {
		return nil, fmt.Errorf("invalid checkpoint capacity %d: %w", s.checkpointCapacity, err)
	}
	s.checkpoints = checkpoints
	s.state = st.NewState(ctx.AccountBalance, ctx.StorageUsage)
	return s, nil
}

// execute runs op on a copy of the committed state and commits the copy if
// op succeeds.
func execute[R any](s *Session, name string, op func(*logic.Logic) (R, error)) (R, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero R
	if s.poisoned != nil {
		return zero, &mockvm.StorageError{Err: fmt.Errorf("%w: %w", mockvm.ErrSessionPoisoned, s.poisoned)}
	}

	state := s.state.Clone()
	result, err := op(logic.New(state, logic.Params{
		Context:        s.ctx,
		Config:         s.config,
		Memory:         s.memory,
		PromiseResults: s.results,
	}))
	if err != nil {
		if mockvm.IsStorageError(err) {
			s.poisoned = err
			s.logger.Error("Storage failure, session poisoned", "op", name, "err", err)
		} else {
			s.logger.Debug("Host call rolled back", "op", name, "err", err)
		}
		return zero, fmt.Errorf("%s: %w", name, err)
	}
	s.state = state
	s.logger.Trace("Host call committed", "op", name, "result", result, "burnt", state.Gas.Burnt)
	return result, nil
}

func (s *Session) run(name string, op func(*logic.Logic) error) error {
	_, err := execute(s, name, func(l *logic.Logic) (struct{}, error) {
		return struct{}{}, op(l)
	})
	return err
}

// Poisoned reports whether a storage failure made the session unusable.
func (s *Session) Poisoned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.poisoned != nil
}

// FailStorage makes every following storage access fail with err, which is
// reported as a *mockvm.StorageError. A nil err disarms the failure. The
// failure is part of the state and thus subject to save and restore.
func (s *Session) FailStorage(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Storage.FailWith(err)
}

// Context returns a copy of the current context.
func (s *Session) Context() mockvm.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx.Clone()
}

// SetContext replaces the context. Balance and storage usage are reseeded
// from it; storage, registers, iterators, receipts and gas are kept.
func (s *Session) SetContext(ctx mockvm.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx = ctx.Clone()
	s.state.Balance = ctx.AccountBalance
	s.state.StorageUsage = ctx.StorageUsage
}

func (s *Session) SetInput(input []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx.Input = append([]byte{}, input...)
}

func (s *Session) SetCurrentAccountId(id mockvm.AccountId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx.CurrentAccountId = id
}

// SetPromiseResults replaces the results available to promise_result.
func (s *Session) SetPromiseResults(results ...mockvm.PromiseResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = results
}

// Outcome summarizes the effects of the calls so far.
func (s *Session) Outcome() mockvm.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mockvm.Outcome{
		Balance:      s.state.Balance,
		BurntGas:     s.state.Gas.Burnt,
		UsedGas:      s.state.Gas.Used,
		Logs:         append([]string{}, s.state.Logs...),
		StorageUsage: s.state.StorageUsage,
		ReturnData:   s.state.ReturnData.Clone(),
	}
}

// State returns a copy of the committed state for inspection.
func (s *Session) State() *st.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// RegisterBytes returns a copy of the content of register id without
// charging gas.
func (s *Session) RegisterBytes(id uint64) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.state.Registers.Read(id)
	if err != nil {
		return nil, err
	}
	return append([]byte{}, data...), nil
}
