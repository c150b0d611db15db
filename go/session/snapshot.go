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
	"fmt"

	"github.com/Fantom-foundation/MockVM/go/mockvm"
	"github.com/Fantom-foundation/MockVM/go/st"
)

// Snapshot is an immutable copy of the state of a session.
type Snapshot struct {
	state *st.State
}

// NewSnapshot creates a snapshot holding a copy of state, e.g. one loaded
// with st.ImportStateJSON.
func NewSnapshot(state *st.State) Snapshot {
	return Snapshot{state: state.Clone()}
}

// State returns a copy of the state held by the snapshot.
func (s Snapshot) State() *st.State {
	if s.state == nil {
		return nil
	}
	return s.state.Clone()
}

func (s Snapshot) Eq(other Snapshot) bool {
	if s.state == nil || other.state == nil {
		return s.state == other.state
	}
	return s.state.Eq(other.state)
}

// Diff lists the differences between two snapshots.
func (s Snapshot) Diff(other Snapshot) []string {
	switch {
	case s.state == nil && other.state == nil:
		return nil
	case s.state == nil || other.state == nil:
		return []string{"Different snapshot presence"}
	}
	return s.state.Diff(other.state)
}

func (s Snapshot) String() string {
	if s.state == nil {
		return "Snapshot{}"
	}
	return s.state.String()
}

// Save returns a deep copy of the current state, including live iterators
// and their positions.
func (s *Session) Save() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{state: s.state.Clone()}
}

// Restore replaces the state wholesale with the given snapshot. Registers and
// iterators not part of the snapshot cease to exist. A successful restore
// clears a poisoned session.
func (s *Session) Restore(snapshot Snapshot) {
	if snapshot.state == nil {
		panic("restoring empty snapshot")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restore(snapshot.state)
}

func (s *Session) restore(state *st.State) {
	s.state = state.Clone()
	if s.poisoned != nil {
		s.logger.Info("Session recovered by restore")
		s.poisoned = nil
	}
}

// SaveState stores the current state in the session's save slot,
// replacing its previous content.
func (s *Session) SaveState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = s.state.Clone()
}

// RestoreState restores the state stored by the last SaveState. The slot
// keeps its content, so the state may be restored repeatedly.
func (s *Session) RestoreState() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		return mockvm.ErrNoSavedState
	}
	s.restore(s.saved)
	return nil
}

// Checkpoint stores the current state under name, replacing any earlier
// checkpoint of that name.
func (s *Session) Checkpoint(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if evicted := s.checkpoints.Add(name, s.state.Clone()); evicted {
		s.logger.Debug("Checkpoint evicted", "capacity", s.checkpointCapacity)
	}
}

func (s *Session) RestoreCheckpoint(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, found := s.checkpoints.Get(name)
	if !found {
		return fmt.Errorf("%w: %q", mockvm.ErrUnknownCheckpoint, name)
	}
	s.restore(state)
	return nil
}

// Checkpoints lists the retained checkpoint names, least recently used first.
func (s *Session) Checkpoints() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkpoints.Keys()
}
