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
	"bytes"
	"encoding/json"
	"os"
	"slices"

	"github.com/Fantom-foundation/MockVM/go/mockvm"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

////////////////////////////////////////////////////////////
// Importing/exporting state

// ExportStateJSON exports the given state in json format to the given file path.
// If the file does not exist, it will be created.
// If the file already exists, it will be overwritten.
func ExportStateJSON(state *State, filePath string) error {
	serialized, err := newStateSerializableFromState(state).serialize()
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, serialized, 0644)
}

// ImportStateJSON imports a state from the given json file.
// If the file does not exist, or is not parsable, the import fails.
func ImportStateJSON(filePath string) (*State, error) {
	serialized, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	serializableState, err := newStateSerializableFromSerialized(serialized)
	if err != nil {
		return nil, err
	}
	return serializableState.deserialize(), nil
}

////////////////////////////////////////////////////////////
// Serialization helpers

// stateSerializable is a serializable representation of the State struct.
type stateSerializable struct {
	Registers    map[uint64]hexutil.Bytes
	Storage      *storageSerializable
	Receipts     []mockvm.Receipt
	Promises     []Promise
	Gas          GasCounter
	Logs         []string
	ReturnData   mockvm.ReturnData
	Balance      mockvm.Balance
	StorageUsage uint64
}

type entrySerializable struct {
	Key   hexutil.Bytes
	Value hexutil.Bytes
}

type mutationSerializable struct {
	Key   hexutil.Bytes
	Epoch uint64
}

type iteratorSerializable struct {
	Id        uint64
	Lower     hexutil.Bytes
	Upper     hexutil.Bytes
	Unbounded bool
	Started   bool
	Cursor    hexutil.Bytes
	Epoch     uint64
}

// storageSerializable is a serializable representation of the Storage struct.
type storageSerializable struct {
	Entries        []entrySerializable
	Mutations      []mutationSerializable
	Epoch          uint64
	Iterators      []iteratorSerializable
	NextIteratorId uint64
}

// newStateSerializableFromState creates a new stateSerializable instance from the given State instance.
// The data of the input state is deep copied.
func newStateSerializableFromState(state *State) *stateSerializable {
	registers := map[uint64]hexutil.Bytes{}
	for _, id := range state.Registers.Ids() {
		data, _ := state.Registers.Read(id)
		registers[id] = bytes.Clone(data)
	}
	promises := state.Promises.Clone().list
	return &stateSerializable{
		Registers:    registers,
		Storage:      newStorageSerializable(state.Storage),
		Receipts:     state.Receipts.All(),
		Promises:     promises,
		Gas:          state.Gas,
		Logs:         slices.Clone(state.Logs),
		ReturnData:   state.ReturnData.Clone(),
		Balance:      state.Balance,
		StorageUsage: state.StorageUsage,
	}
}

// newStateSerializableFromSerialized creates a new stateSerializable instance from the given serialized data.
func newStateSerializableFromSerialized(data []byte) (*stateSerializable, error) {
	serializableState := &stateSerializable{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	err := decoder.Decode(serializableState)
	return serializableState, err
}

// serialize serializes the stateSerializable instance.
func (s *stateSerializable) serialize() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// deserialize converts the stateSerializable to a State instance.
// The data of the stateSerializable is deep copied.
func (s *stateSerializable) deserialize() *State {
	state := NewState(s.Balance, s.StorageUsage)
	for id, data := range s.Registers {
		state.Registers.regs[id] = bytes.Clone(data)
		state.Registers.total += uint64(len(data))
	}
	if s.Storage != nil {
		s.Storage.restore(state.Storage)
	}
	for _, receipt := range s.Receipts {
		state.Receipts.receipts = append(state.Receipts.receipts, receipt.Clone())
	}
	for _, promise := range s.Promises {
		state.Promises.Add(Promise{Joint: promise.Joint, Receipts: slices.Clone(promise.Receipts)})
	}
	state.Gas = s.Gas
	state.Logs = slices.Clone(s.Logs)
	state.ReturnData = s.ReturnData.Clone()
	return state
}

// newStorageSerializable creates a new storageSerializable instance from the given Storage instance.
func newStorageSerializable(storage *Storage) *storageSerializable {
	res := &storageSerializable{
		Epoch:          storage.epoch,
		NextIteratorId: storage.nextIteratorId,
	}
	storage.entries.Scan(func(key string, value []byte) bool {
		res.Entries = append(res.Entries, entrySerializable{Key: []byte(key), Value: bytes.Clone(value)})
		return true
	})
	storage.mutations.Scan(func(key string, epoch uint64) bool {
		res.Mutations = append(res.Mutations, mutationSerializable{Key: []byte(key), Epoch: epoch})
		return true
	})
	for _, id := range storage.Iterators() {
		it := storage.iterators[id]
		res.Iterators = append(res.Iterators, iteratorSerializable{
			Id:        id,
			Lower:     []byte(it.lower),
			Upper:     []byte(it.upper),
			Unbounded: it.unbounded,
			Started:   it.started,
			Cursor:    []byte(it.cursor),
			Epoch:     it.epoch,
		})
	}
	return res
}

func (s *storageSerializable) restore(storage *Storage) {
	for _, entry := range s.Entries {
		value := bytes.Clone(entry.Value)
		if value == nil {
			value = []byte{}
		}
		storage.entries.Set(string(entry.Key), value)
	}
	for _, mutation := range s.Mutations {
		storage.mutations.Set(string(mutation.Key), mutation.Epoch)
	}
	for _, it := range s.Iterators {
		storage.iterators[it.Id] = iterator{
			lower:     string(it.Lower),
			upper:     string(it.Upper),
			unbounded: it.Unbounded,
			started:   it.Started,
			cursor:    string(it.Cursor),
			epoch:     it.Epoch,
		}
	}
	storage.epoch = s.Epoch
	storage.nextIteratorId = s.NextIteratorId
}
