// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package logic

import (
	"crypto/sha256"
	"sync"

	"github.com/Fantom-foundation/MockVM/go/mockvm"
	"golang.org/x/crypto/sha3"
)

var keccakHasherPool = sync.Pool{New: func() any { return sha3.NewLegacyKeccak256() }}

type keccakHasher interface {
	Reset()
	Write(in []byte) (int, error)
	Read(out []byte) (int, error)
}

func keccak256(data []byte) [32]byte {
	hasher := keccakHasherPool.Get().(keccakHasher)
	hasher.Reset()
	hasher.Write(data)
	var res [32]byte
	hasher.Read(res[:])
	keccakHasherPool.Put(hasher)
	return res
}

// Sha256 hashes the given input and writes the digest into a register.
func (l *Logic) Sha256(src mockvm.Source, register uint64) error {
	if err := l.pay(mockvm.CostBase); err != nil {
		return err
	}
	data, err := l.get(src)
	if err != nil {
		return err
	}
	if err := l.payBaseAndBytes(mockvm.CostSha256Base, mockvm.CostSha256Byte, uint64(len(data))); err != nil {
		return err
	}
	hash := sha256.Sum256(data)
	return l.registerSet(register, hash[:])
}

// Keccak256 hashes the given input and writes the digest into a register.
func (l *Logic) Keccak256(src mockvm.Source, register uint64) error {
	if err := l.pay(mockvm.CostBase); err != nil {
		return err
	}
	data, err := l.get(src)
	if err != nil {
		return err
	}
	if err := l.payBaseAndBytes(mockvm.CostKeccak256Base, mockvm.CostKeccak256Byte, uint64(len(data))); err != nil {
		return err
	}
	hash := keccak256(data)
	return l.registerSet(register, hash[:])
}
