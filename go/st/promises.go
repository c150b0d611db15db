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
	"fmt"
	"slices"

	"github.com/Fantom-foundation/MockVM/go/mockvm"
)

// Promise is either backed by a single receipt or joins the receipts of
// other promises.
type Promise struct {
	Joint    bool                  `json:"joint"`
	Receipts []mockvm.ReceiptIndex `json:"receipts"`
}

// NewReceiptPromise creates a promise backed by the given receipt.
func NewReceiptPromise(index mockvm.ReceiptIndex) Promise {
	return Promise{Receipts: []mockvm.ReceiptIndex{index}}
}

// Receipt returns the backing receipt of a non-joint promise.
func (p Promise) Receipt() mockvm.ReceiptIndex {
	return p.Receipts[0]
}

func (p Promise) Eq(other Promise) bool {
	return p.Joint == other.Joint && slices.Equal(p.Receipts, other.Receipts)
}

func (p Promise) String() string {
	if p.Joint {
		return fmt.Sprintf("joint%v", p.Receipts)
	}
	return fmt.Sprintf("receipt(%d)", p.Receipt())
}

// Promises lists the promises created in a session by index.
type Promises struct {
	list []Promise
}

func NewPromises() *Promises {
	return &Promises{}
}

func (p *Promises) Clone() *Promises {
	res := &Promises{list: make([]Promise, len(p.list))}
	for i, promise := range p.list {
		res.list[i] = Promise{Joint: promise.Joint, Receipts: slices.Clone(promise.Receipts)}
	}
	return res
}

// Add registers a promise and returns its index.
func (p *Promises) Add(promise Promise) uint64 {
	p.list = append(p.list, promise)
	return uint64(len(p.list) - 1)
}

func (p *Promises) Get(index uint64) (Promise, error) {
	if index >= uint64(len(p.list)) {
		return Promise{}, mockvm.ErrInvalidPromiseIndex
	}
	return p.list[index], nil
}

func (p *Promises) Len() int {
	return len(p.list)
}

func (a *Promises) Eq(b *Promises) bool {
	return slices.EqualFunc(a.list, b.list, Promise.Eq)
}

func (a *Promises) Diff(b *Promises) (res []string) {
	if len(a.list) != len(b.list) {
		res = append(res, fmt.Sprintf("Different number of promises: %d vs %d", len(a.list), len(b.list)))
	}
	for i := 0; i < min(len(a.list), len(b.list)); i++ {
		if !a.list[i].Eq(b.list[i]) {
			res = append(res, fmt.Sprintf("Different promise %d: %v vs %v", i, a.list[i], b.list[i]))
		}
	}
	return
}
