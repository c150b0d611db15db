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

// Receipts is the append-only receipt ledger of a session.
type Receipts struct {
	receipts []mockvm.Receipt
}

var _ mockvm.ReceiptLedger = (*Receipts)(nil)

func NewReceipts() *Receipts {
	return &Receipts{}
}

func (r *Receipts) Clone() *Receipts {
	res := &Receipts{receipts: make([]mockvm.Receipt, len(r.receipts))}
	for i, receipt := range r.receipts {
		res.receipts[i] = receipt.Clone()
	}
	return res
}

func (r *Receipts) mustExist(index mockvm.ReceiptIndex) {
	if uint64(index) >= uint64(len(r.receipts)) {
		panic(fmt.Sprintf("receipt %d does not exist, ledger holds %d receipts", index, len(r.receipts)))
	}
}

func (r *Receipts) CreateReceipt(dependencies []mockvm.ReceiptIndex, receiver mockvm.AccountId) mockvm.ReceiptIndex {
	for _, dependency := range dependencies {
		r.mustExist(dependency)
	}
	r.receipts = append(r.receipts, mockvm.Receipt{
		ReceiverId:   receiver,
		Dependencies: slices.Clone(dependencies),
	})
	return mockvm.ReceiptIndex(len(r.receipts) - 1)
}

func (r *Receipts) AppendAction(index mockvm.ReceiptIndex, action mockvm.Action) {
	r.mustExist(index)
	r.receipts[index].Actions = append(r.receipts[index].Actions, action.Clone())
}

// Len returns the number of receipts in the ledger.
func (r *Receipts) Len() int {
	return len(r.receipts)
}

// Get returns a copy of the receipt with the given index.
func (r *Receipts) Get(index mockvm.ReceiptIndex) (mockvm.Receipt, bool) {
	if uint64(index) >= uint64(len(r.receipts)) {
		return mockvm.Receipt{}, false
	}
	return r.receipts[index].Clone(), true
}

// All returns a copy of all receipts in index order.
func (r *Receipts) All() []mockvm.Receipt {
	return r.Clone().receipts
}

func (a *Receipts) Eq(b *Receipts) bool {
	return slices.EqualFunc(a.receipts, b.receipts, mockvm.Receipt.Eq)
}

func (a *Receipts) Diff(b *Receipts) (res []string) {
	if len(a.receipts) != len(b.receipts) {
		res = append(res, fmt.Sprintf("Different number of receipts: %d vs %d", len(a.receipts), len(b.receipts)))
	}
	for i := 0; i < min(len(a.receipts), len(b.receipts)); i++ {
		ra, rb := a.receipts[i], b.receipts[i]
		if ra.ReceiverId != rb.ReceiverId {
			res = append(res, fmt.Sprintf("Different receiver of receipt %d: %v vs %v", i, ra.ReceiverId, rb.ReceiverId))
		}
		if !slices.Equal(ra.Dependencies, rb.Dependencies) {
			res = append(res, fmt.Sprintf("Different dependencies of receipt %d: %v vs %v", i, ra.Dependencies, rb.Dependencies))
		}
		if !slices.EqualFunc(ra.Actions, rb.Actions, mockvm.Action.Eq) {
			res = append(res, fmt.Sprintf("Different actions of receipt %d: %v vs %v", i, ra.Actions, rb.Actions))
		}
	}
	return
}
