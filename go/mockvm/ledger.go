// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package mockvm

//go:generate mockgen -source ledger.go -destination ledger_mock.go -package mockvm

// ReceiptLedger is the append-only record of receipts produced by a session.
// Using an index that was never issued is a programming error and panics.
type ReceiptLedger interface {
	// CreateReceipt appends a receipt for receiver waiting on the given
	// receipts and returns its index. Indices are assigned consecutively
	// starting at 0.
	CreateReceipt(dependencies []ReceiptIndex, receiver AccountId) ReceiptIndex
	// AppendAction adds an action to an existing receipt.
	AppendAction(index ReceiptIndex, action Action)
}
