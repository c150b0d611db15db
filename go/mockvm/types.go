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

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// AccountId names an account, e.g. "alice.near".
type AccountId string

// Gas is an amount of gas units.
type Gas uint64

// ReceiptIndex identifies a receipt in the receipt ledger of a session.
type ReceiptIndex uint64

// Balance is an unsigned 128-bit token amount in big-endian order.
type Balance [16]byte

// NewBalance creates a balance from a uint64 amount.
func NewBalance(amount uint64) (result Balance) {
	binary.BigEndian.PutUint64(result[8:], amount)
	return
}

// BalanceFromUint256 converts a *uint256.Int to a Balance. The second result
// is false if the value does not fit into 128 bits. A nil input yields 0.
func BalanceFromUint256(value *uint256.Int) (Balance, bool) {
	var result Balance
	if value == nil {
		return result, true
	}
	if value.BitLen() > 128 {
		return result, false
	}
	full := value.Bytes32()
	copy(result[:], full[16:])
	return result, true
}

// BalanceFromLittleEndian decodes the 16-byte little-endian encoding used
// when balances cross the guest memory boundary.
func BalanceFromLittleEndian(data []byte) (Balance, error) {
	var result Balance
	if len(data) != len(result) {
		return result, fmt.Errorf("invalid balance encoding length %d", len(data))
	}
	for i := range result {
		result[i] = data[len(data)-1-i]
	}
	return result, nil
}

// LittleEndian returns the 16-byte little-endian encoding of b.
func (b Balance) LittleEndian() []byte {
	res := make([]byte, len(b))
	for i := range b {
		res[i] = b[len(b)-1-i]
	}
	return res
}

func (b Balance) ToUint256() *uint256.Int {
	return new(uint256.Int).SetBytes(b[:])
}

func (b Balance) IsZero() bool {
	return b == Balance{}
}

func (b Balance) Cmp(o Balance) int {
	return bytes.Compare(b[:], o[:])
}

func (b Balance) String() string {
	return b.ToUint256().Dec()
}

// AddBalance returns a+b or ErrIntegerOverflow.
func AddBalance(a, b Balance) (Balance, error) {
	sum, overflow := new(uint256.Int).AddOverflow(a.ToUint256(), b.ToUint256())
	if overflow {
		return Balance{}, ErrIntegerOverflow
	}
	res, ok := BalanceFromUint256(sum)
	if !ok {
		return Balance{}, ErrIntegerOverflow
	}
	return res, nil
}

// SubBalance returns a-b or ErrIntegerOverflow if b exceeds a.
func SubBalance(a, b Balance) (Balance, error) {
	diff, underflow := new(uint256.Int).SubOverflow(a.ToUint256(), b.ToUint256())
	if underflow {
		return Balance{}, ErrIntegerOverflow
	}
	res, _ := BalanceFromUint256(diff)
	return res, nil
}

func (b Balance) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText accepts decimal numbers and 0x prefixed hex numbers.
func (b *Balance) UnmarshalText(data []byte) error {
	text := string(data)
	var (
		value *uint256.Int
		err   error
	)
	if strings.HasPrefix(text, "0x") {
		value, err = uint256.FromHex(text)
	} else {
		value, err = uint256.FromDecimal(text)
	}
	if err != nil {
		return fmt.Errorf("invalid balance %q: %w", text, err)
	}
	res, ok := BalanceFromUint256(value)
	if !ok {
		return fmt.Errorf("balance %q exceeds 128 bits", text)
	}
	*b = res
	return nil
}

// PromiseResultStatus is the state of the result of a promise this call
// depends on.
type PromiseResultStatus int

const (
	PromiseNotReady PromiseResultStatus = iota
	PromiseSuccessful
	PromiseFailed
)

var promiseResultStatusNames = map[PromiseResultStatus]string{
	PromiseNotReady:   "not_ready",
	PromiseSuccessful: "successful",
	PromiseFailed:     "failed",
}

func (s PromiseResultStatus) String() string {
	if name, found := promiseResultStatusNames[s]; found {
		return name
	}
	return fmt.Sprintf("PromiseResultStatus(%d)", int(s))
}

func (s PromiseResultStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *PromiseResultStatus) UnmarshalText(data []byte) error {
	for status, name := range promiseResultStatusNames {
		if name == string(data) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown promise result status %q", data)
}

// PromiseResult is the outcome of a receipt the current call was waiting on.
// Data is only meaningful for successful results.
type PromiseResult struct {
	Status PromiseResultStatus `json:"status"`
	Data   hexutil.Bytes       `json:"data,omitempty"`
}

// ReturnDataKind distinguishes what a call returns to its caller.
type ReturnDataKind int

const (
	ReturnNone ReturnDataKind = iota
	ReturnValue
	ReturnReceiptIndex
)

var returnDataKindNames = map[ReturnDataKind]string{
	ReturnNone:         "none",
	ReturnValue:        "value",
	ReturnReceiptIndex: "receipt_index",
}

func (k ReturnDataKind) String() string {
	if name, found := returnDataKindNames[k]; found {
		return name
	}
	return fmt.Sprintf("ReturnDataKind(%d)", int(k))
}

func (k ReturnDataKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ReturnDataKind) UnmarshalText(data []byte) error {
	for kind, name := range returnDataKindNames {
		if name == string(data) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown return data kind %q", data)
}

// ReturnData is either nothing, a value, or the index of a receipt whose
// result becomes the result of the current call.
type ReturnData struct {
	Kind         ReturnDataKind `json:"kind"`
	Value        hexutil.Bytes  `json:"value,omitempty"`
	ReceiptIndex ReceiptIndex   `json:"receipt_index,omitempty"`
}

func (r ReturnData) Eq(other ReturnData) bool {
	return r.Kind == other.Kind &&
		bytes.Equal(r.Value, other.Value) &&
		r.ReceiptIndex == other.ReceiptIndex
}

func (r ReturnData) Clone() ReturnData {
	r.Value = bytes.Clone(r.Value)
	return r
}

func (r ReturnData) String() string {
	switch r.Kind {
	case ReturnValue:
		return fmt.Sprintf("value(0x%x)", []byte(r.Value))
	case ReturnReceiptIndex:
		return fmt.Sprintf("receipt(%d)", r.ReceiptIndex)
	}
	return "none"
}

// Outcome summarizes the observable effects of the calls made so far.
type Outcome struct {
	Balance      Balance    `json:"balance"`
	BurntGas     Gas        `json:"burnt_gas"`
	UsedGas      Gas        `json:"used_gas"`
	Logs         []string   `json:"logs"`
	StorageUsage uint64     `json:"storage_usage"`
	ReturnData   ReturnData `json:"return_data"`
}
