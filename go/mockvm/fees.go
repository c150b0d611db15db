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
	"encoding/json"
	"fmt"
	"maps"
	"os"
)

// ExtCost enumerates the host operation fees of the fee table.
type ExtCost int

const (
	CostBase ExtCost = iota
	CostReadMemoryBase
	CostReadMemoryByte
	CostWriteMemoryBase
	CostWriteMemoryByte
	CostReadRegisterBase
	CostReadRegisterByte
	CostWriteRegisterBase
	CostWriteRegisterByte
	CostUtf8DecodingBase
	CostUtf8DecodingByte
	CostUtf16DecodingBase
	CostUtf16DecodingByte
	CostSha256Base
	CostSha256Byte
	CostKeccak256Base
	CostKeccak256Byte
	CostLogBase
	CostLogByte
	CostStorageWriteBase
	CostStorageWriteKeyByte
	CostStorageWriteValueByte
	CostStorageWriteEvictedByte
	CostStorageReadBase
	CostStorageReadKeyByte
	CostStorageReadValueByte
	CostStorageRemoveBase
	CostStorageRemoveKeyByte
	CostStorageRemoveRetValueByte
	CostStorageHasKeyBase
	CostStorageHasKeyByte
	CostStorageIterCreatePrefixBase
	CostStorageIterCreatePrefixByte
	CostStorageIterCreateRangeBase
	CostStorageIterCreateFromByte
	CostStorageIterCreateToByte
	CostStorageIterNextBase
	CostStorageIterNextKeyByte
	CostStorageIterNextValueByte
	CostPromiseAndBase
	CostPromiseAndPerPromise
	CostPromiseReturn
	numExtCosts
)

var extCostNames = [numExtCosts]string{
	CostBase:                        "base",
	CostReadMemoryBase:              "read_memory_base",
	CostReadMemoryByte:              "read_memory_byte",
	CostWriteMemoryBase:             "write_memory_base",
	CostWriteMemoryByte:             "write_memory_byte",
	CostReadRegisterBase:            "read_register_base",
	CostReadRegisterByte:            "read_register_byte",
	CostWriteRegisterBase:           "write_register_base",
	CostWriteRegisterByte:           "write_register_byte",
	CostUtf8DecodingBase:            "utf8_decoding_base",
	CostUtf8DecodingByte:            "utf8_decoding_byte",
	CostUtf16DecodingBase:           "utf16_decoding_base",
	CostUtf16DecodingByte:           "utf16_decoding_byte",
	CostSha256Base:                  "sha256_base",
	CostSha256Byte:                  "sha256_byte",
	CostKeccak256Base:               "keccak256_base",
	CostKeccak256Byte:               "keccak256_byte",
	CostLogBase:                     "log_base",
	CostLogByte:                     "log_byte",
	CostStorageWriteBase:            "storage_write_base",
	CostStorageWriteKeyByte:         "storage_write_key_byte",
	CostStorageWriteValueByte:       "storage_write_value_byte",
	CostStorageWriteEvictedByte:     "storage_write_evicted_byte",
	CostStorageReadBase:             "storage_read_base",
	CostStorageReadKeyByte:          "storage_read_key_byte",
	CostStorageReadValueByte:        "storage_read_value_byte",
	CostStorageRemoveBase:           "storage_remove_base",
	CostStorageRemoveKeyByte:        "storage_remove_key_byte",
	CostStorageRemoveRetValueByte:   "storage_remove_ret_value_byte",
	CostStorageHasKeyBase:           "storage_has_key_base",
	CostStorageHasKeyByte:           "storage_has_key_byte",
	CostStorageIterCreatePrefixBase: "storage_iter_create_prefix_base",
	CostStorageIterCreatePrefixByte: "storage_iter_create_prefix_byte",
	CostStorageIterCreateRangeBase:  "storage_iter_create_range_base",
	CostStorageIterCreateFromByte:   "storage_iter_create_from_byte",
	CostStorageIterCreateToByte:     "storage_iter_create_to_byte",
	CostStorageIterNextBase:         "storage_iter_next_base",
	CostStorageIterNextKeyByte:      "storage_iter_next_key_byte",
	CostStorageIterNextValueByte:    "storage_iter_next_value_byte",
	CostPromiseAndBase:              "promise_and_base",
	CostPromiseAndPerPromise:        "promise_and_per_promise",
	CostPromiseReturn:               "promise_return",
}

func (c ExtCost) String() string {
	if c >= 0 && c < numExtCosts {
		return extCostNames[c]
	}
	return fmt.Sprintf("ExtCost(%d)", int(c))
}

func (c ExtCost) MarshalText() ([]byte, error) {
	if c < 0 || c >= numExtCosts {
		return nil, fmt.Errorf("invalid ext cost %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *ExtCost) UnmarshalText(data []byte) error {
	for i, name := range extCostNames {
		if name == string(data) {
			*c = ExtCost(i)
			return nil
		}
	}
	return fmt.Errorf("unknown ext cost %q", data)
}

// Limits bounds the resources a single session may consume.
type Limits struct {
	MaxGasBurnt                    Gas    `json:"max_gas_burnt"`
	MaxRegisterSize                uint64 `json:"max_register_size"`
	MaxNumberRegisters             uint64 `json:"max_number_registers"`
	RegistersMemoryLimit           uint64 `json:"registers_memory_limit"`
	MaxNumberLogs                  uint64 `json:"max_number_logs"`
	MaxLogLen                      uint64 `json:"max_log_len"`
	MaxNumberInputDataDependencies uint64 `json:"max_number_input_data_dependencies"`
	NumExtraBytesRecord            uint64 `json:"num_extra_bytes_record"`
}

// Config is the read-only fee and limit table consulted by host operations.
type Config struct {
	RegularOpCost Gas `json:"regular_op_cost"`
	// NewReceiptCost is charged for every receipt created.
	NewReceiptCost Gas `json:"new_receipt_cost"`
	// NewDataReceiptCost is charged per dependency of a new receipt.
	NewDataReceiptCost Gas                `json:"new_data_receipt_cost"`
	ExtCosts           map[ExtCost]Gas    `json:"ext_costs"`
	ActionCosts        map[ActionKind]Gas `json:"action_costs"`
	// ActionByteCosts is charged per byte of code, arguments and method names.
	ActionByteCosts map[ActionKind]Gas `json:"action_byte_costs"`
	Limits          Limits             `json:"limits"`
}

func defaultLimits() Limits {
	return Limits{
		MaxGasBurnt:                    200_000_000_000_000,
		MaxRegisterSize:                100 << 20,
		MaxNumberRegisters:             100,
		RegistersMemoryLimit:           1 << 30,
		MaxNumberLogs:                  100,
		MaxLogLen:                      500,
		MaxNumberInputDataDependencies: 128,
		NumExtraBytesRecord:            40,
	}
}

// DefaultConfig returns a fee table resembling a production network.
func DefaultConfig() *Config {
	return &Config{
		RegularOpCost:      3_856_371,
		NewReceiptCost:     108_059_500_000,
		NewDataReceiptCost: 4_697_339_419_375,
		ExtCosts: map[ExtCost]Gas{
			CostBase:                        264_768_111,
			CostReadMemoryBase:              2_609_863_200,
			CostReadMemoryByte:              3_801_333,
			CostWriteMemoryBase:             2_803_794_861,
			CostWriteMemoryByte:             2_723_772,
			CostReadRegisterBase:            2_517_165_186,
			CostReadRegisterByte:            98_562,
			CostWriteRegisterBase:           2_865_522_486,
			CostWriteRegisterByte:           3_801_564,
			CostUtf8DecodingBase:            3_111_779_061,
			CostUtf8DecodingByte:            291_580_479,
			CostUtf16DecodingBase:           3_543_313_050,
			CostUtf16DecodingByte:           163_577_493,
			CostSha256Base:                  4_540_970_250,
			CostSha256Byte:                  24_117_351,
			CostKeccak256Base:               5_879_491_275,
			CostKeccak256Byte:               21_471_105,
			CostLogBase:                     3_543_313_050,
			CostLogByte:                     13_198_791,
			CostStorageWriteBase:            64_196_736_000,
			CostStorageWriteKeyByte:         70_482_867,
			CostStorageWriteValueByte:       31_018_539,
			CostStorageWriteEvictedByte:     32_117_307,
			CostStorageReadBase:             56_356_845_750,
			CostStorageReadKeyByte:          30_952_533,
			CostStorageReadValueByte:        5_611_005,
			CostStorageRemoveBase:           53_473_030_500,
			CostStorageRemoveKeyByte:        38_220_384,
			CostStorageRemoveRetValueByte:   11_531_556,
			CostStorageHasKeyBase:           54_039_896_625,
			CostStorageHasKeyByte:           30_790_845,
			CostStorageIterCreatePrefixBase: 16_800_000_000,
			CostStorageIterCreatePrefixByte: 30_790_845,
			CostStorageIterCreateRangeBase:  16_800_000_000,
			CostStorageIterCreateFromByte:   30_790_845,
			CostStorageIterCreateToByte:     30_790_845,
			CostStorageIterNextBase:         15_000_000_000,
			CostStorageIterNextKeyByte:      5_611_005,
			CostStorageIterNextValueByte:    5_611_005,
			CostPromiseAndBase:              1_465_013_400,
			CostPromiseAndPerPromise:        5_452_176,
			CostPromiseReturn:               560_152_386,
		},
		ActionCosts: map[ActionKind]Gas{
			ActionCreateAccount:          99_607_375_000,
			ActionDeployContract:         184_765_750_000,
			ActionFunctionCall:           2_319_861_500_000,
			ActionTransfer:               115_123_062_500,
			ActionStake:                  141_715_687_500,
			ActionAddKeyWithFullAccess:   101_765_125_000,
			ActionAddKeyWithFunctionCall: 102_217_625_000,
			ActionDeleteKey:              94_946_625_000,
			ActionDeleteAccount:          147_489_000_000,
		},
		ActionByteCosts: map[ActionKind]Gas{
			ActionDeployContract:         6_812_999,
			ActionFunctionCall:           2_235_934,
			ActionAddKeyWithFunctionCall: 1_925_331,
		},
		Limits: defaultLimits(),
	}
}

// FreeConfig returns a table in which every operation is free. Limits are
// kept at their defaults.
func FreeConfig() *Config {
	return &Config{
		ExtCosts:        map[ExtCost]Gas{},
		ActionCosts:     map[ActionKind]Gas{},
		ActionByteCosts: map[ActionKind]Gas{},
		Limits:          defaultLimits(),
	}
}

// ExtCost returns the fee of the given host operation cost entry.
func (c *Config) ExtCost(kind ExtCost) Gas {
	return c.ExtCosts[kind]
}

func (c *Config) ActionCost(kind ActionKind) Gas {
	return c.ActionCosts[kind]
}

func (c *Config) ActionByteCost(kind ActionKind) Gas {
	return c.ActionByteCosts[kind]
}

func (c *Config) Clone() *Config {
	res := *c
	res.ExtCosts = maps.Clone(c.ExtCosts)
	res.ActionCosts = maps.Clone(c.ActionCosts)
	res.ActionByteCosts = maps.Clone(c.ActionByteCosts)
	return &res
}

// LoadConfig reads a JSON fee table. Entries missing in the file keep the
// values of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return config, nil
}
