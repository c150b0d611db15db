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
	"testing"
)

func TestFuzz_SessionAgreesWithReference(t *testing.T) {
	for seed := uint64(0); seed < 8; seed++ {
		calls, err := fuzz(seed, 1000)
		if err != nil {
			t.Errorf("seed %d: %v", seed, err)
		}
		if calls == 0 {
			t.Errorf("seed %d: no host calls issued", seed)
		}
	}
}
