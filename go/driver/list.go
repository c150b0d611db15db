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
	"fmt"

	"github.com/Fantom-foundation/MockVM/go/session"
	"github.com/urfave/cli/v2"
)

var ListCmd = cli.Command{
	Action: doList,
	Name:   "list",
	Usage:  "List all host functions with their number of arguments",
}

func doList(context *cli.Context) error {
	for _, name := range session.HostFunctions() {
		arity, _ := session.Arity(name)
		fmt.Printf("%-50s %d\n", name, arity)
	}
	return nil
}
