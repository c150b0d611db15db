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
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	cliUtils "github.com/Fantom-foundation/MockVM/go/driver/cli"
	"github.com/Fantom-foundation/MockVM/go/st"
	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"
)

var RunCmd = cli.Command{
	Action:    doRun,
	Name:      "run",
	Usage:     "Replay scenario files against a fresh host session each",
	ArgsUsage: "<scenario.json>...",
	Flags: []cli.Flag{
		cliUtils.ConfigFlag,
		cliUtils.DumpStateFlag,
	},
}

func doRun(context *cli.Context) error {
	if context.Args().Len() == 0 {
		return fmt.Errorf("no scenario files given")
	}
	config, err := cliUtils.ConfigFlag.Fetch(context)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	dumpDir := cliUtils.DumpStateFlag.Fetch(context)

	start := time.Now()
	totalCalls := 0
	var failed []string
	for _, path := range context.Args().Slice() {
		scenario, err := LoadScenario(path)
		if err != nil {
			return err
		}
		s, calls, err := scenario.Run(config)
		totalCalls += calls
		if err != nil {
			fmt.Printf("FAIL %s: %v\n", scenario.Name, err)
			failed = append(failed, scenario.Name)
		} else {
			fmt.Printf("PASS %s (%d calls)\n", scenario.Name, calls)
		}
		if s == nil {
			continue
		}
		outcome, err := json.MarshalIndent(s.Outcome(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", outcome)

		if dumpDir != "" {
			file := filepath.Join(dumpDir, scenario.Name+".state.json")
			if err := st.ExportStateJSON(s.State(), file); err != nil {
				fmt.Printf("failed to dump state: %v\n", err)
			} else {
				fmt.Printf("Final state dumped to %s\n", file)
			}
		}
	}

	duration := time.Since(start)
	rate := float64(totalCalls) / duration.Seconds()
	fmt.Printf("Executed %d host calls in %v, ~%s calls per second\n",
		totalCalls, duration.Round(time.Millisecond), unitconv.FormatPrefix(rate, unitconv.SI, 0))

	if len(failed) > 0 {
		return fmt.Errorf("%d scenarios failed: %s", len(failed), strings.Join(failed, ", "))
	}
	return nil
}
