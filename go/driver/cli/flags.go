// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cliUtils

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/Fantom-foundation/MockVM/go/mockvm"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

type seedFlagType struct {
	cli.Uint64Flag
}

var SeedFlag = &seedFlagType{
	cli.Uint64Flag{
		Name:    "seed",
		Aliases: []string{"s"},
		Usage:   "seed for the random number generator",
	},
}

func (f *seedFlagType) Fetch(context *cli.Context) uint64 {
	return context.Uint64(f.Name)
}

type stepsFlagType struct {
	cli.IntFlag
}

var StepsFlag = &stepsFlagType{
	cli.IntFlag{
		Name:  "steps",
		Usage: "number of random host calls to perform",
		Value: 10_000,
	},
}

func (f *stepsFlagType) Fetch(context *cli.Context) int {
	return context.Int(f.Name)
}

type configFlagType struct {
	cli.StringFlag
}

var ConfigFlag = &configFlagType{
	cli.StringFlag{
		Name:      "config",
		Aliases:   []string{"c"},
		Usage:     "JSON file overriding the default fee configuration; costs are free if omitted",
		TakesFile: true,
	},
}

// Fetch loads the configuration named by the flag.
func (f *configFlagType) Fetch(context *cli.Context) (*mockvm.Config, error) {
	path := context.String(f.Name)
	if path == "" {
		return mockvm.FreeConfig(), nil
	}
	return mockvm.LoadConfig(path)
}

type dumpStateFlagType struct {
	cli.StringFlag
}

var DumpStateFlag = &dumpStateFlagType{
	cli.StringFlag{
		Name:      "dump-state",
		Usage:     "directory to store the final state of each scenario in",
		TakesFile: true,
	},
}

func (f *dumpStateFlagType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

var verbosityFlag = &cli.IntFlag{
	Name:  "verbosity",
	Usage: "log level: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
	Value: 2,
}

var cpuProfileFlag = &cli.StringFlag{
	Name:  "cpuprofile",
	Usage: "store CPU profile in the provided filename",
}

var commonFlags = []cli.Flag{
	verbosityFlag,
	cpuProfileFlag,
}

// AddCommonFlags adds logging and profiling flags to the command and
// installs them before its action runs.
func AddCommonFlags(command cli.Command) cli.Command {
	command.Flags = append(command.Flags, commonFlags...)

	action := command.Action
	command.Action = func(ctx *cli.Context) (err error) {
		SetupLogging(ctx.Int(verbosityFlag.Name))

		if cpuprofileFilename := ctx.String(cpuProfileFlag.Name); cpuprofileFilename != "" {
			f, err := os.Create(cpuprofileFilename)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				f.Close()
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
			defer func() {
				pprof.StopCPUProfile()
				if closeErr := f.Close(); err == nil {
					err = closeErr
				}
			}()
		}

		return action(ctx)
	}
	return command
}

// SetupLogging installs a terminal logger on stderr for the given legacy
// verbosity level.
func SetupLogging(verbosity int) {
	if verbosity <= 0 {
		log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, log.LevelCrit+1, false)))
		return
	}
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, log.FromLegacyLevel(verbosity), true)))
}
