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
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	cliUtils "github.com/Fantom-foundation/MockVM/go/driver/cli"
	"github.com/Fantom-foundation/MockVM/go/mockvm"
	"github.com/Fantom-foundation/MockVM/go/session"
	"github.com/Fantom-foundation/MockVM/go/st"
	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"
	"pgregory.net/rand"
)

var FuzzCmd = cli.Command{
	Action: doFuzz,
	Name:   "fuzz",
	Usage:  "Drive random storage traffic through a session and compare it against a reference map",
	Flags: []cli.Flag{
		cliUtils.SeedFlag,
		cliUtils.StepsFlag,
	},
}

func doFuzz(context *cli.Context) error {
	seed := cliUtils.SeedFlag.Fetch(context)
	steps := cliUtils.StepsFlag.Fetch(context)
	fmt.Printf("Starting storage fuzzing with seed %d ...\n", seed)
	start := time.Now()
	calls, err := fuzz(seed, steps)
	if err != nil {
		return fmt.Errorf("seed %d: %w", seed, err)
	}
	rate := float64(calls) / time.Since(start).Seconds()
	fmt.Printf("%d steps, %d host calls, ~%s calls per second, no issues found\n",
		steps, calls, unitconv.FormatPrefix(rate, unitconv.SI, 0))
	return nil
}

// Memory layout used by the fuzzer.
const (
	keyPtr   = 0
	valuePtr = 16
	startPtr = 32
	endPtr   = 48
)

type fuzzer struct {
	rand      *rand.Rand
	session   *session.Session
	memory    *st.Memory
	reference map[string]string
	calls     int
}

// fuzz performs the given number of random operations and returns the
// number of host calls issued.
func fuzz(seed uint64, steps int) (int, error) {
	memory := st.NewMemory(64)
	s, err := session.New(mockvm.DefaultContext(), memory)
	if err != nil {
		return 0, err
	}
	f := &fuzzer{
		rand:      rand.New(seed),
		session:   s,
		memory:    memory,
		reference: map[string]string{},
	}
	ops := []func() error{
		f.write, f.write, f.remove, f.read,
		f.scanPrefix, f.scanRange, f.saveAndRestore, f.invalidate,
	}
	for i := 0; i < steps; i++ {
		if err := ops[f.rand.Intn(len(ops))](); err != nil {
			return f.calls, fmt.Errorf("step %d: %w", i, err)
		}
	}
	return f.calls, nil
}

// randomKey returns keys over a small alphabet so that prefixes and ranges
// overlap frequently.
func (f *fuzzer) randomKey() string {
	var b strings.Builder
	for i := 0; i < 1+f.rand.Intn(3); i++ {
		b.WriteByte("abc"[f.rand.Intn(3)])
	}
	return b.String()
}

func (f *fuzzer) put(ptr uint64, data string) mockvm.Source {
	if err := f.memory.Write(ptr, []byte(data)); err != nil {
		panic(fmt.Sprintf("fuzzer memory layout violated: %v", err))
	}
	return mockvm.FromMemory(ptr, uint64(len(data)))
}

func (f *fuzzer) expectRegister(id uint64, want string) error {
	got, err := f.session.RegisterBytes(id)
	if err != nil {
		return err
	}
	if !bytes.Equal([]byte(want), got) {
		return fmt.Errorf("register %d: want %q, got %q", id, want, got)
	}
	return nil
}

func flag(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func (f *fuzzer) write() error {
	key, value := f.randomKey(), fmt.Sprintf("v%d", f.rand.Intn(1000))
	previous, existed := f.reference[key]
	f.calls++
	got, err := f.session.StorageWrite(f.put(keyPtr, key), f.put(valuePtr, value), 0)
	if err != nil {
		return err
	}
	if want := flag(existed); want != got {
		return fmt.Errorf("write %q: want %d, got %d", key, want, got)
	}
	f.reference[key] = value
	if existed {
		return f.expectRegister(0, previous)
	}
	return nil
}

func (f *fuzzer) remove() error {
	key := f.randomKey()
	previous, existed := f.reference[key]
	f.calls++
	got, err := f.session.StorageRemove(f.put(keyPtr, key), 1)
	if err != nil {
		return err
	}
	if want := flag(existed); want != got {
		return fmt.Errorf("remove %q: want %d, got %d", key, want, got)
	}
	delete(f.reference, key)
	if existed {
		return f.expectRegister(1, previous)
	}
	return nil
}

func (f *fuzzer) read() error {
	key := f.randomKey()
	value, existed := f.reference[key]
	f.calls++
	got, err := f.session.StorageRead(f.put(keyPtr, key), 2)
	if err != nil {
		return err
	}
	if want := flag(existed); want != got {
		return fmt.Errorf("read %q: want %d, got %d", key, want, got)
	}
	if existed {
		return f.expectRegister(2, value)
	}
	return nil
}

// drain runs the iterator to its end and drops it.
func (f *fuzzer) drain(id uint64) ([]string, error) {
	var res []string
	for {
		f.calls++
		found, err := f.session.StorageIterNext(id, 3, 4)
		if err != nil {
			return nil, err
		}
		if found == 0 {
			break
		}
		key, err := f.session.RegisterBytes(3)
		if err != nil {
			return nil, err
		}
		res = append(res, string(key))
		if err := f.expectRegister(4, f.reference[string(key)]); err != nil {
			return nil, err
		}
	}
	f.calls++
	return res, f.session.StorageIterDrop(id)
}

func (f *fuzzer) expectKeys(what string, got []string, include func(string) bool) error {
	var want []string
	for _, key := range maps.Keys(f.reference) {
		if include(key) {
			want = append(want, key)
		}
	}
	slices.Sort(want)
	if !slices.Equal(want, got) {
		return fmt.Errorf("%s: want %v, got %v", what, want, got)
	}
	return nil
}

func (f *fuzzer) scanPrefix() error {
	prefix := f.randomKey()[:1]
	f.calls++
	id, err := f.session.StorageIterPrefix(f.put(startPtr, prefix))
	if err != nil {
		return err
	}
	keys, err := f.drain(id)
	if err != nil {
		return err
	}
	return f.expectKeys(fmt.Sprintf("prefix %q", prefix), keys, func(key string) bool {
		return strings.HasPrefix(key, prefix)
	})
}

func (f *fuzzer) scanRange() error {
	start, end := f.randomKey(), f.randomKey()
	f.calls++
	id, err := f.session.StorageIterRange(f.put(startPtr, start), f.put(endPtr, end))
	if err != nil {
		return err
	}
	keys, err := f.drain(id)
	if err != nil {
		return err
	}
	return f.expectKeys(fmt.Sprintf("range [%q, %q)", start, end), keys, func(key string) bool {
		return start <= key && key < end
	})
}

func (f *fuzzer) saveAndRestore() error {
	snapshot := f.session.Save()
	if err := f.write(); err != nil {
		return err
	}
	if err := f.remove(); err != nil {
		return err
	}
	f.session.Restore(snapshot)
	if got := f.session.Save(); !snapshot.Eq(got) {
		return fmt.Errorf("restore mismatch: %v", snapshot.Diff(got))
	}
	// Rebuild the reference from the restored storage.
	f.reference = map[string]string{}
	snapshot.State().Storage.Scan(func(key, value []byte) bool {
		f.reference[string(key)] = string(value)
		return true
	})
	return nil
}

// invalidate modifies the largest key while an iterator positioned on the
// smallest key is live, which must invalidate the iterator.
func (f *fuzzer) invalidate() error {
	if len(f.reference) < 2 {
		return nil
	}
	keys := maps.Keys(f.reference)
	slices.Sort(keys)
	f.calls++
	id, err := f.session.StorageIterPrefix(f.put(startPtr, ""))
	if err != nil {
		return err
	}
	f.calls++
	if _, err := f.session.StorageIterNext(id, 3, 4); err != nil {
		return err
	}
	last := keys[len(keys)-1]
	value := fmt.Sprintf("w%d", f.rand.Intn(1000))
	f.calls++
	if _, err := f.session.StorageWrite(f.put(keyPtr, last), f.put(valuePtr, value), 0); err != nil {
		return err
	}
	f.reference[last] = value
	f.calls++
	if _, err := f.session.StorageIterNext(id, 3, 4); !errors.Is(err, mockvm.ErrIteratorWasInvalidated) {
		return fmt.Errorf("want invalidated iterator after writing %q, got %v", last, err)
	}
	f.calls++
	return f.session.StorageIterDrop(id)
}
