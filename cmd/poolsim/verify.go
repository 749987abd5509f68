// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/corepool/cache"
	"github.com/vechain/corepool/genesis"
	"github.com/vechain/corepool/kv"
	"github.com/vechain/corepool/logdb"
	"github.com/vechain/corepool/lvldb"
	"github.com/vechain/corepool/state"
	"github.com/vechain/corepool/thor"
)

func verifyAction(ctx *cli.Context) error {
	initLogger(ctx)
	gen, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	if ctx.String(dataDirFlag.Name) == "" {
		return errors.Errorf("missing --%s", dataDirFlag.Name)
	}
	path := ctx.String(scriptFlag.Name)
	if path == "" {
		return errors.Errorf("missing --%s", scriptFlag.Name)
	}
	script, err := loadScript(path)
	if err != nil {
		return err
	}
	blocks, err := script.Blocks(gen)
	if err != nil {
		return err
	}

	dbs, err := openDatabases(ctx)
	if err != nil {
		return err
	}
	defer dbs.Close()

	return verify(handleExitSignal(), ctx.App.Writer, gen, dbs, blocks)
}

// verify replays blocks up to the head of dbs into memory and compares the
// resulting pool state and events with dbs.
func verify(ctx context.Context, w io.Writer, gen *genesis.Genesis, dbs *databases, blocks []*Block) error {
	head, err := loadHead(dbs.main)
	if err != nil {
		return err
	}
	if head == nil {
		return errors.New("database not initialized")
	}
	if head.GenesisID != gen.ID() {
		return errors.Errorf("database built from genesis %v, not %v", head.GenesisID, gen.ID())
	}

	main, err := lvldb.NewMem()
	if err != nil {
		return err
	}
	logs, err := logdb.NewMem()
	if err != nil {
		main.Close()
		return err
	}
	expected := &databases{main, logs, cache.NewStorage(main, 1)}
	defer expected.Close()

	res, err := NewReplayer(expected.main, expected.logs, gen).Replay(ctx, untilBlock(blocks, uint64(head.Number)))
	if err != nil {
		return errors.WithMessage(err, "replay")
	}
	if res.Head != *head {
		return errors.Errorf("head mismatch: expected #%v @%v, got #%v @%v", res.Head.Number, res.Head.Time, head.Number, head.Time)
	}

	expectedStats, err := poolStats(expected)
	if err != nil {
		return err
	}
	actualStats, err := poolStats(dbs)
	if err != nil {
		return err
	}
	if !reflect.DeepEqual(expectedStats, actualStats) {
		fmt.Fprintln(w, "\nDiff pool")
		fmt.Fprintln(w, jsonDiff(expectedStats, actualStats))
		return errors.New("incorrect pool state")
	}

	// slots outside the pool summary, such as token lock ledgers
	slots, diffs, err := diffStorage(expected.main, dbs.main)
	if err != nil {
		return err
	}
	if len(diffs) > 0 {
		fmt.Fprintln(w, "\nDiff storage")
		for _, d := range diffs {
			fmt.Fprintln(w, d)
		}
		return errors.Errorf("incorrect storage, %v of %v slots differ", len(diffs), slots)
	}

	expectedEvents, err := expected.logs.FilterEvents(ctx, nil)
	if err != nil {
		return err
	}
	actualEvents, err := dbs.logs.FilterEvents(ctx, nil)
	if err != nil {
		return err
	}
	if !reflect.DeepEqual(expectedEvents, actualEvents) {
		fmt.Fprintln(w, "\nDiff events")
		fmt.Fprintln(w, jsonDiff(expectedEvents, actualEvents))
		return errors.New("incorrect events")
	}

	fmt.Fprintf(w, "Verified #%v, %v slots, %v events\n", head.Number, slots, len(actualEvents))
	return nil
}

func poolStats(dbs *databases) (any, error) {
	c, _, err := openAtHead(dbs.main)
	if err != nil {
		return nil, err
	}
	return c.Pool.Stats()
}

// diffStorage walks the committed storage slots of both stores in key order.
// It returns the number of slots in actual and a line for every slot that is
// missing, extra or changed.
func diffStorage(expected, actual kv.Store) (int, []string, error) {
	e := state.StorageBucket.Iterate(expected, kv.Range{})
	defer e.Release()
	a := state.StorageBucket.Iterate(actual, kv.Range{})
	defer a.Release()

	var (
		slots int
		diffs []string
	)
	eok, aok := e.Next(), a.Next()
	for eok || aok {
		c := 0
		switch {
		case !aok:
			c = -1
		case !eok:
			c = 1
		default:
			c = bytes.Compare(e.Key(), a.Key())
		}
		switch {
		case c < 0:
			diffs = append(diffs, slotDiff(e.Key(), e.Value(), nil))
			eok = e.Next()
		case c > 0:
			slots++
			diffs = append(diffs, slotDiff(a.Key(), nil, a.Value()))
			aok = a.Next()
		default:
			slots++
			if !bytes.Equal(e.Value(), a.Value()) {
				diffs = append(diffs, slotDiff(a.Key(), e.Value(), a.Value()))
			}
			eok, aok = e.Next(), a.Next()
		}
	}
	if err := e.Error(); err != nil {
		return 0, nil, errors.WithMessage(err, "iterate expected storage")
	}
	if err := a.Error(); err != nil {
		return 0, nil, errors.WithMessage(err, "iterate actual storage")
	}
	return slots, diffs, nil
}

func slotDiff(key, expected, actual []byte) string {
	if len(key) != thor.AddressLength+32 {
		return fmt.Sprintf("malformed key 0x%x: expected 0x%x, actual 0x%x", key, expected, actual)
	}
	return fmt.Sprintf("%v %v: expected 0x%x, actual 0x%x",
		thor.BytesToAddress(key[:thor.AddressLength]),
		thor.BytesToBytes32(key[thor.AddressLength:]),
		expected, actual)
}

func jsonDiff(expected, actual any) string {
	e, _ := json.MarshalIndent(expected, "", "  ")
	a, _ := json.MarshalIndent(actual, "", "  ")
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(e)),
		B:        difflib.SplitLines(string(a)),
		FromFile: "Expected",
		ToFile:   "Actual",
		Context:  1,
	})
	return diff
}
