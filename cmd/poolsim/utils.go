// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/elastic/gosigar"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/corepool/cache"
	"github.com/vechain/corepool/genesis"
	"github.com/vechain/corepool/kv"
	"github.com/vechain/corepool/log"
	"github.com/vechain/corepool/logdb"
	"github.com/vechain/corepool/lvldb"
	"github.com/vechain/corepool/state"
)

// devnet genesis used when no genesis file is given
const (
	devnetBlock = 1
	devnetTime  = 1_700_000_000
)

// logLevel is shared by the installed handler and the admin server.
var logLevel slog.LevelVar

func initLogger(ctx *cli.Context) {
	logLevel.Set(log.FromVerbosity(ctx.Int(verbosityFlag.Name)))
	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.NewJSONHandler(os.Stderr, &logLevel)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandler(os.Stderr, &logLevel, useColor)
	}
	log.SetDefault(handler)
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet(devnetBlock, devnetTime), nil
	}
	gen, err := genesis.Load(path)
	if err != nil {
		return nil, errors.WithMessage(err, "load genesis")
	}
	return gen, nil
}

type databases struct {
	main    *lvldb.LevelDB
	logs    *logdb.LogDB
	storage *cache.Storage // read cache over main, used while serving
}

func (d *databases) Close() {
	logger.Info("closing log database...")
	if err := d.logs.Close(); err != nil {
		logger.Warn("failed to close log database", "err", err)
	}
	logger.Info("closing main database...")
	if err := d.main.Close(); err != nil {
		logger.Warn("failed to close main database", "err", err)
	}
}

// openDatabases opens the databases under the data dir, or in memory when
// no data dir is set.
func openDatabases(ctx *cli.Context) (*databases, error) {
	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	dir := ctx.String(dataDirFlag.Name)
	if dir == "" {
		main, err := lvldb.NewMem()
		if err != nil {
			return nil, errors.Wrap(err, "open main database")
		}
		logs, err := logdb.NewMem()
		if err != nil {
			main.Close()
			return nil, errors.Wrap(err, "open log database")
		}
		return &databases{main, logs, cache.NewStorage(main, cacheMB/2)}, nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrapf(err, "create data dir [%v]", dir)
	}
	mainPath := filepath.Join(dir, "main.db")
	main, err := lvldb.New(mainPath, lvldb.Options{
		CacheMB:   cacheMB / 2,
		OpenFiles: 64,
		Sync:      true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", mainPath)
	}
	logsPath := filepath.Join(dir, "logs.db")
	logs, err := logdb.New(logsPath)
	if err != nil {
		main.Close()
		return nil, errors.Wrapf(err, "open log database [%v]", logsPath)
	}
	return &databases{main, logs, cache.NewStorage(main, cacheMB/2)}, nil
}

// normalizeCacheSize bounds the cache to [16MB, half of the physical memory].
func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 16 {
		sizeMB = 16
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem", "err", err)
	} else {
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

// handleExitSignal returns a context cancelled on interrupt or termination.
func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(exitSignalCh)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

// openAtHead binds the contracts at the last replayed block.
func openAtHead(db kv.Getter) (*genesis.Contracts, *Head, error) {
	head, err := loadHead(db)
	if err != nil {
		return nil, nil, err
	}
	if head == nil {
		return nil, nil, errors.New("database not initialized")
	}
	return genesis.Open(state.New(db), head.Clock(), nil), head, nil
}

func printSummary(w io.Writer, gen *genesis.Genesis, db kv.Getter, res *Result) error {
	c, head, err := openAtHead(db)
	if err != nil {
		return err
	}
	stats, err := c.Pool.Stats()
	if err != nil {
		return err
	}
	supply, err := c.Token.TotalSupply()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, `Replayed
    Genesis      [ %v ]
    Head         [ #%v @%v ]
    Blocks       [ %v replayed, %v skipped ]
    Calls        [ %v applied, %v reverted ]
    Staked       [ %v ]
    Weight       [ %v ]
    Reward/W     [ %v ]
    Emitted      [ %v ]
    Supply       [ %v ]
`,
		gen.ID(),
		head.Number, time.Unix(int64(head.Time), 0).UTC().Format(time.RFC3339),
		res.Blocks, res.Skipped,
		res.Txs, res.Reverted,
		stats.TotalStaked,
		stats.TotalWeight,
		stats.RewardPerWeight,
		stats.TotalEmitted,
		supply,
	)
	return err
}
