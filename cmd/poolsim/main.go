// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/corepool/health"
	"github.com/vechain/corepool/log"
	"github.com/vechain/corepool/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "poolsim")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "poolsim"
	app.Usage = "Replay calls against the staking pool and serve its state"
	app.Copyright = "2025 VeChain Foundation <https://vechain.org/>"
	app.Commands = []cli.Command{
		{
			Name:   "run",
			Usage:  "replay a script of calls",
			Flags:  join(logFlags, dbFlags, []cli.Flag{scriptFlag, untilBlockFlag, progressFlag, meterFlag, serveFlag}, apiFlags),
			Action: runAction,
		},
		{
			Name:   "serve",
			Usage:  "serve the API over a replayed data dir",
			Flags:  join(logFlags, dbFlags, apiFlags),
			Action: serveAction,
		},
		{
			Name:   "verify",
			Usage:  "check a data dir against a fresh replay of the script",
			Flags:  join(logFlags, dbFlags, []cli.Flag{scriptFlag}),
			Action: verifyAction,
		},
		{
			Name:   "schedule",
			Usage:  "print the emission schedule of the genesis",
			Flags:  join(logFlags, []cli.Flag{genesisFlag, periodsFlag}),
			Action: scheduleAction,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runAction(ctx *cli.Context) error {
	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gen, err := selectGenesis(ctx)
	if err != nil {
		return err
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
	if until := ctx.Uint64(untilBlockFlag.Name); until > 0 {
		blocks = untilBlock(blocks, until)
	}

	dbs, err := openDatabases(ctx)
	if err != nil {
		return err
	}
	defer dbs.Close()

	exit := handleExitSignal()
	h := health.New()
	start := time.Now()
	res, err := NewReplayer(dbs.main, dbs.logs, gen).
		WithHealth(h).
		WithMeter(ctx.Bool(meterFlag.Name)).
		WithProgress(ctx.Bool(progressFlag.Name)).
		Replay(exit, blocks)
	if err != nil {
		return err
	}
	logger.Info("replay done", "blocks", res.Blocks, "elapsed", time.Since(start).Round(time.Millisecond))

	if err := printSummary(ctx.App.Writer, gen, dbs.main, res); err != nil {
		return err
	}
	if ctx.Bool(serveFlag.Name) {
		return serve(exit, ctx, dbs, h)
	}
	return nil
}

func serveAction(ctx *cli.Context) error {
	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}
	gen, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	if ctx.String(dataDirFlag.Name) == "" {
		return errors.Errorf("missing --%s", dataDirFlag.Name)
	}
	dbs, err := openDatabases(ctx)
	if err != nil {
		return err
	}
	defer dbs.Close()

	exit := handleExitSignal()
	h := health.New()
	if _, err := NewReplayer(dbs.main, dbs.logs, gen).WithHealth(h).Init(exit); err != nil {
		return err
	}
	return serve(exit, ctx, dbs, h)
}

func scheduleAction(ctx *cli.Context) error {
	initLogger(ctx)
	gen, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	cfg := gen.PoolConfig()
	return printSchedule(ctx.App.Writer, cfg.Schedule(), uint32(min(ctx.Uint64(periodsFlag.Name), uint64(cfg.DecayPeriods))))
}

// untilBlock drops the blocks after n.
func untilBlock(blocks []*Block, n uint64) []*Block {
	for i, b := range blocks {
		if uint64(b.Number) > n {
			return blocks[:i]
		}
	}
	return blocks
}
