// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to genesis file, if not set, the default devnet genesis will be used",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Usage: "directory for the state and log databases, kept in memory if not set",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 128,
		Usage: "megabytes of ram allocated to the state database cache",
	}
	scriptFlag = cli.StringFlag{
		Name:  "script",
		Usage: "path to the yaml script of calls to replay",
	}
	untilBlockFlag = cli.Uint64Flag{
		Name:  "until-block",
		Usage: "replay blocks up to this number only (0 replays all)",
	}
	progressFlag = cli.BoolFlag{
		Name:  "progress",
		Usage: "show replay progress",
	}
	meterFlag = cli.BoolFlag{
		Name:  "meter",
		Usage: "account storage reads and writes of every call",
	}
	serveFlag = cli.BoolFlag{
		Name:  "serve",
		Usage: "serve the API after the replay until interrupted",
	}
	periodsFlag = cli.Uint64Flag{
		Name:  "periods",
		Usage: "number of decay periods to print (0 prints all)",
	}

	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiLogsLimitFlag = cli.Uint64Flag{
		Name:  "api-logs-limit",
		Value: 1000,
		Usage: "limit the number of events returned by /events API",
	}
	apiCacheFlag = cli.IntFlag{
		Name:  "api-cache",
		Value: 256,
		Usage: "number of pool summaries cached by the API",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "",
		Usage: "metrics service listening address, metrics are served by the API only if not set",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "enables admin server",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "localhost:2113",
		Usage: "admin service listening address",
	}

	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
)

var (
	logFlags = []cli.Flag{verbosityFlag, jsonLogsFlag}
	dbFlags  = []cli.Flag{genesisFlag, dataDirFlag, cacheFlag}
	apiFlags = []cli.Flag{
		apiAddrFlag,
		apiCorsFlag,
		apiLogsLimitFlag,
		apiCacheFlag,
		enableAPILogsFlag,
		pprofFlag,
		enableMetricsFlag,
		metricsAddrFlag,
		enableAdminFlag,
		adminAddrFlag,
	}
)

func join(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
