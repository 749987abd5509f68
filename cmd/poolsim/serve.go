// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/corepool/admin"
	"github.com/vechain/corepool/api"
	"github.com/vechain/corepool/builtin/corepool"
	"github.com/vechain/corepool/genesis"
	"github.com/vechain/corepool/health"
	"github.com/vechain/corepool/metrics"
	"github.com/vechain/corepool/state"
	"github.com/vechain/corepool/xenv"
)

const shutdownTimeout = 5 * time.Second

// poolOpener opens the pool at the current head on every call. Storage
// reads go through the cache of that head.
func poolOpener(dbs *databases) func() (*corepool.Pool, xenv.Clock, error) {
	return func() (*corepool.Pool, xenv.Clock, error) {
		head, err := loadHead(dbs.main)
		if err != nil {
			return nil, nil, err
		}
		if head == nil {
			return nil, nil, errors.New("database not initialized")
		}
		clock := head.Clock()
		st := state.New(dbs.storage.At(head.Number))
		return genesis.Open(st, clock, nil).Pool, clock, nil
	}
}

func apiOptions(ctx *cli.Context) api.Options {
	return api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		PprofOn:         ctx.Bool(pprofFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:       ctx.Uint64(apiLogsLimitFlag.Name),
		CacheSize:       ctx.Int(apiCacheFlag.Name),
	}
}

type server struct {
	name     string
	srv      *http.Server
	listener net.Listener
}

func listen(name, addr string, handler http.Handler) (*server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen %s addr [%v]", name, addr)
	}
	return &server{
		name:     name,
		srv:      &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second},
		listener: listener,
	}, nil
}

func (s *server) URL() string {
	return "http://" + s.listener.Addr().String() + "/"
}

// serve runs the API server, plus the metrics and admin servers when
// enabled, until ctx is done or one of them fails.
func serve(ctx context.Context, cliCtx *cli.Context, dbs *databases, h *health.Health) error {
	apiSrv, err := listen("API", cliCtx.String(apiAddrFlag.Name), api.New(poolOpener(dbs), dbs.logs, apiOptions(cliCtx)))
	if err != nil {
		return err
	}
	servers := []*server{apiSrv}
	closeAll := func() {
		for _, s := range servers {
			s.listener.Close()
		}
	}

	if addr := cliCtx.String(metricsAddrFlag.Name); addr != "" && !metrics.NoOp() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.HTTPHandler())
		metricsSrv, err := listen("metrics", addr, mux)
		if err != nil {
			closeAll()
			return err
		}
		servers = append(servers, metricsSrv)
	}
	if cliCtx.Bool(enableAdminFlag.Name) {
		adminSrv, err := listen("admin", cliCtx.String(adminAddrFlag.Name), admin.HTTPHandler(&logLevel, h))
		if err != nil {
			closeAll()
			return err
		}
		servers = append(servers, adminSrv)
	}
	return runServers(ctx, servers)
}

func runServers(ctx context.Context, servers []*server) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		logger.Info("serving", "service", s.name, "url", s.URL())
		g.Go(func() error {
			if err := s.srv.Serve(s.listener); !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrapf(err, "%s server", s.name)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, s := range servers {
			logger.Info("stopping server...", "service", s.name)
			if err := s.srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("failed to stop server", "service", s.name, "err", err)
			}
		}
		return nil
	})
	return g.Wait()
}
