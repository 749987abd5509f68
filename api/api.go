// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api serves the read-only HTTP surface over the pool state and the event index.
package api

import (
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/corepool/api/events"
	"github.com/vechain/corepool/api/pool"
	"github.com/vechain/corepool/log"
	"github.com/vechain/corepool/logdb"
	"github.com/vechain/corepool/metrics"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	PprofOn         bool
	EnableReqLogger bool
	EnableMetrics   bool
	LogsLimit       uint64
	CacheSize       int
}

// New return api router
func New(
	openPool pool.Opener,
	logDB *logdb.LogDB,
	opts Options,
) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	pool.New(openPool, opts.CacheSize).
		Mount(router, "/pool")
	if logDB != nil {
		events.New(logDB, opts.LogsLimit).
			Mount(router, "/events")
	}

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics && !metrics.NoOp() {
		router.Path("/metrics").
			Methods(http.MethodGet).
			Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP
}
