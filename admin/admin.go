// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin serves runtime controls of a poolsim process.
package admin

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/corepool/health"
)

// HTTPHandler routes /admin/loglevel and /admin/health.
func HTTPHandler(logLevel *slog.LevelVar, h *health.Health) http.Handler {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()
	sub.Path("/loglevel").Methods(http.MethodGet).HandlerFunc(getLogLevelHandler(logLevel))
	sub.Path("/loglevel").Methods(http.MethodPost).HandlerFunc(postLogLevelHandler(logLevel))
	sub.Path("/health").Methods(http.MethodGet).HandlerFunc(healthHandler(h))
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return handlers.CompressHandler(router)
}
