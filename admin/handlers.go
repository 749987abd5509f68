// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vechain/corepool/health"
	"github.com/vechain/corepool/log"
)

type logLevelRequest struct {
	Level string `json:"level"`
}

type logLevelResponse struct {
	CurrentLevel string `json:"currentLevel"`
}

type errorResponse struct {
	ErrorCode    int    `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

var levels = map[string]slog.Level{
	"crit":  log.LevelCrit,
	"error": log.LevelError,
	"warn":  log.LevelWarn,
	"info":  log.LevelInfo,
	"debug": log.LevelDebug,
	"trace": log.LevelTrace,
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, errCode int, errMsg string) {
	writeJSON(w, errCode, errorResponse{
		ErrorCode:    errCode,
		ErrorMessage: errMsg,
	})
}

func getLogLevelHandler(logLevel *slog.LevelVar) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, logLevelResponse{CurrentLevel: logLevel.Level().String()})
	}
}

func postLogLevelHandler(logLevel *slog.LevelVar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req logLevelRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		lvl, ok := levels[req.Level]
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid verbosity level")
			return
		}
		logLevel.Set(lvl)
		writeJSON(w, http.StatusOK, logLevelResponse{CurrentLevel: logLevel.Level().String()})
	}
}

// healthHandler answers 503 while replaying or before any head is known.
func healthHandler(h *health.Health) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		status, err := h.Status()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		code := http.StatusOK
		if !status.Healthy {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, status)
	}
}
