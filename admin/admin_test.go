// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/corepool/health"
)

func request(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestPostLogLevel(t *testing.T) {
	var logLevel slog.LevelVar
	handler := HTTPHandler(&logLevel, health.New())

	rr := request(t, handler, http.MethodPost, "/admin/loglevel", `{"level":"debug"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var res logLevelResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.Equal(t, "DEBUG", res.CurrentLevel)
	assert.Equal(t, slog.LevelDebug, logLevel.Level())

	rr = request(t, handler, http.MethodPost, "/admin/loglevel", `{"level":"invalid_body"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var errRes errorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&errRes))
	assert.Equal(t, "Invalid verbosity level", errRes.ErrorMessage)
	assert.Equal(t, slog.LevelDebug, logLevel.Level())

	rr = request(t, handler, http.MethodPost, "/admin/loglevel", `{`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetLogLevel(t *testing.T) {
	var logLevel slog.LevelVar
	handler := HTTPHandler(&logLevel, health.New())

	rr := request(t, handler, http.MethodGet, "/admin/loglevel", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var res logLevelResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.Equal(t, "INFO", res.CurrentLevel)

	rr = request(t, handler, http.MethodPut, "/admin/loglevel", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHealth(t *testing.T) {
	var logLevel slog.LevelVar
	h := health.New()
	handler := HTTPHandler(&logLevel, h)

	rr := request(t, handler, http.MethodGet, "/admin/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	h.NewHead(7, 100)
	rr = request(t, handler, http.MethodGet, "/admin/health", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var status health.Status
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&status))
	assert.True(t, status.Healthy)
	require.NotNil(t, status.Head)
	assert.Equal(t, uint32(7), status.Head.Number)
}
