// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/corepool/builtin/corepool"
	"github.com/vechain/corepool/genesis"
	"github.com/vechain/corepool/log"
	"github.com/vechain/corepool/logdb"
	"github.com/vechain/corepool/metrics"
	"github.com/vechain/corepool/state"
	"github.com/vechain/corepool/xenv"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	st := state.New(nil)
	_, err := genesis.NewDevnet(1, 1_700_000_000).Build(st)
	require.NoError(t, err)
	clock := &xenv.BlockContext{Number: 100, Time: 1_700_000_200}
	open := func() (*corepool.Pool, xenv.Clock, error) {
		return genesis.Open(st, clock, nil).Pool, clock, nil
	}

	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { logDB.Close() })

	ts := httptest.NewServer(New(open, logDB, opts))
	t.Cleanup(ts.Close)
	return ts
}

func httpGet(t *testing.T, url string, header ...string) (*http.Response, []byte) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, body
}

func TestMetricsMiddleware(t *testing.T) {
	ts := newTestServer(t, Options{EnableMetrics: true, LogsLimit: 10, CacheSize: 4})

	res, _ := httpGet(t, ts.URL+"/pool")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = httpGet(t, ts.URL+"/pool/users/0xzz")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	res, _ = httpGet(t, ts.URL+"/events")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = httpGet(t, ts.URL+"/unknown")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, body := httpGet(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, res.StatusCode)
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	counts := make(map[string]float64)
	for _, m := range families["corepool_api_request_count"].GetMetric() {
		var name, code string
		for _, l := range m.GetLabel() {
			switch l.GetName() {
			case "name":
				name = l.GetValue()
			case "code":
				code = l.GetValue()
			}
		}
		counts[name+"/"+code] += m.GetCounter().GetValue()
	}
	assert.Equal(t, float64(1), counts["pool/200"])
	assert.Equal(t, float64(1), counts["pool_users_address/400"])
	assert.Equal(t, float64(1), counts["events/200"])
	assert.NotContains(t, counts, "/404")
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, Options{AllowedOrigins: "https://example.org", LogsLimit: 10})

	res, _ := httpGet(t, ts.URL+"/pool", "Origin", "https://example.org")
	assert.Equal(t, "https://example.org", res.Header.Get("Access-Control-Allow-Origin"))

	res, _ = httpGet(t, ts.URL+"/pool", "Origin", "https://other.org")
	assert.Empty(t, res.Header.Get("Access-Control-Allow-Origin"))

	// metrics are not mounted unless enabled
	res, _ = httpGet(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestRouteLabel(t *testing.T) {
	tests := map[string]string{
		"GET /pool": "pool",
		"GET /pool/users/{address}/deposits/{index}": "pool_users_address_deposits_index",
		"POST /events": "events",
		"":             "",
	}
	for in, expected := range tests {
		assert.Equal(t, expected, routeLabel(in), in)
	}
}

type recordingLogger struct {
	records [][]any
}

func (l *recordingLogger) With(...any) log.Logger    { return l }
func (l *recordingLogger) Trace(string, ...any)      {}
func (l *recordingLogger) Debug(string, ...any)      {}
func (l *recordingLogger) Info(_ string, ctx ...any) { l.records = append(l.records, ctx) }
func (l *recordingLogger) Warn(_ string, ctx ...any) { l.records = append(l.records, ctx) }
func (l *recordingLogger) Error(string, ...any)      {}

func TestRequestLoggerHandler(t *testing.T) {
	logger := &recordingLogger{}
	var served []byte
	handler := RequestLoggerHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}), logger)

	req := httptest.NewRequest(http.MethodPost, "/events?limit=1", bytes.NewBufferString(`{"order":"desc"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"order":"desc"}`, string(served))
	require.Len(t, logger.records, 1)
	assert.Contains(t, logger.records[0], "/events?limit=1")
	assert.Contains(t, logger.records[0], http.MethodPost)
	assert.Contains(t, logger.records[0], `{"order":"desc"}`)
}
