// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scrape reads the families served by HTTPHandler.
func scrape(t *testing.T) map[string]*dto.MetricFamily {
	h := HTTPHandler()
	require.NotNil(t, h)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(rec.Body)
	require.NoError(t, err)
	return families
}

func labelled(mf *dto.MetricFamily, name, value string) *dto.Metric {
	for _, m := range mf.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == name && l.GetValue() == value {
				return m
			}
		}
	}
	return nil
}

func TestPoolMetricsExposed(t *testing.T) {
	InitializePrometheusMetrics()
	require.False(t, NoOp())

	txs := CounterVec("exposed_tx_count", []string{"op", "status"})
	for _, call := range []struct {
		op, status string
		n          int64
	}{
		{"stake", "ok", 3},
		{"stake", "input", 1},
		{"processRewards", "ok", 2},
	} {
		txs.AddWithLabel(call.n, map[string]string{"op": call.op, "status": call.status})
	}

	// looked up again by name, the same meter keeps counting
	Counter("exposed_sync_count").Add(1)
	Counter("exposed_sync_count").Add(1)

	deposits := Gauge("exposed_deposits")
	deposits.Add(5)
	deposits.Add(-2)

	staked := GaugeVec("exposed_staked", []string{"pool"})
	staked.SetWithLabel(500, map[string]string{"pool": "core"})

	blocks := Histogram("exposed_sync_blocks", BucketBlocks)
	for _, n := range []int64{1, 100, 42_000} {
		blocks.Observe(n)
	}
	HistogramVec("exposed_api_ms", []string{"route"}, BucketHTTPReqs).
		ObserveWithLabels(12, map[string]string{"route": "/pool"})

	families := scrape(t)

	tx := families["corepool_exposed_tx_count"]
	require.NotNil(t, tx)
	assert.Len(t, tx.GetMetric(), 3)
	assert.Equal(t, float64(2), labelled(tx, "op", "processRewards").GetCounter().GetValue())

	assert.Equal(t, float64(2), families["corepool_exposed_sync_count"].GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, float64(3), families["corepool_exposed_deposits"].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, float64(500), labelled(families["corepool_exposed_staked"], "pool", "core").GetGauge().GetValue())

	hist := families["corepool_exposed_sync_blocks"].GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(3), hist.GetSampleCount())
	assert.Equal(t, float64(42_101), hist.GetSampleSum())
	for _, b := range hist.GetBucket() {
		if b.GetUpperBound() == 100 {
			assert.Equal(t, uint64(2), b.GetCumulativeCount())
		}
	}

	api := labelled(families["corepool_exposed_api_ms"], "route", "/pool")
	require.NotNil(t, api)
	assert.Equal(t, uint64(1), api.GetHistogram().GetSampleCount())
}

func TestLazyLoading(t *testing.T) {
	metrics = defaultNoopMetrics()
	assert.Nil(t, HTTPHandler())

	for _, m := range []any{
		Gauge("lazy_noop"),
		GaugeVec("lazy_noop", nil),
		Counter("lazy_noop"),
		CounterVec("lazy_noop", nil),
		Histogram("lazy_noop", nil),
		HistogramVec("lazy_noop", nil, nil),
	} {
		require.IsType(t, noopMeter{}, m)
	}

	// declared at package init, resolved on first use
	deposits := LazyLoadGauge("lazy_deposits")
	staked := LazyLoadGaugeVec("lazy_staked", []string{"pool"})
	txs := LazyLoadCounter("lazy_txs")
	reverts := LazyLoadCounterVec("lazy_reverts", []string{"kind"})
	blocks := LazyLoadHistogram("lazy_blocks", BucketBlocks)
	requests := LazyLoadHistogramVec("lazy_requests", []string{"route"}, BucketHTTPReqs)

	InitializePrometheusMetrics()

	require.IsType(t, &promGaugeMeter{}, deposits())
	require.IsType(t, &promGaugeVecMeter{}, staked())
	require.IsType(t, &promCountMeter{}, txs())
	require.IsType(t, &promCountVecMeter{}, reverts())
	require.IsType(t, &promHistogramMeter{}, blocks())
	require.IsType(t, &promHistogramVecMeter{}, requests())
	assert.Same(t, txs(), txs())
}
