// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"strings"

	"github.com/vechain/corepool/metrics"
)

var (
	metricEventsWritten        = metrics.LazyLoadCounter("logdb_events_written")
	metricPreparedStmts        = metrics.LazyLoadGauge("logdb_prepared_statements")
	metricCriteriaLengthBucket = metrics.LazyLoadHistogramVec("logdb_criteria_length_bucket", []string{"type"}, []int64{0, 2, 5, 10, 25, 100, 1000})
	metricEventQueryParameters = metrics.LazyLoadCounterVec("logdb_query_parameters", []string{"parameters"})
	metricQueryOrderCounter    = metrics.LazyLoadCounterVec("logdb_query_order", []string{"order", "type"})
	metricLimitBucket          = metrics.LazyLoadHistogramVec("logdb_query_limit_bucket", []string{"type"}, []int64{
		0, 5, 10, 25, 50, 100, 250, 500, 1000,
	})
)

func metricsHandleEventsFilter(filter *EventFilter) {
	if metrics.NoOp() {
		return
	}

	metricCriteriaLengthBucket().ObserveWithLabels(int64(len(filter.CriteriaSet)), map[string]string{"type": "event"})
	order := "asc"
	if filter.Order == DESC {
		order = "desc"
	}
	metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": order, "type": "event"})
	if filter.Options != nil {
		metricLimitBucket().ObserveWithLabels(int64(min(filter.Options.Limit, 1001)), map[string]string{"type": "event"})
	}

	for _, c := range filter.CriteriaSet {
		paramsUsed := make([]string, 0, 3)
		if c.Address != nil {
			paramsUsed = append(paramsUsed, "address")
		}
		if c.Name != nil {
			paramsUsed = append(paramsUsed, "name")
		}
		if c.Subject != nil {
			paramsUsed = append(paramsUsed, "subject")
		}
		metricEventQueryParameters().AddWithLabel(1, map[string]string{"parameters": strings.Join(paramsUsed, ",")})
	}
}
