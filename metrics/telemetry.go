// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics exposes process wide meters. Meters are no-ops until
// InitializePrometheusMetrics is called.
package metrics

import (
	"net/http"
	"sync"
)

var metrics = defaultNoopMetrics()

// Metrics creates meters, returning the existing one for a known name.
type Metrics interface {
	GetOrCreateCountMeter(name string) CountMeter
	GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter
	GetOrCreateGaugeMeter(name string) GaugeMeter
	GetOrCreateGaugeVecMeter(name string, labels []string) GaugeVecMeter
	GetOrCreateHistogramMeter(name string, buckets []int64) HistogramMeter
	GetOrCreateHistogramVecMeter(name string, labels []string, buckets []int64) HistogramVecMeter
	GetOrCreateHandler() http.Handler
}

// NoOp reports whether metrics are disabled.
func NoOp() bool {
	_, ok := metrics.(*noopMetrics)
	return ok
}

// HTTPHandler serves the collected metrics, nil while disabled.
func HTTPHandler() http.Handler {
	return metrics.GetOrCreateHandler()
}

var (
	// BucketBlocks spans one block up to about a month of blocks.
	BucketBlocks = []int64{0, 1, 10, 100, 1000, 10_000, 42_000, 294_000, 1_260_000}
	// BucketHTTPReqs spans request durations in milliseconds.
	BucketHTTPReqs = []int64{
		0, 1, 2, 5, 10, 20, 30, 50, 75, 100,
		150, 200, 300, 400, 500, 750, 1000,
		1500, 2000, 3000, 4000, 5000, 10000,
	}
)

type (
	HistogramMeter interface {
		Observe(int64)
	}
	HistogramVecMeter interface {
		ObserveWithLabels(int64, map[string]string)
	}
	// CountMeter only goes up, and restarts from zero with the process.
	CountMeter interface {
		Add(int64)
	}
	CountVecMeter interface {
		AddWithLabel(int64, map[string]string)
	}
	GaugeMeter interface {
		Add(int64)
		Set(int64)
	}
	GaugeVecMeter interface {
		AddWithLabel(int64, map[string]string)
		SetWithLabel(int64, map[string]string)
	}
)

func Histogram(name string, buckets []int64) HistogramMeter {
	return metrics.GetOrCreateHistogramMeter(name, buckets)
}

func HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return metrics.GetOrCreateHistogramVecMeter(name, labels, buckets)
}

func Counter(name string) CountMeter {
	return metrics.GetOrCreateCountMeter(name)
}

func CounterVec(name string, labels []string) CountVecMeter {
	return metrics.GetOrCreateCountVecMeter(name, labels)
}

func Gauge(name string) GaugeMeter {
	return metrics.GetOrCreateGaugeMeter(name)
}

func GaugeVec(name string, labels []string) GaugeVecMeter {
	return metrics.GetOrCreateGaugeVecMeter(name, labels)
}

// LazyLoad defers creating a meter to its first use, so package level meters
// bind to whichever implementation is installed by then.
func LazyLoad[T any](f func() T) func() T {
	return sync.OnceValue(f)
}

func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return LazyLoad(func() HistogramMeter { return Histogram(name, buckets) })
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return LazyLoad(func() HistogramVecMeter { return HistogramVec(name, labels, buckets) })
}

func LazyLoadCounter(name string) func() CountMeter {
	return LazyLoad(func() CountMeter { return Counter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return LazyLoad(func() GaugeMeter { return Gauge(name) })
}

func LazyLoadGaugeVec(name string, labels []string) func() GaugeVecMeter {
	return LazyLoad(func() GaugeVecMeter { return GaugeVec(name, labels) })
}
