// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package corepool

import "github.com/vechain/corepool/metrics"

var (
	metricTxCount    = metrics.LazyLoadCounterVec("tx_count", []string{"op", "status"})
	metricDeposits   = metrics.LazyLoadGauge("deposits")
	metricSyncBlocks = metrics.LazyLoadHistogram("sync_blocks", metrics.BucketBlocks)
)
