// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Stats collects cache hits and misses.
type Stats struct {
	hit, miss atomic.Int64
	permille  atomic.Int32 // hit rate seen by the last Stats call
}

// Hit records a hit.
func (cs *Stats) Hit() int64 { return cs.hit.Add(1) }

// Miss records a miss.
func (cs *Stats) Miss() int64 { return cs.miss.Add(1) }

// Counts returns the number of hits and misses.
func (cs *Stats) Counts() (hit, miss int64) {
	return cs.hit.Load(), cs.miss.Load()
}

// Stats returns the number of hits and misses and whether the hit rate,
// in permille, changed since the last call.
func (cs *Stats) Stats() (changed bool, hit, miss int64) {
	hit, miss = cs.Counts()
	var rate int32
	if lookups := hit + miss; lookups > 0 {
		rate = int32(hit * 1000 / lookups)
	}
	return cs.permille.Swap(rate) != rate, hit, miss
}
