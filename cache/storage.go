// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache holds read caches in front of the main database.
package cache

import (
	"encoding/binary"
	"slices"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/qianbin/directcache"

	"github.com/vechain/corepool/kv"
	"github.com/vechain/corepool/log"
	"github.com/vechain/corepool/metrics"
)

var (
	logger = log.WithContext("pkg", "cache")

	metricCacheHitMiss = metrics.LazyLoadGaugeVec("storage_cache_hit_miss", []string{"event"})

	errNotFound = errors.New("not found")
)

const (
	flagMissing = 0
	flagPresent = 1
)

// Storage caches reads of a database that only changes between heads.
// Entries are keyed by head, so readers of a new head never observe values
// cached for an older one.
type Storage struct {
	src   kv.Getter
	cache *directcache.Cache
	stats Stats

	lastLogTime atomic.Int64
}

// NewStorage creates a cache of sizeMB megabytes over src.
func NewStorage(src kv.Getter, sizeMB int) *Storage {
	s := &Storage{
		src:   src,
		cache: directcache.New(sizeMB * 1024 * 1024),
	}
	s.lastLogTime.Store(time.Now().UnixNano())
	return s
}

// At returns a getter reading the database as of head.
func (s *Storage) At(head uint32) kv.Getter {
	return &headGetter{s, head}
}

// Stats returns the hit and miss counts.
func (s *Storage) Stats() (hit, miss int64) {
	return s.stats.Counts()
}

func (s *Storage) log() {
	now := time.Now().UnixNano()
	last := s.lastLogTime.Swap(now)

	if now-last > int64(time.Second*20) {
		changed, hit, miss := s.stats.Stats()
		if changed {
			logStats("storage cache stats", hit, miss)
		}
		metricCacheHitMiss().SetWithLabel(hit, map[string]string{"event": "hit"})
		metricCacheHitMiss().SetWithLabel(miss, map[string]string{"event": "miss"})
	} else {
		s.lastLogTime.CompareAndSwap(now, last)
	}
}

func logStats(msg string, hit, miss int64) {
	lookups := hit + miss
	str := "n/a"
	if lookups > 0 {
		str = strconv.FormatFloat(float64(hit)/float64(lookups), 'f', 3, 64)
	}
	logger.Info(msg, "lookups", lookups, "hitrate", str)
}

type headGetter struct {
	s    *Storage
	head uint32
}

func (g *headGetter) key(key []byte) []byte {
	k := binary.BigEndian.AppendUint32(make([]byte, 0, 4+len(key)), g.head)
	return append(k, key...)
}

func (g *headGetter) Get(key []byte) ([]byte, error) {
	defer g.s.log()

	k := g.key(key)
	var (
		val   []byte
		found bool
	)
	if g.s.cache.AdvGet(k, func(v []byte) {
		found = v[0] == flagPresent
		val = slices.Clone(v[1:])
	}, false) {
		g.s.stats.Hit()
		if !found {
			return nil, errNotFound
		}
		return val, nil
	}
	g.s.stats.Miss()

	val, err := g.s.src.Get(key)
	if err != nil {
		if g.s.src.IsNotFound(err) {
			_ = g.s.cache.Set(k, []byte{flagMissing})
		}
		return nil, err
	}
	_ = g.s.cache.AdvSet(k, len(val)+1, func(v []byte) {
		v[0] = flagPresent
		copy(v[1:], val)
	})
	return val, nil
}

func (g *headGetter) Has(key []byte) (bool, error) {
	_, err := g.Get(key)
	if err != nil {
		if g.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (g *headGetter) IsNotFound(err error) bool {
	return err == errNotFound || g.s.src.IsNotFound(err)
}
