// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb stores committed pool state and the replay head in goleveldb.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/vechain/corepool/kv"
)

var _ kv.Store = (*LevelDB)(nil)

const minBudget = 16

// Options tunes a persistent store.
type Options struct {
	CacheMB   int  // split between the block cache and the write buffers
	OpenFiles int  // table files kept open
	Sync      bool // fsync every block commit
}

// LevelDB is a kv.Store backed by goleveldb.
type LevelDB struct {
	db *leveldb.DB
	wo *opt.WriteOptions
	bo *opt.WriteOptions
}

// New opens the store at path, creating it when missing.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "open storage")
	}
	return open(stg, opts)
}

// NewMem opens an empty store held in memory.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	cacheMB := max(opts.CacheMB, minBudget)
	db, err := leveldb.Open(stg, &opt.Options{
		OpenFilesCacheCapacity: max(opts.OpenFiles, minBudget),
		BlockCacheCapacity:     cacheMB / 2 * opt.MiB,
		// leveldb keeps two write buffers alive during compaction
		WriteBuffer: cacheMB / 4 * opt.MiB,
		Filter:      filter.NewBloomFilter(10),
	})
	if err != nil {
		stg.Close()
		return nil, errors.Wrap(err, "open leveldb")
	}
	return &LevelDB{
		db: db,
		wo: &opt.WriteOptions{},
		bo: &opt.WriteOptions{Sync: opts.Sync},
	}, nil
}

func (l *LevelDB) IsNotFound(err error) bool { return errors.Is(err, leveldb.ErrNotFound) }

// Get fails with an error matched by IsNotFound when key is absent.
func (l *LevelDB) Get(key []byte) ([]byte, error) { return l.db.Get(key, nil) }
func (l *LevelDB) Has(key []byte) (bool, error)   { return l.db.Has(key, nil) }
func (l *LevelDB) Put(key, value []byte) error    { return l.db.Put(key, value, l.wo) }
func (l *LevelDB) Delete(key []byte) error        { return l.db.Delete(key, l.wo) }
func (l *LevelDB) Close() error                   { return l.db.Close() }
func (l *LevelDB) NewBatch() kv.Batch             { return &batch{new(leveldb.Batch), l} }
func (l *LevelDB) Iterate(r kv.Range) kv.Iterator {
	return l.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, nil)
}

// batch collects the writes of one block.
type batch struct {
	*leveldb.Batch
	l *LevelDB
}

func (b *batch) Put(key, value []byte) error {
	b.Batch.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.Batch.Delete(key)
	return nil
}

func (b *batch) Write() error {
	return errors.Wrap(b.l.db.Write(b.Batch, b.l.bo), "write batch")
}
