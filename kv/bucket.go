// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket provides logical bucket for kv store.
type Bucket string

// Key returns the prefixed key. The returned slice is newly allocated.
func (b Bucket) Key(key []byte) []byte {
	return append(append(make([]byte, 0, len(b)+len(key)), b...), key...)
}

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &struct {
		GetFunc
		HasFunc
		IsNotFoundFunc
	}{
		func(key []byte) ([]byte, error) {
			buf := bufPool.Get().(*buf)
			defer bufPool.Put(buf)
			buf.k = append(append(buf.k[:0], b...), key...)

			return src.Get(buf.k)
		},
		func(key []byte) (bool, error) {
			buf := bufPool.Get().(*buf)
			defer bufPool.Put(buf)
			buf.k = append(append(buf.k[:0], b...), key...)

			return src.Has(buf.k)
		},
		src.IsNotFound,
	}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &struct {
		PutFunc
		DeleteFunc
	}{
		func(key, val []byte) error {
			return src.Put(b.Key(key), val)
		},
		func(key []byte) error {
			return src.Delete(b.Key(key))
		},
	}
}

// NewBatch creates a bucket batch from the source batch.
func (b Bucket) NewBatch(src Batch) Batch {
	return &struct {
		Putter
		LenFunc
		WriteFunc
	}{
		b.NewPutter(src),
		src.Len,
		src.Write,
	}
}

// Iterate iterates keys of the bucket. Keys yielded have the prefix stripped.
func (b Bucket) Iterate(src Store, r Range) Iterator {
	r.Start = b.Key(r.Start)
	if len(r.Limit) == 0 {
		r.Limit = util.BytesPrefix([]byte(b)).Limit
	} else {
		r.Limit = b.Key(r.Limit)
	}
	return &bucketIter{src.Iterate(r), len(b)}
}

type bucketIter struct {
	Iterator
	n int
}

func (it *bucketIter) Key() []byte { return it.Iterator.Key()[it.n:] }

type buf struct {
	k []byte
}

var bufPool = sync.Pool{
	New: func() any {
		return &buf{}
	},
}
