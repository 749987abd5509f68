// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Getter reads kvs. Get fails on missing keys with an error reported by
// IsNotFound.
type Getter interface {
	Get(key []byte) (value []byte, err error)
	Has(key []byte) (bool, error)
	IsNotFound(error) bool
}

// Putter wraps methods for putting kvs.
type Putter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// Batch buffers puts until Write applies them atomically.
type Batch interface {
	Putter

	Len() int
	Write() error
}

// Iterator walks kvs in key order.
type Iterator interface {
	Next() bool
	Release()
	Error() error

	Key() []byte
	Value() []byte
}

// Range is the key range.
type Range struct {
	Start []byte // start of key range (included)
	Limit []byte // limit of key range (excluded)
}

// Store is a persistent kv store, implemented by lvldb.
type Store interface {
	Getter
	Putter

	NewBatch() Batch
	Iterate(r Range) Iterator
	Close() error
}
