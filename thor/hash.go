// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"hash"
	"sync"

	"github.com/ethereum/go-ethereum/crypto/blake2b"
)

var hasherPool = sync.Pool{
	New: func() any {
		h, _ := blake2b.New256(nil)
		return h
	},
}

// Blake2b returns the blake2b-256 digest of the concatenated data.
func Blake2b(data ...[]byte) (h Bytes32) {
	if len(data) == 1 {
		return blake2b.Sum256(data[0])
	}
	w := hasherPool.Get().(hash.Hash)
	for _, b := range data {
		w.Write(b)
	}
	w.Sum(h[:0])
	w.Reset()
	hasherPool.Put(w)
	return
}

// MappingSlot returns the storage slot of key in the mapping rooted at base.
func MappingSlot(key []byte, base Bytes32) Bytes32 {
	return Blake2b(key, base[:])
}
