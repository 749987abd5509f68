// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/corepool/thor"
)

// Raw stores a single rlp encoded value in one slot.
type Raw[T any] struct {
	context *Context
	pos     thor.Bytes32
}

func NewRaw[T any](context *Context, pos thor.Bytes32) *Raw[T] {
	return &Raw[T]{context: context, pos: pos}
}

// Get returns the stored value, or the zero value of T if unset.
func (r *Raw[T]) Get() (value T, err error) {
	err = r.context.state.DecodeStorage(r.context.address, r.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		r.context.meter.read(len(raw))
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (r *Raw[T]) Upsert(value T) error {
	return r.context.state.EncodeStorage(r.context.address, r.pos, func() ([]byte, error) {
		val, err := rlp.EncodeToBytes(value)
		if err != nil {
			return nil, err
		}
		r.context.meter.write(len(val))
		return val, nil
	})
}

func (r *Raw[T]) Delete() {
	r.context.meter.write(0)
	r.context.state.SetRawStorage(r.context.address, r.pos, nil)
}
