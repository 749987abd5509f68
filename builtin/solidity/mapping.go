// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/corepool/thor"
)

type Key interface {
	Bytes() []byte
}

// Uint64Key is a mapping key of an integer index.
type Uint64Key uint64

func (k Uint64Key) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(k))
	return b[:]
}

// Mapping stores rlp encoded values at slot blake2b(key, base).
type Mapping[K Key, V any] struct {
	context *Context
	basePos thor.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos thor.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) thor.Bytes32 {
	return thor.MappingSlot(key.Bytes(), m.basePos)
}

func (m *Mapping[K, V]) raw(key K) ([]byte, error) {
	raw, err := m.context.state.GetRawStorage(m.context.address, m.position(key))
	if err != nil {
		return nil, err
	}
	m.context.meter.read(len(raw))
	return raw, nil
}

// Get returns the value for key, or the zero value of V if absent.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	raw, err := m.raw(key)
	if err != nil || len(raw) == 0 {
		return value, err
	}
	err = rlp.DecodeBytes(raw, &value)
	return
}

// Exists reports whether key has a value.
func (m *Mapping[K, V]) Exists(key K) (bool, error) {
	raw, err := m.raw(key)
	return len(raw) > 0, err
}

// Insert sets the value of a new key.
func (m *Mapping[K, V]) Insert(key K, value V) error {
	exists, err := m.Exists(key)
	if err != nil {
		return err
	}
	if exists {
		return errors.New("mapping key already exists")
	}
	return m.Upsert(key, value)
}

// Update sets the value of an existing key.
func (m *Mapping[K, V]) Update(key K, value V) error {
	exists, err := m.Exists(key)
	if err != nil {
		return err
	}
	if !exists {
		return errors.New("mapping key does not exist")
	}
	return m.Upsert(key, value)
}

func (m *Mapping[K, V]) Upsert(key K, value V) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		val, err := rlp.EncodeToBytes(value)
		if err != nil {
			return nil, err
		}
		m.context.meter.write(len(val))
		return val, nil
	})
}

func (m *Mapping[K, V]) Delete(key K) {
	m.context.meter.write(0)
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}
