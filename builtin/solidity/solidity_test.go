// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/corepool/state"
	"github.com/vechain/corepool/test/datagen"
	"github.com/vechain/corepool/thor"
)

type testStruct struct {
	Field1 uint64
	Field2 *big.Int
}

func newContext() *Context {
	return NewContext(thor.Address{1}, state.New(nil), &Meter{})
}

func TestAddress(t *testing.T) {
	ctx := newContext()
	address := NewAddress(ctx, thor.Bytes32{1})

	value := datagen.RandAddress()
	address.Set(&value)
	assert.Equal(t, uint64(1), ctx.Meter().Writes)

	got, err := address.Get()
	assert.NoError(t, err)
	assert.Equal(t, value, got)
	assert.Equal(t, uint64(1), ctx.Meter().Reads)

	address.Set(nil)
	got, err = address.Get()
	assert.NoError(t, err)
	assert.True(t, got.IsZero())

	assert.Equal(t, thor.Address{1}, ctx.Address())
	assert.NotNil(t, ctx.State())
}

func TestUint256(t *testing.T) {
	ctx := newContext()
	u := NewUint256(ctx, thor.Bytes32{2})

	v, err := u.Get()
	assert.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	assert.NoError(t, u.Add(big.NewInt(10)))
	assert.NoError(t, u.Sub(big.NewInt(3)))
	v, err = u.Get()
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(7), v)

	assert.EqualError(t, u.Sub(big.NewInt(8)), "uint256 underflow")
	assert.Error(t, u.Set(big.NewInt(-1)))
	assert.Error(t, u.Set(new(big.Int).Lsh(big.NewInt(1), 256)))
}

func TestRaw(t *testing.T) {
	ctx := newContext()
	r := NewRaw[*testStruct](ctx, thor.Bytes32{3})

	got, err := r.Get()
	assert.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, r.Upsert(&testStruct{Field1: 5, Field2: big.NewInt(6)}))
	got, err = r.Get()
	assert.NoError(t, err)
	assert.Equal(t, uint64(5), got.Field1)
	assert.Equal(t, big.NewInt(6), got.Field2)

	r.Delete()
	got, err = r.Get()
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMapping(t *testing.T) {
	ctx := newContext()
	m := NewMapping[thor.Address, *testStruct](ctx, thor.Bytes32{4})
	key := datagen.RandAddress()

	got, err := m.Get(key)
	assert.NoError(t, err)
	assert.Nil(t, got)

	assert.EqualError(t, m.Update(key, &testStruct{}), "mapping key does not exist")
	require.NoError(t, m.Insert(key, &testStruct{Field1: 1, Field2: big.NewInt(2)}))
	assert.EqualError(t, m.Insert(key, &testStruct{}), "mapping key already exists")
	require.NoError(t, m.Update(key, &testStruct{Field1: 3, Field2: big.NewInt(4)}))

	got, err = m.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, uint64(3), got.Field1)

	exists, err := m.Exists(key)
	assert.NoError(t, err)
	assert.True(t, exists)

	m.Delete(key)
	exists, err = m.Exists(key)
	assert.NoError(t, err)
	assert.False(t, exists)

	// different keys and bases map to different slots
	idx := NewMapping[Uint64Key, uint64](ctx, thor.Bytes32{5})
	require.NoError(t, idx.Upsert(Uint64Key(1), 11))
	require.NoError(t, idx.Upsert(Uint64Key(2), 22))
	v, err := idx.Get(Uint64Key(1))
	assert.NoError(t, err)
	assert.Equal(t, uint64(11), v)
}

func TestMappingCorruptValue(t *testing.T) {
	ctx := newContext()
	m := NewMapping[Uint64Key, *testStruct](ctx, thor.Bytes32{6})
	ctx.State().SetRawStorage(ctx.Address(), m.position(Uint64Key(1)), rlp.RawValue{0xFF})

	_, err := m.Get(Uint64Key(1))
	assert.Error(t, err)
}

func TestConfigVariable(t *testing.T) {
	config := NewConfigVariable("name", 10)
	assert.Equal(t, uint32(10), config.Get())
	assert.Equal(t, "name", config.Name())
	assert.Equal(t, thor.BytesToBytes32([]byte("name")), config.Slot())

	ctx := newContext()
	config.Override(ctx)
	assert.Equal(t, uint32(10), config.Get())

	other := NewConfigVariable("name", 10)
	ctx.State().SetStorage(ctx.Address(), other.Slot(), thor.BytesToBytes32([]byte{0x20}))
	other.Override(ctx)
	assert.Equal(t, uint32(32), other.Get())

	config.Store(ctx, 99)
	assert.Equal(t, uint32(99), config.Get())

	fresh := NewConfigVariable("name", 10)
	fresh.Override(ctx)
	assert.Equal(t, uint32(99), fresh.Get())
}
