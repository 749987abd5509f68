// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/corepool/lvldb"
)

func TestStorage(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Put([]byte("k"), []byte("v1")))

	s := NewStorage(db, 1)
	g := s.At(1)

	val, err := g.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), val)
	val, err = g.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), val)

	hit, miss := s.Stats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)

	// missing keys are cached too
	for range 2 {
		_, err = g.Get([]byte("absent"))
		assert.True(t, g.IsNotFound(err))
	}
	has, err := g.Has([]byte("absent"))
	require.NoError(t, err)
	assert.False(t, has)
	hit, miss = s.Stats()
	assert.Equal(t, int64(3), hit)
	assert.Equal(t, int64(2), miss)

	// a head sees the values cached at it, a new head reads through
	require.NoError(t, db.Put([]byte("k"), []byte("v2")))
	val, err = g.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), val)

	val, err = s.At(2).Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), val)
	has, err = s.At(2).Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, has)
}
