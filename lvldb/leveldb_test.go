// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/corepool/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	disk, err := New(filepath.Join(t.TempDir(), "db"), Options{CacheMB: 16, OpenFiles: 16, Sync: true})
	require.NoError(t, err)
	defer disk.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{disk, mem} {
		assert.NoError(t, db.Put(key, value))

		got, err := db.Get(key)
		assert.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		assert.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has(inValidKey)
		assert.NoError(t, err)
		assert.False(t, has)

		assert.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))
	}
}

func TestLevelDBBatch(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	b := db.NewBatch()
	assert.NoError(t, b.Put([]byte("a"), []byte("1")))
	assert.NoError(t, b.Put([]byte("b"), []byte("2")))
	assert.NoError(t, b.Delete([]byte("c")))
	assert.Equal(t, 3, b.Len())

	_, err = db.Get([]byte("a"))
	assert.True(t, db.IsNotFound(err))

	assert.NoError(t, b.Write())
	got, err := db.Get([]byte("b"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("2"), got)
}

func TestLevelDBBucketIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	bkt := kv.Bucket("s")
	p := bkt.NewPutter(db)
	require.NoError(t, p.Put([]byte("1"), []byte("x")))
	require.NoError(t, p.Put([]byte("2"), []byte("y")))
	require.NoError(t, db.Put([]byte("t1"), []byte("z")))

	it := bkt.Iterate(db, kv.Range{})
	defer it.Release()

	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	assert.NoError(t, it.Error())
	assert.Equal(t, []string{"1", "2"}, keys)
}

func TestLevelDBReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.db")
	db, err := New(path, Options{Sync: true})
	require.NoError(t, err)

	b := db.NewBatch()
	require.NoError(t, b.Put([]byte("head"), []byte{7}))
	require.NoError(t, b.Write())
	require.NoError(t, db.Close())

	db, err = New(path, Options{})
	require.NoError(t, err)
	defer db.Close()
	got, err := db.Get([]byte("head"))
	require.NoError(t, err)
	assert.Equal(t, []byte{7}, got)
}
