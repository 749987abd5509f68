// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/corepool/logdb"
	"github.com/vechain/corepool/test/datagen"
	"github.com/vechain/corepool/thor"
	"github.com/vechain/corepool/tx"
)

var (
	pool  = thor.BytesToAddress([]byte("pool"))
	token = thor.BytesToAddress([]byte("token"))
)

func newEvent(t *testing.T, addr thor.Address, name string, subject thor.Address) *tx.Event {
	ev, err := tx.NewEvent(addr, name, subject, map[string]any{"subject": subject})
	require.NoError(t, err)
	return ev
}

// fill writes 10 blocks, each with a Staked event of alice and a Transfer of bob.
func fill(t *testing.T, db *logdb.LogDB, alice, bob thor.Address) {
	for n := uint32(1); n <= 10; n++ {
		batch := db.NewBatch(n, uint64(n)*10)
		batch.Insert(0, tx.Events{newEvent(t, pool, "Staked", alice)})
		batch.Insert(1, tx.Events{newEvent(t, token, "Transfer", bob)})
		require.Equal(t, 2, batch.Len())
		require.NoError(t, batch.Commit())
	}
}

func TestFilterEvents(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	alice, bob := datagen.RandAddress(), datagen.RandAddress()
	fill(t, db, alice, bob)
	ctx := context.Background()

	all, err := db.FilterEvents(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 20)
	assert.Equal(t, uint32(1), all[0].BlockNumber)
	assert.Equal(t, uint32(1), all[1].Index)
	assert.Equal(t, uint32(1), all[1].TxIndex)

	newest, err := db.NewestBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(10), newest)

	staked := "Staked"
	events, err := db.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Address: &pool, Name: &staked}},
		Range:       &logdb.Range{Unit: logdb.Block, From: 3, To: 5},
		Order:       logdb.DESC,
	})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, uint32(5), events[0].BlockNumber)
	assert.Equal(t, alice, events[0].Subject)
	assert.Equal(t, "Staked", events[0].Name)
	assert.JSONEq(t, `{"subject":"`+alice.String()+`"}`, string(events[0].Data))

	// criteria are or-ed, fields within a criteria and-ed
	events, err = db.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Subject: &alice}, {Subject: &bob, Address: &token}},
		Range:       &logdb.Range{Unit: logdb.Time, From: 90, To: 100},
	})
	require.NoError(t, err)
	assert.Len(t, events, 4)

	events, err = db.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Subject: &bob, Address: &pool}},
	})
	require.NoError(t, err)
	assert.Empty(t, events)

	events, err = db.FilterEvents(ctx, &logdb.EventFilter{Options: &logdb.Options{Offset: 4, Limit: 3}})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, uint32(3), events[0].BlockNumber)

	all, err := db.FilterEvents(ctx, nil)
	require.NoError(t, err)
	events, err = db.FilterEvents(ctx, &logdb.EventFilter{Options: &logdb.Options{Limit: math.MaxUint64}})
	require.NoError(t, err)
	assert.Len(t, events, len(all))
	events, err = db.FilterEvents(ctx, &logdb.EventFilter{Options: &logdb.Options{Offset: math.MaxUint64, Limit: 1}})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestTruncateAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	db, err := logdb.New(path)
	require.NoError(t, err)

	alice, bob := datagen.RandAddress(), datagen.RandAddress()
	fill(t, db, alice, bob)
	require.NoError(t, db.Truncate(6))
	require.NoError(t, db.Close())

	db, err = logdb.New(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())

	newest, err := db.NewestBlock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint32(5), newest)
	all, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 10)
}
