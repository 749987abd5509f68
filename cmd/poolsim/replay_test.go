// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/corepool/builtin/corepool"
	"github.com/vechain/corepool/cache"
	"github.com/vechain/corepool/genesis"
	"github.com/vechain/corepool/health"
	"github.com/vechain/corepool/logdb"
	"github.com/vechain/corepool/lvldb"
	"github.com/vechain/corepool/thor"
	"github.com/vechain/corepool/tx"
)

const (
	testBlock = 100
	testTime  = 1_700_000_000
)

func tokens(n int64) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(thor.Tokens(n))
}

func newTestDBs(t *testing.T) *databases {
	main, err := lvldb.NewMem()
	require.NoError(t, err)
	logs, err := logdb.NewMem()
	require.NoError(t, err)
	dbs := &databases{main, logs, cache.NewStorage(main, 1)}
	t.Cleanup(dbs.Close)
	return dbs
}

func testBlocks(t *testing.T, gen *genesis.Genesis) []*Block {
	alice := genesis.DevAccounts()[0]
	script := &Script{Txs: []*Tx{
		{Block: testBlock + 1, From: alice, Op: "approve", Amount: tokens(1000)},
		{Block: testBlock + 1, From: alice, Op: "stake", Amount: tokens(500), LockDays: 112},
		{Block: testBlock + 1, From: alice, Op: "stake", Amount: tokens(0), LockDays: 112},
		{Block: testBlock + 1 + thor.BlocksPerDay, From: alice, Op: "claim"},
		{Block: testBlock + 1 + thor.BlocksPerDay, From: alice, Op: "setRewardLock", Period: 1},
	}}
	blocks, err := script.Blocks(gen)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	return blocks
}

func TestReplay(t *testing.T) {
	gen := genesis.NewDevnet(testBlock, testTime)
	dbs := newTestDBs(t)
	blocks := testBlocks(t, gen)

	res, err := NewReplayer(dbs.main, dbs.logs, gen).WithMeter(true).Replay(context.Background(), blocks)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Blocks)
	assert.Equal(t, 3, res.Txs)
	// zero stake and the non owner lock update
	assert.Equal(t, 2, res.Reverted)
	assert.Equal(t, uint32(testBlock+1+thor.BlocksPerDay), res.Head.Number)
	assert.Equal(t, blocks[1].Time, res.Head.Time)

	c, head, err := openAtHead(dbs.main)
	require.NoError(t, err)
	assert.Equal(t, res.Head, *head)

	alice := genesis.DevAccounts()[0]
	u, err := c.Pool.GetUser(alice)
	require.NoError(t, err)
	assert.Equal(t, thor.Tokens(500).String(), u.TotalStaked.String())
	n, err := c.Pool.DepositsLength(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
	pending, err := c.Pool.PendingRewards(alice)
	require.NoError(t, err)
	assert.Equal(t, 0, pending.Sign())

	period, err := c.Pool.RewardLockPeriod()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), period)

	newest, err := dbs.logs.NewestBlock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, head.Number, newest)

	name := corepool.EventYieldClaimed
	evs, err := dbs.logs.FilterEvents(context.Background(), &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Name: &name, Subject: &alice}},
	})
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, head.Number, evs[0].BlockNumber)
	assert.Equal(t, uint32(0), evs[0].TxIndex)

	// genesis events are indexed at the genesis block
	evs, err = dbs.logs.FilterEvents(context.Background(), &logdb.EventFilter{
		Range: &logdb.Range{Unit: logdb.Block, From: testBlock, To: testBlock},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, evs)
}

func TestReplayResume(t *testing.T) {
	gen := genesis.NewDevnet(testBlock, testTime)
	dbs := newTestDBs(t)
	blocks := testBlocks(t, gen)

	res, err := NewReplayer(dbs.main, dbs.logs, gen).Replay(context.Background(), blocks[:1])
	require.NoError(t, err)
	assert.Equal(t, 1, res.Blocks)

	res, err = NewReplayer(dbs.main, dbs.logs, gen).Replay(context.Background(), blocks)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Blocks)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Txs)
	assert.Equal(t, 1, res.Reverted)

	res, err = NewReplayer(dbs.main, dbs.logs, gen).Replay(context.Background(), blocks)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Blocks)
	assert.Equal(t, 2, res.Skipped)
}

func TestReplayTruncatesOrphanEvents(t *testing.T) {
	gen := genesis.NewDevnet(testBlock, testTime)
	dbs := newTestDBs(t)

	r := NewReplayer(dbs.main, dbs.logs, gen)
	head, err := r.Init(context.Background())
	require.NoError(t, err)

	// events indexed without the state commit that should follow them
	ev, err := tx.NewEvent(genesis.PoolAddress, corepool.EventStaked, genesis.DevOwner, nil)
	require.NoError(t, err)
	require.NoError(t, dbs.logs.NewBatch(head.Number+5, testTime+10).Insert(0, tx.Events{ev}).Commit())

	_, err = r.Init(context.Background())
	require.NoError(t, err)
	newest, err := dbs.logs.NewestBlock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, head.Number, newest)
}

func TestReplayGenesisMismatch(t *testing.T) {
	dbs := newTestDBs(t)
	_, err := NewReplayer(dbs.main, dbs.logs, genesis.NewDevnet(testBlock, testTime)).Init(context.Background())
	require.NoError(t, err)

	_, err = NewReplayer(dbs.main, dbs.logs, genesis.NewDevnet(testBlock, testTime+1)).Init(context.Background())
	assert.ErrorContains(t, err, "database built from genesis")
}

func TestReplayCancelled(t *testing.T) {
	gen := genesis.NewDevnet(testBlock, testTime)
	dbs := newTestDBs(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := NewReplayer(dbs.main, dbs.logs, gen).Replay(ctx, testBlocks(t, gen))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, res.Blocks)
}

func TestReplayReportsHealth(t *testing.T) {
	gen := genesis.NewDevnet(testBlock, testTime)
	dbs := newTestDBs(t)
	h := health.New()

	res, err := NewReplayer(dbs.main, dbs.logs, gen).WithHealth(h).Replay(context.Background(), testBlocks(t, gen))
	require.NoError(t, err)

	status, err := h.Status()
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.False(t, status.Replaying)
	require.NotNil(t, status.Head)
	assert.Equal(t, res.Head.Number, status.Head.Number)
	assert.Equal(t, res.Head.Time, status.Head.Time)
}

func TestHeadRoundTrip(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	h, err := loadHead(db)
	require.NoError(t, err)
	assert.Nil(t, h)

	want := &Head{GenesisID: thor.Blake2b([]byte("gen")), Number: 7, Time: 99}
	require.NoError(t, saveHead(db, want))
	h, err = loadHead(db)
	require.NoError(t, err)
	assert.Equal(t, want, h)
	assert.Equal(t, uint32(7), h.Clock().BlockNumber())
	assert.Equal(t, uint64(99), h.Clock().BlockTime())
}
