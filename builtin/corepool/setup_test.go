// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package corepool

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/corepool/builtin/solidity"
	"github.com/vechain/corepool/builtin/token"
	"github.com/vechain/corepool/state"
	"github.com/vechain/corepool/test/datagen"
	"github.com/vechain/corepool/thor"
	"github.com/vechain/corepool/tx"
	"github.com/vechain/corepool/xenv"
)

const (
	genesisBlock uint32 = 1000
	genesisTime  uint64 = 1_700_000_000
	week                = 7 * thor.SecondsPerDay
)

// reservedAmount is the pool's minting cap.
var reservedAmount = thor.Tokens(400_000_000)

type PoolTest struct {
	*Pool
	t      *testing.T
	state  *state.State
	token  *token.Token
	clock  *xenv.BlockContext
	meter  *solidity.Meter
	owner  thor.Address
	faucet thor.Address
}

func newTest(t *testing.T) *PoolTest {
	st := state.New(nil)
	clock := &xenv.BlockContext{Number: genesisBlock, Time: genesisTime}
	meter := &solidity.Meter{}

	tok := token.New(thor.BytesToAddress([]byte("token")), st, clock, nil)
	pool := New(thor.BytesToAddress([]byte("pool")), st, clock, tok, meter)

	owner := datagen.RandAddress()
	faucet := datagen.RandAddress()
	require.NoError(t, tok.Initialize(owner))
	require.NoError(t, tok.SetMinter(owner, pool.Address(), reservedAmount, new(big.Int)))
	require.NoError(t, tok.SetMinter(owner, faucet, thor.Tokens(1_000_000_000), new(big.Int)))

	return &PoolTest{
		Pool:   pool,
		t:      t,
		state:  st,
		token:  tok,
		clock:  clock,
		meter:  meter,
		owner:  owner,
		faucet: faucet,
	}
}

// Init initializes the pool with the default config starting at the current block.
func (ts *PoolTest) Init() *PoolTest {
	cfg := DefaultConfig()
	cfg.StartBlock = ts.clock.Number
	return ts.InitWith(cfg)
}

func (ts *PoolTest) InitWith(cfg Config) *PoolTest {
	require.NoError(ts.t, ts.Initialize(ts.owner, cfg))
	return ts
}

// Fund mints tokens to user and approves the pool to pull them.
func (ts *PoolTest) Fund(user thor.Address, tokens int64) *PoolTest {
	amount := thor.Tokens(tokens)
	require.NoError(ts.t, ts.token.Mint(ts.faucet, user, amount))
	allowance, err := ts.token.Allowance(user, ts.Address())
	require.NoError(ts.t, err)
	require.NoError(ts.t, ts.token.Approve(user, ts.Address(), allowance.Add(allowance, amount)))
	return ts
}

// Advance moves the clock by blocks and seconds.
func (ts *PoolTest) Advance(blocks uint32, seconds uint64) *PoolTest {
	ts.clock.Advance(blocks, seconds)
	return ts
}

// AdvanceDays moves the clock by whole days of blocks.
func (ts *PoolTest) AdvanceDays(days uint32) *PoolTest {
	return ts.Advance(days*thor.BlocksPerDay, uint64(days)*thor.SecondsPerDay)
}

// StakeFor stakes whole tokens locked for lock seconds from now.
func (ts *PoolTest) StakeFor(user thor.Address, tokens int64, lock uint64) uint64 {
	index, err := ts.Stake(user, thor.Tokens(tokens), ts.clock.Time+lock)
	require.NoError(ts.t, err, "stake failed")
	return index
}

func (ts *PoolTest) Claim(user thor.Address) *big.Int {
	claimed, err := ts.ProcessRewards(user)
	require.NoError(ts.t, err, "process rewards failed")
	return claimed
}

func (ts *PoolTest) Events(name string) tx.Events {
	return ts.state.Events().Filter(name)
}

func (ts *PoolTest) AssertBalance(user thor.Address, expected *big.Int) *PoolTest {
	bal, err := ts.token.BalanceOf(user)
	require.NoError(ts.t, err)
	assert.Equal(ts.t, expected.String(), bal.String(), "balance mismatch for %s", user)
	return ts
}

func (ts *PoolTest) AssertPending(user thor.Address, expected *big.Int) *PoolTest {
	pending, err := ts.PendingRewards(user)
	require.NoError(ts.t, err)
	assert.Equal(ts.t, expected.String(), pending.String(), "pending mismatch for %s", user)
	return ts
}

func (ts *PoolTest) AssertTotalWeight(expected *big.Int) *PoolTest {
	w, err := ts.TotalWeight()
	require.NoError(ts.t, err)
	assert.Equal(ts.t, expected.String(), w.String(), "total weight mismatch")
	return ts
}

func (ts *PoolTest) AssertDeposits(user thor.Address, expected uint64) *PoolTest {
	n, err := ts.DepositsLength(user)
	require.NoError(ts.t, err)
	assert.Equal(ts.t, expected, n, "deposit count mismatch")
	return ts
}

// AssertInvariants checks the accounting identities of the pool.
func (ts *PoolTest) AssertInvariants(initBlock uint32, users []thor.Address) *PoolTest {
	acc, err := ts.Accumulator()
	require.NoError(ts.t, err)
	schedule, err := ts.Schedule()
	require.NoError(ts.t, err)

	// emission is either distributed through rpw or forfeited
	emitted := new(big.Int).Add(acc.TotalEmitted, acc.TotalForfeited)
	assert.Equal(ts.t, schedule.Rewards(initBlock, acc.LastSyncedBlock).String(), emitted.String(), "emission mismatch")

	userWeights := new(big.Int)
	claimed := new(big.Int)
	for _, u := range users {
		rec, err := ts.GetUser(u)
		require.NoError(ts.t, err)
		deps, err := ts.Deposits(u)
		require.NoError(ts.t, err)
		depWeights := new(big.Int)
		for _, d := range deps {
			depWeights.Add(depWeights, d.Weight)
		}
		assert.Equal(ts.t, rec.TotalWeight.String(), depWeights.String(), "user weight mismatch")
		userWeights.Add(userWeights, rec.TotalWeight)

		pending, err := ts.PendingRewards(u)
		require.NoError(ts.t, err)
		claimed.Add(claimed, rec.TotalClaimed).Add(claimed, pending)
	}
	assert.Equal(ts.t, acc.TotalWeight.String(), userWeights.String(), "total weight mismatch")
	assert.True(ts.t, acc.TotalYieldDistributed.Cmp(claimed) <= 0, "distributed exceeds claimed")

	preview, err := ts.Stats()
	require.NoError(ts.t, err)
	assert.True(ts.t, claimed.Cmp(preview.TotalEmitted) <= 0, "claims %s exceed emission %s", claimed, preview.TotalEmitted)

	poolBalance, err := ts.token.BalanceOf(ts.Address())
	require.NoError(ts.t, err)
	assert.Equal(ts.t, acc.TotalStaked.String(), poolBalance.String(), "pool balance mismatch")
	return ts
}
