// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"math/big"
	"os"
	"sort"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/corepool/genesis"
	"github.com/vechain/corepool/thor"
)

// Tx is one scripted call. Fields not used by the op are ignored.
type Tx struct {
	Block uint32 `yaml:"block"`
	// block time, derived from the block number when zero
	Time uint64       `yaml:"time"`
	From thor.Address `yaml:"from"`
	Op   string       `yaml:"op"`

	Amount      *math.HexOrDecimal256 `yaml:"amount"`
	Index       uint64                `yaml:"index"`
	LockedUntil uint64                `yaml:"lockedUntil"`
	LockDays    uint64                `yaml:"lockDays"`
	To          thor.Address          `yaml:"to"`
	Subject     thor.Address          `yaml:"subject"`
	Wisher      thor.Address          `yaml:"wisher"`
	Shares      uint64                `yaml:"shares"`
	Period      uint32                `yaml:"period"`
}

// Script is the yaml described list of calls to replay.
type Script struct {
	Txs []*Tx `yaml:"txs"`
}

// Block is the calls of one block, in script order.
type Block struct {
	Number uint32
	Time   uint64
	Txs    []*Tx
}

func loadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := parseScript(data)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return s, nil
}

func parseScript(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "decode script")
	}
	for i, tx := range s.Txs {
		if tx == nil {
			return nil, errors.Errorf("txs[%d]: empty", i)
		}
		if _, ok := ops[tx.Op]; !ok {
			return nil, errors.Errorf("txs[%d]: unknown op %q", i, tx.Op)
		}
	}
	return &s, nil
}

func (tx *Tx) amount() *big.Int {
	if tx.Amount == nil {
		return new(big.Int)
	}
	return new(big.Int).Set((*big.Int)(tx.Amount))
}

// lockTarget returns the absolute lock end of stake and lock updates.
func (tx *Tx) lockTarget(now uint64) uint64 {
	if tx.LockedUntil != 0 {
		return tx.LockedUntil
	}
	return now + tx.LockDays*thor.SecondsPerDay
}

// blockTime derives the time of block n from the genesis at the nominal block rate.
func blockTime(gen *genesis.Genesis, n uint32) uint64 {
	if n <= gen.Block {
		return gen.Time
	}
	return gen.Time + uint64(n-gen.Block)*thor.SecondsPerDay/uint64(thor.BlocksPerDay)
}

// Blocks groups the calls by block, ordered by block number. Calls of a
// block keep the script order. Blocks must be after the genesis block and
// block times must not go backwards.
func (s *Script) Blocks(gen *genesis.Genesis) ([]*Block, error) {
	txs := append([]*Tx(nil), s.Txs...)
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Block < txs[j].Block })

	var (
		blocks   []*Block
		lastTime = gen.Time
	)
	for _, tx := range txs {
		if tx.Block <= gen.Block {
			return nil, errors.Errorf("%s at block %d: not after genesis block %d", tx.Op, tx.Block, gen.Block)
		}
		if n := len(blocks); n > 0 && blocks[n-1].Number == tx.Block {
			blk := blocks[n-1]
			if tx.Time != 0 && tx.Time != blk.Time {
				return nil, errors.Errorf("block %d: conflicting times %d and %d", tx.Block, blk.Time, tx.Time)
			}
			blk.Txs = append(blk.Txs, tx)
			continue
		}
		t := tx.Time
		if t == 0 {
			t = blockTime(gen, tx.Block)
		}
		if t < lastTime {
			return nil, errors.Errorf("block %d: time %d before %d", tx.Block, t, lastTime)
		}
		lastTime = t
		blocks = append(blocks, &Block{Number: tx.Block, Time: t, Txs: []*Tx{tx}})
	}
	return blocks, nil
}

// op applies one call to the contracts at time now.
type op func(c *genesis.Contracts, tx *Tx, now uint64) error

var ops = map[string]op{
	"stake": func(c *genesis.Contracts, tx *Tx, now uint64) error {
		_, err := c.Pool.Stake(tx.From, tx.amount(), tx.lockTarget(now))
		return err
	},
	"unstake": func(c *genesis.Contracts, tx *Tx, _ uint64) error {
		return c.Pool.Unstake(tx.From, tx.Index, tx.amount())
	},
	"updateLock": func(c *genesis.Contracts, tx *Tx, now uint64) error {
		return c.Pool.UpdateStakeLock(tx.From, tx.Index, tx.lockTarget(now))
	},
	"claim": func(c *genesis.Contracts, tx *Tx, _ uint64) error {
		_, err := c.Pool.ProcessRewards(tx.From)
		return err
	},
	"sync": func(c *genesis.Contracts, _ *Tx, _ uint64) error {
		return c.Pool.Sync()
	},
	"setRewardLock": func(c *genesis.Contracts, tx *Tx, _ uint64) error {
		return c.Pool.SetRewardLockPeriod(tx.From, tx.Period)
	},
	"setFactory": func(c *genesis.Contracts, tx *Tx, _ uint64) error {
		return c.Pool.SetFactory(tx.From, tx.To)
	},
	"transferOwnership": func(c *genesis.Contracts, tx *Tx, _ uint64) error {
		return c.Pool.TransferOwnership(tx.From, tx.To)
	},
	"migrate": func(c *genesis.Contracts, tx *Tx, _ uint64) error {
		return c.Pool.Migrate(tx.From, tx.To)
	},
	"approve": func(c *genesis.Contracts, tx *Tx, _ uint64) error {
		spender := tx.To
		if spender.IsZero() {
			spender = genesis.PoolAddress
		}
		return c.Token.Approve(tx.From, spender, tx.amount())
	},
	"transfer": func(c *genesis.Contracts, tx *Tx, _ uint64) error {
		return c.Token.Transfer(tx.From, tx.To, tx.amount())
	},
	"release": func(c *genesis.Contracts, tx *Tx, _ uint64) error {
		_, err := c.Token.ReleaseExpired(tx.From)
		return err
	},
	"buyShares": func(c *genesis.Contracts, tx *Tx, _ uint64) error {
		_, err := c.Shares.BuyShares(tx.From, tx.Subject, tx.Shares)
		return err
	},
	"sellShares": func(c *genesis.Contracts, tx *Tx, _ uint64) error {
		_, err := c.Shares.SellShares(tx.From, tx.Subject, tx.Shares)
		return err
	},
	"createWish": func(c *genesis.Contracts, tx *Tx, _ uint64) error {
		return c.Shares.CreateWishPass(tx.From, tx.Wisher)
	},
	"bindWish": func(c *genesis.Contracts, tx *Tx, _ uint64) error {
		return c.Shares.BindWishPass(tx.From, tx.Wisher, tx.Subject)
	},
	"claimWishFee": func(c *genesis.Contracts, tx *Tx, _ uint64) error {
		_, err := c.Shares.ClaimReservedWishFee(tx.From)
		return err
	},
}
