// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes and builds the initial deployment of the token,
// the pool and the share market.
package genesis

import (
	"bytes"
	"encoding/json"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/corepool/builtin/corepool"
	"github.com/vechain/corepool/builtin/shares"
	"github.com/vechain/corepool/state"
	"github.com/vechain/corepool/thor"
	"github.com/vechain/corepool/tx"
)

// Genesis is the yaml described initial deployment.
type Genesis struct {
	Block    uint32       `yaml:"block"`
	Time     uint64       `yaml:"time"`
	Owner    thor.Address `yaml:"owner"`
	Pool     Pool         `yaml:"pool"`
	Shares   *Shares      `yaml:"shares"`
	Accounts []Account    `yaml:"accounts"`
}

// Pool holds the pool parameters. Zero values take the defaults of
// corepool.DefaultConfig, a zero start block means the genesis block.
type Pool struct {
	StartBlock            uint32                `yaml:"startBlock"`
	DecayPeriods          uint32                `yaml:"decayPeriods"`
	BlocksPerDecayPeriod  uint32                `yaml:"blocksPerDecayPeriod"`
	InitialRewardPerBlock *math.HexOrDecimal256 `yaml:"initialRewardPerBlock"`
	DecayPercent          uint32                `yaml:"decayPercent"`
	MinLockTime           *uint64               `yaml:"minLockTime"`
	MaxLockTime           uint64                `yaml:"maxLockTime"`
	Factory               thor.Address          `yaml:"factory"`
	RewardLockPeriod      uint32                `yaml:"rewardLockPeriod"`
	// minting cap of the pool, the whole schedule when unset
	RewardCap *math.HexOrDecimal256 `yaml:"rewardCap"`
}

type Shares struct {
	Factory            thor.Address          `yaml:"factory"`
	FeeDestination     thor.Address          `yaml:"feeDestination"`
	ProtocolFeePercent *math.HexOrDecimal256 `yaml:"protocolFeePercent"`
	SubjectFeePercent  *math.HexOrDecimal256 `yaml:"subjectFeePercent"`
}

// Account is an initial token balance.
type Account struct {
	Address thor.Address          `yaml:"address"`
	Balance *math.HexOrDecimal256 `yaml:"balance"`
}

func bigOrNil(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set((*big.Int)(v))
}

func bigOrZero(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return bigOrNil(v)
}

// Load reads a genesis file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	gen, err := Parse(data)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return gen, nil
}

// Parse decodes and validates a yaml genesis. Unknown fields are rejected.
func Parse(data []byte) (*Genesis, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var gen Genesis
	if err := dec.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

// Validate checks the genesis is buildable.
func (g *Genesis) Validate() error {
	if g.Owner.IsZero() {
		return errors.New("owner must be set")
	}
	cfg := g.PoolConfig()
	if err := cfg.Validate(); err != nil {
		return errors.WithMessage(err, "pool")
	}
	if cfg.StartBlock < g.Block {
		return errors.Errorf("pool: start block %d before genesis block %d", cfg.StartBlock, g.Block)
	}
	if g.Pool.RewardCap != nil && (*big.Int)(g.Pool.RewardCap).Sign() < 0 {
		return errors.New("pool: negative reward cap")
	}
	if g.Shares != nil {
		scfg := g.SharesConfig()
		if err := scfg.Validate(); err != nil {
			return errors.WithMessage(err, "shares")
		}
	}
	seen := make(map[thor.Address]bool, len(g.Accounts))
	for _, a := range g.Accounts {
		if a.Balance == nil || (*big.Int)(a.Balance).Sign() < 1 {
			return errors.Errorf("%s: balance must be a non-zero integer", a.Address)
		}
		if seen[a.Address] {
			return errors.Errorf("%s: duplicated account", a.Address)
		}
		seen[a.Address] = true
	}
	return nil
}

// PoolConfig returns the pool configuration with defaults applied.
func (g *Genesis) PoolConfig() corepool.Config {
	cfg := corepool.DefaultConfig()
	cfg.StartBlock = g.Block
	if g.Pool.StartBlock != 0 {
		cfg.StartBlock = g.Pool.StartBlock
	}
	if g.Pool.DecayPeriods != 0 {
		cfg.DecayPeriods = g.Pool.DecayPeriods
	}
	if g.Pool.BlocksPerDecayPeriod != 0 {
		cfg.BlocksPerDecayPeriod = g.Pool.BlocksPerDecayPeriod
	}
	if g.Pool.InitialRewardPerBlock != nil {
		cfg.InitialRewardPerBlock = bigOrNil(g.Pool.InitialRewardPerBlock)
	}
	if g.Pool.DecayPercent != 0 {
		cfg.DecayPercent = g.Pool.DecayPercent
	}
	if g.Pool.MinLockTime != nil {
		cfg.MinLockTime = *g.Pool.MinLockTime
	}
	if g.Pool.MaxLockTime != 0 {
		cfg.MaxLockTime = g.Pool.MaxLockTime
	}
	cfg.Owner = g.Owner
	cfg.Factory = g.Pool.Factory
	return cfg
}

// SharesConfig returns the share market configuration, nil if the market is not deployed.
func (g *Genesis) SharesConfig() *shares.Config {
	if g.Shares == nil {
		return nil
	}
	return &shares.Config{
		Owner:              g.Owner,
		Factory:            g.Shares.Factory,
		FeeDestination:     g.Shares.FeeDestination,
		ProtocolFeePercent: bigOrZero(g.Shares.ProtocolFeePercent),
		SubjectFeePercent:  bigOrZero(g.Shares.SubjectFeePercent),
	}
}

// RewardCap returns the pool minting cap.
func (g *Genesis) RewardCap() *big.Int {
	if g.Pool.RewardCap != nil {
		return bigOrNil(g.Pool.RewardCap)
	}
	cfg := g.PoolConfig()
	return cfg.Schedule().Total()
}

// ID identifies the genesis. Data built from different genesis never share an ID.
func (g *Genesis) ID() thor.Bytes32 {
	data, err := json.Marshal(g)
	if err != nil {
		panic(err)
	}
	return thor.Blake2b(data)
}

// Builder returns the builder of the deployment.
func (g *Genesis) Builder() *Builder {
	cfg := g.PoolConfig()
	b := new(Builder).
		At(g.Block, g.Time).
		Call("token", func(c *Contracts) error {
			if err := c.Token.Initialize(g.Owner); err != nil {
				return err
			}
			return c.Token.SetMinter(g.Owner, PoolAddress, g.RewardCap(), new(big.Int))
		})

	if len(g.Accounts) > 0 {
		b.Call("accounts", func(c *Contracts) error {
			// the owner mints the allocations as a temporary minter
			total := new(big.Int)
			for _, a := range g.Accounts {
				total.Add(total, (*big.Int)(a.Balance))
			}
			if err := c.Token.SetMinter(g.Owner, g.Owner, total, new(big.Int)); err != nil {
				return err
			}
			for _, a := range g.Accounts {
				if err := c.Token.Mint(g.Owner, a.Address, bigOrNil(a.Balance)); err != nil {
					return errors.WithMessage(err, a.Address.String())
				}
			}
			return c.Token.RemoveMinter(g.Owner, g.Owner)
		})
	}

	b.Call("pool", func(c *Contracts) error {
		if err := c.Pool.Initialize(g.Owner, cfg); err != nil {
			return err
		}
		if g.Pool.RewardLockPeriod > 0 {
			return c.Pool.SetRewardLockPeriod(g.Owner, g.Pool.RewardLockPeriod)
		}
		return nil
	})

	if scfg := g.SharesConfig(); scfg != nil {
		b.Call("shares", func(c *Contracts) error {
			return c.Shares.Initialize(g.Owner, *scfg)
		})
	}
	return b
}

// Build deploys the contracts into st and returns the emitted events.
func (g *Genesis) Build(st *state.State) (tx.Events, error) {
	return g.Builder().Build(st)
}
