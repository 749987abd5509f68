// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package corepool

import (
	"math/big"

	"github.com/vechain/corepool/builtin/corepool/emission"
	"github.com/vechain/corepool/thor"
)

// Config is the pool configuration written once by Initialize.
type Config struct {
	StartBlock            uint32       `json:"startBlock"`
	DecayPeriods          uint32       `json:"decayPeriods"`
	BlocksPerDecayPeriod  uint32       `json:"blocksPerDecayPeriod"`
	InitialRewardPerBlock *big.Int     `json:"initialRewardPerBlock"`
	DecayPercent          uint32       `json:"decayPercent"`
	MinLockTime           uint64       `json:"minLockTime"`
	MaxLockTime           uint64       `json:"maxLockTime"`
	Owner                 thor.Address `json:"owner"`
	Factory               thor.Address `json:"factory"`
}

// DefaultInitialRewardPerBlock is the first period rate, about 42.53 tokens per block.
var DefaultInitialRewardPerBlock, _ = new(big.Int).SetString("42530984996738421395", 10)

// DefaultConfig returns the reference configuration: 104 weekly periods
// decaying by 3%, one week minimum lock and one year maximum lock.
func DefaultConfig() Config {
	return Config{
		DecayPeriods:          104,
		BlocksPerDecayPeriod:  thor.BlocksPerWeek,
		InitialRewardPerBlock: new(big.Int).Set(DefaultInitialRewardPerBlock),
		DecayPercent:          97,
		MinLockTime:           7 * thor.SecondsPerDay,
		MaxLockTime:           thor.MaxLockDuration,
	}
}

// EndBlock is the first block without emission.
func (c *Config) EndBlock() uint32 {
	return c.StartBlock + c.DecayPeriods*c.BlocksPerDecayPeriod
}

// Schedule builds the emission schedule of the pool.
func (c *Config) Schedule() *emission.Schedule {
	return emission.New(emission.Params{
		StartBlock:      c.StartBlock,
		Periods:         c.DecayPeriods,
		BlocksPerPeriod: c.BlocksPerDecayPeriod,
		InitialRate:     c.InitialRewardPerBlock,
		DecayPercent:    c.DecayPercent,
	})
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	switch {
	case c.InitialRewardPerBlock == nil || c.InitialRewardPerBlock.Sign() <= 0:
		return invalidConfig("initial reward per block must be positive")
	case c.BlocksPerDecayPeriod == 0:
		return invalidConfig("blocks per decay period must be positive")
	case c.DecayPercent == 0 || c.DecayPercent > 100:
		return invalidConfig("decay percent must be in (0, 100]")
	case c.MaxLockTime == 0 || c.MinLockTime > c.MaxLockTime:
		return invalidConfig("lock bounds must satisfy 0 <= min <= max, max > 0")
	case uint64(c.StartBlock)+uint64(c.DecayPeriods)*uint64(c.BlocksPerDecayPeriod) > uint64(^uint32(0)):
		return invalidConfig("end block overflows")
	}
	return nil
}
