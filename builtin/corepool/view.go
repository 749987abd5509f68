// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package corepool

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/corepool/builtin/corepool/accumulator"
	"github.com/vechain/corepool/builtin/corepool/deposit"
	"github.com/vechain/corepool/builtin/corepool/emission"
	"github.com/vechain/corepool/builtin/fixedpoint"
	"github.com/vechain/corepool/thor"
)

//
// Getters - no state change
//

// Stats is a snapshot of the pool as of the current block.
type Stats struct {
	Block                 uint32       `json:"block"`
	StartBlock            uint32       `json:"startBlock"`
	EndBlock              uint32       `json:"endBlock"`
	RewardPerBlock        *big.Int     `json:"rewardPerBlock"`
	RewardPerWeight       *big.Int     `json:"rewardPerWeight"`
	TotalWeight           *big.Int     `json:"totalWeight"`
	TotalStaked           *big.Int     `json:"totalStaked"`
	LastSyncedBlock       uint32       `json:"lastSyncedBlock"`
	TotalEmitted          *big.Int     `json:"totalEmitted"`
	TotalForfeited        *big.Int     `json:"totalForfeited"`
	TotalYieldDistributed *big.Int     `json:"totalYieldDistributed"`
	RewardLockPeriod      uint32       `json:"rewardLockPeriod"`
	MigratedTo            thor.Address `json:"migratedTo"`
}

// Config returns a copy of the pool configuration.
func (p *Pool) Config() (*Config, error) {
	cfg, err := p.load()
	if err != nil {
		return nil, err
	}
	cpy := *cfg
	cpy.InitialRewardPerBlock = new(big.Int).Set(cfg.InitialRewardPerBlock)
	return &cpy, nil
}

func (p *Pool) Schedule() (*emission.Schedule, error) {
	if _, err := p.load(); err != nil {
		return nil, err
	}
	return p.schedule, nil
}

// RewardPerBlock returns the emission rate at the current block.
func (p *Pool) RewardPerBlock() (*big.Int, error) {
	if _, err := p.load(); err != nil {
		return nil, err
	}
	return p.schedule.RewardPerBlock(p.clock.BlockNumber()), nil
}

// Accumulator returns the stored accumulator, as of the last sync.
func (p *Pool) Accumulator() (*accumulator.Accumulator, error) {
	if _, err := p.load(); err != nil {
		return nil, err
	}
	return p.acc.Get()
}

// RewardPerWeight returns the stored accumulator value, as of the last sync.
func (p *Pool) RewardPerWeight() (*big.Int, error) {
	acc, err := p.Accumulator()
	if err != nil {
		return nil, err
	}
	return acc.RewardPerWeight, nil
}

func (p *Pool) TotalWeight() (*big.Int, error) {
	acc, err := p.Accumulator()
	if err != nil {
		return nil, err
	}
	return acc.TotalWeight, nil
}

// PendingRewards returns what ProcessRewards would pay user at the current block.
func (p *Pool) PendingRewards(user thor.Address) (*big.Int, error) {
	if _, err := p.load(); err != nil {
		return nil, err
	}
	acc, err := p.acc.Preview(p.clock.BlockNumber())
	if err != nil {
		return nil, err
	}
	u, err := p.deposits.GetUser(user)
	if err != nil {
		return nil, err
	}
	accrued, err := fixedpoint.WeightToReward(u.TotalWeight, acc.RewardPerWeight)
	if err != nil {
		return nil, errors.Wrap(err, "accrued rewards")
	}
	pending := accrued.Sub(accrued, u.RewardDebt)
	if pending.Sign() < 0 {
		return new(big.Int), nil
	}
	return pending, nil
}

// GetUser returns the user record, zero for unknown users.
func (p *Pool) GetUser(user thor.Address) (*deposit.User, error) {
	return p.deposits.GetUser(user)
}

// GetDeposit returns the deposit at index. Withdrawn deposits are returned
// with zero amount.
func (p *Pool) GetDeposit(user thor.Address, index uint64) (*deposit.Deposit, error) {
	dep, err := p.deposits.GetDeposit(user, index)
	if err != nil {
		return nil, err
	}
	if dep == nil {
		return nil, ErrUnknownDeposit
	}
	return dep, nil
}

func (p *Pool) DepositsLength(user thor.Address) (uint64, error) {
	u, err := p.deposits.GetUser(user)
	if err != nil {
		return 0, err
	}
	return u.DepositCount, nil
}

// Deposits lists all deposits of user, withdrawn ones included.
func (p *Pool) Deposits(user thor.Address) ([]*deposit.Deposit, error) {
	return p.deposits.List(user)
}

func (p *Pool) MigratedTo() (thor.Address, error) {
	return p.migratedTo.Get()
}

func (p *Pool) RewardLockPeriod() (uint32, error) {
	if _, err := p.load(); err != nil {
		return 0, err
	}
	return p.rewardLock.Get(), nil
}

// Stats previews a sync at the current block and reports the result.
func (p *Pool) Stats() (*Stats, error) {
	cfg, err := p.load()
	if err != nil {
		return nil, err
	}
	block := p.clock.BlockNumber()
	acc, err := p.acc.Preview(block)
	if err != nil {
		return nil, err
	}
	migratedTo, err := p.migratedTo.Get()
	if err != nil {
		return nil, err
	}
	return &Stats{
		Block:                 block,
		StartBlock:            cfg.StartBlock,
		EndBlock:              cfg.EndBlock(),
		RewardPerBlock:        p.schedule.RewardPerBlock(block),
		RewardPerWeight:       acc.RewardPerWeight,
		TotalWeight:           acc.TotalWeight,
		TotalStaked:           acc.TotalStaked,
		LastSyncedBlock:       acc.LastSyncedBlock,
		TotalEmitted:          acc.TotalEmitted,
		TotalForfeited:        acc.TotalForfeited,
		TotalYieldDistributed: acc.TotalYieldDistributed,
		RewardLockPeriod:      p.rewardLock.Get(),
		MigratedTo:            migratedTo,
	}, nil
}
