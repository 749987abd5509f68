// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accumulator keeps the pool-wide totals and the reward per weight
// accumulator.
package accumulator

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/corepool/builtin/corepool/emission"
	"github.com/vechain/corepool/builtin/fixedpoint"
	"github.com/vechain/corepool/builtin/solidity"
	"github.com/vechain/corepool/thor"
)

var slotAccumulator = thor.NameToSlot("pool-accumulator")

// Accumulator is the global pool state.
type Accumulator struct {
	TotalWeight           *big.Int `json:"totalWeight"`
	RewardPerWeight       *big.Int `json:"rewardPerWeight"` // scaled by 1e12, never decreases
	LastSyncedBlock       uint32   `json:"lastSyncedBlock"`
	TotalStaked           *big.Int `json:"totalStaked"`
	TotalEmitted          *big.Int `json:"totalEmitted"`   // folded into RewardPerWeight
	TotalForfeited        *big.Int `json:"totalForfeited"` // emitted while TotalWeight was zero
	TotalYieldDistributed *big.Int `json:"totalYieldDistributed"`
}

func newAccumulator() *Accumulator {
	return &Accumulator{
		TotalWeight:           new(big.Int),
		RewardPerWeight:       new(big.Int),
		TotalStaked:           new(big.Int),
		TotalEmitted:          new(big.Int),
		TotalForfeited:        new(big.Int),
		TotalYieldDistributed: new(big.Int),
	}
}

// Copy returns a deep copy.
func (a *Accumulator) Copy() *Accumulator {
	return &Accumulator{
		TotalWeight:           new(big.Int).Set(a.TotalWeight),
		RewardPerWeight:       new(big.Int).Set(a.RewardPerWeight),
		LastSyncedBlock:       a.LastSyncedBlock,
		TotalStaked:           new(big.Int).Set(a.TotalStaked),
		TotalEmitted:          new(big.Int).Set(a.TotalEmitted),
		TotalForfeited:        new(big.Int).Set(a.TotalForfeited),
		TotalYieldDistributed: new(big.Int).Set(a.TotalYieldDistributed),
	}
}

// Advance folds the emission of [LastSyncedBlock, min(block, end)) into the
// accumulator and returns the amount folded. It is a no-op when already synced.
func (a *Accumulator) Advance(schedule *emission.Schedule, block uint32) (*big.Int, error) {
	end := min(block, schedule.EndBlock())
	if end <= a.LastSyncedBlock {
		return new(big.Int), nil
	}
	rewards := schedule.Rewards(a.LastSyncedBlock, end)
	if a.TotalWeight.Sign() > 0 {
		inc, err := fixedpoint.RewardToWeight(rewards, a.TotalWeight)
		if err != nil {
			return nil, errors.Wrap(err, "reward per weight")
		}
		a.RewardPerWeight = new(big.Int).Add(a.RewardPerWeight, inc)
		a.TotalEmitted = new(big.Int).Add(a.TotalEmitted, rewards)
	} else {
		a.TotalForfeited = new(big.Int).Add(a.TotalForfeited, rewards)
	}
	a.LastSyncedBlock = end
	return rewards, nil
}

type Service struct {
	raw      *solidity.Raw[*Accumulator]
	schedule *emission.Schedule
}

func New(sctx *solidity.Context, schedule *emission.Schedule) *Service {
	return &Service{
		raw:      solidity.NewRaw[*Accumulator](sctx, slotAccumulator),
		schedule: schedule,
	}
}

// Get returns the stored accumulator, a zero one before initialization.
func (s *Service) Get() (*Accumulator, error) {
	a, err := s.raw.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get accumulator")
	}
	if a == nil {
		return newAccumulator(), nil
	}
	return a, nil
}

func (s *Service) Set(a *Accumulator) error {
	if err := s.raw.Upsert(a); err != nil {
		return errors.Wrap(err, "failed to set accumulator")
	}
	return nil
}

// SyncResult describes one Sync call.
type SyncResult struct {
	FromBlock uint32
	ToBlock   uint32
	Rewards   *big.Int
}

// Advanced returns whether the accumulator moved forward.
func (r *SyncResult) Advanced() bool {
	return r.ToBlock > r.FromBlock
}

// Sync advances the stored accumulator to block.
func (s *Service) Sync(block uint32) (*Accumulator, *SyncResult, error) {
	a, err := s.Get()
	if err != nil {
		return nil, nil, err
	}
	res := &SyncResult{FromBlock: a.LastSyncedBlock}
	if res.Rewards, err = a.Advance(s.schedule, block); err != nil {
		return nil, nil, err
	}
	res.ToBlock = a.LastSyncedBlock
	if res.Advanced() {
		if err := s.Set(a); err != nil {
			return nil, nil, err
		}
	}
	return a, res, nil
}

// Preview returns the accumulator as Sync(block) would leave it, without writing.
func (s *Service) Preview(block uint32) (*Accumulator, error) {
	a, err := s.Get()
	if err != nil {
		return nil, err
	}
	if _, err := a.Advance(s.schedule, block); err != nil {
		return nil, err
	}
	return a, nil
}
