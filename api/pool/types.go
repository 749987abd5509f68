// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/corepool/builtin/corepool"
	"github.com/vechain/corepool/builtin/corepool/deposit"
	"github.com/vechain/corepool/thor"
)

func hexOrDecimal(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

// Summary is the pool state as of a block.
type Summary struct {
	Block                 uint32                `json:"block"`
	StartBlock            uint32                `json:"startBlock"`
	EndBlock              uint32                `json:"endBlock"`
	RewardPerBlock        *math.HexOrDecimal256 `json:"rewardPerBlock"`
	RewardPerWeight       *math.HexOrDecimal256 `json:"rewardPerWeight"`
	TotalWeight           *math.HexOrDecimal256 `json:"totalWeight"`
	TotalStaked           *math.HexOrDecimal256 `json:"totalStaked"`
	LastSyncedBlock       uint32                `json:"lastSyncedBlock"`
	TotalEmitted          *math.HexOrDecimal256 `json:"totalEmitted"`
	TotalForfeited        *math.HexOrDecimal256 `json:"totalForfeited"`
	TotalYieldDistributed *math.HexOrDecimal256 `json:"totalYieldDistributed"`
	RewardLockPeriod      uint32                `json:"rewardLockPeriod"`
	MigratedTo            *thor.Address         `json:"migratedTo"`
}

func newSummary(s *corepool.Stats) *Summary {
	sum := &Summary{
		Block:                 s.Block,
		StartBlock:            s.StartBlock,
		EndBlock:              s.EndBlock,
		RewardPerBlock:        hexOrDecimal(s.RewardPerBlock),
		RewardPerWeight:       hexOrDecimal(s.RewardPerWeight),
		TotalWeight:           hexOrDecimal(s.TotalWeight),
		TotalStaked:           hexOrDecimal(s.TotalStaked),
		LastSyncedBlock:       s.LastSyncedBlock,
		TotalEmitted:          hexOrDecimal(s.TotalEmitted),
		TotalForfeited:        hexOrDecimal(s.TotalForfeited),
		TotalYieldDistributed: hexOrDecimal(s.TotalYieldDistributed),
		RewardLockPeriod:      s.RewardLockPeriod,
	}
	if !s.MigratedTo.IsZero() {
		to := s.MigratedTo
		sum.MigratedTo = &to
	}
	return sum
}

// User is the user record with the rewards claimable at the block.
type User struct {
	Block          uint32                `json:"block"`
	TotalWeight    *math.HexOrDecimal256 `json:"totalWeight"`
	TotalStaked    *math.HexOrDecimal256 `json:"totalStaked"`
	RewardDebt     *math.HexOrDecimal256 `json:"rewardDebt"`
	TotalClaimed   *math.HexOrDecimal256 `json:"totalClaimed"`
	PendingRewards *math.HexOrDecimal256 `json:"pendingRewards"`
	DepositCount   uint64                `json:"depositCount"`
}

func newUser(block uint32, u *deposit.User, pending *big.Int) *User {
	return &User{
		Block:          block,
		TotalWeight:    hexOrDecimal(u.TotalWeight),
		TotalStaked:    hexOrDecimal(u.TotalStaked),
		RewardDebt:     hexOrDecimal(u.RewardDebt),
		TotalClaimed:   hexOrDecimal(u.TotalClaimed),
		PendingRewards: hexOrDecimal(pending),
		DepositCount:   u.DepositCount,
	}
}

type Deposit struct {
	Index       uint64                `json:"index"`
	Amount      *math.HexOrDecimal256 `json:"amount"`
	Weight      *math.HexOrDecimal256 `json:"weight"`
	LockedFrom  uint64                `json:"lockedFrom"`
	LockedUntil uint64                `json:"lockedUntil"`
	Unlocked    bool                  `json:"unlocked"`
}

func newDeposit(index uint64, d *deposit.Deposit, now uint64) *Deposit {
	return &Deposit{
		Index:       index,
		Amount:      hexOrDecimal(d.Amount),
		Weight:      hexOrDecimal(d.Weight),
		LockedFrom:  d.LockedFrom,
		LockedUntil: d.LockedUntil,
		Unlocked:    d.Unlocked(now),
	}
}
