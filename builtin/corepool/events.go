// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package corepool

import (
	"math/big"

	"github.com/vechain/corepool/thor"
)

// Event names.
const (
	EventStaked               = "Staked"
	EventUnstaked             = "Unstaked"
	EventStakeLockUpdated     = "StakeLockUpdated"
	EventYieldClaimed         = "YieldClaimed"
	EventSynced               = "Synced"
	EventFactoryUpdated       = "FactoryUpdated"
	EventOwnershipTransferred = "OwnershipTransferred"
	EventRewardLockUpdated    = "RewardLockPeriodUpdated"
	EventMigrated             = "PoolMigrated"
)

type StakedEvent struct {
	User         thor.Address `json:"user"`
	DepositIndex uint64       `json:"depositIndex"`
	Amount       *big.Int     `json:"amount"`
	Timestamp    uint64       `json:"timestamp"`
	LockedUntil  uint64       `json:"lockedUntil"`
}

type UnstakedEvent struct {
	User         thor.Address `json:"user"`
	DepositIndex uint64       `json:"depositIndex"`
	Amount       *big.Int     `json:"amount"`
	Timestamp    uint64       `json:"timestamp"`
}

type StakeLockUpdatedEvent struct {
	User         thor.Address `json:"user"`
	DepositIndex uint64       `json:"depositIndex"`
	LockedFrom   uint64       `json:"lockedFrom"`
	LockedUntil  uint64       `json:"lockedUntil"`
}

type YieldClaimedEvent struct {
	User      thor.Address `json:"user"`
	Amount    *big.Int     `json:"amount"`
	Timestamp uint64       `json:"timestamp"`
	UnlockAt  uint64       `json:"unlockAt,omitempty"`
}

type SyncedEvent struct {
	Block           uint32   `json:"block"`
	Rewards         *big.Int `json:"rewards"`
	RewardPerWeight *big.Int `json:"rewardPerWeight"`
}

type AddressUpdatedEvent struct {
	From thor.Address `json:"from"`
	To   thor.Address `json:"to"`
}

type RewardLockUpdatedEvent struct {
	Period uint32 `json:"period"`
}
