// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package deposit

import (
	"encoding/binary"
	"math/big"

	"github.com/vechain/corepool/thor"
)

// Deposit is one time-locked stake of a user.
type Deposit struct {
	Amount      *big.Int `json:"amount"`
	Weight      *big.Int `json:"weight"`
	LockedFrom  uint64   `json:"lockedFrom"`
	LockedUntil uint64   `json:"lockedUntil"`
}

// IsEmpty returns whether the deposit was fully withdrawn.
func (d *Deposit) IsEmpty() bool {
	return d.Amount == nil || d.Amount.Sign() == 0
}

// Unlocked returns whether the deposit may be withdrawn at now.
func (d *Deposit) Unlocked(now uint64) bool {
	return now >= d.LockedUntil
}

// User is the per-user record.
type User struct {
	TotalWeight  *big.Int `json:"totalWeight"`
	RewardDebt   *big.Int `json:"rewardDebt"`
	TotalStaked  *big.Int `json:"totalStaked"`
	TotalClaimed *big.Int `json:"totalClaimed"`
	DepositCount uint64   `json:"depositCount"`
}

func newUser() *User {
	return &User{
		TotalWeight:  new(big.Int),
		RewardDebt:   new(big.Int),
		TotalStaked:  new(big.Int),
		TotalClaimed: new(big.Int),
	}
}

type key struct {
	user  thor.Address
	index uint64
}

func (k key) Bytes() []byte {
	b := make([]byte, thor.AddressLength+8)
	copy(b, k.user[:])
	binary.BigEndian.PutUint64(b[thor.AddressLength:], k.index)
	return b
}
