// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/vechain/corepool/thor"
)

// Minter is an account allowed to mint, bounded by a total and a daily cap.
type Minter struct {
	Cap         *big.Int // total mintable, zero blocks minting
	DailyCap    *big.Int // mintable per day, zero means no daily bound
	Minted      *big.Int
	Day         uint64 // day index of MintedToday
	MintedToday *big.Int
}

func (m *Minter) remaining() *big.Int {
	return new(big.Int).Sub(m.Cap, m.Minted)
}

// Lock is a slice of balance that cannot be transferred before UnlockAt.
type Lock struct {
	Amount   *big.Int
	UnlockAt uint64
}

type lockLedger struct {
	Locks []Lock
}

// locked sums locks still in force at now.
func (l *lockLedger) locked(now uint64) *big.Int {
	sum := new(big.Int)
	for _, lk := range l.Locks {
		if lk.UnlockAt > now {
			sum.Add(sum, lk.Amount)
		}
	}
	return sum
}

// release drops expired locks and returns the amount they held.
func (l *lockLedger) release(now uint64) *big.Int {
	released := new(big.Int)
	kept := l.Locks[:0]
	for _, lk := range l.Locks {
		if lk.UnlockAt > now {
			kept = append(kept, lk)
		} else {
			released.Add(released, lk.Amount)
		}
	}
	l.Locks = kept
	return released
}

type allowanceKey struct {
	owner   thor.Address
	spender thor.Address
}

func (k allowanceKey) Bytes() []byte {
	return append(append(make([]byte, 0, 2*thor.AddressLength), k.owner[:]...), k.spender[:]...)
}

// event bodies

type transferEvent struct {
	From  thor.Address `json:"from"`
	To    thor.Address `json:"to"`
	Value *big.Int     `json:"value"`
}

type approvalEvent struct {
	Owner   thor.Address `json:"owner"`
	Spender thor.Address `json:"spender"`
	Value   *big.Int     `json:"value"`
}

type lockedEvent struct {
	To       thor.Address `json:"to"`
	Value    *big.Int     `json:"value"`
	UnlockAt uint64       `json:"unlockAt"`
}

type minterEvent struct {
	Minter   thor.Address `json:"minter"`
	Cap      *big.Int     `json:"cap"`
	DailyCap *big.Int     `json:"dailyCap"`
}
