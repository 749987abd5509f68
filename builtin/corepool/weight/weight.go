// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package weight converts a locked amount into stake weight.
//
//	weight = amount * (W + duration * W / maxLock), W = 1e6
//
// A deposit locked for maxLock weighs twice as much as an unlocked one.
package weight

import (
	"math/big"

	"github.com/vechain/corepool/builtin/fixedpoint"
	"github.com/vechain/corepool/builtin/reverts"
)

var ErrLockTooShort = reverts.NewKind(reverts.KindInput, "lock duration too short")

// Factor returns the per-token weight for a lock duration, saturating at maxLock.
func Factor(duration, maxLock uint64) *big.Int {
	duration = min(duration, maxLock)
	f := new(big.Int).SetUint64(duration)
	f.Mul(f, fixedpoint.WeightMultiplier)
	if maxLock > 0 {
		f.Quo(f, new(big.Int).SetUint64(maxLock))
	}
	return f.Add(f, fixedpoint.WeightMultiplier)
}

// Compute returns the weight of a fresh lock. Durations under minLock fail.
func Compute(amount *big.Int, duration, minLock, maxLock uint64) (*big.Int, error) {
	if duration < minLock {
		return nil, ErrLockTooShort
	}
	return Saturate(amount, duration, maxLock), nil
}

// Saturate returns the weight of amount with duration clamped to maxLock.
func Saturate(amount *big.Int, duration, maxLock uint64) *big.Int {
	return new(big.Int).Mul(amount, Factor(duration, maxLock))
}

// Rescale keeps the per-token factor of a deposit when its amount changes.
func Rescale(weight, oldAmount, newAmount *big.Int) (*big.Int, error) {
	if newAmount.Sign() == 0 {
		return new(big.Int), nil
	}
	return fixedpoint.MulDiv(weight, newAmount, oldAmount)
}
