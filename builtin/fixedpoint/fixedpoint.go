// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fixedpoint provides deterministic 256-bit integer arithmetic
// with floor rounding for reward accounting.
package fixedpoint

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var (
	// RewardPerWeightMultiplier scales rewardPerWeight to keep precision.
	RewardPerWeightMultiplier = big.NewInt(1e12)
	// WeightMultiplier is the weight of one token locked for zero time.
	WeightMultiplier = big.NewInt(1e6)

	ErrOverflow     = errors.New("fixedpoint: overflow")
	ErrDivideByZero = errors.New("fixedpoint: division by zero")
)

func toU256(x *big.Int) (*uint256.Int, error) {
	if x == nil || x.Sign() < 0 {
		return nil, errors.Errorf("fixedpoint: invalid operand %v", x)
	}
	u, overflow := uint256.FromBig(x)
	if overflow {
		return nil, ErrOverflow
	}
	return u, nil
}

// MulDiv returns floor(x * y / d). The intermediate product may use up to
// 512 bits; the result must fit 256 bits.
func MulDiv(x, y, d *big.Int) (*big.Int, error) {
	ux, err := toU256(x)
	if err != nil {
		return nil, err
	}
	uy, err := toU256(y)
	if err != nil {
		return nil, err
	}
	ud, err := toU256(d)
	if err != nil {
		return nil, err
	}
	if ud.IsZero() {
		return nil, ErrDivideByZero
	}
	z, overflow := new(uint256.Int).MulDivOverflow(ux, uy, ud)
	if overflow {
		return nil, ErrOverflow
	}
	return z.ToBig(), nil
}

// Add returns x + y, failing when the sum exceeds 256 bits.
func Add(x, y *big.Int) (*big.Int, error) {
	ux, err := toU256(x)
	if err != nil {
		return nil, err
	}
	uy, err := toU256(y)
	if err != nil {
		return nil, err
	}
	z, overflow := new(uint256.Int).AddOverflow(ux, uy)
	if overflow {
		return nil, ErrOverflow
	}
	return z.ToBig(), nil
}

// WeightToReward converts weight to reward at the given rewardPerWeight.
func WeightToReward(weight, rewardPerWeight *big.Int) (*big.Int, error) {
	return MulDiv(weight, rewardPerWeight, RewardPerWeightMultiplier)
}

// RewardToWeight converts reward to the rewardPerWeight increment over totalWeight.
func RewardToWeight(reward, totalWeight *big.Int) (*big.Int, error) {
	return MulDiv(reward, RewardPerWeightMultiplier, totalWeight)
}
