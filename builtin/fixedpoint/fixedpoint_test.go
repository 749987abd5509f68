// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fixedpoint

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func bigPow2(n uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), n)
}

func TestMulDiv(t *testing.T) {
	max := new(big.Int).Sub(bigPow2(256), big.NewInt(1))

	tests := []struct {
		name    string
		x, y, d *big.Int
		want    *big.Int
		err     error
	}{
		{"floor", big.NewInt(7), big.NewInt(3), big.NewInt(2), big.NewInt(10), nil},
		{"exact", big.NewInt(6), big.NewInt(4), big.NewInt(8), big.NewInt(3), nil},
		{"zero", big.NewInt(0), big.NewInt(4), big.NewInt(8), big.NewInt(0), nil},
		{"512-bit intermediate", max, big.NewInt(2), big.NewInt(4), new(big.Int).Rsh(max, 1), nil},
		{"overflow", max, big.NewInt(2), big.NewInt(1), nil, ErrOverflow},
		{"div by zero", big.NewInt(1), big.NewInt(1), big.NewInt(0), nil, ErrDivideByZero},
		{"operand too large", bigPow2(256), big.NewInt(1), big.NewInt(1), nil, ErrOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MulDiv(tt.x, tt.y, tt.d)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, 0, tt.want.Cmp(got), "want %v got %v", tt.want, got)
		})
	}

	_, err := MulDiv(big.NewInt(-1), big.NewInt(1), big.NewInt(1))
	assert.Error(t, err)
}

func TestAdd(t *testing.T) {
	got, err := Add(big.NewInt(2), big.NewInt(3))
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(5), got)

	_, err = Add(new(big.Int).Sub(bigPow2(256), big.NewInt(1)), big.NewInt(1))
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestRewardConversions(t *testing.T) {
	// 10 reward over weight 3 => 3333333333333 per weight (scaled by 1e12)
	rpw, err := RewardToWeight(big.NewInt(10), big.NewInt(3))
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(3333333333333), rpw)

	r, err := WeightToReward(big.NewInt(3), rpw)
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(9), r)
}
