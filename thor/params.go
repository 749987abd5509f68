// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import "math/big"

// Chain timing used by the pool schedule.
const (
	SecondsPerDay uint64 = 86400
	BlocksPerDay  uint32 = 42000
	// BlocksPerWeek is the default emission decay period.
	BlocksPerWeek uint32 = BlocksPerDay * 7

	// MaxLockDuration caps the total lock of a deposit, measured from its stake time.
	MaxLockDuration uint64 = 365 * SecondsPerDay
)

// Ether is 1e18, the base unit scale of the reward token.
var Ether = big.NewInt(1e18)

// Tokens returns n whole tokens in base units.
func Tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), Ether)
}
