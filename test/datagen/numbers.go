// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"math/big"
	mathrand "math/rand/v2"

	"github.com/vechain/corepool/thor"
)

func RandInt() int {
	return mathrand.Int() //#nosec G404
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

func RandUint64N(n uint64) uint64 {
	return mathrand.N(n) //#nosec G404
}

// RandTokens returns a random whole token amount in [1, max] scaled by 1e18.
func RandTokens(max int64) *big.Int {
	return thor.Tokens(1 + mathrand.Int64N(max)) //#nosec G404
}
