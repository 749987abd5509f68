// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/corepool/thor"
)

// DevAccounts returns the pre-funded accounts of the devnet.
func DevAccounts() []thor.Address {
	accounts := make([]thor.Address, 0, 10)
	for i := range 10 {
		accounts = append(accounts, thor.BytesToAddress([]byte(fmt.Sprintf("dev-account-%d", i))))
	}
	return accounts
}

// DevOwner owns the devnet contracts.
var DevOwner = thor.BytesToAddress([]byte("dev-owner"))

// NewDevnet returns a genesis with the default pool parameters, a share
// market with 5% fees and 1M tokens for each dev account.
func NewDevnet(block uint32, time uint64) *Genesis {
	fivePercent := func() *math.HexOrDecimal256 {
		return (*math.HexOrDecimal256)(big.NewInt(5e16))
	}
	gen := &Genesis{
		Block: block,
		Time:  time,
		Owner: DevOwner,
		Shares: &Shares{
			FeeDestination:     DevOwner,
			ProtocolFeePercent: fivePercent(),
			SubjectFeePercent:  fivePercent(),
		},
	}
	for _, addr := range DevAccounts() {
		gen.Accounts = append(gen.Accounts, Account{
			Address: addr,
			Balance: (*math.HexOrDecimal256)(thor.Tokens(1_000_000)),
		})
	}
	return gen
}
