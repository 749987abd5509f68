// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/vechain/corepool/builtin/corepool"
	"github.com/vechain/corepool/builtin/shares"
	"github.com/vechain/corepool/builtin/solidity"
	"github.com/vechain/corepool/builtin/token"
	"github.com/vechain/corepool/state"
	"github.com/vechain/corepool/thor"
	"github.com/vechain/corepool/xenv"
)

// Well known contract addresses.
var (
	TokenAddress  = thor.BytesToAddress([]byte("CoreToken"))
	PoolAddress   = thor.BytesToAddress([]byte("CorePool"))
	SharesAddress = thor.BytesToAddress([]byte("CoreShares"))
)

// Contracts binds the deployed contracts to one state and clock.
type Contracts struct {
	State  *state.State
	Token  *token.Token
	Pool   *corepool.Pool
	Shares *shares.Market
}

// Open binds the contracts at their well known addresses.
func Open(st *state.State, clock xenv.Clock, meter *solidity.Meter) *Contracts {
	tok := token.New(TokenAddress, st, clock, meter)
	return &Contracts{
		State:  st,
		Token:  tok,
		Pool:   corepool.New(PoolAddress, st, clock, tok, meter),
		Shares: shares.New(SharesAddress, st, tok, meter),
	}
}
