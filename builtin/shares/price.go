// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package shares

import (
	"math/big"

	"github.com/vechain/corepool/thor"
)

// FeeScale is the denominator of fee percentages, 1e18 is 100%.
var FeeScale = new(big.Int).Set(thor.Ether)

var curveDivisor = big.NewInt(16000)

// sumOfSquares returns 0² + 1² + ... + (n-1)².
func sumOfSquares(n uint64) *big.Int {
	if n == 0 {
		return new(big.Int)
	}
	nn := new(big.Int).SetUint64(n)
	m := new(big.Int).Sub(nn, big.NewInt(1))
	twice := new(big.Int).Lsh(nn, 1)
	twice.Sub(twice, big.NewInt(1))
	s := new(big.Int).Mul(m, nn)
	s.Mul(s, twice)
	return s.Div(s, big.NewInt(6))
}

// Price returns the cost of shares supply .. supply+amount-1 on the
// quadratic curve, sum(i²) * 1e18 / 16000.
func Price(supply, amount uint64) *big.Int {
	sum := new(big.Int).Sub(sumOfSquares(supply+amount), sumOfSquares(supply))
	sum.Mul(sum, thor.Ether)
	return sum.Div(sum, curveDivisor)
}

// Fee returns price * percent / 1e18.
func Fee(price, percent *big.Int) *big.Int {
	fee := new(big.Int).Mul(price, percent)
	return fee.Div(fee, FeeScale)
}

// Quote is the full cost breakdown of a trade.
type Quote struct {
	Price       *big.Int `json:"price"`
	ProtocolFee *big.Int `json:"protocolFee"`
	SubjectFee  *big.Int `json:"subjectFee"`
}

// BuyTotal is what the buyer pays.
func (q *Quote) BuyTotal() *big.Int {
	total := new(big.Int).Add(q.Price, q.ProtocolFee)
	return total.Add(total, q.SubjectFee)
}

// SellProceeds is what the seller receives.
func (q *Quote) SellProceeds() *big.Int {
	out := new(big.Int).Sub(q.Price, q.ProtocolFee)
	return out.Sub(out, q.SubjectFee)
}

func (c *Config) quote(supply, amount uint64) *Quote {
	price := Price(supply, amount)
	return &Quote{
		Price:       price,
		ProtocolFee: Fee(price, c.ProtocolFeePercent),
		SubjectFee:  Fee(price, c.SubjectFeePercent),
	}
}
