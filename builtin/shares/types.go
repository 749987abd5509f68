// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package shares

import (
	"math/big"

	"github.com/vechain/corepool/builtin/reverts"
	"github.com/vechain/corepool/thor"
)

var (
	ErrZeroAmount          = reverts.NewKind(reverts.KindInput, "shares: zero amount")
	ErrFirstShareBySubject = reverts.NewKind(reverts.KindInput, "shares: only the subject can buy the first share")
	ErrLastShare           = reverts.NewKind(reverts.KindInput, "shares: cannot sell the last share")
	ErrInsufficientShares  = reverts.NewKind(reverts.KindInput, "shares: insufficient shares")
	ErrWishExists          = reverts.NewKind(reverts.KindInput, "shares: wish already exists")
	ErrUnknownWish         = reverts.NewKind(reverts.KindInput, "shares: unknown wish")
	ErrWishBound           = reverts.NewKind(reverts.KindInput, "shares: wish already bound")
	ErrNothingToClaim      = reverts.NewKind(reverts.KindInput, "shares: no reserved fees")
	ErrInvalidConfig       = reverts.NewKind(reverts.KindInput, "shares: invalid config")
	ErrAlreadyInitialized  = reverts.NewKind(reverts.KindInput, "shares: already initialized")
	ErrNotInitialized      = reverts.NewKind(reverts.KindInput, "shares: not initialized")
	ErrNotOwner            = reverts.NewKind(reverts.KindAuth, "shares: caller is not the owner")
	ErrNotOwnerOrFactory   = reverts.NewKind(reverts.KindAuth, "shares: caller is not the owner or factory")
)

// Config of the share market.
type Config struct {
	Owner              thor.Address `json:"owner"`
	Factory            thor.Address `json:"factory"`
	FeeDestination     thor.Address `json:"feeDestination"`
	ProtocolFeePercent *big.Int     `json:"protocolFeePercent"`
	SubjectFeePercent  *big.Int     `json:"subjectFeePercent"`
}

// Validate checks fees are non-negative and sum to at most 100%.
func (c *Config) Validate() error {
	if c.ProtocolFeePercent == nil || c.ProtocolFeePercent.Sign() < 0 ||
		c.SubjectFeePercent == nil || c.SubjectFeePercent.Sign() < 0 {
		return ErrInvalidConfig
	}
	if new(big.Int).Add(c.ProtocolFeePercent, c.SubjectFeePercent).Cmp(FeeScale) > 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Wish is a share market opened for a subject that has not joined yet.
// Subject fees accrue in Reserved until the wish is bound and claimed.
type Wish struct {
	Subject  thor.Address `json:"subject"` // zero until bound
	Reserved *big.Int     `json:"reserved"`
}

func (w *Wish) bound() bool {
	return !w.Subject.IsZero()
}

type holdingKey struct {
	subject thor.Address
	holder  thor.Address
}

func (k holdingKey) Bytes() []byte {
	return append(append(make([]byte, 0, 2*thor.AddressLength), k.subject[:]...), k.holder[:]...)
}

// Event names.
const (
	EventTrade                 = "Trade"
	EventWishCreated           = "WishCreated"
	EventWishBound             = "WishBound"
	EventWishFeeClaimed        = "WishFeeClaimed"
	EventFeeDestinationUpdated = "FeeDestinationUpdated"
	EventFeePercentUpdated     = "FeePercentUpdated"
)

type TradeEvent struct {
	Trader      thor.Address `json:"trader"`
	Subject     thor.Address `json:"subject"`
	IsBuy       bool         `json:"isBuy"`
	ShareAmount uint64       `json:"shareAmount"`
	Price       *big.Int     `json:"price"`
	ProtocolFee *big.Int     `json:"protocolFee"`
	SubjectFee  *big.Int     `json:"subjectFee"`
	Supply      uint64       `json:"supply"`
}

type WishEvent struct {
	Wisher  thor.Address `json:"wisher"`
	Subject thor.Address `json:"subject"`
	Amount  *big.Int     `json:"amount,omitempty"`
}

type AddressEvent struct {
	From thor.Address `json:"from"`
	To   thor.Address `json:"to"`
}

type FeePercentEvent struct {
	Protocol *big.Int `json:"protocol"`
	Subject  *big.Int `json:"subject"`
}
