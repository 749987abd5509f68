// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package corepool

import (
	"github.com/pkg/errors"

	"github.com/vechain/corepool/builtin/corepool/weight"
	"github.com/vechain/corepool/builtin/reverts"
)

var (
	ErrZeroAmount           = reverts.NewKind(reverts.KindInput, "corepool: zero amount")
	ErrLockTooShort         = weight.ErrLockTooShort
	ErrInvalidNewLock       = reverts.NewKind(reverts.KindInput, "corepool: invalid new lock")
	ErrMaxLockExceeded      = reverts.NewKind(reverts.KindInput, "corepool: max lock exceeded")
	ErrAmountExceedsDeposit = reverts.NewKind(reverts.KindInput, "corepool: amount exceeds stake")
	ErrUnknownDeposit       = reverts.NewKind(reverts.KindInput, "corepool: unknown deposit")
	ErrEmptyDeposit         = reverts.NewKind(reverts.KindInput, "corepool: deposit already withdrawn")
	ErrInvalidConfig        = reverts.NewKind(reverts.KindInput, "corepool: invalid config")
	ErrAlreadyInitialized   = reverts.NewKind(reverts.KindInput, "corepool: already initialized")
	ErrNotInitialized       = reverts.NewKind(reverts.KindInput, "corepool: not initialized")
	ErrPoolMigrated         = reverts.NewKind(reverts.KindInput, "corepool: pool migrated")
	ErrTooEarly             = reverts.NewKind(reverts.KindTemporal, "corepool: too early to unstake")
	ErrNotOwner             = reverts.NewKind(reverts.KindAuth, "corepool: caller is not the owner")
	ErrNotOwnerOrFactory    = reverts.NewKind(reverts.KindAuth, "corepool: caller is not the owner or factory")
)

func invalidConfig(reason string) error {
	return errors.WithMessage(ErrInvalidConfig, reason)
}
