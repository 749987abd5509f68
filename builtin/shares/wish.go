// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package shares

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/corepool/thor"
)

// CreateWishPass opens a market for the placeholder wisher. The first share
// is issued to the wisher itself so that anyone may trade right away.
func (m *Market) CreateWishPass(caller, wisher thor.Address) error {
	return m.execute(func() error {
		if _, err := m.onlyOwnerOrFactory(caller); err != nil {
			return err
		}
		supply, err := m.SharesSupply(wisher)
		if err != nil {
			return err
		}
		existing, err := m.GetWish(wisher)
		if err != nil {
			return err
		}
		if supply > 0 || existing != nil {
			return ErrWishExists
		}
		if err := m.wishes.Insert(wisher, &Wish{Reserved: new(big.Int)}); err != nil {
			return errors.Wrap(err, "failed to add wish")
		}
		if err := m.adjust(wisher, wisher, 0, 1); err != nil {
			return err
		}
		return m.emit(EventWishCreated, wisher, &WishEvent{Wisher: wisher})
	})
}

// BindWishPass links the wish to the subject that joined. Later subject fees
// of the market go to the subject directly.
func (m *Market) BindWishPass(caller, wisher, subject thor.Address) error {
	return m.execute(func() error {
		if _, err := m.onlyOwnerOrFactory(caller); err != nil {
			return err
		}
		if subject.IsZero() {
			return ErrInvalidConfig
		}
		wish, err := m.GetWish(wisher)
		if err != nil {
			return err
		}
		if wish == nil {
			return ErrUnknownWish
		}
		if wish.bound() {
			return ErrWishBound
		}
		if other, err := m.WishOf(subject); err != nil {
			return err
		} else if !other.IsZero() {
			return ErrWishBound
		}
		if err := m.bindings.Insert(subject, wisher); err != nil {
			return errors.Wrap(err, "failed to bind wish")
		}
		wish.Subject = subject
		if err := m.wishes.Update(wisher, wish); err != nil {
			return errors.Wrap(err, "failed to update wish")
		}
		return m.emit(EventWishBound, subject, &WishEvent{Wisher: wisher, Subject: subject})
	})
}

// ClaimReservedWishFee pays subject the fees its wish market reserved
// before the wish was bound, and returns the amount.
func (m *Market) ClaimReservedWishFee(subject thor.Address) (*big.Int, error) {
	var amount *big.Int
	err := m.execute(func() error {
		wisher, err := m.WishOf(subject)
		if err != nil {
			return err
		}
		if wisher.IsZero() {
			return ErrUnknownWish
		}
		wish, err := m.GetWish(wisher)
		if err != nil {
			return err
		}
		if wish.Reserved.Sign() == 0 {
			return ErrNothingToClaim
		}
		amount = wish.Reserved
		wish.Reserved = new(big.Int)
		if err := m.wishes.Update(wisher, wish); err != nil {
			return errors.Wrap(err, "failed to update wish")
		}
		if err := m.pay(subject, amount); err != nil {
			return err
		}
		return m.emit(EventWishFeeClaimed, subject, &WishEvent{Wisher: wisher, Subject: subject, Amount: amount})
	})
	if err != nil {
		return nil, err
	}
	return amount, nil
}
