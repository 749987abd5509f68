// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package deposit is the per-user deposit ledger. Deposits keep their index
// for life; a withdrawn deposit stays in place with zero amount and weight.
package deposit

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/corepool/builtin/solidity"
	"github.com/vechain/corepool/thor"
)

var (
	slotUsers    = thor.NameToSlot("pool-users")
	slotDeposits = thor.NameToSlot("pool-deposits")
)

type Service struct {
	users    *solidity.Mapping[thor.Address, *User]
	deposits *solidity.Mapping[key, *Deposit]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		users:    solidity.NewMapping[thor.Address, *User](sctx, slotUsers),
		deposits: solidity.NewMapping[key, *Deposit](sctx, slotDeposits),
	}
}

// GetUser returns the user record, a zero record for unknown users.
func (s *Service) GetUser(addr thor.Address) (*User, error) {
	u, err := s.users.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user")
	}
	if u == nil {
		return newUser(), nil
	}
	return u, nil
}

func (s *Service) SetUser(addr thor.Address, u *User) error {
	if err := s.users.Upsert(addr, u); err != nil {
		return errors.Wrap(err, "failed to set user")
	}
	return nil
}

// GetDeposit returns the deposit at index, nil if index is out of range.
func (s *Service) GetDeposit(addr thor.Address, index uint64) (*Deposit, error) {
	d, err := s.deposits.Get(key{addr, index})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get deposit")
	}
	return d, nil
}

// Add appends dep to the user's ledger and returns its index. The user's
// count, weight and principal are updated in place; the caller stores u.
func (s *Service) Add(addr thor.Address, u *User, dep *Deposit) (uint64, error) {
	index := u.DepositCount
	if err := s.deposits.Insert(key{addr, index}, dep); err != nil {
		return 0, errors.Wrap(err, "failed to add deposit")
	}
	u.DepositCount++
	u.TotalWeight = new(big.Int).Add(u.TotalWeight, dep.Weight)
	u.TotalStaked = new(big.Int).Add(u.TotalStaked, dep.Amount)
	return index, nil
}

// Update stores a modified deposit at an existing index.
func (s *Service) Update(addr thor.Address, index uint64, dep *Deposit) error {
	if err := s.deposits.Update(key{addr, index}, dep); err != nil {
		return errors.Wrap(err, "failed to update deposit")
	}
	return nil
}

// List returns all deposits of addr in index order, withdrawn ones included.
func (s *Service) List(addr thor.Address) ([]*Deposit, error) {
	u, err := s.GetUser(addr)
	if err != nil {
		return nil, err
	}
	out := make([]*Deposit, 0, u.DepositCount)
	for i := range u.DepositCount {
		d, err := s.GetDeposit(addr, i)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
