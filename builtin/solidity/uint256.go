// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/corepool/thor"
)

// Uint256 is a 256-bit unsigned storage slot.
type Uint256 struct {
	context *Context
	pos     thor.Bytes32
}

func NewUint256(context *Context, slot thor.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: slot}
}

func (u *Uint256) Get() (*big.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	u.context.meter.read(32)
	return storage.Big(), nil
}

func (u *Uint256) Set(value *big.Int) error {
	word, err := thor.BigToBytes32(value)
	if err != nil {
		return errors.WithMessagef(err, "uint256 out of range: %v", value)
	}
	u.context.meter.write(32)
	u.context.state.SetStorage(u.context.address, u.pos, word)
	return nil
}

func (u *Uint256) Add(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(storage.Add(storage, value))
}

func (u *Uint256) Sub(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	if storage.Cmp(value) < 0 {
		return errors.New("uint256 underflow")
	}
	return u.Set(storage.Sub(storage, value))
}
