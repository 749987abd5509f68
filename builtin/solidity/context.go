// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/corepool/state"
	"github.com/vechain/corepool/thor"
)

// Meter counts the 32-byte storage words touched through a Context.
type Meter struct {
	Reads  uint64
	Writes uint64
}

func (m *Meter) read(n int) {
	if m != nil {
		m.Reads += words(n)
	}
}

func (m *Meter) write(n int) {
	if m != nil {
		m.Writes += words(n)
	}
}

func words(n int) uint64 {
	if n <= 32 {
		return 1
	}
	return (uint64(n) + 31) / 32
}

// Context binds storage helpers to a contract address.
type Context struct {
	address thor.Address
	state   *state.State
	meter   *Meter
}

// NewContext creates a storage context. meter may be nil.
func NewContext(address thor.Address, state *state.State, meter *Meter) *Context {
	return &Context{
		address: address,
		state:   state,
		meter:   meter,
	}
}

func (c *Context) Address() thor.Address { return c.address }
func (c *Context) State() *state.State   { return c.state }
func (c *Context) Meter() *Meter         { return c.meter }
