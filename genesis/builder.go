// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/vechain/corepool/state"
	"github.com/vechain/corepool/tx"
	"github.com/vechain/corepool/xenv"
)

// Builder helper to build the genesis state.
type Builder struct {
	number    uint32
	timestamp uint64
	calls     []call
}

type call struct {
	name string
	proc func(c *Contracts) error
}

// At sets the genesis block number and timestamp.
func (b *Builder) At(number uint32, timestamp uint64) *Builder {
	b.number = number
	b.timestamp = timestamp
	return b
}

// Call adds a named contract call.
func (b *Builder) Call(name string, proc func(c *Contracts) error) *Builder {
	b.calls = append(b.calls, call{name, proc})
	return b
}

// Build runs the calls in order against st and returns the emitted events.
// st is left untouched when a call fails.
func (b *Builder) Build(st *state.State) (tx.Events, error) {
	clock := &xenv.BlockContext{Number: b.number, Time: b.timestamp}
	contracts := Open(st, clock, nil)

	rev := st.NewCheckpoint()
	before := len(st.Events())
	for _, c := range b.calls {
		if err := c.proc(contracts); err != nil {
			st.RevertTo(rev)
			return nil, errors.Wrap(err, c.name)
		}
	}
	return st.Events()[before:], nil
}
