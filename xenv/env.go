// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

// Clock reports the block the current call executes in.
type Clock interface {
	BlockNumber() uint32
	BlockTime() uint64
}

// BlockContext block context.
type BlockContext struct {
	Number uint32
	Time   uint64
}

var _ Clock = (*BlockContext)(nil)

func (b *BlockContext) BlockNumber() uint32 { return b.Number }
func (b *BlockContext) BlockTime() uint64   { return b.Time }

// Advance moves the block forward by blocks and seconds.
func (b *BlockContext) Advance(blocks uint32, seconds uint64) {
	b.Number += blocks
	b.Time += seconds
}

// Set jumps to the given block.
func (b *BlockContext) Set(number uint32, time uint64) {
	b.Number = number
	b.Time = time
}
