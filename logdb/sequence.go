// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import "math"

// sequence orders events by block number then by index within the block.
// It is the primary key of the event table.
type sequence int64

const (
	indexBits = 31
	maxIndex  = math.MaxInt32
)

func newSequence(blockNum uint32, index uint32) sequence {
	if index > maxIndex {
		panic("index too large")
	}
	return sequence(blockNum)<<indexBits | sequence(index)
}

// blockSpan returns the first and last sequence of blocks [from, to].
func blockSpan(from, to uint32) (sequence, sequence) {
	return newSequence(from, 0), newSequence(to, maxIndex)
}

func (s sequence) BlockNumber() uint32 {
	return uint32(s >> indexBits)
}

func (s sequence) Index() uint32 {
	return uint32(s & maxIndex)
}
