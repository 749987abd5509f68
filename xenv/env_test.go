// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlockContext(t *testing.T) {
	var clock Clock = &BlockContext{Number: 10, Time: 1000}
	assert.Equal(t, uint32(10), clock.BlockNumber())
	assert.Equal(t, uint64(1000), clock.BlockTime())

	bc := clock.(*BlockContext)
	bc.Advance(5, 50)
	assert.Equal(t, uint32(15), clock.BlockNumber())
	assert.Equal(t, uint64(1050), clock.BlockTime())

	bc.Set(1, 2)
	assert.Equal(t, uint32(1), clock.BlockNumber())
	assert.Equal(t, uint64(2), clock.BlockTime())
}
