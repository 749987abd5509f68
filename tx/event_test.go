// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/corepool/thor"
)

func TestEventEncodeDecode(t *testing.T) {
	type body struct {
		Amount string `json:"amount"`
	}
	addr := thor.BytesToAddress([]byte("pool"))
	user := thor.BytesToAddress([]byte("user"))

	ev, err := NewEvent(addr, "Staked", user, body{"100"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"100"}`, string(ev.Data))

	var got body
	require.NoError(t, ev.Decode(&got))
	assert.Equal(t, "100", got.Amount)
}

func TestEventsFilter(t *testing.T) {
	es := Events{{Name: "A"}, {Name: "B"}, {Name: "A"}}
	assert.Len(t, es.Filter("A"), 2)
	assert.Empty(t, es.Filter("C"))

	rs := Receipts{{Reverted: true}, {}, {Reverted: true}}
	assert.Equal(t, 2, rs.Failed())
}
