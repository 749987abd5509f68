// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import "github.com/vechain/corepool/thor"

// Receipt represents the result of one executed call.
type Receipt struct {
	// operation name
	Op string `json:"op"`
	// caller of the operation
	Caller thor.Address `json:"caller"`
	// block the call was executed in
	BlockNumber uint32 `json:"blockNumber"`
	BlockTime   uint64 `json:"blockTime"`
	// whether the call was reverted
	Reverted bool `json:"reverted"`
	// revert reason, empty on success
	Error string `json:"error,omitempty"`
	// events produced, empty when reverted
	Events Events `json:"events"`
}

// Receipts slice of receipts.
type Receipts []*Receipt

// Failed returns the number of reverted receipts.
func (rs Receipts) Failed() (n int) {
	for _, r := range rs {
		if r.Reverted {
			n++
		}
	}
	return
}
