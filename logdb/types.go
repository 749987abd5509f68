// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"encoding/json"

	"github.com/vechain/corepool/thor"
	"github.com/vechain/corepool/tx"
)

// Event represents tx.Event that can be stored in db.
type Event struct {
	BlockNumber uint32
	BlockTime   uint64
	TxIndex     uint32
	Index       uint32 // within the block
	Address     thor.Address
	Name        string
	Subject     thor.Address
	Data        json.RawMessage
}

// newEvent converts tx.Event to Event.
func newEvent(blockNumber uint32, blockTime uint64, txIndex, index uint32, ev *tx.Event) *Event {
	return &Event{
		BlockNumber: blockNumber,
		BlockTime:   blockTime,
		TxIndex:     txIndex,
		Index:       index,
		Address:     ev.Address,
		Name:        ev.Name,
		Subject:     ev.Subject,
		Data:        ev.Data,
	}
}

type RangeType string

const (
	Block RangeType = "block"
	Time  RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventCriteria matches events on every non-nil field.
type EventCriteria struct {
	Address *thor.Address // contract address
	Name    *string
	Subject *thor.Address
}

// EventFilter filter
type EventFilter struct {
	CriteriaSet []*EventCriteria // any of
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
