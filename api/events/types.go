// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"encoding/json"
	"math"

	"github.com/vechain/corepool/logdb"
	"github.com/vechain/corepool/thor"
)

type Range struct {
	Unit logdb.RangeType `json:"unit"`
	From *uint64         `json:"from,omitempty"`
	To   *uint64         `json:"to,omitempty"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type Criteria struct {
	Address *thor.Address `json:"address"`
	Name    *string       `json:"name"`
	Subject *thor.Address `json:"subject"`
}

// Filter is the request body of the events query.
type Filter struct {
	CriteriaSet []*Criteria `json:"criteriaSet"`
	Range       *Range      `json:"range"`
	Options     *Options    `json:"options"`
	Order       logdb.Order `json:"order"`
}

type Meta struct {
	BlockNumber uint32 `json:"blockNumber"`
	BlockTime   uint64 `json:"blockTime"`
	TxIndex     uint32 `json:"txIndex"`
	LogIndex    uint32 `json:"logIndex"`
}

// FilteredEvent is an indexed event as returned to clients.
type FilteredEvent struct {
	Address thor.Address    `json:"address"`
	Name    string          `json:"name"`
	Subject thor.Address    `json:"subject"`
	Data    json.RawMessage `json:"data"`
	Meta    Meta            `json:"meta"`
}

func convertEvent(e *logdb.Event) *FilteredEvent {
	return &FilteredEvent{
		Address: e.Address,
		Name:    e.Name,
		Subject: e.Subject,
		Data:    e.Data,
		Meta: Meta{
			BlockNumber: e.BlockNumber,
			BlockTime:   e.BlockTime,
			TxIndex:     e.TxIndex,
			LogIndex:    e.Index,
		},
	}
}

func convertFilter(f *Filter) *logdb.EventFilter {
	ef := &logdb.EventFilter{Order: f.Order}
	if f.Range != nil {
		rng := &logdb.Range{Unit: f.Range.Unit, To: math.MaxInt64}
		if f.Range.From != nil {
			rng.From = *f.Range.From
		}
		if f.Range.To != nil {
			rng.To = *f.Range.To
		}
		ef.Range = rng
	}
	if f.Options != nil {
		ef.Options = &logdb.Options{Offset: f.Options.Offset, Limit: f.Options.Limit}
	}
	for _, c := range f.CriteriaSet {
		ef.CriteriaSet = append(ef.CriteriaSet, &logdb.EventCriteria{
			Address: c.Address,
			Name:    c.Name,
			Subject: c.Subject,
		})
	}
	return ef
}
