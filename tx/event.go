// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"encoding/json"

	"github.com/vechain/corepool/thor"
)

// Event is an observable record emitted by a contract operation.
type Event struct {
	// address of the emitting contract
	Address thor.Address `json:"address"`
	// event name, e.g. Staked
	Name string `json:"name"`
	// the account the event is about, indexed for filtering
	Subject thor.Address `json:"subject"`
	// json encoded event body
	Data json.RawMessage `json:"data"`
}

// NewEvent encodes body into a new event.
func NewEvent(addr thor.Address, name string, subject thor.Address, body any) (*Event, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return &Event{Address: addr, Name: name, Subject: subject, Data: data}, nil
}

// Decode decodes the event body into v.
func (e *Event) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}

// Events slice of event logs.
type Events []*Event

// Filter returns events with the given name.
func (es Events) Filter(name string) Events {
	var out Events
	for _, e := range es {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
