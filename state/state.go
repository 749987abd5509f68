// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/corepool/kv"
	"github.com/vechain/corepool/stackedmap"
	"github.com/vechain/corepool/thor"
	"github.com/vechain/corepool/tx"
)

// StorageBucket is the kv bucket holding committed storage slots.
const StorageBucket kv.Bucket = "s"

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr thor.Address
	key  thor.Bytes32
}

func (k storageKey) dbKey() []byte {
	return append(append(make([]byte, 0, thor.AddressLength+32), k.addr[:]...), k.key[:]...)
}

// State manages the storage slots of all contracts.
type State struct {
	db     kv.Getter
	sm     *stackedmap.StackedMap[storageKey, rlp.RawValue]
	events tx.Events
	marks  []int // events count at each checkpoint
}

// New create a state object backed by db.
// A nil db starts from empty storage.
func New(db kv.Getter) *State {
	s := &State{}
	if db != nil {
		s.db = StorageBucket.NewGetter(db)
	}
	s.sm = stackedmap.New(s.cacheGetter)
	return s
}

func (s *State) cacheGetter(key storageKey) (rlp.RawValue, bool, error) {
	if s.db == nil {
		return nil, true, nil
	}
	v, err := s.db.Get(key.dbKey())
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, true, nil
		}
		return nil, false, err
	}
	return v, true, nil
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr thor.Address, key thor.Bytes32) (thor.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return thor.Bytes32{}, err
	}
	if len(raw) == 0 {
		return thor.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return thor.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return thor.Blake2b(raw), nil
	}
	return thor.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr thor.Address, key, value thor.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(trimLeft(value[:]))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// AddEvent appends an event to the current revision.
func (s *State) AddEvent(ev *tx.Event) {
	s.events = append(s.events, ev)
}

// Events returns all events emitted and not reverted.
func (s *State) Events() tx.Events {
	return append(tx.Events(nil), s.events...)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	s.marks = append(s.marks, len(s.events))
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
// Storage writes and events since the checkpoint are dropped.
func (s *State) RevertTo(revision int) {
	if revision < 1 || revision > len(s.marks) {
		return
	}
	s.sm.PopTo(revision)
	s.events = s.events[:s.marks[revision-1]]
	s.marks = s.marks[:revision-1]
}

// Stage makes a stage object holding the net changes of all revisions.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(k storageKey, v rlp.RawValue) bool {
		changes[k] = v
		return true
	})
	return &Stage{changes: changes}
}

func trimLeft(b []byte) []byte {
	for i, c := range b {
		if c != 0 {
			return b[i:]
		}
	}
	return nil
}
