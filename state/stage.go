// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/corepool/kv"
)

// Stage abstracts changes on the storage slots.
type Stage struct {
	changes map[storageKey]rlp.RawValue
}

// Len returns the number of changed slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Commit writes all changes into the given putter.
// Slots set to empty value are deleted.
func (s *Stage) Commit(p kv.Putter) error {
	bp := StorageBucket.NewPutter(p)
	for k, v := range s.changes {
		var err error
		if len(v) == 0 {
			err = bp.Delete(k.dbKey())
		} else {
			err = bp.Put(k.dbKey(), v)
		}
		if err != nil {
			return errors.Wrap(err, "commit storage")
		}
	}
	return nil
}
