// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package health tracks the progress of the replayed pool state.
package health

import (
	"sync"
	"time"
)

type Head struct {
	Number    uint32     `json:"number"`
	Time      uint64     `json:"time"`
	AppliedAt *time.Time `json:"appliedAt"`
}

type Status struct {
	Healthy   bool  `json:"healthy"`
	Head      *Head `json:"head"`
	Replaying bool  `json:"replaying"`
}

// Health is healthy once a head is known and no replay is running.
type Health struct {
	lock      sync.RWMutex
	head      *Head
	appliedAt time.Time
	replaying bool
}

func New() *Health {
	return &Health{}
}

// NewHead records the block just committed.
func (h *Health) NewHead(number uint32, blockTime uint64) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.appliedAt = time.Now()
	h.head = &Head{Number: number, Time: blockTime}
}

func (h *Health) Replaying(replaying bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.replaying = replaying
}

func (h *Health) Status() (*Status, error) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	var head *Head
	if h.head != nil {
		appliedAt := h.appliedAt
		head = &Head{Number: h.head.Number, Time: h.head.Time, AppliedAt: &appliedAt}
	}
	return &Status{
		Healthy:   head != nil && !h.replaying,
		Head:      head,
		Replaying: h.replaying,
	}, nil
}
