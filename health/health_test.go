// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_NoHead(t *testing.T) {
	h := New()

	status, err := h.Status()
	require.NoError(t, err)
	assert.False(t, status.Healthy)
	assert.Nil(t, status.Head)
}

func TestHealth_NewHead(t *testing.T) {
	h := New()
	h.NewHead(42, 1_700_000_000)

	status, err := h.Status()
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	require.NotNil(t, status.Head)
	assert.Equal(t, uint32(42), status.Head.Number)
	assert.Equal(t, uint64(1_700_000_000), status.Head.Time)
	require.NotNil(t, status.Head.AppliedAt)
	assert.WithinDuration(t, time.Now(), *status.Head.AppliedAt, time.Second)
}

func TestHealth_Replaying(t *testing.T) {
	h := New()
	h.NewHead(1, 0)
	h.Replaying(true)

	status, err := h.Status()
	require.NoError(t, err)
	assert.False(t, status.Healthy)
	assert.True(t, status.Replaying)

	h.Replaying(false)
	status, err = h.Status()
	require.NoError(t, err)
	assert.True(t, status.Healthy)
}
