// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New("test")
	assert.Equal(t, "test", revert.message)
	assert.Equal(t, revert.Error(), revert.message)
	assert.Equal(t, KindInput, revert.Kind())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
}

func Test_KindOf(t *testing.T) {
	locked := NewKind(KindTemporal, "deposit locked")
	wrapped := errors.Wrap(locked, "unstake")

	assert.True(t, IsRevertErr(wrapped))
	assert.Equal(t, KindTemporal, KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, locked))
	assert.Equal(t, Kind(0), KindOf(errors.New("io")))

	assert.Equal(t, "auth", KindAuth.String())
	assert.Equal(t, "collaborator", KindCollaborator.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
