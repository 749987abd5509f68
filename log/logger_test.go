// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromVerbosity(t *testing.T) {
	assert.Equal(t, LevelCrit, FromVerbosity(-1))
	assert.Equal(t, LevelError, FromVerbosity(1))
	assert.Equal(t, LevelWarn, FromVerbosity(2))
	assert.Equal(t, LevelInfo, FromVerbosity(3))
	assert.Equal(t, LevelDebug, FromVerbosity(4))
	assert.Equal(t, LevelTrace, FromVerbosity(9))
}

func TestWithContextFollowsDefault(t *testing.T) {
	logger := WithContext("pkg", "corepool")

	var (
		buf bytes.Buffer
		lvl slog.LevelVar
	)
	SetDefault(NewJSONHandler(&buf, &lvl))

	logger.With("user", "alice").Info("staked", "amount", 10)
	logger.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "staked", rec["msg"])
	assert.Equal(t, "corepool", rec["pkg"])
	assert.Equal(t, "alice", rec["user"])
}

func TestJSONHandlerFollowsLevelVar(t *testing.T) {
	var (
		buf bytes.Buffer
		lvl slog.LevelVar
	)
	lvl.Set(LevelWarn)
	SetDefault(NewJSONHandler(&buf, &lvl))

	Info("dropped")
	lvl.Set(LevelDebug)
	Debug("synced", "reward", big.NewInt(42))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "synced", rec["msg"])
	assert.Equal(t, "debug", rec["lvl"])
	assert.Equal(t, "42", rec["reward"])
	assert.Contains(t, rec, "t")
}

func TestTerminalHandlerFollowsLevelVar(t *testing.T) {
	var (
		buf bytes.Buffer
		lvl slog.LevelVar
	)
	lvl.Set(LevelError)
	SetDefault(NewTerminalHandler(&buf, &lvl, false))
	logger := WithContext("pkg", "replay")

	logger.Warn("call reverted")
	assert.Empty(t, buf.String())

	lvl.Set(LevelTrace)
	logger.Trace("call applied", "tx", 1)
	assert.Contains(t, buf.String(), "call applied")
	assert.Contains(t, buf.String(), "pkg=replay")
	assert.NotContains(t, buf.String(), "call reverted")
}
