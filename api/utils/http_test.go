// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/corepool/builtin/reverts"
)

func serve(h HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	WrapHandlerFunc(h)(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestWrapHandlerFunc(t *testing.T) {
	rec := serve(func(w http.ResponseWriter, _ *http.Request) error {
		return WriteJSON(w, M{"ok": true})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, JSONContentType, rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = serve(func(http.ResponseWriter, *http.Request) error {
		return BadRequest(errors.New("bad address"))
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "bad address")

	rec = serve(func(http.ResponseWriter, *http.Request) error {
		return errors.New("disk failure")
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRevertError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{reverts.NewKind(reverts.KindInput, "zero amount"), http.StatusBadRequest},
		{reverts.NewKind(reverts.KindAuth, "not owner"), http.StatusForbidden},
		{errors.Wrap(reverts.NewKind(reverts.KindTemporal, "too early"), "unstake"), http.StatusConflict},
		{reverts.NewKind(reverts.KindCollaborator, "allowance"), http.StatusConflict},
		{errors.New("io"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := serve(func(http.ResponseWriter, *http.Request) error {
			return RevertError(tt.err)
		})
		assert.Equal(t, tt.status, rec.Code, tt.err.Error())
	}
}

func TestParsers(t *testing.T) {
	addr, err := ParseAddress("0x000000000000000000000000000000000000a11c")
	require.NoError(t, err)
	assert.Equal(t, "0x000000000000000000000000000000000000a11c", addr.String())
	_, err = ParseAddress("a11c")
	assert.Error(t, err)

	v, err := StringToUint64("", 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)
	v, err = StringToUint64("0x10", 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(16), v)
	_, err = StringToUint64("-1", 0)
	assert.Error(t, err)
}
