// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/corepool/api/events"
	"github.com/vechain/corepool/logdb"
	"github.com/vechain/corepool/thor"
	"github.com/vechain/corepool/tx"
)

const defaultLogLimit uint64 = 100

var (
	poolAddr  = thor.BytesToAddress([]byte("pool"))
	tokenAddr = thor.BytesToAddress([]byte("token"))
	alice     = thor.BytesToAddress([]byte("alice"))
	bob       = thor.BytesToAddress([]byte("bob"))
)

func initEventServer(t *testing.T, limit uint64) *httptest.Server {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// blocks 1..10, each with a Staked by alice, a Staked by bob and a token Transfer
	for n := uint32(1); n <= 10; n++ {
		var evs tx.Events
		for _, user := range []thor.Address{alice, bob} {
			ev, err := tx.NewEvent(poolAddr, "Staked", user, map[string]any{"block": n})
			require.NoError(t, err)
			evs = append(evs, ev)
		}
		ev, err := tx.NewEvent(tokenAddr, "Transfer", alice, map[string]any{"block": n})
		require.NoError(t, err)
		require.NoError(t, db.NewBatch(n, uint64(1000+n*10)).Insert(0, evs).Insert(1, tx.Events{ev}).Commit())
	}

	router := mux.NewRouter()
	events.New(db, limit).Mount(router, "/events")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func httpPost(t *testing.T, url string, obj any) ([]byte, int) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(url, "application/x-www-form-urlencoded", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func decode(t *testing.T, body []byte) []*events.FilteredEvent {
	var evs []*events.FilteredEvent
	require.NoError(t, json.Unmarshal(body, &evs), string(body))
	return evs
}

func TestQueryEvents(t *testing.T) {
	ts := initEventServer(t, defaultLogLimit)

	body, code := httpGet(t, ts.URL+"/events")
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Len(t, decode(t, body), 30)

	body, code = httpGet(t, fmt.Sprintf("%s/events?address=%s&name=Staked&subject=%s", ts.URL, poolAddr, bob))
	require.Equal(t, http.StatusOK, code, string(body))
	evs := decode(t, body)
	require.Len(t, evs, 10)
	for _, ev := range evs {
		assert.Equal(t, bob, ev.Subject)
		assert.Equal(t, "Staked", ev.Name)
	}
	assert.Equal(t, uint32(1), evs[0].Meta.LogIndex)

	body, code = httpGet(t, ts.URL+"/events?from=3&to=4&order=desc")
	require.Equal(t, http.StatusOK, code, string(body))
	evs = decode(t, body)
	require.Len(t, evs, 6)
	assert.Equal(t, uint32(4), evs[0].Meta.BlockNumber)
	assert.Equal(t, uint32(1), evs[0].Meta.TxIndex)
	assert.Equal(t, uint32(3), evs[5].Meta.BlockNumber)

	body, code = httpGet(t, ts.URL+"/events?unit=time&from=1100&to=1100")
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Len(t, decode(t, body), 3)

	body, code = httpGet(t, ts.URL+"/events?name=Transfer&offset=8&limit=5")
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Len(t, decode(t, body), 2)
}

func TestQueryEventsErrors(t *testing.T) {
	ts := initEventServer(t, defaultLogLimit)

	for _, q := range []string{
		"address=0x1",
		"subject=zz",
		"from=x",
		"from=5&to=4",
		"unit=weeks",
		"order=random",
		"limit=-1",
	} {
		_, code := httpGet(t, ts.URL+"/events?"+q)
		assert.Equal(t, http.StatusBadRequest, code, q)
	}

	_, code := httpGet(t, ts.URL+"/events?limit=101")
	assert.Equal(t, http.StatusForbidden, code)
}

func TestFilterEvents(t *testing.T) {
	ts := initEventServer(t, defaultLogLimit)

	name := "Transfer"
	from, to := uint64(2), uint64(5)
	body, code := httpPost(t, ts.URL+"/events", &events.Filter{
		CriteriaSet: []*events.Criteria{
			{Name: &name},
			{Address: &poolAddr, Subject: &alice},
		},
		Range:   &events.Range{Unit: logdb.Block, From: &from, To: &to},
		Options: &events.Options{Limit: 100},
	})
	require.Equal(t, http.StatusOK, code, string(body))
	evs := decode(t, body)
	require.Len(t, evs, 8)
	for _, ev := range evs {
		assert.Equal(t, alice, ev.Subject)
	}

	_, code = httpPost(t, ts.URL+"/events", map[string]any{"unknown": 1})
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = httpPost(t, ts.URL+"/events", map[string]any{"criteriaSet": []any{nil}})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestEventsLimit(t *testing.T) {
	ts := initEventServer(t, 5)

	// no paging and more events than the limit
	_, code := httpGet(t, ts.URL+"/events?name=Transfer")
	assert.Equal(t, http.StatusForbidden, code)

	body, code := httpGet(t, ts.URL+"/events?name=Transfer&limit=5")
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Len(t, decode(t, body), 5)

	_, code = httpPost(t, ts.URL+"/events", &events.Filter{})
	assert.Equal(t, http.StatusForbidden, code)

	body, code = httpPost(t, ts.URL+"/events", &events.Filter{Options: &events.Options{Offset: 5, Limit: 5}})
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Len(t, decode(t, body), 5)
}

func TestEventsUnboundedLimit(t *testing.T) {
	ts := initEventServer(t, math.MaxUint64)

	body, code := httpGet(t, ts.URL+"/events?name=Transfer")
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Len(t, decode(t, body), 10)

	body, code = httpPost(t, ts.URL+"/events", &events.Filter{Options: &events.Options{Offset: 2, Limit: math.MaxUint64}})
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Len(t, decode(t, body), 28)
}
