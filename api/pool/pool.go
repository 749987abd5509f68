// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/vechain/corepool/api/utils"
	"github.com/vechain/corepool/builtin/corepool"
	"github.com/vechain/corepool/xenv"
)

// Opener opens the pool over the committed state, with the clock it reads at.
type Opener func() (*corepool.Pool, xenv.Clock, error)

type Pool struct {
	open    Opener
	mu      sync.Mutex
	summary *lru.Cache
}

func New(open Opener, cacheSize int) *Pool {
	if cacheSize < 1 {
		cacheSize = 1
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		// lru.New only fails on a non-positive size
		panic(fmt.Errorf("failed to create summary cache: %v", err))
	}
	return &Pool{open: open, summary: cache}
}

// getSummary returns the summary of the block the state is read at. Summaries
// are immutable per block and cached.
func (p *Pool) getSummary() (*Summary, error) {
	pool, clock, err := p.open()
	if err != nil {
		return nil, err
	}
	block := clock.BlockNumber()

	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := p.summary.Get(block); ok {
		return v.(*Summary), nil
	}
	stats, err := pool.Stats()
	if err != nil {
		return nil, err
	}
	sum := newSummary(stats)
	p.summary.Add(block, sum)
	return sum, nil
}

func (p *Pool) handleGetSummary(w http.ResponseWriter, _ *http.Request) error {
	sum, err := p.getSummary()
	if err != nil {
		return utils.RevertError(err)
	}
	return utils.WriteJSON(w, sum)
}

func (p *Pool) handleGetSchedule(w http.ResponseWriter, req *http.Request) error {
	periods, err := utils.StringToUint64(req.URL.Query().Get("periods"), 0)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "periods"))
	}
	if periods > uint64(^uint32(0)) {
		return utils.BadRequest(errors.New("periods: out of range"))
	}
	pool, _, err := p.open()
	if err != nil {
		return err
	}
	schedule, err := pool.Schedule()
	if err != nil {
		return utils.RevertError(err)
	}
	return utils.WriteJSON(w, schedule.Table(uint32(periods)))
}

func (p *Pool) handleGetUser(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	pool, clock, err := p.open()
	if err != nil {
		return err
	}
	u, err := pool.GetUser(addr)
	if err != nil {
		return err
	}
	pending, err := pool.PendingRewards(addr)
	if err != nil {
		return utils.RevertError(err)
	}
	return utils.WriteJSON(w, newUser(clock.BlockNumber(), u, pending))
}

func (p *Pool) handleGetDeposits(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	pool, clock, err := p.open()
	if err != nil {
		return err
	}
	deps, err := pool.Deposits(addr)
	if err != nil {
		return err
	}
	out := make([]*Deposit, 0, len(deps))
	for i, d := range deps {
		out = append(out, newDeposit(uint64(i), d, clock.BlockTime()))
	}
	return utils.WriteJSON(w, out)
}

func (p *Pool) handleGetDeposit(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	index, err := strconv.ParseUint(mux.Vars(req)["index"], 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "index"))
	}
	pool, clock, err := p.open()
	if err != nil {
		return err
	}
	dep, err := pool.GetDeposit(addr, index)
	if err != nil {
		if errors.Is(err, corepool.ErrUnknownDeposit) {
			return utils.NotFound(err)
		}
		return err
	}
	return utils.WriteJSON(w, newDeposit(index, dep, clock.BlockTime()))
}

func (p *Pool) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /pool").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetSummary))
	sub.Path("/schedule").
		Methods(http.MethodGet).
		Name("GET /pool/schedule").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetSchedule))
	sub.Path("/users/{address}").
		Methods(http.MethodGet).
		Name("GET /pool/users/{address}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetUser))
	sub.Path("/users/{address}/deposits").
		Methods(http.MethodGet).
		Name("GET /pool/users/{address}/deposits").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetDeposits))
	sub.Path("/users/{address}/deposits/{index}").
		Methods(http.MethodGet).
		Name("GET /pool/users/{address}/deposits/{index}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetDeposit))
}
