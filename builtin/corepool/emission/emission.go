// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package emission computes the block reward of a pool whose rate decays
// by a fixed percent once per period.
package emission

import (
	"math/big"
	"sync"
)

// Params describe a schedule.
type Params struct {
	StartBlock      uint32
	Periods         uint32 // number of decay periods before emission ends
	BlocksPerPeriod uint32
	InitialRate     *big.Int // reward per block in the first period
	DecayPercent    uint32   // rate is multiplied by DecayPercent/100 each period
}

// Period is one row of the schedule table.
type Period struct {
	Index        uint32   `json:"index"`
	FromBlock    uint32   `json:"fromBlock"`
	ToBlock      uint32   `json:"toBlock"`
	RatePerBlock *big.Int `json:"ratePerBlock"`
	Total        *big.Int `json:"total"`
}

// Schedule is the emission curve. Rates are derived iteratively with
// truncation after each step and cached per period.
type Schedule struct {
	params Params
	end    uint32

	mtx   sync.Mutex
	rates []*big.Int // rates[i] is the per-block rate of period i
}

var hundred = big.NewInt(100)

// New creates a schedule.
func New(params Params) *Schedule {
	return &Schedule{
		params: params,
		end:    params.StartBlock + params.Periods*params.BlocksPerPeriod,
		rates:  []*big.Int{new(big.Int).Set(params.InitialRate)},
	}
}

func (s *Schedule) StartBlock() uint32 { return s.params.StartBlock }

// EndBlock is the first block without emission.
func (s *Schedule) EndBlock() uint32 { return s.end }

func (s *Schedule) Params() Params { return s.params }

// rate returns the per-block rate of period p. Callers must not modify it.
func (s *Schedule) rate(p uint32) *big.Int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	decay := big.NewInt(int64(s.params.DecayPercent))
	for uint32(len(s.rates)) <= p {
		last := s.rates[len(s.rates)-1]
		next := new(big.Int).Mul(last, decay)
		s.rates = append(s.rates, next.Quo(next, hundred))
	}
	return s.rates[p]
}

// PeriodRate returns the per-block rate of period p, ignoring the end block.
func (s *Schedule) PeriodRate(p uint32) *big.Int {
	return new(big.Int).Set(s.rate(p))
}

// RewardPerBlock returns the reward minted by the given block.
func (s *Schedule) RewardPerBlock(block uint32) *big.Int {
	if block < s.params.StartBlock || block >= s.end || s.params.BlocksPerPeriod == 0 {
		return new(big.Int)
	}
	return s.PeriodRate((block - s.params.StartBlock) / s.params.BlocksPerPeriod)
}

// Rewards integrates the per-block reward over [from, to).
func (s *Schedule) Rewards(from, to uint32) *big.Int {
	total := new(big.Int)
	from = max(from, s.params.StartBlock)
	to = min(to, s.end)
	if from >= to || s.params.BlocksPerPeriod == 0 {
		return total
	}

	bpp := s.params.BlocksPerPeriod
	for from < to {
		p := (from - s.params.StartBlock) / bpp
		boundary := min(s.params.StartBlock+(p+1)*bpp, to)
		n := new(big.Int).SetUint64(uint64(boundary - from))
		total.Add(total, n.Mul(n, s.rate(p)))
		from = boundary
	}
	return total
}

// Total returns the reward emitted over the whole schedule.
func (s *Schedule) Total() *big.Int {
	return s.Rewards(s.params.StartBlock, s.end)
}

// Table lists the first n periods, or all periods when n is zero.
func (s *Schedule) Table(n uint32) []Period {
	if n == 0 || n > s.params.Periods {
		n = s.params.Periods
	}
	out := make([]Period, 0, n)
	for i := range n {
		from := s.params.StartBlock + i*s.params.BlocksPerPeriod
		to := from + s.params.BlocksPerPeriod
		out = append(out, Period{
			Index:        i,
			FromBlock:    from,
			ToBlock:      to,
			RatePerBlock: s.PeriodRate(i),
			Total:        s.Rewards(from, to),
		})
	}
	return out
}
