// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/vechain/corepool/builtin/reverts"
	"github.com/vechain/corepool/builtin/solidity"
	"github.com/vechain/corepool/genesis"
	"github.com/vechain/corepool/health"
	"github.com/vechain/corepool/kv"
	"github.com/vechain/corepool/log"
	"github.com/vechain/corepool/logdb"
	"github.com/vechain/corepool/lvldb"
	"github.com/vechain/corepool/metrics"
	"github.com/vechain/corepool/state"
	"github.com/vechain/corepool/thor"
	"github.com/vechain/corepool/xenv"
)

const metaBucket kv.Bucket = "m"

var (
	headKey = []byte("head")

	metricTxCount      = metrics.LazyLoadCounterVec("replay_tx_count", []string{"op", "status"})
	metricStorageWords = metrics.LazyLoadHistogramVec("replay_storage_words", []string{"op", "access"}, []int64{1, 2, 5, 10, 20, 50, 100, 200, 500})
	metricHead         = metrics.LazyLoadGauge("replay_head_block")
)

// Head is the last replayed block.
type Head struct {
	GenesisID thor.Bytes32
	Number    uint32
	Time      uint64
}

// Clock returns the clock of the head block.
func (h *Head) Clock() *xenv.BlockContext {
	return &xenv.BlockContext{Number: h.Number, Time: h.Time}
}

// Result sums up a replay.
type Result struct {
	Blocks   int
	Txs      int
	Reverted int
	Skipped  int
	Head     Head
}

// Replayer applies scripted blocks to the persisted state and indexes the
// emitted events.
type Replayer struct {
	db       *lvldb.LevelDB
	logDB    *logdb.LogDB
	gen      *genesis.Genesis
	metered  bool
	progress bool
	health   *health.Health
	logger   log.Logger
}

func NewReplayer(db *lvldb.LevelDB, logDB *logdb.LogDB, gen *genesis.Genesis) *Replayer {
	return &Replayer{
		db:     db,
		logDB:  logDB,
		gen:    gen,
		logger: log.WithContext("pkg", "replay"),
	}
}

// WithMeter enables storage word accounting per call.
func (r *Replayer) WithMeter(on bool) *Replayer {
	r.metered = on
	return r
}

// WithHealth reports replay progress to h.
func (r *Replayer) WithHealth(h *health.Health) *Replayer {
	r.health = h
	return r
}

// WithProgress enables the progress bar.
func (r *Replayer) WithProgress(on bool) *Replayer {
	r.progress = on
	return r
}

func loadHead(db kv.Getter) (*Head, error) {
	data, err := metaBucket.NewGetter(db).Get(headKey)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var h Head
	if err := rlp.DecodeBytes(data, &h); err != nil {
		return nil, errors.Wrap(err, "decode head")
	}
	return &h, nil
}

func saveHead(p kv.Putter, h *Head) error {
	data, err := rlp.EncodeToBytes(h)
	if err != nil {
		return err
	}
	return metaBucket.NewPutter(p).Put(headKey, data)
}

// Init deploys the genesis on an empty database, or checks the database was
// built from the same genesis. Events indexed past the head are dropped.
func (r *Replayer) Init(ctx context.Context) (*Head, error) {
	head, err := loadHead(r.db)
	if err != nil {
		return nil, err
	}
	id := r.gen.ID()
	if head != nil {
		if head.GenesisID != id {
			return nil, errors.Errorf("database built from genesis %v, not %v", head.GenesisID, id)
		}
		newest, err := r.logDB.NewestBlock(ctx)
		if err != nil {
			return nil, err
		}
		if r.health != nil {
			r.health.NewHead(head.Number, head.Time)
		}
		if newest > head.Number {
			r.logger.Warn("dropping events past head", "head", head.Number, "newest", newest)
			if err := r.logDB.Truncate(head.Number + 1); err != nil {
				return nil, err
			}
		}
		return head, nil
	}

	st := state.New(r.db)
	events, err := r.gen.Build(st)
	if err != nil {
		return nil, errors.WithMessage(err, "build genesis")
	}
	head = &Head{GenesisID: id, Number: r.gen.Block, Time: r.gen.Time}
	if err := r.logDB.NewBatch(head.Number, head.Time).Insert(0, events).Commit(); err != nil {
		return nil, err
	}
	if err := r.commit(st, head); err != nil {
		return nil, err
	}
	r.logger.Info("genesis deployed", "id", id, "block", head.Number, "events", len(events))
	return head, nil
}

func (r *Replayer) commit(st *state.State, head *Head) error {
	batch := r.db.NewBatch()
	if err := st.Stage().Commit(batch); err != nil {
		return err
	}
	if err := saveHead(batch, head); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "write state")
	}
	metricHead().Set(int64(head.Number))
	if r.health != nil {
		r.health.NewHead(head.Number, head.Time)
	}
	return nil
}

// Replay applies blocks after the head in order. Blocks at or below the head
// are skipped so an interrupted replay resumes. Reverted calls are logged and
// leave no trace; other failures abort the replay.
func (r *Replayer) Replay(ctx context.Context, blocks []*Block) (*Result, error) {
	head, err := r.Init(ctx)
	if err != nil {
		return nil, err
	}
	res := &Result{Head: *head}
	if r.health != nil {
		r.health.Replaying(true)
		defer r.health.Replaying(false)
	}

	var bar *pb.ProgressBar
	if r.progress && len(blocks) > 0 {
		bar = pb.New64(int64(len(blocks))).SetMaxWidth(90).Start()
		defer func() { bar.NotPrint = true }()
	}

	for _, blk := range blocks {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if blk.Number <= res.Head.Number {
			res.Skipped++
		} else {
			if err := r.replayBlock(blk, res); err != nil {
				return res, errors.WithMessagef(err, "block %d", blk.Number)
			}
		}
		if bar != nil {
			bar.Add64(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}
	return res, nil
}

func (r *Replayer) replayBlock(blk *Block, res *Result) error {
	var (
		st        = state.New(r.db)
		clock     = &xenv.BlockContext{Number: blk.Number, Time: blk.Time}
		meter     *solidity.Meter
		contracts = genesis.Open(st, clock, nil)
		batch     = r.logDB.NewBatch(blk.Number, blk.Time)
	)

	for i, tx := range blk.Txs {
		if r.metered {
			meter = &solidity.Meter{}
			contracts = genesis.Open(st, clock, meter)
		}
		before := len(st.Events())
		rev := st.NewCheckpoint()

		if err := ops[tx.Op](contracts, tx, blk.Time); err != nil {
			if !reverts.IsRevertErr(err) {
				return errors.WithMessagef(err, "tx %d (%s)", i, tx.Op)
			}
			st.RevertTo(rev)
			// contracts may cache reverted slots
			contracts = genesis.Open(st, clock, meter)
			res.Reverted++
			r.logger.Warn("call reverted",
				"block", blk.Number, "tx", i, "op", tx.Op, "from", tx.From,
				"kind", reverts.KindOf(err), "err", err)
			metricTxCount().AddWithLabel(1, map[string]string{"op": tx.Op, "status": reverts.KindOf(err).String()})
			continue
		}

		evs := st.Events()[before:]
		batch.Insert(uint32(i), evs)
		res.Txs++
		metricTxCount().AddWithLabel(1, map[string]string{"op": tx.Op, "status": "ok"})
		if meter != nil {
			r.logger.Debug("call applied", "block", blk.Number, "tx", i, "op", tx.Op, "events", len(evs), "reads", meter.Reads, "writes", meter.Writes)
			metricStorageWords().ObserveWithLabels(int64(meter.Reads), map[string]string{"op": tx.Op, "access": "read"})
			metricStorageWords().ObserveWithLabels(int64(meter.Writes), map[string]string{"op": tx.Op, "access": "write"})
		}
	}

	// events first, so a crash in between is repaired by Init truncating past the head
	if err := batch.Commit(); err != nil {
		return err
	}
	head := &Head{GenesisID: res.Head.GenesisID, Number: blk.Number, Time: blk.Time}
	if err := r.commit(st, head); err != nil {
		return err
	}
	res.Head = *head
	res.Blocks++
	return nil
}
