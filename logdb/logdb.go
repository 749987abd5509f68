// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb indexes contract events in sqlite for filtering by contract,
// event name, subject and block range.
package logdb

import (
	"context"
	"database/sql"
	"math"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/corepool/log"
	"github.com/vechain/corepool/thor"
	"github.com/vechain/corepool/tx"
)

var logger = log.WithContext("pkg", "logdb")

const memPath = ":memory:"

const insertEventQuery = "INSERT OR REPLACE INTO event(seq, blockNumber, blockTime, txIndex, address, name, subject, data) VALUES(?, ?, ?, ?, ?, ?, ?, ?)"

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmtCache     *stmtCache
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	dsn := path
	if path != memPath {
		dsn += "?_journal=wal"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// a memory db lives in its connection
	if path == memPath {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	logger.Debug("log db opened", "path", path, "sqlite", driverVer)
	return &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		stmtCache:     newStmtCache(db),
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(memPath)
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// NewestBlock returns the highest indexed block number, 0 if empty.
func (db *LogDB) NewestBlock(ctx context.Context) (uint32, error) {
	stmt, err := db.stmtCache.Prepare("SELECT MAX(seq) FROM event")
	if err != nil {
		return 0, err
	}
	var seq sql.NullInt64
	if err := stmt.QueryRowContext(ctx).Scan(&seq); err != nil {
		return 0, err
	}
	if !seq.Valid {
		return 0, nil
	}
	return sequence(seq.Int64).BlockNumber(), nil
}

// Truncate removes events of blocks >= block.
func (db *LogDB) Truncate(block uint32) error {
	stmt, err := db.stmtCache.Prepare("DELETE FROM event WHERE seq >= ?")
	if err != nil {
		return err
	}
	_, err = stmt.Exec(newSequence(block, 0))
	return err
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT * FROM event ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var args []any
	query := "SELECT * FROM event WHERE 1"
	if filter.Range != nil {
		if filter.Range.Unit == Time {
			args = append(args, filter.Range.From)
			query += " AND blockTime >= ?"
			if filter.Range.To >= filter.Range.From {
				args = append(args, filter.Range.To)
				query += " AND blockTime <= ?"
			}
		} else {
			first, last := blockSpan(clampBlock(filter.Range.From), clampBlock(filter.Range.To))
			args = append(args, first)
			query += " AND seq >= ?"
			if filter.Range.To >= filter.Range.From {
				args = append(args, last)
				query += " AND seq <= ?"
			}
		}
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			query += " AND (( 1"
		} else {
			query += " OR ( 1"
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.Bytes())
			query += " AND address = ?"
		}
		if criteria.Name != nil {
			args = append(args, *criteria.Name)
			query += " AND name = ?"
		}
		if criteria.Subject != nil {
			args = append(args, criteria.Subject.Bytes())
			query += " AND subject = ?"
		}
		query += " )"
		if i == len(filter.CriteriaSet)-1 {
			query += ")"
		}
	}

	if filter.Order == DESC {
		query += " ORDER BY seq DESC"
	} else {
		query += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		query += " LIMIT ?, ?"
		// sqlite binds signed 64-bit integers
		args = append(args, min(filter.Options.Offset, math.MaxInt64), min(filter.Options.Limit, math.MaxInt64))
	}
	return db.queryEvents(ctx, query, args...)
}

func clampBlock(n uint64) uint32 {
	if n > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(n)
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	stmt, err := db.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq         int64
			blockNumber uint32
			blockTime   uint64
			txIndex     uint32
			address     []byte
			name        string
			subject     []byte
			data        []byte
		)
		if err := rows.Scan(
			&seq,
			&blockNumber,
			&blockTime,
			&txIndex,
			&address,
			&name,
			&subject,
			&data,
		); err != nil {
			return nil, err
		}
		events = append(events, &Event{
			BlockNumber: blockNumber,
			BlockTime:   blockTime,
			TxIndex:     txIndex,
			Index:       sequence(seq).Index(),
			Address:     thor.BytesToAddress(address),
			Name:        name,
			Subject:     thor.BytesToAddress(subject),
			Data:        data,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// NewBatch starts collecting the events of one block.
func (db *LogDB) NewBatch(blockNumber uint32, blockTime uint64) *BlockBatch {
	return &BlockBatch{
		db:          db,
		blockNumber: blockNumber,
		blockTime:   blockTime,
	}
}

// BlockBatch collects the events of one block and writes them in one sql transaction.
type BlockBatch struct {
	db          *LogDB
	blockNumber uint32
	blockTime   uint64
	events      []*Event
}

// Insert adds the events of the tx at txIndex.
func (bb *BlockBatch) Insert(txIndex uint32, events tx.Events) *BlockBatch {
	for _, ev := range events {
		bb.events = append(bb.events, newEvent(bb.blockNumber, bb.blockTime, txIndex, uint32(len(bb.events)), ev))
	}
	return bb
}

func (bb *BlockBatch) Len() int {
	return len(bb.events)
}

func (bb *BlockBatch) execInTx(proc func(*sql.Tx) error) (err error) {
	tx, err := bb.db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Commit writes the collected events.
func (bb *BlockBatch) Commit() error {
	if len(bb.events) == 0 {
		return nil
	}
	stmt, err := bb.db.stmtCache.Prepare(insertEventQuery)
	if err != nil {
		return err
	}
	err = bb.execInTx(func(tx *sql.Tx) error {
		txStmt := tx.Stmt(stmt)
		for _, ev := range bb.events {
			if _, err := txStmt.Exec(
				newSequence(ev.BlockNumber, ev.Index),
				ev.BlockNumber,
				ev.BlockTime,
				ev.TxIndex,
				ev.Address.Bytes(),
				ev.Name,
				ev.Subject.Bytes(),
				[]byte(ev.Data),
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "commit events of block %d", bb.blockNumber)
	}
	metricEventsWritten().Add(int64(len(bb.events)))
	return nil
}
