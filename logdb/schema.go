// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// seq is the (block number, event index) sequence, unique per event.
const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY NOT NULL,
	blockNumber INTEGER NOT NULL,
	blockTime INTEGER NOT NULL,
	txIndex INTEGER NOT NULL,
	address BLOB NOT NULL,
	name TEXT NOT NULL,
	subject BLOB NOT NULL,
	data BLOB
);

CREATE INDEX IF NOT EXISTS event_i_address ON event(address, name);
CREATE INDEX IF NOT EXISTS event_i_subject ON event(subject);
CREATE INDEX IF NOT EXISTS event_i_time ON event(blockTime);
`
