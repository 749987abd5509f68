// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/big"
	"reflect"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// levelAll lets every record through the wrapped handler, filtering is left
// to the level var.
const levelAll = slog.Level(math.MinInt)

// varHandler filters records by a level var read on every call.
type varHandler struct {
	lvl   *slog.LevelVar
	inner slog.Handler
}

func (h *varHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.lvl.Level()
}

func (h *varHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

func (h *varHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &varHandler{h.lvl, h.inner.WithAttrs(attrs)}
}

func (h *varHandler) WithGroup(name string) slog.Handler {
	return &varHandler{h.lvl, h.inner.WithGroup(name)}
}

// NewTerminalHandler returns a human readable handler. Records under lvl are
// dropped; lvl may change at any time.
func NewTerminalHandler(w io.Writer, lvl *slog.LevelVar, useColor bool) slog.Handler {
	return &varHandler{lvl, ethlog.NewTerminalHandlerWithLevel(w, levelAll, useColor)}
}

// NewJSONHandler returns a handler writing one JSON object per record.
func NewJSONHandler(w io.Writer, lvl *slog.LevelVar) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		ReplaceAttr: replaceJSON,
		Level:       lvl,
	})
}

func levelString(l slog.Level) string {
	switch {
	case l >= LevelCrit:
		return "crit"
	case l >= LevelError:
		return "error"
	case l >= LevelWarn:
		return "warn"
	case l >= LevelInfo:
		return "info"
	case l >= LevelDebug:
		return "debug"
	default:
		return "trace"
	}
}

// replaceJSON shortens the time and level keys and prints amounts in decimal.
func replaceJSON(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		return slog.Attr{Key: "t", Value: attr.Value}
	case slog.LevelKey:
		if l, ok := attr.Value.Any().(slog.Level); ok {
			return slog.String("lvl", levelString(l))
		}
	}

	switch v := attr.Value.Any().(type) {
	case *big.Int:
		if v == nil {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.String())
		}
	case *uint256.Int:
		if v == nil {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.Dec())
		}
	case fmt.Stringer:
		if v == nil || (reflect.ValueOf(v).Kind() == reflect.Pointer && reflect.ValueOf(v).IsNil()) {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.String())
		}
	}
	return attr
}
