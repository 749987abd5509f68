// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin layer over the go-ethereum slog based logger.
// Package level loggers created by WithContext resolve the root handler on
// every call, so they follow handlers installed later by SetDefault.
package log

import (
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Logger writes key/value pair records.
type Logger interface {
	With(ctx ...any) Logger
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
}

// Levels, ordered by verbosity.
const (
	LevelCrit  = ethlog.LevelCrit
	LevelError = ethlog.LevelError
	LevelWarn  = ethlog.LevelWarn
	LevelInfo  = ethlog.LevelInfo
	LevelDebug = ethlog.LevelDebug
	LevelTrace = ethlog.LevelTrace
)

// FromVerbosity maps a 0 (crit) .. 5 (trace) verbosity to a level.
func FromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return LevelCrit
	case v == 1:
		return LevelError
	case v == 2:
		return LevelWarn
	case v == 3:
		return LevelInfo
	case v == 4:
		return LevelDebug
	default:
		return LevelTrace
	}
}

// SetDefault installs h as the root handler.
func SetDefault(h slog.Handler) {
	ethlog.SetDefault(ethlog.NewLogger(h))
}

// WithContext returns a logger carrying ctx on every record.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

// Root-level helpers.
func Trace(msg string, ctx ...any) { ethlog.Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { ethlog.Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { ethlog.Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { ethlog.Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { ethlog.Root().Error(msg, ctx...) }

type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) inner() ethlog.Logger {
	return ethlog.Root().With(l.ctx...)
}

func (l *lazyLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return &lazyLogger{ctx: append(merged, ctx...)}
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.inner().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.inner().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.inner().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.inner().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.inner().Error(msg, ctx...) }
