// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides package scoped loggers on top of go-ethereum's slog based logger.
package log

import (
	"context"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Logger writes leveled, key/value structured records.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Enabled(ctx context.Context, level slog.Level) bool
}

// contextLogger resolves the root logger on every call, so loggers created
// at package init follow handlers installed later.
type contextLogger struct {
	ctx []any
}

// WithContext returns a logger which attaches ctx to every record.
func WithContext(ctx ...any) Logger {
	return &contextLogger{ctx}
}

func (l *contextLogger) args(ctx []any) []any {
	if len(ctx) == 0 {
		return l.ctx
	}
	return append(append(make([]any, 0, len(l.ctx)+len(ctx)), l.ctx...), ctx...)
}

func (l *contextLogger) Trace(msg string, ctx ...any) { ethlog.Root().Trace(msg, l.args(ctx)...) }
func (l *contextLogger) Debug(msg string, ctx ...any) { ethlog.Root().Debug(msg, l.args(ctx)...) }
func (l *contextLogger) Info(msg string, ctx ...any)  { ethlog.Root().Info(msg, l.args(ctx)...) }
func (l *contextLogger) Warn(msg string, ctx ...any)  { ethlog.Root().Warn(msg, l.args(ctx)...) }
func (l *contextLogger) Error(msg string, ctx ...any) { ethlog.Root().Error(msg, l.args(ctx)...) }

func (l *contextLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return ethlog.Root().Enabled(ctx, level)
}
