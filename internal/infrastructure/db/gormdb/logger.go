package gormdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/warbler/warbler/internal/core/domain"
)

const slowQueryThreshold = 200 * time.Millisecond

// Logger adapts zerolog to gorm's logger interface. Queries are logged at
// trace level, slow queries at warn and failures at error, except constraint
// violations which surface to callers and are only logged at debug. Record-not-found
// is expected control flow and is not reported.
type Logger struct {
	log   zerolog.Logger
	level gormlogger.LogLevel
}

func NewLogger(log zerolog.Logger) *Logger {
	return &Logger{log: log.With().Str("component", "gorm").Logger(), level: gormlogger.Warn}
}

func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *Logger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.log.Info().Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.log.Warn().Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.log.Error().Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	var event *zerolog.Event
	msg := "query"
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		msg = "query failed"
		event = l.log.Error()
		if errors.Is(translate(err), domain.ErrIntegrity) {
			event = l.log.Debug()
		}
		event = event.Err(err)
	case elapsed > slowQueryThreshold && l.level >= gormlogger.Warn:
		msg = "slow query"
		event = l.log.Warn()
	default:
		event = l.log.Trace()
	}
	if !event.Enabled() {
		return
	}

	sql, rows := fc()
	event.Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg(msg)
}
