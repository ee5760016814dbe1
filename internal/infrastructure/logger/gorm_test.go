package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGorm(level gormlogger.LogLevel) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, 50*time.Millisecond), recorded
}

func sqlFunc() (string, int64) {
	return "INSERT INTO print_jobs ...", 1
}

func TestGormLogger_LogMode(t *testing.T) {
	gl, _ := newObservedGorm(gormlogger.Info)
	changed, ok := gl.LogMode(gormlogger.Error).(*GormLogger)
	require.True(t, ok)

	assert.Equal(t, gormlogger.Info, gl.level)
	assert.Equal(t, gormlogger.Error, changed.level)
}

func TestGormLogger_DefaultThreshold(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Warn, 0)
	assert.Equal(t, defaultSlowThreshold, gl.slowThreshold)
}

func TestGormLogger_Trace(t *testing.T) {
	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		begin   time.Time
		err     error
		message string
		logged  zapcore.Level
	}{
		{
			name:    "failure",
			level:   gormlogger.Warn,
			begin:   time.Now(),
			err:     errors.New("database is locked"),
			message: "journal query failed",
			logged:  zapcore.ErrorLevel,
		},
		{
			name:    "slow",
			level:   gormlogger.Warn,
			begin:   time.Now().Add(-time.Second),
			message: "slow journal query",
			logged:  zapcore.WarnLevel,
		},
		{
			name:    "normal at info",
			level:   gormlogger.Info,
			begin:   time.Now(),
			message: "journal query",
			logged:  zapcore.DebugLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gl, recorded := newObservedGorm(tt.level)
			gl.Trace(context.Background(), tt.begin, sqlFunc, tt.err)

			entries := recorded.FilterMessage(tt.message).All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.logged, entries[0].Level)
			assert.Equal(t, "INSERT INTO print_jobs ...", entries[0].ContextMap()["sql"])
		})
	}
}

func TestGormLogger_TraceQuiet(t *testing.T) {
	tests := []struct {
		name  string
		level gormlogger.LogLevel
		err   error
	}{
		{name: "silent", level: gormlogger.Silent, err: errors.New("boom")},
		{name: "record not found", level: gormlogger.Info, err: gormlogger.ErrRecordNotFound},
		{name: "normal at warn", level: gormlogger.Warn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gl, recorded := newObservedGorm(tt.level)
			gl.Trace(context.Background(), time.Now(), sqlFunc, tt.err)
			if tt.name == "record not found" {
				// Falls through to the info branch
				assert.Equal(t, 0, recorded.FilterMessage("journal query failed").Len())
				return
			}
			assert.Equal(t, 0, recorded.Len())
		})
	}
}

func TestGormLogger_TraceRequestID(t *testing.T) {
	gl, recorded := newObservedGorm(gormlogger.Info)
	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-7")

	gl.Trace(ctx, time.Now(), sqlFunc, nil)
	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "req-7", recorded.All()[0].ContextMap()["request_id"])
}

func TestGormLogger_Messages(t *testing.T) {
	gl, recorded := newObservedGorm(gormlogger.Warn)
	gl.Info(context.Background(), "info %d", 1)
	gl.Warn(context.Background(), "warn %d", 2)
	gl.Error(context.Background(), "error %d", 3)

	assert.Equal(t, 0, recorded.FilterMessage("info 1").Len())
	assert.Equal(t, 1, recorded.FilterMessage("warn 2").Len())
	assert.Equal(t, 1, recorded.FilterMessage("error 3").Len())
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, GormLevel("silent"))
	assert.Equal(t, gormlogger.Error, GormLevel("error"))
	assert.Equal(t, gormlogger.Info, GormLevel("debug"))
	assert.Equal(t, gormlogger.Warn, GormLevel("info"))
}
