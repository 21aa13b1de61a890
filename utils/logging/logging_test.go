package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestGormLogger(level gormLogger.LogLevel) (*GormLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewGormLogger(zerolog.New(buf), level), buf
}

func TestNewParsesLevel(t *testing.T) {
	if got := New(false, "warn").GetLevel(); got != zerolog.WarnLevel {
		t.Errorf("expected warn level, got %v", got)
	}
	if got := New(false, "nonsense").GetLevel(); got != zerolog.InfoLevel {
		t.Errorf("expected fallback to info, got %v", got)
	}
}

func TestTraceError(t *testing.T) {
	l, buf := newTestGormLogger(gormLogger.Warn)

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 0
	}, errors.New("boom"))

	out := buf.String()
	if !strings.Contains(out, `"level":"error"`) || !strings.Contains(out, "SELECT 1") || !strings.Contains(out, "boom") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestTraceIgnoresRecordNotFound(t *testing.T) {
	l, buf := newTestGormLogger(gormLogger.Warn)

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 0
	}, gorm.ErrRecordNotFound)

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %s", buf.String())
	}
}

func TestTraceSlowQuery(t *testing.T) {
	l, buf := newTestGormLogger(gormLogger.Warn)

	l.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
		return "SELECT pg_sleep(1)", 1
	}, nil)

	if out := buf.String(); !strings.Contains(out, "slow sql: SELECT pg_sleep(1)") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestTraceSilent(t *testing.T) {
	l, buf := newTestGormLogger(gormLogger.Warn)
	silent := l.LogMode(gormLogger.Silent)

	silent.Trace(context.Background(), time.Now(), func() (string, int64) {
		t.Fatal("statement should not be rendered when silent")
		return "", 0
	}, errors.New("boom"))

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %s", buf.String())
	}
	if l.LogLevel != gormLogger.Warn {
		t.Error("LogMode must not modify the receiver")
	}
}
