package logging

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	gormlogger "gorm.io/gorm/logger"

	"github.com/jackyeh168/credit_ledger/src/internal/config"
)

// New 依設定建立 slog.Logger
func New(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard 丟棄所有輸出的 logger
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// gormWriter 將 GORM 日誌轉送到 slog
type gormWriter struct {
	logger *slog.Logger
}

// Printf 實作 gormlogger.Writer
func (w gormWriter) Printf(format string, args ...interface{}) {
	w.logger.Debug(fmt.Sprintf(format, args...), slog.String("component", "gorm"))
}

// NewGORMLogger 建立 GORM logger
//
// logSQL 為 false 時只記錄錯誤與慢查詢。
func NewGORMLogger(logger *slog.Logger, logSQL bool) gormlogger.Interface {
	level := gormlogger.Warn
	if logSQL {
		level = gormlogger.Info
	}
	return gormlogger.New(gormWriter{logger: logger}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
