// 包 logger：进程级 slog 日志器；级别与格式由 LOG_LEVEL / LOG_FORMAT 控制
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu            sync.RWMutex
	defaultLogger *slog.Logger
)

// Setup：按环境变量初始化默认日志器，输出到标准错误
func Setup() *slog.Logger {
	return New(os.Stderr, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// 文档注释：以指定输出、级别与格式构造并安装默认日志器
// 约束：未知级别按 info；format 仅识别 json，其余均为 text。
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	l := slog.New(h).With("svc", "patrio-api")
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
	return l
}

// ParseLevel debug|info|warn|error，大小写不敏感
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// L：获取默认日志器；未初始化时回退到 Setup
func L() *slog.Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l == nil {
		return Setup()
	}
	return l
}
