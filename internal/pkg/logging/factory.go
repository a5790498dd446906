package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// nopCloser — Closer для stderr, который закрывать нельзя.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger создаёт логгер по config.
//
// При Output == "file" логи пишутся в FilePath с ротацией через lumberjack;
// возвращаемый Closer закрывает файл и должен вызываться при завершении
// процесса. Для stderr Closer ничего не делает. Если файл использовать
// нельзя, логгер откатывается на stderr с предупреждением.
func NewLogger(config Config) (Logger, io.Closer) {
	switch config.Output {
	case OutputStderr, "":
		return NewLoggerWithWriter(config, os.Stderr), nopCloser{}
	case OutputFile:
		w, err := newRotatingWriter(config)
		if err != nil {
			warnBootstrap("%v, логи пишутся в stderr", err)
			return NewLoggerWithWriter(config, os.Stderr), nopCloser{}
		}
		return NewLoggerWithWriter(config, w), w
	default:
		warnBootstrap("неизвестный logging output %q, логи пишутся в stderr", config.Output)
		return NewLoggerWithWriter(config, os.Stderr), nopCloser{}
	}
}

// newRotatingWriter создаёт каталог файла логов и lumberjack.Logger.
func newRotatingWriter(config Config) (*lumberjack.Logger, error) {
	if config.FilePath == "" {
		return nil, fmt.Errorf("logging output=file, но путь к файлу не задан")
	}
	if dir := filepath.Dir(config.FilePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("не удалось создать каталог логов %q: %w", dir, err)
		}
	}
	return &lumberjack.Logger{
		Filename:   config.FilePath,
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
	}, nil
}

// NewLoggerWithWriter создаёт логгер, пишущий в w.
func NewLoggerWithWriter(config Config, w io.Writer) Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(config.Level)}

	var handler slog.Handler
	if config.Format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return NewSlogAdapter(slog.New(handler))
}

// ParseLevel переводит строковый уровень в slog.Level. Неизвестное значение даёт Info.
func ParseLevel(level string) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// warnBootstrap пишет предупреждение в stderr до того, как логгер создан.
func warnBootstrap(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "WARNING: "+format+"\n", args...) //nolint:errcheck // bootstrap stderr
}
