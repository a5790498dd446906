package logging

// Форматы вывода.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Уровни логирования.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Назначения вывода.
const (
	OutputStderr = "stderr"
	OutputFile   = "file"
)

// Значения по умолчанию. Используются в DefaultConfig и в env-default
// тегах internal/config.
const (
	DefaultLevel      = LevelInfo
	DefaultFormat     = FormatText
	DefaultOutput     = OutputStderr
	DefaultFilePath   = "/var/log/connector-migrator.log"
	DefaultMaxSize    = 50 // MB
	DefaultMaxBackups = 3
	DefaultMaxAge     = 14 // дней
	DefaultCompress   = true
)

// Config — настройки логгера.
type Config struct {
	// Format: "text" или "json".
	Format string
	// Level: "debug", "info", "warn" или "error". Неизвестное значение даёт info.
	Level string
	// Output: "stderr" или "file".
	Output string

	// Параметры ротации файла, используются при Output == "file".
	FilePath   string
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // дней
	Compress   bool
}

// DefaultConfig возвращает Config со значениями по умолчанию.
func DefaultConfig() Config {
	return Config{
		Level:      DefaultLevel,
		Format:     DefaultFormat,
		Output:     DefaultOutput,
		FilePath:   DefaultFilePath,
		MaxSize:    DefaultMaxSize,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAge,
		Compress:   DefaultCompress,
	}
}

// IsValidLevel сообщает, что level — один из поддерживаемых уровней.
func IsValidLevel(level string) bool {
	switch level {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return true
	}
	return false
}
