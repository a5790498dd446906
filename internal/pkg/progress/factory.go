package progress

import (
	"os"
	"time"

	"github.com/Kargones/connector-migrator/internal/constants"
	"github.com/Kargones/connector-migrator/internal/pkg/logging"
	"github.com/Kargones/connector-migrator/internal/pkg/output"
)

// DefaultThrottleInterval — интервал throttling по умолчанию.
const DefaultThrottleInterval = 200 * time.Millisecond

// New выбирает реализацию Progress:
//  1. CM_SHOW_PROGRESS=false → NoopProgress
//  2. формат вывода json → JSONProgress (события в stderr, stdout остаётся чистым)
//  3. TTY → TTYProgress
//  4. иначе → LogProgress
func New(opts Options, format string, logger logging.Logger) Progress {
	if opts.ThrottleInterval == 0 {
		opts.ThrottleInterval = DefaultThrottleInterval
	}
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	if os.Getenv(constants.EnvShowProgress) == "false" {
		return NewNoOp()
	}
	if format == output.FormatJSON {
		return NewJSONProgress(opts)
	}
	if IsTTY(opts.Output) {
		return NewTTYProgress(opts)
	}
	return NewLogProgress(logger)
}
