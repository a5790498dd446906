package progress

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/connector-migrator/internal/constants"
	"github.com/Kargones/connector-migrator/internal/pkg/logging"
	"github.com/Kargones/connector-migrator/internal/pkg/output"
)

func TestProgressInterface(_ *testing.T) {
	var _ Progress = &TTYProgress{}
	var _ Progress = &LogProgress{}
	var _ Progress = &JSONProgress{}
	var _ Progress = &NoopProgress{}
}

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
	assert.False(t, IsTTY(nil))
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Output: &buf}

	t.Run("отключён через окружение", func(t *testing.T) {
		t.Setenv(constants.EnvShowProgress, "false")
		assert.IsType(t, &NoopProgress{}, New(opts, output.FormatText, nil))
	})
	t.Run("json", func(t *testing.T) {
		assert.IsType(t, &JSONProgress{}, New(opts, output.FormatJSON, nil))
	})
	t.Run("не терминал", func(t *testing.T) {
		assert.IsType(t, &LogProgress{}, New(opts, output.FormatText, nil))
	})
}

func TestJSONProgress_ConcurrentAdvance(t *testing.T) {
	var buf bytes.Buffer
	p := NewJSONProgress(Options{Output: &buf, ThrottleInterval: time.Hour})

	p.Start(8, "migrate")
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Advance("file")
		}()
	}
	wg.Wait()
	p.Finish()

	var events []Event
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var e Event
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		events = append(events, e)
	}
	require.GreaterOrEqual(t, len(events), 3)

	assert.Equal(t, "progress_start", events[0].Type)
	assert.Equal(t, int64(8), events[0].Total)

	last := events[len(events)-1]
	assert.Equal(t, "progress_end", last.Type)
	assert.Equal(t, int64(8), last.Current)
	assert.Equal(t, 100, last.Percent)

	final := events[len(events)-2]
	assert.Equal(t, "progress", final.Type, "последняя единица выводится несмотря на throttle")
	assert.Equal(t, int64(8), final.Current)
}

func TestTTYProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewTTYProgress(Options{Output: &buf})

	p.Start(2, "")
	p.Advance("a.json")
	p.Advance("b.json")
	p.Finish()

	out := buf.String()
	assert.Contains(t, out, "50% 1/2 | a.json")
	assert.Contains(t, out, "100% 2/2")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestLogProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLoggerWithWriter(logging.Config{Level: logging.LevelInfo, Format: logging.FormatJSON}, &buf)
	p := NewLogProgress(logger)

	p.Start(20, "migrate")
	for range 20 {
		p.Advance("")
	}
	p.Finish()

	out := buf.String()
	assert.Equal(t, 9, strings.Count(out, "Прогресс операции"), "по одной записи на 10%..90%")
	assert.Contains(t, out, "Операция завершена")
}

func TestRenderBar(t *testing.T) {
	assert.Equal(t, "["+strings.Repeat(" ", barWidth)+"]", renderBar(0))
	assert.Equal(t, "["+strings.Repeat("=", barWidth)+"]", renderBar(100))
	assert.Contains(t, renderBar(50), "=>")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{-time.Second, "0s"},
		{45 * time.Second, "45s"},
		{5 * time.Minute, "5m"},
		{5*time.Minute + 30*time.Second, "5m 30s"},
		{time.Hour + 7*time.Minute + 30*time.Second, "1h 7m 30s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in))
	}
}
