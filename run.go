package snapline

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/yaklabco/snapline/internal/configloader"
	"github.com/yaklabco/snapline/internal/logging"
	"github.com/yaklabco/snapline/pkg/config"
	"github.com/yaklabco/snapline/pkg/record"
	"github.com/yaklabco/snapline/pkg/source"
)

// Process-wide engine state. The recording buffer and the parse cache
// outlive individual tests: assertions append during the run, the flush
// drains everything once the test binary is done.
//
//nolint:gochecknoglobals // Process-wide state is inherent to the design.
var (
	engineOnce sync.Once
	engine     struct {
		cfg    *config.Config
		buffer *record.Buffer
		cache  *source.Cache
	}

	flushPending atomic.Bool

	recordMu    sync.Mutex
	recordStack []bool
)

func initEngine() {
	engineOnce.Do(func() {
		cfg := config.Default()
		result, err := configloader.Load(context.Background(), configloader.LoadOptions{})
		if err != nil {
			logging.Default().Warn("load config", logging.FieldError, err)
		} else {
			cfg = result.Config
		}
		logging.SetLevel(cfg.LogLevel)

		engine.cfg = cfg
		engine.buffer = record.NewBuffer()
		engine.cache = source.NewCache(nil)
	})
}

func sharedBuffer() *record.Buffer {
	initEngine()
	return engine.buffer
}

func sharedCache() *source.Cache {
	initEngine()
	return engine.cache
}

func defaultLabel() string {
	initEngine()
	if engine.cfg.Label == "" {
		return "Matches"
	}
	return engine.cfg.Label
}

func markFlushPending() {
	flushPending.Store(true)
}

// isRecording resolves the effective record mode: the innermost scoped
// override wins, then the configuration (SNAPLINE_RECORD, .snapline.yaml).
func isRecording() bool {
	recordMu.Lock()
	defer recordMu.Unlock()

	if n := len(recordStack); n > 0 {
		return recordStack[n-1]
	}
	initEngine()
	return engine.cfg.Record
}

// Record forces record mode for the remainder of the test: every
// assertion in scope re-records its snapshot. The override is restored
// when the test finishes, on every exit path.
func Record(t TestingT) {
	pushRecord(t, true)
}

// NoRecord suppresses record mode for the remainder of the test, shielding
// selected assertions from a global SNAPLINE_RECORD=1 run.
func NoRecord(t TestingT) {
	pushRecord(t, false)
}

func pushRecord(t TestingT, value bool) {
	recordMu.Lock()
	recordStack = append(recordStack, value)
	recordMu.Unlock()

	t.Cleanup(func() {
		recordMu.Lock()
		defer recordMu.Unlock()
		recordStack = recordStack[:len(recordStack)-1]
	})
}

// Main runs the test binary's tests and then flushes recorded snapshots
// back into the sources. Wire it up once per test package:
//
//	func TestMain(m *testing.M) {
//		os.Exit(snapline.Main(m))
//	}
func Main(m *testing.M) int {
	code := m.Run()
	if err := Flush(); err != nil {
		logging.Default().Error("flush snapshots", logging.FieldError, err)
		if code == 0 {
			code = 1
		}
	}
	return code
}

// Flush writes all pending recorded snapshots to disk. It is called by
// [Main]; test harnesses with their own TestMain orchestration may call
// it directly, once, after the last test has run.
func Flush() error {
	if !flushPending.Swap(false) {
		return nil
	}

	logger := logging.Default()
	results, err := sharedBuffer().Flush(context.Background(), sharedCache())
	for _, r := range results {
		switch {
		case r.Unmatched > 0:
			logger.Warn("snapshot call sites not found",
				logging.FieldPath, r.Path,
				logging.FieldUnmatched, r.Unmatched)
		case r.Written:
			logger.Info("updated snapshots",
				logging.FieldPath, r.Path,
				logging.FieldEdits, r.Edits)
		}
	}
	return err
}
