package folio

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Status messages reported during a load.
const (
	MsgLoading       = "Loading projects..."
	MsgLoadFailed    = "Failed to load posts. Check console and paths."
	MsgLoadFallback  = "Failed to load posts. Check console and paths. Falling back to sample."
	MsgSamplesOnly   = "No posts source configured. Showing embedded sample."
	msgNoPostsFormat = "No posts found in %s"
)

// loadedMessage formats the success message for n posts.
func loadedMessage(n int) string {
	return fmt.Sprintf("Loaded %d %s.", n, pluralProjects(n))
}

// partialMessage formats the partial-load message.
func partialMessage(loaded, failed int) string {
	return fmt.Sprintf("Loaded %d %s; %d failed.", loaded, pluralProjects(loaded), failed)
}

// sampleMessage formats the sample fallback message.
func sampleMessage(n int) string {
	return fmt.Sprintf("Loaded %d sample %s.", n, pluralProjects(n))
}

func pluralProjects(n int) string {
	if n == 1 {
		return "project"
	}
	return "projects"
}

// StatusReporter keeps the single most recent status message.
// Each change is also logged at a level matching its tone.
type StatusReporter struct {
	mu      sync.Mutex
	current Status
	logger  *zap.Logger
}

// NewStatusReporter creates a reporter. A nil logger discards log output.
func NewStatusReporter(logger *zap.Logger) *StatusReporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusReporter{logger: logger}
}

// Set replaces the current status.
func (s *StatusReporter) Set(message string, tone Tone) {
	s.mu.Lock()
	s.current = Status{Message: message, Tone: tone}
	s.mu.Unlock()

	fields := []zap.Field{zap.String("tone", string(tone))}
	switch tone {
	case ToneError:
		s.logger.Error(message, fields...)
	case ToneWarn:
		s.logger.Warn(message, fields...)
	default:
		s.logger.Info(message, fields...)
	}
}

// Current returns the latest status. The zero Status means nothing has
// been reported yet.
func (s *StatusReporter) Current() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
