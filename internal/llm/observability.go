package llm

import "log/slog"

// CallEvent records metadata about one completed gateway invocation,
// across all of its attempts.
type CallEvent struct {
	Model     string
	Attempts  int
	LatencyMs int64
	Success   bool
	ErrorClass ErrorClass
}

// AttemptFailure records one failed attempt inside an invocation.
type AttemptFailure struct {
	Model      string
	Attempt    int // 0-based
	ErrorClass ErrorClass
	Err        error
}

// Observer receives events about completion calls for logging and metrics.
type Observer interface {
	OnAttemptFailure(f AttemptFailure)
	OnCallComplete(e CallEvent)
}

// SlogObserver logs completion events through a structured logger.
// Successes are not logged beyond normal request tracing.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver creates an Observer that logs to the given logger.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnAttemptFailure(f AttemptFailure) {
	o.logger.Warn("completion attempt failed",
		"model", f.Model,
		"attempt", f.Attempt,
		"error_class", string(f.ErrorClass),
		"error", f.Err,
	)
}

func (o *SlogObserver) OnCallComplete(e CallEvent) {
	if e.Success {
		return
	}
	o.logger.Warn("completion call yielded no text",
		"model", e.Model,
		"attempts", e.Attempts,
		"latency_ms", e.LatencyMs,
		"error_class", string(e.ErrorClass),
	)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnAttemptFailure(AttemptFailure) {}
func (NoopObserver) OnCallComplete(CallEvent)        {}
