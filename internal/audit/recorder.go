package audit

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Recorder is the append-only audit sink capability. Record is fire-and-forget:
// it must return immediately and never block the caller's critical path.
type Recorder interface {
	Record(event *Event)
}

// LogRecorder emits signed audit events as structured JSON through slog.
// Events are buffered on a bounded channel and written by a background
// goroutine; when the buffer is full the event is dropped and counted rather
// than blocking the request pipeline.
type LogRecorder struct {
	logger  *slog.Logger
	signer  Signer
	events  chan *Event
	dropped atomic.Int64
	done    chan struct{}
	once    sync.Once
}

// NewLogRecorder creates a recorder with the given buffer capacity and starts
// its writer goroutine. Call Close to flush and stop it.
func NewLogRecorder(logger *slog.Logger, signer Signer, bufferSize int) *LogRecorder {
	if bufferSize <= 0 {
		bufferSize = 1024
	}

	r := &LogRecorder{
		logger: logger,
		signer: signer,
		events: make(chan *Event, bufferSize),
		done:   make(chan struct{}),
	}

	go r.writeLoop()
	return r
}

// Record enqueues an event for emission. Never blocks: if the buffer is full
// the event is dropped and the drop counter incremented.
func (r *LogRecorder) Record(event *Event) {
	if event == nil {
		return
	}

	select {
	case r.events <- event:
	default:
		r.dropped.Add(1)
	}
}

// Dropped returns the number of events lost to buffer overflow.
func (r *LogRecorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close stops the writer goroutine after draining buffered events.
func (r *LogRecorder) Close() {
	r.once.Do(func() {
		close(r.events)
		<-r.done
	})
}

// writeLoop signs and emits events until the channel is closed.
func (r *LogRecorder) writeLoop() {
	defer close(r.done)

	for event := range r.events {
		r.emit(event)
	}
}

// emit signs the event and writes it as a structured log record.
func (r *LogRecorder) emit(event *Event) {
	if r.signer != nil {
		signature, err := r.signer.Sign(event)
		if err != nil {
			r.logger.Error("failed to sign audit event",
				slog.String("event_id", event.ID.String()),
				slog.Any("error", err))
		} else {
			event.Signature = signature
		}
	}

	attrs := []any{
		slog.String("event_id", event.ID.String()),
		slog.String("kind", string(event.Kind)),
		slog.String("subject", event.Subject),
		slog.Bool("granted", event.Granted),
		slog.Time("created_at", event.CreatedAt),
	}
	if event.Resource != "" {
		attrs = append(attrs, slog.String("resource", event.Resource))
	}
	if event.Action != "" {
		attrs = append(attrs, slog.String("action", event.Action))
	}
	if event.Reason != "" {
		attrs = append(attrs, slog.String("reason", event.Reason))
	}
	if event.Severity != "" {
		attrs = append(attrs, slog.String("severity", event.Severity))
	}
	if event.Payload != nil {
		attrs = append(attrs, slog.Any("payload", event.Payload))
	}
	if event.Signature != "" {
		attrs = append(attrs, slog.String("signature", event.Signature))
	}

	switch event.Kind {
	case KindSecurityEvent:
		r.logger.Warn("audit", attrs...)
	default:
		r.logger.Info("audit", attrs...)
	}
}

// NopRecorder discards all events. Useful for tests that don't assert on auditing.
type NopRecorder struct{}

// Record does nothing.
func (NopRecorder) Record(*Event) {}
