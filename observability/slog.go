package observability

import (
	"context"
	"log/slog"
)

// SlogObserver writes events through a slog.Logger with the same shape as
// ZapObserver: the event type is the message, followed by source,
// event_time and the sorted Data keys.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver creates a SlogObserver. A nil logger discards events.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnEvent(ctx context.Context, event Event) {
	level := event.Level.SlogLevel()
	if !o.logger.Enabled(ctx, level) {
		return
	}

	keys := dataKeys(event)
	attrs := make([]slog.Attr, 0, len(keys)+2)
	attrs = append(attrs, slog.String("source", event.Source))
	if !event.Timestamp.IsZero() {
		attrs = append(attrs, slog.Time("event_time", event.Timestamp))
	}
	for _, k := range keys {
		if err, ok := event.Data[k].(error); ok {
			attrs = append(attrs, slog.String(k, err.Error()))
			continue
		}
		attrs = append(attrs, slog.Any(k, event.Data[k]))
	}

	o.logger.LogAttrs(ctx, level, string(event.Type), attrs...)
}
