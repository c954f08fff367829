package observability

import (
	"context"

	"go.uber.org/zap"
)

// ZapObserver emits events to a zap.Logger. The event type becomes the log
// message and Data keys become fields, sorted for stable output.
type ZapObserver struct {
	logger *zap.Logger
}

// NewZapObserver creates a ZapObserver. A nil logger is replaced by
// zap.NewNop.
func NewZapObserver(logger *zap.Logger) *ZapObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapObserver{logger: logger}
}

func (o *ZapObserver) OnEvent(_ context.Context, event Event) {
	ce := o.logger.Check(event.Level.ZapLevel(), string(event.Type))
	if ce == nil {
		return
	}

	keys := dataKeys(event)
	fields := make([]zap.Field, 0, len(keys)+2)
	fields = append(fields, zap.String("source", event.Source))
	if !event.Timestamp.IsZero() {
		fields = append(fields, zap.Time("event_time", event.Timestamp))
	}
	for _, k := range keys {
		if err, ok := event.Data[k].(error); ok {
			fields = append(fields, zap.NamedError(k, err))
			continue
		}
		fields = append(fields, zap.Any(k, event.Data[k]))
	}

	ce.Write(fields...)
}
