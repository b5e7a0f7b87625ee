package audit

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/botdock/pkg/contextkeys"
)

// Logger is the interface for audit logging. Implementations write
// synchronously; Log returns once the event is persisted or has failed.
type Logger interface {
	Log(ctx context.Context, event *Event) error
	Close() error
}

// NewEvent creates an event with request context fields populated
func NewEvent(ctx context.Context, eventType EventType, status EventStatus) *Event {
	event := &Event{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Status:    status,
		RequestID: contextkeys.GetRequestID(ctx),
		IPAddress: contextkeys.GetClientIP(ctx),
		UserAgent: contextkeys.GetUserAgent(ctx),
		Metadata:  make(map[string]interface{}),
	}

	if identity, ok := contextkeys.Identity(ctx); ok {
		event.UserID = identity.ID
		event.Email = identity.Email
	}

	return event
}

// Recorder writes audit events on a best-effort basis: a failing sink is
// logged and never surfaces to the caller.
type Recorder struct {
	logger Logger
	log    logrus.FieldLogger
}

// NewRecorder creates a recorder. A nil logger records nothing.
func NewRecorder(logger Logger, log logrus.FieldLogger) *Recorder {
	if logger == nil {
		logger = NoOpLogger{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Recorder{logger: logger, log: log}
}

// Record writes event
func (r *Recorder) Record(ctx context.Context, event *Event) {
	if r == nil {
		return
	}
	if err := r.logger.Log(ctx, event); err != nil {
		contextkeys.Logger(ctx, r.log).WithError(err).
			WithField("event_type", event.EventType).
			Warn("failed to write audit event")
	}
}

// Success records a successful event of eventType
func (r *Recorder) Success(ctx context.Context, eventType EventType, resourceType ResourceType, resourceID, message string) {
	event := NewEvent(ctx, eventType, EventStatusSuccess)
	event.ResourceType = resourceType
	event.ResourceID = resourceID
	event.Message = message
	r.Record(ctx, event)
}

// Failure records a failed event of eventType
func (r *Recorder) Failure(ctx context.Context, eventType EventType, message string, err error) {
	event := NewEvent(ctx, eventType, EventStatusFailure)
	event.Message = message
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	r.Record(ctx, event)
}

// Denied records an access denied event
func (r *Recorder) Denied(ctx context.Context, resourceType ResourceType, resourceID, reason string) {
	event := NewEvent(ctx, EventTypeAuthzAccessDenied, EventStatusDenied)
	event.ResourceType = resourceType
	event.ResourceID = resourceID
	event.Message = "Access denied: " + reason
	r.Record(ctx, event)
}

// NoOpLogger discards every event
type NoOpLogger struct{}

func (NoOpLogger) Log(ctx context.Context, event *Event) error {
	return nil
}

func (NoOpLogger) Close() error {
	return nil
}
