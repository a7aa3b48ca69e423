package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/magicplay247/agent-panel/internal/events"
	"github.com/magicplay247/agent-panel/internal/observability"
)

// AuditService turns domain events into a structured audit log and the
// business metrics series.
type AuditService struct {
	logger     *zap.Logger
	dispatcher events.Dispatcher
}

// NewAuditService builds the service.
func NewAuditService(logger *zap.Logger, dispatcher events.Dispatcher) *AuditService {
	return &AuditService{logger: logger, dispatcher: dispatcher}
}

// RegisterHandlers subscribes the audit handlers to every lifecycle event.
func (s *AuditService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventAgentCreated, s.onAgentCreated)
	s.dispatcher.Subscribe(events.EventAgentUpdated, s.logEvent)
	s.dispatcher.Subscribe(events.EventAgentDeleted, s.onAgentDeleted)
	s.dispatcher.Subscribe(events.EventNoticeCreated, s.logEvent)
	s.dispatcher.Subscribe(events.EventNoticeUpdated, s.logEvent)
	s.dispatcher.Subscribe(events.EventNoticeDeleted, s.logEvent)
	s.dispatcher.Subscribe(events.EventReportSubmitted, s.onReportSubmitted)
}

func (s *AuditService) onAgentCreated(ctx context.Context, event events.Event) error {
	if payload, ok := event.Payload.(events.AgentPayload); ok {
		observability.RecordAgentCreated(string(payload.Type))
	}
	return s.logEvent(ctx, event)
}

func (s *AuditService) onAgentDeleted(ctx context.Context, event events.Event) error {
	if payload, ok := event.Payload.(events.AgentPayload); ok {
		observability.RecordAgentDeleted(string(payload.Type))
	}
	return s.logEvent(ctx, event)
}

func (s *AuditService) onReportSubmitted(ctx context.Context, event events.Event) error {
	observability.RecordReportSubmitted()
	return s.logEvent(ctx, event)
}

func (s *AuditService) logEvent(_ context.Context, event events.Event) error {
	s.logger.Info("audit",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Time("timestamp", event.Timestamp),
		zap.Any("payload", event.Payload),
	)
	return nil
}
