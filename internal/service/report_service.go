package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/magicplay247/agent-panel/internal/domain"
	"github.com/magicplay247/agent-panel/internal/events"
	"github.com/magicplay247/agent-panel/internal/repository"
	apperrors "github.com/magicplay247/agent-panel/pkg/util/errorutil"
)

// ReportService accepts public complaints against agents and lists them for
// administrator review.
type ReportService struct {
	reports    repository.ReportRepository
	agents     repository.AgentRepository
	dispatcher events.Dispatcher
}

// NewReportService builds the service.
func NewReportService(reports repository.ReportRepository, agents repository.AgentRepository, dispatcher events.Dispatcher) *ReportService {
	return &ReportService{reports: reports, agents: agents, dispatcher: dispatcher}
}

// ReportSubmitInput describes a public report submission.
type ReportSubmitInput struct {
	AgentID        string
	WhatsappNumber string
	Reason         string
}

// SubmitReport appends a report row. Agent and upline names are snapshotted
// from the store at submission time, so a later rename or delete does not
// rewrite history.
func (s *ReportService) SubmitReport(ctx context.Context, input ReportSubmitInput) (*domain.Report, error) {
	agentID := strings.TrimSpace(input.AgentID)
	whatsapp := strings.TrimSpace(input.WhatsappNumber)
	reason := strings.TrimSpace(input.Reason)
	if agentID == "" || whatsapp == "" || reason == "" {
		return nil, apperrors.NewValidationError("agent_id, whatsapp_number and reason are required", nil)
	}

	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("agent", map[string]any{"id": agentID})
		}
		return nil, apperrors.MapError(err)
	}

	uplineName := ""
	if agent.UplineID != nil {
		if upline, err := s.agents.GetByID(ctx, *agent.UplineID); err == nil {
			uplineName = upline.Name
		}
	}

	report := &domain.Report{
		AgentID:        agent.ID,
		AgentName:      agent.Name,
		UplineName:     uplineName,
		WhatsappNumber: whatsapp,
		Reason:         reason,
	}
	if err := s.reports.Append(ctx, report); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventReportSubmitted,
			Timestamp: time.Now(),
			Payload: events.ReportSubmittedPayload{
				ReportID:  report.ID,
				AgentID:   report.AgentID,
				AgentName: report.AgentName,
			},
		})
	}
	return report, nil
}

// ListReports returns all reports, newest first.
func (s *ReportService) ListReports(ctx context.Context) ([]domain.Report, error) {
	reports, err := s.reports.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reports, nil
}
