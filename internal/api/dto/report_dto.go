package dto

import (
	"time"

	"github.com/magicplay247/agent-panel/internal/domain"
)

// SubmitReportRequest payload.
type SubmitReportRequest struct {
	AgentID        string `json:"agent_id"`
	WhatsappNumber string `json:"whatsapp_number"`
	Reason         string `json:"reason"`
}

// ReportResponse is the wire form of a report row.
type ReportResponse struct {
	ID             int64     `json:"id"`
	AgentID        string    `json:"agent_id"`
	AgentName      string    `json:"agent_name"`
	UplineName     string    `json:"upline_name"`
	WhatsappNumber string    `json:"whatsapp_number"`
	Reason         string    `json:"reason"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewReportResponse hydrates the wire form from a domain report.
func NewReportResponse(report *domain.Report) ReportResponse {
	return ReportResponse{
		ID:             report.ID,
		AgentID:        report.AgentID,
		AgentName:      report.AgentName,
		UplineName:     report.UplineName,
		WhatsappNumber: report.WhatsappNumber,
		Reason:         report.Reason,
		Timestamp:      report.Timestamp,
	}
}

// NewReportResponses hydrates a slice.
func NewReportResponses(reports []domain.Report) []ReportResponse {
	items := make([]ReportResponse, 0, len(reports))
	for i := range reports {
		items = append(items, NewReportResponse(&reports[i]))
	}
	return items
}
