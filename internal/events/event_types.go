package events

import (
	"time"

	"github.com/magicplay247/agent-panel/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAgentCreated    EventType = "agent_created"
	EventAgentUpdated    EventType = "agent_updated"
	EventAgentDeleted    EventType = "agent_deleted"
	EventNoticeCreated   EventType = "notice_created"
	EventNoticeUpdated   EventType = "notice_updated"
	EventNoticeDeleted   EventType = "notice_deleted"
	EventReportSubmitted EventType = "report_submitted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AgentPayload describes an agent lifecycle change.
type AgentPayload struct {
	AgentID  string           `json:"agent_id"`
	Type     domain.AgentType `json:"type"`
	Name     string           `json:"name"`
	UplineID *string          `json:"upline_id,omitempty"`
}

// NoticePayload describes a notice lifecycle change.
type NoticePayload struct {
	NoticeID string                `json:"notice_id"`
	Title    string                `json:"title"`
	Priority domain.NoticePriority `json:"priority"`
	IsActive bool                  `json:"is_active"`
}

// ReportSubmittedPayload describes an accepted agent report.
type ReportSubmittedPayload struct {
	ReportID  int64  `json:"report_id"`
	AgentID   string `json:"agent_id"`
	AgentName string `json:"agent_name"`
}
