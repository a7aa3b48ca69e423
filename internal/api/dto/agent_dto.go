package dto

import (
	"time"

	"github.com/magicplay247/agent-panel/internal/domain"
)

// CreateAgentRequest payload.
type CreateAgentRequest struct {
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Type       string  `json:"type"`
	UplineID   *string `json:"upline_id"`
	Whatsapp   string  `json:"whatsapp"`
	Messenger  string  `json:"messenger"`
	Avatar     string  `json:"avatar"`
	Specialty  string  `json:"specialty"`
	Experience string  `json:"experience"`
}

// UpdateAgentRequest is a partial patch; absent fields are untouched. Type,
// id and created_at are not accepted here at all.
type UpdateAgentRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Status      *string `json:"status"`
	UplineID    *string `json:"upline_id"`
	Rating      *int    `json:"rating"`
	Whatsapp    *string `json:"whatsapp"`
	Messenger   *string `json:"messenger"`
	Avatar      *string `json:"avatar"`
	Specialty   *string `json:"specialty"`
	Experience  *string `json:"experience"`
	SuccessRate *string `json:"success_rate"`
}

// AgentResponse is the wire form of an agent. Role and level are resolved
// from the hierarchy model at read time, never stored.
type AgentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Type        string    `json:"type"`
	Role        string    `json:"role"`
	Level       int       `json:"level"`
	Status      string    `json:"status"`
	UplineID    *string   `json:"upline_id"`
	Rating      int       `json:"rating"`
	Whatsapp    string    `json:"whatsapp"`
	Messenger   string    `json:"messenger"`
	Avatar      string    `json:"avatar"`
	Specialty   string    `json:"specialty"`
	Experience  string    `json:"experience"`
	SuccessRate string    `json:"success_rate"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewAgentResponse hydrates the wire form from a domain agent.
func NewAgentResponse(agent *domain.Agent) AgentResponse {
	return AgentResponse{
		ID:          agent.ID,
		Name:        agent.Name,
		Phone:       agent.Phone,
		Type:        string(agent.Type),
		Role:        domain.TitleOf(agent.Type),
		Level:       domain.LevelOf(agent.Type),
		Status:      string(agent.Status),
		UplineID:    agent.UplineID,
		Rating:      agent.Rating,
		Whatsapp:    agent.Whatsapp,
		Messenger:   agent.Messenger,
		Avatar:      agent.Avatar,
		Specialty:   agent.Specialty,
		Experience:  agent.Experience,
		SuccessRate: agent.SuccessRate,
		CreatedAt:   agent.CreatedAt,
		UpdatedAt:   agent.UpdatedAt,
	}
}

// NewAgentResponses hydrates a slice.
func NewAgentResponses(agents []domain.Agent) []AgentResponse {
	items := make([]AgentResponse, 0, len(agents))
	for i := range agents {
		items = append(items, NewAgentResponse(&agents[i]))
	}
	return items
}
