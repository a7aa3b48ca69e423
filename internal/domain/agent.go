package domain

import (
	"fmt"
	"time"
)

// AgentStatus enumerates agent availability states.
type AgentStatus string

const (
	AgentStatusActive    AgentStatus = "active"
	AgentStatusInactive  AgentStatus = "inactive"
	AgentStatusOnMission AgentStatus = "on-mission"
)

// ParseAgentStatus validates a raw status string.
func ParseAgentStatus(raw string) (AgentStatus, error) {
	switch AgentStatus(raw) {
	case AgentStatusActive, AgentStatusInactive, AgentStatusOnMission:
		return AgentStatus(raw), nil
	}
	return "", fmt.Errorf("unknown agent status %q", raw)
}

// DefaultRating is assigned to every freshly created agent.
const DefaultRating = 5

// Agent is one node of the referral hierarchy. ID, Type and CreatedAt are
// immutable after creation; UplineID is nil iff Type is the level-1 type.
type Agent struct {
	ID          string
	Seq         int
	Name        string
	Phone       string
	Type        AgentType
	Status      AgentStatus
	UplineID    *string
	Rating      int
	Whatsapp    string
	Messenger   string
	Avatar      string
	Specialty   string
	Experience  string
	SuccessRate string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ComposeAgentID builds the canonical agent id for a type and sequence
// number, e.g. MP247-SS-ADMIN-0003.
func ComposeAgentID(org string, t AgentType, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", org, IDPrefixOf(t), seq)
}
