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

// AgentService coordinates agent hierarchy workflows. It owns the
// referential rules: every create and update is validated against the
// hierarchy model before touching the store.
type AgentService struct {
	agents      repository.AgentRepository
	idempotency repository.IdempotencyStore
	dispatcher  events.Dispatcher
	idemTTL     time.Duration
}

// AgentDependencies bundles collaborators for the agent service.
type AgentDependencies struct {
	AgentRepo        repository.AgentRepository
	IdempotencyStore repository.IdempotencyStore
	Dispatcher       events.Dispatcher
	IdempotencyTTL   time.Duration
}

// NewAgentService builds the service.
func NewAgentService(deps AgentDependencies) *AgentService {
	return &AgentService{
		agents:      deps.AgentRepo,
		idempotency: deps.IdempotencyStore,
		dispatcher:  deps.Dispatcher,
		idemTTL:     deps.IdempotencyTTL,
	}
}

// AgentCreateInput describes agent creation payload.
type AgentCreateInput struct {
	Name       string
	Phone      string
	Type       domain.AgentType
	UplineID   *string
	Whatsapp   string
	Messenger  string
	Avatar     string
	Specialty  string
	Experience string
	// IdempotencyKey, when set, makes a retried create return the agent the
	// first attempt produced instead of minting a duplicate.
	IdempotencyKey string
}

// AgentUpdateInput is a partial patch. Nil fields are left untouched; id,
// type and creation timestamp are not patchable at all.
type AgentUpdateInput struct {
	Name        *string
	Phone       *string
	Status      *domain.AgentStatus
	UplineID    *string
	Rating      *int
	Whatsapp    *string
	Messenger   *string
	Avatar      *string
	Specialty   *string
	Experience  *string
	SuccessRate *string
}

// CreateAgent validates the hierarchy rules and persists a new agent with
// status active and the default rating.
func (s *AgentService) CreateAgent(ctx context.Context, input AgentCreateInput) (*domain.Agent, error) {
	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	if name == "" || phone == "" {
		return nil, apperrors.NewValidationError("name and phone are required", nil)
	}
	if _, ok := domain.InfoOf(input.Type); !ok {
		return nil, apperrors.NewValidationError("unknown agent type", map[string]any{"type": string(input.Type)})
	}

	if input.IdempotencyKey != "" && s.idempotency != nil {
		if existingID, found, err := s.idempotency.Lookup(ctx, input.IdempotencyKey); err == nil && found {
			return s.GetByID(ctx, existingID)
		}
	}

	if err := s.validateUpline(ctx, input.Type, input.UplineID, ""); err != nil {
		return nil, err
	}

	agent := &domain.Agent{
		Name:        name,
		Phone:       phone,
		Type:        input.Type,
		Status:      domain.AgentStatusActive,
		UplineID:    normalizeUplineID(input.UplineID),
		Rating:      domain.DefaultRating,
		Whatsapp:    strings.TrimSpace(input.Whatsapp),
		Messenger:   strings.TrimSpace(input.Messenger),
		Avatar:      strings.TrimSpace(input.Avatar),
		Specialty:   strings.TrimSpace(input.Specialty),
		Experience:  strings.TrimSpace(input.Experience),
		SuccessRate: "100%",
	}

	if err := s.agents.Create(ctx, agent); err != nil {
		return nil, apperrors.MapError(err)
	}

	if input.IdempotencyKey != "" && s.idempotency != nil {
		_, _, _ = s.idempotency.Remember(ctx, input.IdempotencyKey, agent.ID, s.idemTTL)
	}

	s.publish(ctx, events.EventAgentCreated, events.AgentPayload{
		AgentID:  agent.ID,
		Type:     agent.Type,
		Name:     agent.Name,
		UplineID: agent.UplineID,
	})
	return agent, nil
}

// UpdateAgent applies a partial patch. Type, id and creation timestamp are
// immutable; upline changes are validated against the hierarchy model the
// same way creation is.
func (s *AgentService) UpdateAgent(ctx context.Context, id string, patch AgentUpdateInput) (*domain.Agent, error) {
	agent, err := s.agents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("agent", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name must not be empty", nil)
		}
		agent.Name = name
	}
	if patch.Phone != nil {
		phone := strings.TrimSpace(*patch.Phone)
		if phone == "" {
			return nil, apperrors.NewValidationError("phone must not be empty", nil)
		}
		agent.Phone = phone
	}
	if patch.Status != nil {
		agent.Status = *patch.Status
	}
	if patch.Rating != nil {
		if *patch.Rating < 0 || *patch.Rating > 5 {
			return nil, apperrors.NewValidationError("rating must be between 0 and 5", nil)
		}
		agent.Rating = *patch.Rating
	}
	if patch.UplineID != nil {
		if err := s.validateUpline(ctx, agent.Type, patch.UplineID, agent.ID); err != nil {
			return nil, err
		}
		agent.UplineID = normalizeUplineID(patch.UplineID)
	}
	if patch.Whatsapp != nil {
		agent.Whatsapp = strings.TrimSpace(*patch.Whatsapp)
	}
	if patch.Messenger != nil {
		agent.Messenger = strings.TrimSpace(*patch.Messenger)
	}
	if patch.Avatar != nil {
		agent.Avatar = strings.TrimSpace(*patch.Avatar)
	}
	if patch.Specialty != nil {
		agent.Specialty = strings.TrimSpace(*patch.Specialty)
	}
	if patch.Experience != nil {
		agent.Experience = strings.TrimSpace(*patch.Experience)
	}
	if patch.SuccessRate != nil {
		agent.SuccessRate = strings.TrimSpace(*patch.SuccessRate)
	}

	if err := s.agents.Update(ctx, agent); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("agent", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventAgentUpdated, events.AgentPayload{
		AgentID:  agent.ID,
		Type:     agent.Type,
		Name:     agent.Name,
		UplineID: agent.UplineID,
	})
	return agent, nil
}

// DeleteAgent removes an agent unless it still has downline agents.
func (s *AgentService) DeleteAgent(ctx context.Context, id string) error {
	agent, err := s.agents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("agent", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}

	if err := s.agents.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("agent", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventAgentDeleted, events.AgentPayload{
		AgentID:  agent.ID,
		Type:     agent.Type,
		Name:     agent.Name,
		UplineID: agent.UplineID,
	})
	return nil
}

// GetByID loads one agent.
func (s *AgentService) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	agent, err := s.agents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("agent", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return agent, nil
}

// ListByType returns all agents of one hierarchy tier, newest first.
func (s *AgentService) ListByType(ctx context.Context, agentType domain.AgentType) ([]domain.Agent, error) {
	agents, err := s.agents.ListByType(ctx, agentType)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agents, nil
}

// ListUpline returns the valid upline candidates for agentType. The level-1
// type has none, which yields an empty list rather than an error.
func (s *AgentService) ListUpline(ctx context.Context, agentType domain.AgentType) ([]domain.Agent, error) {
	uplineType, ok := domain.UplineTypeOf(agentType)
	if !ok {
		return []domain.Agent{}, nil
	}
	return s.ListByType(ctx, uplineType)
}

// ListDownline returns the agents directly below the given agent.
func (s *AgentService) ListDownline(ctx context.Context, agentID string) ([]domain.Agent, error) {
	agents, err := s.agents.ListDownline(ctx, agentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agents, nil
}

// validateUpline enforces the hierarchy invariants: the level-1 type carries
// no upline, every other type references an existing agent of exactly the
// configured upline type. selfID guards against self-reference on update.
func (s *AgentService) validateUpline(ctx context.Context, agentType domain.AgentType, uplineID *string, selfID string) error {
	required := domain.RequiresUpline(agentType)
	id := normalizeUplineID(uplineID)

	if id == nil {
		if required {
			return apperrors.NewValidationError("upline required", map[string]any{"type": string(agentType)})
		}
		return nil
	}
	if !required {
		return apperrors.NewValidationError("upline not allowed for top-level agents", nil)
	}
	if selfID != "" && *id == selfID {
		return apperrors.NewValidationError("invalid upline", map[string]any{"upline_id": *id})
	}

	upline, err := s.agents.GetByID(ctx, *id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("invalid upline", map[string]any{"upline_id": *id})
		}
		return apperrors.MapError(err)
	}
	if !domain.IsValidUpline(upline.Type, agentType) {
		return apperrors.NewValidationError("invalid upline", map[string]any{
			"upline_id":   *id,
			"upline_type": string(upline.Type),
		})
	}
	return nil
}

func (s *AgentService) publish(ctx context.Context, eventType events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func normalizeUplineID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
