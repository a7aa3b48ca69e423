package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/magicplay247/agent-panel/internal/api/dto"
	"github.com/magicplay247/agent-panel/internal/domain"
	"github.com/magicplay247/agent-panel/internal/service"
	apperrors "github.com/magicplay247/agent-panel/pkg/util/errorutil"
)

// AgentsHandler manages agent hierarchy endpoints.
type AgentsHandler struct {
	service *service.AgentService
}

// NewAgentsHandler constructs handler.
func NewAgentsHandler(agentService *service.AgentService) *AgentsHandler {
	return &AgentsHandler{service: agentService}
}

// ListByType GET /agents?type=<AgentType>.
func (h *AgentsHandler) ListByType(c *fiber.Ctx) error {
	agentType, err := domain.ParseAgentType(c.Query("type"))
	if err != nil {
		return apperrors.NewValidationError("valid type query parameter required", map[string]any{"type": c.Query("type")})
	}
	agents, err := h.service.ListByType(c.Context(), agentType)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAgentResponses(agents)})
}

// ListUpline GET /agents/upline?type=<AgentType>. Returns an empty array for
// the level-1 type.
func (h *AgentsHandler) ListUpline(c *fiber.Ctx) error {
	agentType, err := domain.ParseAgentType(c.Query("type"))
	if err != nil {
		return apperrors.NewValidationError("valid type query parameter required", map[string]any{"type": c.Query("type")})
	}
	agents, err := h.service.ListUpline(c.Context(), agentType)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAgentResponses(agents)})
}

// GetByID GET /agents/:id.
func (h *AgentsHandler) GetByID(c *fiber.Ctx) error {
	agent, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAgentResponse(agent)})
}

// ListDownline GET /agents/:id/downline.
func (h *AgentsHandler) ListDownline(c *fiber.Ctx) error {
	agents, err := h.service.ListDownline(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAgentResponses(agents)})
}

// Create POST /agents.
func (h *AgentsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	agentType, err := domain.ParseAgentType(req.Type)
	if err != nil {
		return apperrors.NewValidationError("valid type required", map[string]any{"type": req.Type})
	}

	agent, err := h.service.CreateAgent(c.Context(), service.AgentCreateInput{
		Name:           req.Name,
		Phone:          req.Phone,
		Type:           agentType,
		UplineID:       req.UplineID,
		Whatsapp:       req.Whatsapp,
		Messenger:      req.Messenger,
		Avatar:         req.Avatar,
		Specialty:      req.Specialty,
		Experience:     req.Experience,
		IdempotencyKey: c.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewAgentResponse(agent)})
}

// Update PATCH /agents/:id. Immutable fields in the body are rejected
// outright rather than ignored.
func (h *AgentsHandler) Update(c *fiber.Ctx) error {
	if err := rejectImmutableFields(c.Body(), "id", "type", "created_at"); err != nil {
		return err
	}

	var req dto.UpdateAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	patch := service.AgentUpdateInput{
		Name:        req.Name,
		Phone:       req.Phone,
		UplineID:    req.UplineID,
		Rating:      req.Rating,
		Whatsapp:    req.Whatsapp,
		Messenger:   req.Messenger,
		Avatar:      req.Avatar,
		Specialty:   req.Specialty,
		Experience:  req.Experience,
		SuccessRate: req.SuccessRate,
	}
	if req.Status != nil {
		status, err := domain.ParseAgentStatus(*req.Status)
		if err != nil {
			return apperrors.NewValidationError("invalid status", map[string]any{"status": *req.Status})
		}
		patch.Status = &status
	}

	agent, err := h.service.UpdateAgent(c.Context(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAgentResponse(agent)})
}

// Delete DELETE /agents/:id. Responds 409 when the agent still has downline
// agents.
func (h *AgentsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteAgent(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func rejectImmutableFields(body []byte, fields ...string) error {
	if len(body) == 0 {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	for _, field := range fields {
		if _, present := raw[field]; present {
			return apperrors.NewValidationError("field is immutable", map[string]any{"field": field})
		}
	}
	return nil
}
