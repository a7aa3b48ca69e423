package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/magicplay247/agent-panel/internal/api/dto"
	"github.com/magicplay247/agent-panel/internal/domain"
	"github.com/magicplay247/agent-panel/internal/service"
	apperrors "github.com/magicplay247/agent-panel/pkg/util/errorutil"
)

// NoticesHandler manages notice endpoints.
type NoticesHandler struct {
	service *service.NoticeService
}

// NewNoticesHandler constructs handler.
func NewNoticesHandler(noticeService *service.NoticeService) *NoticesHandler {
	return &NoticesHandler{service: noticeService}
}

// List GET /notices. Administrator view of every notice.
func (h *NoticesHandler) List(c *fiber.Ctx) error {
	notices, err := h.service.ListNotices(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewNoticeResponses(notices)})
}

// ListActive GET /notices/active. The public notice board.
func (h *NoticesHandler) ListActive(c *fiber.Ctx) error {
	notices, err := h.service.ListActiveNotices(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewNoticeResponses(notices)})
}

// Create POST /notices.
func (h *NoticesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateNoticeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input := service.NoticeCreateInput{
		Title:    req.Title,
		Content:  req.Content,
		IsActive: req.IsActive,
	}
	if req.Priority != "" {
		priority, err := domain.ParseNoticePriority(req.Priority)
		if err != nil {
			return apperrors.NewValidationError("invalid priority", map[string]any{"priority": req.Priority})
		}
		input.Priority = priority
	}

	notice, err := h.service.CreateNotice(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewNoticeResponse(notice)})
}

// Update PATCH /notices/:id.
func (h *NoticesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateNoticeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	patch := service.NoticeUpdateInput{
		Title:    req.Title,
		Content:  req.Content,
		IsActive: req.IsActive,
	}
	if req.Priority != nil {
		priority, err := domain.ParseNoticePriority(*req.Priority)
		if err != nil {
			return apperrors.NewValidationError("invalid priority", map[string]any{"priority": *req.Priority})
		}
		patch.Priority = &priority
	}

	notice, err := h.service.UpdateNotice(c.Context(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewNoticeResponse(notice)})
}

// Delete DELETE /notices/:id.
func (h *NoticesHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteNotice(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
