package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/magicplay247/agent-panel/internal/api/dto"
	"github.com/magicplay247/agent-panel/internal/service"
	apperrors "github.com/magicplay247/agent-panel/pkg/util/errorutil"
)

// ReportsHandler manages agent report endpoints.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// Submit POST /reports. Public, append-only.
func (h *ReportsHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	report, err := h.service.SubmitReport(c.Context(), service.ReportSubmitInput{
		AgentID:        req.AgentID,
		WhatsappNumber: req.WhatsappNumber,
		Reason:         req.Reason,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewReportResponse(report)})
}

// List GET /reports. Administrator review, newest first.
func (h *ReportsHandler) List(c *fiber.Ctx) error {
	reports, err := h.service.ListReports(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReportResponses(reports)})
}
