package handler

import (
	"github.com/gofiber/fiber/v2"

	"bookkeeping-web/internal/middleware"
	"bookkeeping-web/internal/models"
	"bookkeeping-web/internal/service"
	"bookkeeping-web/internal/utils"
)

type CounterHandler struct {
	sequenceService *service.SequenceService
}

func NewCounterHandler(sequenceService *service.SequenceService) *CounterHandler {
	return &CounterHandler{sequenceService: sequenceService}
}

// NextNumber reserves and returns the next voucher number for the named
// sequence. The reservation is permanent even if the caller never uses it.
func (h *CounterHandler) NextNumber(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)
	name := c.Params("name")

	var cfg models.CounterConfig
	if err := c.BodyParser(&cfg); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	number, err := h.sequenceService.Next(name, orgID, cfg)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Voucher number reserved successfully", fiber.Map{
		"name":   name,
		"number": number,
	})
}

// PeekNumber previews the next voucher number without reserving it. The
// preview is advisory only; a concurrent writer can take the number first.
func (h *CounterHandler) PeekNumber(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)
	name := c.Params("name")

	number, err := h.sequenceService.Peek(name, orgID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Voucher number preview", fiber.Map{
		"name":   name,
		"number": number,
	})
}
