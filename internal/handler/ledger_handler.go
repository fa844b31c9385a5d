package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"bookkeeping-web/internal/middleware"
	"bookkeeping-web/internal/models"
	"bookkeeping-web/internal/service"
	"bookkeeping-web/internal/utils"
)

type LedgerHandler struct {
	ledgerService *service.LedgerService
}

func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

func (h *LedgerHandler) GetGroups(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)

	groups, err := h.ledgerService.ListGroups(orgID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve ledger groups", err)
	}
	return utils.SuccessResponse(c, "Ledger groups retrieved successfully", groups)
}

func (h *LedgerHandler) CreateGroup(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)

	var req models.LedgerGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	group, err := h.ledgerService.CreateGroup(orgID, &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Ledger group created successfully", group)
}

func (h *LedgerHandler) UpdateGroup(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid group ID", err)
	}

	var req models.LedgerGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	group, err := h.ledgerService.UpdateGroup(orgID, id, &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Ledger group updated successfully", group)
}

func (h *LedgerHandler) DeleteGroup(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid group ID", err)
	}

	if err := h.ledgerService.DeleteGroup(orgID, id); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Ledger group deleted successfully", nil)
}

func (h *LedgerHandler) GetLedgers(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	ledgers, total, err := h.ledgerService.ListLedgers(orgID, params.Limit, offset, params.Search)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve ledgers", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	responseData := fiber.Map{
		"ledgers":    ledgers,
		"pagination": pagination,
	}
	return utils.PaginatedResponseBuilder(c, "Ledgers retrieved successfully", responseData, pagination)
}

func (h *LedgerHandler) GetLedger(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ledger ID", err)
	}

	ledger, err := h.ledgerService.GetLedger(orgID, id)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Ledger retrieved successfully", ledger)
}

func (h *LedgerHandler) CreateLedger(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)

	var req models.LedgerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	ledger, err := h.ledgerService.CreateLedger(orgID, &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Ledger created successfully", ledger)
}

func (h *LedgerHandler) UpdateLedger(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ledger ID", err)
	}

	var req models.LedgerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	ledger, err := h.ledgerService.UpdateLedger(orgID, id, &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Ledger updated successfully", ledger)
}

func (h *LedgerHandler) DeleteLedger(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ledger ID", err)
	}

	if err := h.ledgerService.DeleteLedger(orgID, id); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Ledger deleted successfully", nil)
}

// EnsureAccount materializes the chart-of-accounts entry for a ledger so the
// posting engine can target it by path.
func (h *LedgerHandler) EnsureAccount(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ledger ID", err)
	}

	account, err := h.ledgerService.EnsureAccountFor(orgID, id)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Account ensured successfully", account)
}
