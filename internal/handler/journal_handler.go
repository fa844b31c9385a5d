package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"bookkeeping-web/internal/middleware"
	"bookkeeping-web/internal/models"
	"bookkeeping-web/internal/service"
	"bookkeeping-web/internal/utils"
)

type JournalHandler struct {
	postingService  *service.PostingService
	sequenceService *service.SequenceService
}

func NewJournalHandler(postingService *service.PostingService, sequenceService *service.SequenceService) *JournalHandler {
	return &JournalHandler{
		postingService:  postingService,
		sequenceService: sequenceService,
	}
}

// PostJournal accepts a memo plus balanced debit/credit lines and persists
// them as one journal. When no voucher number is supplied the journal
// voucher sequence reserves one, retrying on collisions.
func (h *JournalHandler) PostJournal(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)

	var req models.PostingRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if req.VoucherNumber == "" {
		// Validate the lines before reserving, so a rejected posting does
		// not burn a sequence number.
		if err := service.ValidatePostingLines(req.Lines); err != nil {
			return utils.AppErrorResponse(c, err)
		}
		number, err := h.sequenceService.NextUnique(
			models.SeqJournalVoucher, orgID,
			models.CounterConfig{Prefix: "JV-", PaddingSize: 5},
			h.postingService.VoucherNumberExists(orgID),
		)
		if err != nil {
			return utils.AppErrorResponse(c, err)
		}
		req.VoucherNumber = number
	}

	journal, err := h.postingService.Post(orgID, &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Journal posted successfully",
		"data":    journal,
	})
}

func (h *JournalHandler) GetJournals(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	journals, total, err := h.postingService.List(orgID, params.Limit, offset, params.Search)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve journals", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	responseData := fiber.Map{
		"journals":   journals,
		"pagination": pagination,
	}
	return utils.PaginatedResponseBuilder(c, "Journals retrieved successfully", responseData, pagination)
}

func (h *JournalHandler) GetJournal(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid journal ID", err)
	}

	journal, err := h.postingService.Get(orgID, id)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Journal retrieved successfully", journal)
}

func (h *JournalHandler) VoidJournal(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid journal ID", err)
	}

	var req models.VoidRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	journal, err := h.postingService.Void(orgID, id, req.Reason)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Journal voided successfully", journal)
}
