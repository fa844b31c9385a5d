package handler

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"bookkeeping-web/internal/config"
	"bookkeeping-web/internal/middleware"
	"bookkeeping-web/internal/models"
	"bookkeeping-web/internal/repository"
	"bookkeeping-web/internal/service"
	"bookkeeping-web/internal/utils"
)

type AccountHandler struct {
	accountRepo  *repository.AccountRepository
	coaService   *service.ChartOfAccountsService
	excelService *service.ExcelService
	cfg          *config.Config
}

func NewAccountHandler(accountRepo *repository.AccountRepository, coaService *service.ChartOfAccountsService, cfg *config.Config) *AccountHandler {
	return &AccountHandler{
		accountRepo:  accountRepo,
		coaService:   coaService,
		excelService: service.NewExcelService(),
		cfg:          cfg,
	}
}

func (h *AccountHandler) GetAccounts(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	accounts, total, err := h.accountRepo.FindAll(orgID, params.Limit, offset, params.Search)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve accounts", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))

	responseData := fiber.Map{
		"accounts":   accounts,
		"pagination": pagination,
	}

	return utils.PaginatedResponseBuilder(c, "Accounts retrieved successfully", responseData, pagination)
}

func (h *AccountHandler) GetHierarchy(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)

	tree, err := h.coaService.ListHierarchy(orgID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Account hierarchy retrieved successfully", tree)
}

func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid account ID", err)
	}

	account, err := h.coaService.Get(orgID, id)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Account retrieved successfully", account)
}

// CreateAccount resolves or creates the account at the requested path,
// creating missing ancestors on the way.
func (h *AccountHandler) CreateAccount(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)

	var req models.AccountRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	account, err := h.coaService.ResolveOrCreate(orgID, req.Path)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Account created successfully", account)
}

func (h *AccountHandler) RenameAccount(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid account ID", err)
	}

	var req models.RenameAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	account, err := h.coaService.Rename(orgID, id, req.NewName, req.RewriteTransactions)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Account renamed successfully", account)
}

func (h *AccountHandler) RetireAccount(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid account ID", err)
	}

	account, err := h.coaService.Retire(orgID, id)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Account retired successfully", account)
}

func (h *AccountHandler) DeleteAccount(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid account ID", err)
	}

	if err := h.coaService.Delete(orgID, id); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Account deleted successfully", nil)
}

func (h *AccountHandler) ExportAccounts(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)

	accounts, err := h.accountRepo.GetAllActive(orgID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve accounts", err)
	}

	exportFileName := fmt.Sprintf("accounts_export_%s.xlsx", time.Now().Format("20060102_150405"))
	exportPath := filepath.Join(h.cfg.ExportPath, exportFileName)

	if err := h.excelService.ExportAccounts(accounts, exportPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export accounts", err)
	}

	return c.Download(exportPath, exportFileName)
}
