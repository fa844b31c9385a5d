package handler

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"

	"bookkeeping-web/internal/config"
	"bookkeeping-web/internal/middleware"
	"bookkeeping-web/internal/service"
	"bookkeeping-web/internal/utils"
)

type BalanceHandler struct {
	balanceService *service.BalanceService
	excelService   *service.ExcelService
	cfg            *config.Config
}

func NewBalanceHandler(balanceService *service.BalanceService, cfg *config.Config) *BalanceHandler {
	return &BalanceHandler{
		balanceService: balanceService,
		excelService:   service.NewExcelService(),
		cfg:            cfg,
	}
}

// GetBalances returns signed per-path balances under a path prefix.
// Sign convention: credit positive, debit negative.
func (h *BalanceHandler) GetBalances(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)
	prefix := c.Query("prefix")

	query, err := parseBalanceQuery(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid date parameter", err)
	}

	balances, err := h.balanceService.BalanceOf(orgID, prefix, query)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Balances retrieved successfully", balances)
}

func (h *BalanceHandler) GetTrialBalance(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)

	asOf, err := parseDateQuery(c, "as_of", time.Now())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid as_of date", err)
	}

	tb, err := h.balanceService.GenerateTrialBalance(orgID, asOf)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	validation := service.ValidateTrialBalance(tb)
	return utils.SuccessResponse(c, "Trial balance generated successfully", fiber.Map{
		"trial_balance": tb,
		"validation":    validation,
	})
}

func (h *BalanceHandler) ExportTrialBalanceCSV(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)

	asOf, err := parseDateQuery(c, "as_of", time.Now())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid as_of date", err)
	}

	tb, err := h.balanceService.GenerateTrialBalance(orgID, asOf)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	csvData, err := service.ExportToCSV(tb)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to build CSV", err)
	}

	fileName := fmt.Sprintf("trial_balance_%s.csv", asOf.Format("20060102"))
	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, fileName))
	return c.SendString(csvData)
}

func (h *BalanceHandler) ExportTrialBalanceExcel(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)

	asOf, err := parseDateQuery(c, "as_of", time.Now())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid as_of date", err)
	}

	tb, err := h.balanceService.GenerateTrialBalance(orgID, asOf)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	fileName := fmt.Sprintf("trial_balance_%s.xlsx", asOf.Format("20060102"))
	exportPath := filepath.Join(h.cfg.ExportPath, fileName)

	if err := h.excelService.ExportTrialBalance(tb, asOf, exportPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export trial balance", err)
	}
	return c.Download(exportPath, fileName)
}

func parseBalanceQuery(c *fiber.Ctx) (service.BalanceQuery, error) {
	var query service.BalanceQuery
	for param, target := range map[string]**time.Time{
		"as_of": &query.AsOf,
		"start": &query.Start,
		"end":   &query.End,
	} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return query, fmt.Errorf("%s: %w", param, err)
		}
		if param == "end" || param == "as_of" {
			// Date-only bounds are inclusive of the whole day.
			parsed = parsed.Add(24*time.Hour - time.Nanosecond)
		}
		*target = &parsed
	}
	return query, nil
}

func parseDateQuery(c *fiber.Ctx, param string, fallback time.Time) (time.Time, error) {
	raw := c.Query(param)
	if raw == "" {
		return fallback, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.Add(24*time.Hour - time.Nanosecond), nil
}
