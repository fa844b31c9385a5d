package service

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"bookkeeping-web/internal/models"
)

type ExcelService struct{}

func NewExcelService() *ExcelService {
	return &ExcelService{}
}

// ExportTrialBalance writes a trial balance to an Excel workbook at
// filePath.
func (s *ExcelService) ExportTrialBalance(tb *models.TrialBalance, asOf time.Time, filePath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Trial Balance"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Trial Balance as of %s", asOf.Format("2006-01-02")))

	headers := []string{"Code", "Name", "Type", "Debit", "Credit"}
	for i, header := range headers {
		cell := fmt.Sprintf("%s3", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A3", fmt.Sprintf("%s3", getColumnName(len(headers)-1)), headerStyle)

	row := 4
	for _, account := range tb.Accounts {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), account.AccountCode)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), account.AccountName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), string(account.AccountType))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), account.DebitAmount.InexactFloat64())
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), account.CreditAmount.InexactFloat64())
		row++
	}

	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), "TOTAL")
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), tb.TotalDebits.InexactFloat64())
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), tb.TotalCredits.InexactFloat64())
	totalStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), totalStyle)

	// Set column widths
	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 35)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "E", 16)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(filePath)
}

// ExportAccounts writes the chart of accounts to an Excel workbook at
// filePath.
func (s *ExcelService) ExportAccounts(accounts []models.Account, filePath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Accounts"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headers := []string{"Code", "Name", "Path", "Type", "Subtype", "Parent Code", "Is Active"}
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(headers)-1)), headerStyle)

	for i, account := range accounts {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), account.AccountCode)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), account.AccountName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), account.Path)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), string(account.AccountType))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), account.Subtype)
		if account.ParentCode != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), *account.ParentCode)
		}

		isActiveStr := "No"
		if account.IsActive {
			isActiveStr = "Yes"
		}
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), isActiveStr)
	}

	// Set column widths
	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "C", "C", 45)
	f.SetColWidth(sheetName, "D", "E", 14)
	f.SetColWidth(sheetName, "F", "F", 12)
	f.SetColWidth(sheetName, "G", "G", 10)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(filePath)
}

// getColumnName converts a zero-based column index to an Excel column name
func getColumnName(index int) string {
	name := ""
	for index >= 0 {
		name = string(rune('A'+index%26)) + name
		index = index/26 - 1
	}
	return name
}
