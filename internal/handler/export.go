package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/foyezullahnishan/Expense-Tracker/internal/middleware"
	"github.com/foyezullahnishan/Expense-Tracker/internal/models"
	"github.com/foyezullahnishan/Expense-Tracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler downloads the authenticated user's filtered transactions as
// CSV or XLSX. The auth middleware accepts ?token= so these work as plain
// browser links.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

var exportHeader = []string{"ID", "Type", "Category", "Amount", "Date", "Description"}

func (h *ExportHandler) fetchFiltered(c *gin.Context) ([]models.Transaction, bool) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return nil, false
	}

	var filters transactionFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid filter parameters")
		return nil, false
	}

	q, err := buildTransactionQuery(h.DB.Model(&models.Transaction{}), user.ID, filters)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return nil, false
	}

	var transactions []models.Transaction
	if err := q.Order("date DESC, id DESC").Find(&transactions).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return nil, false
	}

	return transactions, true
}

func exportRow(t *models.Transaction) []string {
	return []string{
		fmt.Sprintf("%d", t.ID),
		t.Type,
		t.Category,
		t.Amount.String(),
		t.Date.Format("2006-01-02"),
		t.Description,
	}
}

// ExportCSV streams the filtered transactions as a CSV attachment.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	transactions, ok := h.fetchFiltered(c)
	if !ok {
		return
	}

	filename := fmt.Sprintf("transactions-%s-%s.csv",
		time.Now().Format("20060102"), uuid.NewString()[:8])

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	w := csv.NewWriter(c.Writer)
	_ = w.Write(exportHeader)
	for i := range transactions {
		_ = w.Write(exportRow(&transactions[i]))
	}
	w.Flush()
}

// ExportXLSX writes the filtered transactions as a single-sheet workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	transactions, ok := h.fetchFiltered(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Transactions"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to build workbook")
		return
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	header := make([]interface{}, len(exportHeader))
	for i, name := range exportHeader {
		header[i] = name
	}
	_ = f.SetSheetRow(sheet, "A1", &header)

	for i := range transactions {
		row := exportRow(&transactions[i])
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = f.SetSheetRow(sheet, cell, &cells)
	}

	filename := fmt.Sprintf("transactions-%s-%s.xlsx",
		time.Now().Format("20060102"), uuid.NewString()[:8])

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := f.Write(c.Writer); err != nil {
		// headers already sent; nothing sensible left to report
		return
	}
}
