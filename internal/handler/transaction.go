package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/foyezullahnishan/Expense-Tracker/internal/middleware"
	"github.com/foyezullahnishan/Expense-Tracker/internal/models"
	"github.com/foyezullahnishan/Expense-Tracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// allCategories is the filter value meaning "no category restriction".
const allCategories = "All"

// TransactionHandler serves transaction CRUD, filtered listing and summary.
type TransactionHandler struct {
	DB *gorm.DB
}

func NewTransactionHandler(db *gorm.DB) *TransactionHandler {
	return &TransactionHandler{DB: db}
}

// transactionFilters are the optional list/summary/export query parameters.
type transactionFilters struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Type      string `form:"type"`
	Category  string `form:"category"`
}

// buildTransactionQuery narrows q to the user's own transactions matching f.
// Date bounds are inclusive; an inverted range simply matches nothing.
// Category "All" (or absent) applies no category restriction; any other
// value, the sentinel included, is an exact match.
func buildTransactionQuery(q *gorm.DB, userID uint, f transactionFilters) (*gorm.DB, error) {
	q = q.Where("user_id = ?", userID)

	if f.StartDate != "" {
		start, err := util.ParseDate(f.StartDate)
		if err != nil {
			return nil, fmt.Errorf("startDate: %w", err)
		}
		q = q.Where("date >= ?", start)
	}
	if f.EndDate != "" {
		end, err := util.ParseDate(f.EndDate)
		if err != nil {
			return nil, fmt.Errorf("endDate: %w", err)
		}
		q = q.Where("date <= ?", end)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Category != "" && f.Category != allCategories {
		q = q.Where("category = ?", f.Category)
	}

	return q, nil
}

type createTransactionReq struct {
	Type        string          `json:"type" binding:"required,oneof=income expense"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description" binding:"max=255"`
}

// Create records a new transaction. The amount must be a positive magnitude;
// the date defaults to now and an empty category falls back to the sentinel.
func (h *TransactionHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	var req createTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "type and amount are required")
		return
	}

	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = models.DefaultCategoryName
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := util.ParseDate(req.Date)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
		date = parsed
	}

	transaction := models.Transaction{
		UserID:      user.ID,
		Type:        req.Type,
		Category:    category,
		Amount:      req.Amount,
		Date:        date,
		Description: strings.TrimSpace(req.Description),
	}
	if err := h.DB.Create(&transaction).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create transaction")
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

// Lists returns the user's transactions matching the optional filters,
// newest first.
func (h *TransactionHandler) Lists(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	var filters transactionFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid filter parameters")
		return
	}

	q, err := buildTransactionQuery(h.DB.Model(&models.Transaction{}), user.ID, filters)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	var transactions []models.Transaction
	if err := q.Order("date DESC, id DESC").Find(&transactions).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	c.JSON(http.StatusOK, transactions)
}

type updateTransactionReq struct {
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
}

// Update applies a partial update: empty or zero fields keep their current
// value.
func (h *TransactionHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	transaction, ok := h.fetchOwned(c, user)
	if !ok {
		return
	}

	var req updateTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	if req.Type != "" {
		if req.Type != models.CategoryTypeIncome && req.Type != models.CategoryTypeExpense {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, fmt.Sprintf("invalid transaction type %q", req.Type))
			return
		}
		transaction.Type = req.Type
	}
	if category := strings.TrimSpace(req.Category); category != "" {
		transaction.Category = category
	}
	if !req.Amount.IsZero() {
		if err := util.ValidateAmount(req.Amount); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
		transaction.Amount = req.Amount
	}
	if req.Date != "" {
		date, err := util.ParseDate(req.Date)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
		transaction.Date = date
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		transaction.Description = desc
	}

	if err := h.DB.Save(transaction).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update transaction")
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// Delete removes one of the user's transactions.
func (h *TransactionHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	transaction, ok := h.fetchOwned(c, user)
	if !ok {
		return
	}

	if err := h.DB.Delete(transaction).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete transaction")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transaction removed",
	})
}

// Summary aggregates the filtered transactions into income/expense/balance
// totals plus a per-category breakdown. Expense amounts are stored as
// magnitudes, so the sign is applied here.
func (h *TransactionHandler) Summary(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	var filters transactionFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid filter parameters")
		return
	}

	q, err := buildTransactionQuery(h.DB.Model(&models.Transaction{}), user.ID, filters)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	var transactions []models.Transaction
	if err := q.Find(&transactions).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	type categorySummary struct {
		Category string          `json:"category"`
		Income   decimal.Decimal `json:"income"`
		Expense  decimal.Decimal `json:"expense"`
	}

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	byCategory := make(map[string]*categorySummary)

	for i := range transactions {
		t := &transactions[i]

		cs, ok := byCategory[t.Category]
		if !ok {
			cs = &categorySummary{
				Category: t.Category,
				Income:   decimal.Zero,
				Expense:  decimal.Zero,
			}
			byCategory[t.Category] = cs
		}

		if t.Type == models.CategoryTypeIncome {
			totalIncome = totalIncome.Add(t.Amount)
			cs.Income = cs.Income.Add(t.Amount)
		} else {
			totalExpense = totalExpense.Add(t.Amount)
			cs.Expense = cs.Expense.Add(t.Amount)
		}
	}

	categories := make([]categorySummary, 0, len(byCategory))
	for _, cs := range byCategory {
		categories = append(categories, *cs)
	}

	c.JSON(http.StatusOK, gin.H{
		"total_income":  totalIncome,
		"total_expense": totalExpense,
		"balance":       totalIncome.Sub(totalExpense),
		"by_category":   categories,
	})
}

// fetchOwned resolves the :id parameter to a transaction and enforces
// ownership, mirroring the category handler's 404/403 split.
func (h *TransactionHandler) fetchOwned(c *gin.Context, user *models.User) (*models.Transaction, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid transaction id")
		return nil, false
	}

	var transaction models.Transaction
	if err := h.DB.First(&transaction, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "transaction not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transaction")
		}
		return nil, false
	}

	if transaction.UserID != user.ID {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "transaction belongs to another user")
		return nil, false
	}

	return &transaction, true
}
