package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/foyezullahnishan/Expense-Tracker/internal/middleware"
	"github.com/foyezullahnishan/Expense-Tracker/internal/models"
	"github.com/foyezullahnishan/Expense-Tracker/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryHandler serves category CRUD. Rename and delete also sweep the
// owner's transactions so their denormalized category labels stay consistent.
type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

type createCategoryReq struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"`
}

// Create adds a category for the authenticated user. Names are lowercased
// and must be unique per user.
func (h *CategoryHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	var req createCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "name and type are required")
		return
	}

	name := strings.ToLower(strings.TrimSpace(req.Name))
	if err := util.ValidateCategoryName(name); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	catType := strings.ToLower(strings.TrimSpace(req.Type))
	if !models.IsValidCategoryType(catType) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, fmt.Sprintf("invalid category type %q", req.Type))
		return
	}

	var count int64
	if err := h.DB.Model(&models.Category{}).
		Where("user_id = ? AND name = ?", user.ID, name).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to check existing categories")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, util.CodeConflict, fmt.Sprintf("category %s already exists", name))
		return
	}

	category := models.Category{
		UserID: user.ID,
		Name:   name,
		Type:   catType,
	}
	if err := h.DB.Create(&category).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create category")
		return
	}

	c.JSON(http.StatusCreated, category)
}

// Lists returns all categories owned by the authenticated user.
func (h *CategoryHandler) Lists(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	var categories []models.Category
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load categories")
		return
	}

	c.JSON(http.StatusOK, categories)
}

type updateCategoryReq struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Update renames or retypes a category. Empty fields keep their current
// value. When the name changes, every transaction of the owner still
// carrying the old name is repointed to the new one in the same database
// transaction as the category update.
func (h *CategoryHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	category, ok := h.fetchOwned(c, user)
	if !ok {
		return
	}

	var req updateCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	oldName := category.Name

	if req.Name != "" {
		name := strings.ToLower(strings.TrimSpace(req.Name))
		if err := util.ValidateCategoryName(name); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
		category.Name = name
	}
	if req.Type != "" {
		catType := strings.ToLower(strings.TrimSpace(req.Type))
		if !models.IsValidCategoryType(catType) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, fmt.Sprintf("invalid category type %q", req.Type))
			return
		}
		category.Type = catType
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(category).Error; err != nil {
			return fmt.Errorf("update category: %w", err)
		}
		if category.Name != oldName {
			if err := tx.Model(&models.Transaction{}).
				Where("user_id = ? AND category = ?", user.ID, oldName).
				Update("category", category.Name).Error; err != nil {
				return fmt.Errorf("repoint transactions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update category and its transactions")
		return
	}

	c.JSON(http.StatusOK, category)
}

// Delete removes a category after repointing every transaction that
// references it to the sentinel name. Sweep-then-delete runs in one database
// transaction: a transaction must never reference a name with no category.
func (h *CategoryHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	category, ok := h.fetchOwned(c, user)
	if !ok {
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).
			Where("user_id = ? AND category = ?", user.ID, category.Name).
			Update("category", models.DefaultCategoryName).Error; err != nil {
			return fmt.Errorf("repoint transactions: %w", err)
		}
		if err := tx.Delete(category).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete category and update its transactions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category removed and transactions updated",
	})
}

// fetchOwned resolves the :id parameter to a category and enforces
// ownership: 404 when the id does not resolve, 403 when it belongs to
// someone else. On failure the response has already been written.
func (h *CategoryHandler) fetchOwned(c *gin.Context, user *models.User) (*models.Category, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid category id")
		return nil, false
	}

	var category models.Category
	if err := h.DB.First(&category, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "category not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load category")
		}
		return nil, false
	}

	if category.UserID != user.ID {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "category belongs to another user")
		return nil, false
	}

	return &category, true
}
