package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/foyezullahnishan/Expense-Tracker/internal/middleware"
	"github.com/foyezullahnishan/Expense-Tracker/internal/models"
	"github.com/foyezullahnishan/Expense-Tracker/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Profile returns the authenticated user's public profile.
func Profile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username": user.Username,
		"email":    user.Email,
	})
}

type changePasswordReq struct {
	NewPassword string `json:"newPassword" binding:"required,min=6,max=64"`
}

// ChangePassword replaces the authenticated user's password.
func ChangePassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
			return
		}

		var req changePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "newPassword is required")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to hash password")
			return
		}

		if err := db.Model(user).Update("password_hash", string(hash)).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update password")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Password changed successfully",
		})
	}
}

type updateProfileReq struct {
	Username string `json:"username" binding:"max=64"`
	Email    string `json:"email" binding:"max=128"`
}

// UpdateProfile updates username and email. Empty fields keep their current
// value.
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
			return
		}

		var req updateProfileReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))

		if req.Username != "" {
			user.Username = req.Username
		}
		if req.Email != "" {
			if err := util.ValidateEmail(req.Email); err != nil {
				util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
				return
			}
			user.Email = req.Email
		}

		if err := db.Save(user).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update profile")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":     "User profile updated successfully",
			"updatedUser": user,
		})
	}
}

// Activity lists the caller's recent audit-trail rows, newest first.
func Activity(db *gorm.DB, pageSize int) gin.HandlerFunc {
	if pageSize <= 0 {
		pageSize = 20
	}
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page <= 0 {
			page = 1
		}

		var logs []models.AuditLog
		if err := db.Where("user_id = ?", user.ID).
			Order("created_at DESC, id DESC").
			Limit(pageSize).
			Offset((page - 1) * pageSize).
			Find(&logs).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load activity")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items": logs,
			"page":  page,
			"size":  pageSize,
		})
	}
}
