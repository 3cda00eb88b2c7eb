package router

import (
	"net/http"

	"github.com/foyezullahnishan/Expense-Tracker/internal/config"
	"github.com/foyezullahnishan/Expense-Tracker/internal/handler"
	"github.com/foyezullahnishan/Expense-Tracker/internal/middleware"
	"github.com/foyezullahnishan/Expense-Tracker/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine, static pages and the API.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), recovery())

	// static files and templates
	r.Static("/static", "./web/static")
	r.LoadHTMLGlob("web/templates/*")

	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "login.html", gin.H{
			"title": "Expense Tracker - Login",
		})
	})

	r.GET("/dashboard", func(c *gin.Context) {
		c.HTML(http.StatusOK, "dashboard.html", gin.H{
			"title": "Expense Tracker - Dashboard",
		})
	})

	RegisterAPI(r, cfg, db)

	return r
}

// RegisterAPI mounts the versioned JSON API on the engine. Split out from
// SetupRouter so tests can mount it without templates or static files.
func RegisterAPI(r *gin.Engine, cfg *config.Config, db *gorm.DB) {
	api := r.Group("/api/v1")

	authHandler := handler.NewAuthHandler(db, cfg.JWT.Secret, cfg.JWT.ExpireHours)
	api.POST("/users/register", authHandler.Register)
	api.POST("/users/login", authHandler.Login)

	// everything below requires a resolved identity
	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(cfg.JWT.Secret, db),
		middleware.AuditMiddleware(db),
	)

	protected.GET("/users/profile", handler.Profile)
	protected.PUT("/users/change-password", handler.ChangePassword(db))
	protected.PUT("/users/update-profile", handler.UpdateProfile(db))
	protected.GET("/users/activity", handler.Activity(db, cfg.App.PageSize))

	categoryHandler := handler.NewCategoryHandler(db)
	protected.POST("/categories/create", categoryHandler.Create)
	protected.GET("/categories/lists", categoryHandler.Lists)
	protected.PUT("/categories/update/:id", categoryHandler.Update)
	protected.DELETE("/categories/delete/:id", categoryHandler.Delete)

	transactionHandler := handler.NewTransactionHandler(db)
	protected.POST("/transactions/create", transactionHandler.Create)
	protected.GET("/transactions/lists", transactionHandler.Lists)
	protected.GET("/transactions/summary", transactionHandler.Summary)
	protected.PUT("/transactions/update/:id", transactionHandler.Update)
	protected.DELETE("/transactions/delete/:id", transactionHandler.Delete)

	exportHandler := handler.NewExportHandler(db)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)
}

// recovery turns panics into the same JSON error shape the handlers use, so
// an unhandled failure still yields a non-200 status with a message.
func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, _ interface{}) {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
	})
}
