package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foyezullahnishan/Expense-Tracker/internal/config"
	"github.com/foyezullahnishan/Expense-Tracker/internal/database"
	"github.com/foyezullahnishan/Expense-Tracker/internal/models"
	"github.com/foyezullahnishan/Expense-Tracker/internal/router"
	"github.com/foyezullahnishan/Expense-Tracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestEnv builds an in-memory database and an engine with the API mounted.
func newTestEnv(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: testSecret, ExpireHours: 1},
		App: config.AppSubConfig{PageSize: 20},
	}

	r := gin.New()
	router.RegisterAPI(r, cfg, db)
	return r, db
}

// createUser inserts a user directly and returns it with a valid token.
func createUser(t *testing.T, db *gorm.DB, username, email string) (*models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	require.NoError(t, db.Create(user).Error)

	token, err := util.GenerateToken(testSecret, user.ID, time.Hour)
	require.NoError(t, err)

	return user, token
}

// seedTransaction inserts a transaction directly, bypassing the API.
func seedTransaction(t *testing.T, db *gorm.DB, userID uint, txType, category, amount string, date time.Time) *models.Transaction {
	t.Helper()

	amt, err := decimal.NewFromString(amount)
	require.NoError(t, err)

	tx := &models.Transaction{
		UserID:   userID,
		Type:     txType,
		Category: category,
		Amount:   amt,
		Date:     date,
	}
	require.NoError(t, db.Create(tx).Error)
	return tx
}

// doJSON performs a request with an optional bearer token and JSON body.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

func listCategories(t *testing.T, db *gorm.DB, userID uint) []models.Category {
	t.Helper()
	var cats []models.Category
	require.NoError(t, db.Where("user_id = ?", userID).Find(&cats).Error)
	return cats
}

func listTransactions(t *testing.T, db *gorm.DB, userID uint) []models.Transaction {
	t.Helper()
	var txs []models.Transaction
	require.NoError(t, db.Where("user_id = ?", userID).Find(&txs).Error)
	return txs
}
