package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/foyezullahnishan/Expense-Tracker/internal/models"
	"github.com/foyezullahnishan/Expense-Tracker/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	r, _ := newTestEnv(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/users/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "Password1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var registered struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		ID       uint   `json:"id"`
	}
	decodeBody(t, w, &registered)
	assert.Equal(t, "alice", registered.Username)
	assert.Equal(t, "alice@example.com", registered.Email)
	assert.NotZero(t, registered.ID)

	w = doJSON(t, r, http.MethodPost, "/api/v1/users/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "Password1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var logged struct {
		Token    string `json:"token"`
		ID       uint   `json:"id"`
		Email    string `json:"email"`
		Username string `json:"username"`
	}
	decodeBody(t, w, &logged)
	require.NotEmpty(t, logged.Token)
	assert.Equal(t, registered.ID, logged.ID)

	w = doJSON(t, r, http.MethodGet, "/api/v1/users/profile", logged.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profile struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	decodeBody(t, w, &profile)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "alice@example.com", profile.Email)
}

func TestRegisterRejectsDuplicateUser(t *testing.T) {
	r, _ := newTestEnv(t)

	body := map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "Password1",
	}
	w := doJSON(t, r, http.MethodPost, "/api/v1/users/register", "", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/users/register", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "message")
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	r, db := newTestEnv(t)
	createUser(t, db, "alice", "alice@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/v1/users/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	r, db := newTestEnv(t)
	user, _ := createUser(t, db, "alice", "alice@example.com")

	// the write must be rejected before any handler runs: no side effect
	w := doJSON(t, r, http.MethodPost, "/api/v1/categories/create", "", map[string]string{
		"name": "food",
		"type": "expense",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, listCategories(t, db, user.ID))

	w = doJSON(t, r, http.MethodGet, "/api/v1/transactions/lists", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRejectExpiredToken(t *testing.T) {
	r, db := newTestEnv(t)
	user, _ := createUser(t, db, "alice", "alice@example.com")

	expired, err := util.GenerateToken(testSecret, user.ID, time.Millisecond)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	w := doJSON(t, r, http.MethodPost, "/api/v1/transactions/create", expired, map[string]interface{}{
		"type":   "expense",
		"amount": 10,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, listTransactions(t, db, user.ID))
}

func TestChangePasswordAndRelogin(t *testing.T) {
	r, db := newTestEnv(t)
	_, token := createUser(t, db, "alice", "alice@example.com")

	w := doJSON(t, r, http.MethodPut, "/api/v1/users/change-password", token, map[string]string{
		"newPassword": "NewPassword2",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/v1/users/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "NewPassword2",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/users/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "Password1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateProfileKeepsOmittedFields(t *testing.T) {
	r, db := newTestEnv(t)
	user, token := createUser(t, db, "alice", "alice@example.com")

	w := doJSON(t, r, http.MethodPut, "/api/v1/users/update-profile", token, map[string]string{
		"username": "alice2",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "alice2", reloaded.Username)
	assert.Equal(t, "alice@example.com", reloaded.Email)
}
