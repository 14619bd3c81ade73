package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medicicol-server/internal/models"
)

func userRouter(t *testing.T) (*UserHandler, http.Handler) {
	db := setupTestDB(t)
	handler := NewUserHandler(db, testConfig())
	router := newTestRouter()
	router.POST("/usuarios/registro", handler.Register)
	router.POST("/usuarios/login", handler.Login)
	router.GET("/usuarios/:id", handler.GetProfile)
	return handler, router
}

func TestRegisterPasswordMismatchWritesNothing(t *testing.T) {
	handler, router := userRouter(t)

	w := performRequest(t, router, http.MethodPost, "/usuarios/registro", gin.H{
		"nombre":      "Ana",
		"cedula":      "100200300",
		"correo":      "ana@medicicol.test",
		"contrasena":  "secret123",
		"contrasena2": "secret124",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, handler.DB.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterAndLogin(t *testing.T) {
	_, router := userRouter(t)

	w := performRequest(t, router, http.MethodPost, "/usuarios/registro", gin.H{
		"nombre":      "Ana",
		"cedula":      "100200300",
		"correo":      "ana@medicicol.test",
		"contrasena":  "secret123",
		"contrasena2": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Correct credentials return a token.
	w = performRequest(t, router, http.MethodPost, "/usuarios/login", gin.H{
		"correo":     "ana@medicicol.test",
		"contrasena": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			User  models.UserSanitized `json:"usuario"`
			Token string               `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)
	assert.Equal(t, models.RolePatient, resp.Data.User.Role)

	// Wrong password is rejected.
	w = performRequest(t, router, http.MethodPost, "/usuarios/login", gin.H{
		"correo":     "ana@medicicol.test",
		"contrasena": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	handler, router := userRouter(t)
	seedPatient(t, handler.DB, "ana@medicicol.test")

	w := performRequest(t, router, http.MethodPost, "/usuarios/registro", gin.H{
		"nombre":      "Ana",
		"cedula":      "100200300",
		"correo":      "ana@medicicol.test",
		"contrasena":  "secret123",
		"contrasena2": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetProfileNotFound(t *testing.T) {
	_, router := userRouter(t)

	w := performRequest(t, router, http.MethodGet, "/usuarios/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProfileOmitsPassword(t *testing.T) {
	handler, router := userRouter(t)
	patient := seedPatient(t, handler.DB, "ana@medicicol.test")

	w := performRequest(t, router, http.MethodGet, "/usuarios/"+patient.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "contrasena")
	assert.NotContains(t, w.Body.String(), patient.Password)
}
