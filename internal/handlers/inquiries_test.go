package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"medicicol-server/internal/models"
)

func inquiryRouter(t *testing.T) (*gorm.DB, http.Handler) {
	db := setupTestDB(t)
	handler := NewInquiryHandler(db)
	router := newTestRouter()
	dudas := router.Group("/dudas")
	dudas.POST("/", handler.CreateInquiry)
	dudas.GET("/", handler.ListInquiries)
	dudas.DELETE("/:id", handler.DeleteInquiry)
	return db, router
}

func TestInquiryLifecycle(t *testing.T) {
	db, router := inquiryRouter(t)

	w := performRequest(t, router, http.MethodPost, "/dudas/", gin.H{
		"correo":        "ana@medicicol.test",
		"nombre":        "Ana",
		"observaciones": "La plataforma no carga",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var inquiry models.Inquiry
	require.NoError(t, db.First(&inquiry).Error)

	w = performRequest(t, router, http.MethodGet, "/dudas/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.Inquiry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)

	w = performRequest(t, router, http.MethodDelete, "/dudas/"+inquiry.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Deleting again reports the missing row.
	w = performRequest(t, router, http.MethodDelete, "/dudas/"+inquiry.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateInquiryRejectsBadEmail(t *testing.T) {
	_, router := inquiryRouter(t)

	w := performRequest(t, router, http.MethodPost, "/dudas/", gin.H{
		"correo": "not-an-email",
		"nombre": "Ana",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
