package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"medicicol-server/internal/models"
	"medicicol-server/internal/utils"
)

// InquiryHandler handles the complaint/inquiry log.
type InquiryHandler struct {
	DB *gorm.DB
}

// NewInquiryHandler creates a new InquiryHandler.
func NewInquiryHandler(db *gorm.DB) *InquiryHandler {
	return &InquiryHandler{DB: db}
}

// CreateInquiryRequest represents the request body for logging an inquiry.
type CreateInquiryRequest struct {
	Email        string `json:"correo" binding:"required,email"`
	Name         string `json:"nombre" binding:"required"`
	Observations string `json:"observaciones"`
}

// CreateInquiry records a complaint or question.
func (h *InquiryHandler) CreateInquiry(c *gin.Context) {
	var req CreateInquiryRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	inquiry := models.Inquiry{
		Email:        req.Email,
		Name:         req.Name,
		Observations: req.Observations,
	}
	if err := h.DB.Create(&inquiry).Error; err != nil {
		utils.InternalServerError(c, "Error al crear el registro: "+err.Error())
		return
	}

	utils.Created(c, "Duda/queja registrada correctamente", inquiry)
}

// ListInquiries lists the log, newest first.
func (h *InquiryHandler) ListInquiries(c *gin.Context) {
	var inquiries []models.Inquiry
	if err := h.DB.Order("created_at DESC").Find(&inquiries).Error; err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}
	utils.Success(c, "Dudas obtenidas exitosamente", inquiries)
}

// DeleteInquiry removes one entry from the log.
func (h *InquiryHandler) DeleteInquiry(c *gin.Context) {
	var inquiry models.Inquiry
	if err := h.DB.First(&inquiry, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "No existe un registro con ese ID")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if err := h.DB.Delete(&inquiry).Error; err != nil {
		utils.InternalServerError(c, "Error al eliminar registro: "+err.Error())
		return
	}

	utils.Success(c, "Registro eliminado correctamente", nil)
}
