package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"medicicol-server/internal/config"
	"medicicol-server/internal/models"
	"medicicol-server/internal/utils"
)

// UserHandler handles patient account requests.
type UserHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB, cfg *config.Config) *UserHandler {
	return &UserHandler{DB: db, Cfg: cfg}
}

// RegisterRequest represents the request body for registering an account.
type RegisterRequest struct {
	Name       string `json:"nombre" binding:"required"`
	NationalID string `json:"cedula" binding:"required"`
	Email      string `json:"correo" binding:"required,email"`
	Password   string `json:"contrasena" binding:"required,min=6"`
	Password2  string `json:"contrasena2" binding:"required"`
	Gender     string `json:"genero"`
	Role       string `json:"rol"`
}

// Register handles creating a patient account. The password confirmation is
// checked before anything is written.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if req.Password != req.Password2 {
		utils.BadRequest(c, "Las contraseñas no coinciden")
		return
	}

	role := models.Role(req.Role)
	if role == "" {
		role = models.RolePatient
	}

	var existing models.User
	err := h.DB.Where("email = ? OR national_id = ?", req.Email, req.NationalID).
		First(&existing).Error
	if err == nil {
		utils.Conflict(c, "Ya existe un usuario con ese correo o cédula")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	user := models.User{
		Name:       req.Name,
		NationalID: req.NationalID,
		Email:      req.Email,
		Gender:     req.Gender,
		Role:       role,
	}
	if err := user.SetPassword(req.Password); err != nil {
		utils.InternalServerError(c, "Failed to hash password: "+err.Error())
		return
	}

	if err := h.DB.Create(&user).Error; err != nil {
		utils.InternalServerError(c, "Error al registrar usuario: "+err.Error())
		return
	}

	utils.Created(c, "Usuario registrado exitosamente", user.Sanitize())
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Email    string `json:"correo" binding:"required,email"`
	Password string `json:"contrasena" binding:"required"`
}

// LoginResponse carries the authenticated user and its access token.
type LoginResponse struct {
	User  models.UserSanitized `json:"usuario"`
	Token string               `json:"token"`
}

// Login verifies credentials and returns the user with a signed token.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Unauthorized(c, "Correo o contraseña incorrectos")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !user.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Correo o contraseña incorrectos")
		return
	}

	token, err := utils.GenerateToken(&user, h.Cfg)
	if err != nil {
		utils.InternalServerError(c, "Failed to issue token: "+err.Error())
		return
	}

	utils.Success(c, "Inicio de sesión exitoso", LoginResponse{
		User:  user.Sanitize(),
		Token: token,
	})
}

// GetProfile returns a user's profile by id.
func (h *UserHandler) GetProfile(c *gin.Context) {
	var user models.User
	if err := h.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Usuario no encontrado")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Perfil obtenido exitosamente", user.Sanitize())
}
