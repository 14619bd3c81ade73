package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"medicicol-server/internal/models"
	"medicicol-server/internal/utils"
)

// AdminHandler handles administrative overrides and the read-only
// aggregates.
type AdminHandler struct {
	DB *gorm.DB
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{DB: db}
}

// ListUsers lists every account, optionally filtered by role.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	query := h.DB.Order("created_at")
	if role := c.Query("rol"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, 0, len(users))
	for _, user := range users {
		sanitized = append(sanitized, user.Sanitize())
	}

	utils.Success(c, "Usuarios obtenidos exitosamente", sanitized)
}

// UpdateUserRequest represents the request body for editing an account.
type UpdateUserRequest struct {
	Name  string `json:"nombre"`
	Email string `json:"correo"`
	Role  string `json:"rol"`
}

// UpdateUser edits an account. When the account owns a doctor profile the
// mirrored name/email columns are updated in the same transaction, so the
// two rows cannot drift apart.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if req.Name == "" && req.Email == "" && req.Role == "" {
		utils.BadRequest(c, "No se proporcionaron campos para actualizar")
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Usuario no encontrado")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Role != "" {
		user.Role = models.Role(req.Role)
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		var doctor models.Doctor
		err := tx.First(&doctor, "user_id = ?", user.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		doctor.Name = user.Name
		doctor.Email = user.Email
		return tx.Save(&doctor).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Error al actualizar usuario: "+err.Error())
		return
	}

	utils.Success(c, "Usuario actualizado correctamente", user.Sanitize())
}

// DeleteUser removes an account and, for doctors, its profile row.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	var user models.User
	if err := h.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Usuario no encontrado")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).
			Delete(&models.Doctor{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Error al eliminar usuario: "+err.Error())
		return
	}

	utils.Success(c, "Usuario eliminado correctamente", nil)
}

// ListDoctors lists every doctor profile with its specialty resolved.
func (h *AdminHandler) ListDoctors(c *gin.Context) {
	var doctors []models.Doctor
	if err := h.DB.Preload("Specialty").Order("name").Find(&doctors).Error; err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	profiles := make([]DoctorProfile, 0, len(doctors))
	for _, doctor := range doctors {
		profiles = append(profiles, DoctorProfile{
			ID:         doctor.ID,
			Name:       doctor.Name,
			NationalID: doctor.NationalID,
			Email:      doctor.Email,
			Phone:      doctor.Phone,
			Specialty:  doctor.Specialty.Name,
		})
	}

	utils.Success(c, "Médicos obtenidos exitosamente", profiles)
}

// UpdateDoctorRequest represents the request body for editing a doctor.
type UpdateDoctorRequest struct {
	Name        string `json:"nombre"`
	Email       string `json:"correo"`
	Phone       string `json:"telefono"`
	SpecialtyID string `json:"id_especialidad"`
}

// UpdateDoctor edits a doctor profile and its owned account in a single
// transaction; both rows change or neither does.
func (h *AdminHandler) UpdateDoctor(c *gin.Context) {
	var req UpdateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if req.Name == "" && req.Email == "" && req.Phone == "" && req.SpecialtyID == "" {
		utils.BadRequest(c, "No se proporcionaron campos para actualizar")
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Médico no encontrado")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if req.SpecialtyID != "" {
		var specialty models.Specialty
		if err := h.DB.First(&specialty, "id = ?", req.SpecialtyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.NotFound(c, "Especialidad no encontrada")
			} else {
				utils.InternalServerError(c, "Database error: "+err.Error())
			}
			return
		}
		doctor.SpecialtyID = req.SpecialtyID
	}
	if req.Name != "" {
		doctor.Name = req.Name
	}
	if req.Email != "" {
		doctor.Email = req.Email
	}
	if req.Phone != "" {
		doctor.Phone = req.Phone
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&doctor).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.First(&user, "id = ?", doctor.UserID).Error; err != nil {
			return err
		}
		user.Name = doctor.Name
		user.Email = doctor.Email
		return tx.Save(&user).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Error al actualizar médico: "+err.Error())
		return
	}

	utils.Success(c, "Médico actualizado correctamente", doctor)
}

// DeleteDoctor removes a doctor profile together with its account.
func (h *AdminHandler) DeleteDoctor(c *gin.Context) {
	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Médico no encontrado")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&doctor).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", doctor.UserID).Delete(&models.User{}).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Error al eliminar médico: "+err.Error())
		return
	}

	utils.Success(c, "Médico eliminado correctamente", nil)
}

// ListAppointments lists every appointment with optional estado and fecha
// filters.
func (h *AdminHandler) ListAppointments(c *gin.Context) {
	query := h.DB.Preload("Patient").Preload("Doctor").Preload("Specialty").
		Order("date DESC, time DESC")
	if status := c.Query("estado"); status != "" {
		query = query.Where("status = ?", status)
	}
	if date := c.Query("fecha"); date != "" {
		query = query.Where("date = ?", date)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	details := make([]AppointmentDetail, 0, len(appointments))
	for _, appointment := range appointments {
		details = append(details, toDetail(appointment))
	}

	utils.Success(c, "Citas obtenidas exitosamente", details)
}

// Statistics holds the read-side aggregates, recomputed fully per call.
type Statistics struct {
	Patients  int64 `json:"pacientes_registrados"`
	Doctors   int64 `json:"medicos_registrados"`
	Total     int64 `json:"citas_totales"`
	Attended  int64 `json:"citas_atendidas"`
	Cancelled int64 `json:"citas_canceladas"`
}

// GetStatistics returns the basic system counters.
func (h *AdminHandler) GetStatistics(c *gin.Context) {
	var stats Statistics

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.Patients, h.DB.Model(&models.User{}).Where("role = ?", models.RolePatient)},
		{&stats.Doctors, h.DB.Model(&models.User{}).Where("role = ?", models.RoleDoctor)},
		{&stats.Total, h.DB.Model(&models.Appointment{})},
		{&stats.Attended, h.DB.Model(&models.Appointment{}).Where("status = ?", models.StatusAttended)},
		{&stats.Cancelled, h.DB.Model(&models.Appointment{}).Where("status = ?", models.StatusCancelled)},
	}
	for _, count := range counts {
		if err := count.query.Count(count.dest).Error; err != nil {
			utils.InternalServerError(c, "Database error: "+err.Error())
			return
		}
	}

	utils.Success(c, "Estadísticas obtenidas exitosamente", stats)
}
