package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"medicicol-server/internal/config"
	"medicicol-server/internal/models"
	"medicicol-server/internal/utils"
)

// DoctorHandler handles doctor profiles, availability windows and the
// doctor-side appointment operations.
type DoctorHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(db *gorm.DB, cfg *config.Config) *DoctorHandler {
	return &DoctorHandler{DB: db, Cfg: cfg}
}

// RegisterDoctorRequest represents the request body for registering a doctor.
type RegisterDoctorRequest struct {
	Name        string `json:"nombre" binding:"required"`
	NationalID  string `json:"cedula" binding:"required"`
	Email       string `json:"correo" binding:"required,email"`
	Phone       string `json:"telefono" binding:"required"`
	Password    string `json:"contrasena" binding:"required,min=6"`
	SpecialtyID string `json:"id_especialidad" binding:"required"`
}

// RegisterDoctor creates the account and the doctor profile in a single
// transaction; either both rows exist afterwards or neither does.
func (h *DoctorHandler) RegisterDoctor(c *gin.Context) {
	var req RegisterDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var specialty models.Specialty
	if err := h.DB.First(&specialty, "id = ?", req.SpecialtyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Especialidad no encontrada")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
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
		Role:       models.RoleDoctor,
	}
	if err := user.SetPassword(req.Password); err != nil {
		utils.InternalServerError(c, "Failed to hash password: "+err.Error())
		return
	}

	var doctor models.Doctor
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		doctor = models.Doctor{
			UserID:      user.ID,
			Name:        req.Name,
			NationalID:  req.NationalID,
			Email:       req.Email,
			Phone:       req.Phone,
			SpecialtyID: req.SpecialtyID,
		}
		return tx.Create(&doctor).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Error al registrar médico: "+err.Error())
		return
	}

	utils.Created(c, "Médico registrado exitosamente", doctor)
}

// LoginDoctor verifies credentials against accounts with the medico role.
func (h *DoctorHandler) LoginDoctor(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var user models.User
	err := h.DB.Where("email = ? AND role = ?", req.Email, models.RoleDoctor).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Unauthorized(c, "Credenciales incorrectas o usuario no es médico")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !user.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Credenciales incorrectas o usuario no es médico")
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

// DoctorProfile is the doctor detail payload with the specialty resolved.
type DoctorProfile struct {
	ID         string `json:"id_medico"`
	Name       string `json:"nombre"`
	NationalID string `json:"cedula"`
	Email      string `json:"correo"`
	Phone      string `json:"telefono,omitempty"`
	Specialty  string `json:"especialidad"`
}

// GetDoctor returns a doctor's profile by id.
func (h *DoctorHandler) GetDoctor(c *gin.Context) {
	var doctor models.Doctor
	err := h.DB.Preload("Specialty").First(&doctor, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Médico no encontrado")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Perfil obtenido exitosamente", DoctorProfile{
		ID:         doctor.ID,
		Name:       doctor.Name,
		NationalID: doctor.NationalID,
		Email:      doctor.Email,
		Phone:      doctor.Phone,
		Specialty:  doctor.Specialty.Name,
	})
}

// GetDoctorsBySpecialty lists the doctors that belong to a specialty.
func (h *DoctorHandler) GetDoctorsBySpecialty(c *gin.Context) {
	specialtyID := c.Param("id")

	var specialty models.Specialty
	if err := h.DB.First(&specialty, "id = ?", specialtyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Especialidad no encontrada")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var doctors []models.Doctor
	if err := h.DB.Where("specialty_id = ?", specialtyID).Find(&doctors).Error; err != nil {
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
			Specialty:  specialty.Name,
		})
	}

	utils.Success(c, "Médicos obtenidos exitosamente", profiles)
}

// AvailabilityRequest represents the request body for declaring a weekly
// availability window.
type AvailabilityRequest struct {
	Weekday   string `json:"dia_semana" binding:"required"`
	StartTime string `json:"hora_inicio" binding:"required"`
	EndTime   string `json:"hora_fin" binding:"required"`
}

var validWeekdays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

// CreateAvailability registers a recurring availability window for a doctor.
func (h *DoctorHandler) CreateAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if !validWeekdays[req.Weekday] {
		utils.BadRequest(c, "Día de la semana inválido (use Monday..Sunday)")
		return
	}
	start, err := time.Parse("15:04", req.StartTime)
	if err != nil {
		utils.BadRequest(c, "Hora de inicio inválida (use HH:MM)")
		return
	}
	end, err := time.Parse("15:04", req.EndTime)
	if err != nil {
		utils.BadRequest(c, "Hora de fin inválida (use HH:MM)")
		return
	}
	if !start.Before(end) {
		utils.BadRequest(c, "La hora de inicio debe ser anterior a la hora de fin")
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

	window := models.AvailabilityWindow{
		DoctorID:  doctor.ID,
		Weekday:   req.Weekday,
		StartTime: start.Format("15:04"),
		EndTime:   end.Format("15:04"),
	}
	if err := h.DB.Create(&window).Error; err != nil {
		utils.InternalServerError(c, "Error al registrar disponibilidad: "+err.Error())
		return
	}

	utils.Created(c, "Disponibilidad registrada correctamente", window)
}

// GetAvailability lists a doctor's availability windows.
func (h *DoctorHandler) GetAvailability(c *gin.Context) {
	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Médico no encontrado")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var windows []models.AvailabilityWindow
	if err := h.DB.Where("doctor_id = ?", doctor.ID).
		Order("weekday, start_time").Find(&windows).Error; err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	utils.Success(c, "Disponibilidad obtenida exitosamente", windows)
}

// DoctorAppointmentEntry is one row of a doctor's agenda.
type DoctorAppointmentEntry struct {
	ID      string                   `json:"id_cita"`
	Patient string                   `json:"paciente"`
	Date    string                   `json:"fecha"`
	Time    string                   `json:"hora"`
	Status  models.AppointmentStatus `json:"estado"`
}

// GetDoctorAppointments lists the appointments booked with a doctor.
func (h *DoctorHandler) GetDoctorAppointments(c *gin.Context) {
	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Médico no encontrado")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var appointments []models.Appointment
	err := h.DB.Preload("Patient").
		Where("doctor_id = ?", doctor.ID).
		Order("date, time").Find(&appointments).Error
	if err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	entries := make([]DoctorAppointmentEntry, 0, len(appointments))
	for _, appointment := range appointments {
		entries = append(entries, DoctorAppointmentEntry{
			ID:      appointment.ID,
			Patient: appointment.Patient.Name,
			Date:    appointment.Date,
			Time:    appointment.Time,
			Status:  appointment.Status,
		})
	}

	utils.Success(c, "Citas obtenidas exitosamente", entries)
}

// UpdateStatusRequest represents the request body for setting an
// appointment's status.
type UpdateStatusRequest struct {
	Status models.AppointmentStatus `json:"estado" binding:"required,oneof=Pendiente Atendida Cancelada"`
}

// UpdateAppointmentStatus sets the status of an appointment. Any transition
// is allowed; cancelling repeatedly is a no-op.
func (h *DoctorHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Cita no encontrada")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	appointment.Status = req.Status
	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Error al actualizar cita: "+err.Error())
		return
	}

	utils.Success(c, "Cita marcada como "+string(req.Status), appointment)
}

// CaseNoteRequest represents the request body for writing a case note.
type CaseNoteRequest struct {
	CaseNote string `json:"nota_medica" binding:"required"`
}

// AddCaseNote writes the case note of an appointment. Writing a note always
// marks the appointment Atendida, whatever its prior status.
func (h *DoctorHandler) AddCaseNote(c *gin.Context) {
	var req CaseNoteRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Cita no encontrada")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	appointment.CaseNote = req.CaseNote
	appointment.Status = models.StatusAttended
	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Error al agregar nota médica: "+err.Error())
		return
	}

	utils.Success(c, "Nota médica agregada correctamente", appointment)
}
