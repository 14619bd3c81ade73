package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"medicicol-server/internal/models"
	"medicicol-server/internal/scheduling"
	"medicicol-server/internal/utils"
)

// AppointmentHandler handles the specialty catalog, slot search and the
// appointment lifecycle.
type AppointmentHandler struct {
	DB *gorm.DB
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB) *AppointmentHandler {
	return &AppointmentHandler{DB: db}
}

// ListSpecialties returns the specialty catalog.
func (h *AppointmentHandler) ListSpecialties(c *gin.Context) {
	var specialties []models.Specialty
	if err := h.DB.Order("name").Find(&specialties).Error; err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}
	utils.Success(c, "Especialidades obtenidas exitosamente", specialties)
}

// CreateSpecialtyRequest represents the request body for adding a specialty.
type CreateSpecialtyRequest struct {
	Name string `json:"nombre" binding:"required"`
}

// CreateSpecialty adds a specialty to the catalog.
func (h *AppointmentHandler) CreateSpecialty(c *gin.Context) {
	var req CreateSpecialtyRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existing models.Specialty
	err := h.DB.Where("name = ?", req.Name).First(&existing).Error
	if err == nil {
		utils.Conflict(c, "La especialidad ya existe")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	specialty := models.Specialty{Name: req.Name}
	if err := h.DB.Create(&specialty).Error; err != nil {
		utils.InternalServerError(c, "Error al crear especialidad: "+err.Error())
		return
	}

	utils.Created(c, "Especialidad creada exitosamente", specialty)
}

// AvailableDoctor is one search result of the availability search.
type AvailableDoctor struct {
	ID        string `json:"id_medico"`
	Name      string `json:"nombre"`
	Specialty string `json:"especialidad"`
	Weekday   string `json:"dia_semana"`
	StartTime string `json:"hora_inicio"`
	EndTime   string `json:"hora_fin"`
}

// SearchAvailableDoctors lists doctors of a specialty with a window covering
// the given weekday and time.
func (h *AppointmentHandler) SearchAvailableDoctors(c *gin.Context) {
	specialtyID := c.Param("id")
	weekday := c.Query("dia_semana")
	clock := c.Query("hora")
	if weekday == "" || clock == "" {
		utils.BadRequest(c, "Se requieren los parámetros dia_semana y hora")
		return
	}

	var results []AvailableDoctor
	err := h.DB.Model(&models.Doctor{}).
		Select("doctors.id AS id, doctors.name AS name, specialties.name AS specialty, "+
			"availability_windows.weekday, availability_windows.start_time, availability_windows.end_time").
		Joins("JOIN specialties ON specialties.id = doctors.specialty_id").
		Joins("JOIN availability_windows ON availability_windows.doctor_id = doctors.id").
		Where("doctors.specialty_id = ? AND availability_windows.weekday = ?", specialtyID, weekday).
		Where("availability_windows.start_time <= ? AND availability_windows.end_time >= ?", clock, clock).
		Scan(&results).Error
	if err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}
	if results == nil {
		results = []AvailableDoctor{}
	}

	utils.Success(c, "Médicos disponibles obtenidos exitosamente", results)
}

// DoctorSlots holds the open hourly slots of one doctor on a date.
type DoctorSlots struct {
	DoctorID string   `json:"id_medico"`
	Name     string   `json:"nombre"`
	Date     string   `json:"fecha"`
	Slots    []string `json:"horas_disponibles"`
}

// GetOpenSlots enumerates, per doctor of the specialty, the hourly times
// still free on the requested date.
func (h *AppointmentHandler) GetOpenSlots(c *gin.Context) {
	specialtyID := c.Param("id")
	date := c.Query("fecha")
	if date == "" {
		utils.BadRequest(c, "Se requiere el parámetro fecha")
		return
	}
	if _, err := scheduling.WeekdayOf(date); err != nil {
		utils.BadRequest(c, "Fecha inválida (use YYYY-MM-DD)")
		return
	}

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

	results := make([]DoctorSlots, 0, len(doctors))
	for _, doctor := range doctors {
		slots, err := scheduling.OpenSlots(h.DB, doctor.ID, date)
		if err != nil {
			utils.InternalServerError(c, "Database error: "+err.Error())
			return
		}
		if len(slots) == 0 {
			continue
		}
		results = append(results, DoctorSlots{
			DoctorID: doctor.ID,
			Name:     doctor.Name,
			Date:     date,
			Slots:    slots,
		})
	}

	utils.Success(c, "Horarios disponibles obtenidos exitosamente", results)
}

// CreateAppointmentRequest represents the request body for booking an
// appointment. id_especialidad is optional and defaults to the doctor's.
type CreateAppointmentRequest struct {
	PatientID   string `json:"id_usuario" binding:"required"`
	DoctorID    string `json:"id_medico" binding:"required"`
	SpecialtyID string `json:"id_especialidad"`
	Date        string `json:"fecha" binding:"required"`
	Time        string `json:"hora" binding:"required"`
}

// CreateAppointment books a new appointment through the scheduling core.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var patient models.User
	if err := h.DB.First(&patient, "id = ?", req.PatientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Usuario no encontrado")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	appointment, err := scheduling.Book(h.DB, scheduling.BookingRequest{
		PatientID:   req.PatientID,
		DoctorID:    req.DoctorID,
		SpecialtyID: req.SpecialtyID,
		Date:        req.Date,
		Time:        req.Time,
	})
	if err != nil {
		h.respondSchedulingError(c, err)
		return
	}

	utils.Created(c, "Cita agendada exitosamente", appointment)
}

// ListAppointments returns every appointment.
func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	var appointments []models.Appointment
	err := h.DB.Order("date DESC, time DESC").Find(&appointments).Error
	if err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}
	utils.Success(c, "Citas obtenidas exitosamente", appointments)
}

// AppointmentDetail is the appointment payload with every name resolved.
type AppointmentDetail struct {
	ID           string                   `json:"id_cita"`
	Patient      string                   `json:"paciente"`
	Doctor       string                   `json:"medico"`
	Specialty    string                   `json:"especialidad"`
	Date         string                   `json:"fecha"`
	Time         string                   `json:"hora"`
	Status       models.AppointmentStatus `json:"estado"`
	Rescheduled  bool                     `json:"reprogramada"`
	OriginalDate string                   `json:"fecha_original,omitempty"`
	OriginalTime string                   `json:"hora_original,omitempty"`
	CaseNote     string                   `json:"nota_medica,omitempty"`
}

func toDetail(appointment models.Appointment) AppointmentDetail {
	return AppointmentDetail{
		ID:           appointment.ID,
		Patient:      appointment.Patient.Name,
		Doctor:       appointment.Doctor.Name,
		Specialty:    appointment.Specialty.Name,
		Date:         appointment.Date,
		Time:         appointment.Time,
		Status:       appointment.Status,
		Rescheduled:  appointment.Rescheduled,
		OriginalDate: appointment.OriginalDate,
		OriginalTime: appointment.OriginalTime,
		CaseNote:     appointment.CaseNote,
	}
}

// GetAppointment returns the detail of one appointment.
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	var appointment models.Appointment
	err := h.DB.Preload("Patient").Preload("Doctor").Preload("Specialty").
		First(&appointment, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Cita no encontrada")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Cita obtenida exitosamente", toDetail(appointment))
}

// GetHistory lists a patient's appointments, most recent first.
func (h *AppointmentHandler) GetHistory(c *gin.Context) {
	var appointments []models.Appointment
	err := h.DB.Preload("Doctor").Preload("Specialty").
		Where("patient_id = ?", c.Param("id")).
		Order("date DESC, time DESC").Find(&appointments).Error
	if err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	history := make([]AppointmentDetail, 0, len(appointments))
	for _, appointment := range appointments {
		detail := toDetail(appointment)
		detail.Patient = ""
		history = append(history, detail)
	}

	utils.Success(c, "Historial obtenido exitosamente", history)
}

// CancelAppointment sets an appointment's status to Cancelada. Cancelling an
// already-cancelled appointment is a no-op.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Cita no encontrada")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	appointment.Status = models.StatusCancelled
	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Error al cancelar cita: "+err.Error())
		return
	}

	utils.Success(c, "Cita cancelada correctamente", appointment)
}

// RescheduleAppointmentRequest represents the request body for rescheduling.
// Unset fields keep the appointment's current values.
type RescheduleAppointmentRequest struct {
	DoctorID string `json:"id_medico"`
	Date     string `json:"nueva_fecha"`
	Time     string `json:"nueva_hora"`
}

// RescheduleAppointment moves an appointment to a new slot through the
// scheduling core.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	var req RescheduleAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if req.DoctorID == "" && req.Date == "" && req.Time == "" {
		utils.BadRequest(c, "No se proporcionaron campos para reprogramar")
		return
	}

	appointment, err := scheduling.Reschedule(h.DB, c.Param("id"), scheduling.RescheduleRequest{
		DoctorID: req.DoctorID,
		Date:     req.Date,
		Time:     req.Time,
	})
	if err != nil {
		h.respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Cita reprogramada correctamente", appointment)
}

// respondSchedulingError maps scheduling core errors to HTTP statuses.
func (h *AppointmentHandler) respondSchedulingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduling.ErrSlotTaken):
		utils.Conflict(c, "El médico ya tiene una cita en esa hora")
	case errors.Is(err, scheduling.ErrDoctorUnavailable):
		utils.BadRequest(c, "El médico no está disponible en ese horario")
	case errors.Is(err, scheduling.ErrSpecialtyMismatch):
		utils.BadRequest(c, "El médico no pertenece a la especialidad indicada")
	case errors.Is(err, scheduling.ErrInvalidSlot):
		utils.BadRequest(c, "Fecha u hora inválida")
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.NotFound(c, "Médico o cita no encontrados")
	default:
		utils.InternalServerError(c, "Database error: "+err.Error())
	}
}
