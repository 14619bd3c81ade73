package models

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "Pendiente"
	StatusAttended  AppointmentStatus = "Atendida"
	StatusCancelled AppointmentStatus = "Cancelada"
)

// Appointment represents a scheduled medical appointment. A reschedule is
// recorded as the Rescheduled flag plus the preserved original slot rather
// than as a status value, so a rescheduled appointment can still be
// attended or cancelled.
type Appointment struct {
	BaseModel
	PatientID    string            `gorm:"size:36;index" json:"id_usuario"`
	DoctorID     string            `gorm:"size:36;index:idx_doctor_slot" json:"id_medico"`
	SpecialtyID  string            `gorm:"size:36;index" json:"id_especialidad"`
	Date         string            `gorm:"size:10;index:idx_doctor_slot" json:"fecha"`
	Time         string            `gorm:"size:5;index:idx_doctor_slot" json:"hora"`
	Status       AppointmentStatus `gorm:"size:20;default:'Pendiente'" json:"estado"`
	Rescheduled  bool              `gorm:"default:false" json:"reprogramada"`
	OriginalDate string            `gorm:"size:10" json:"fecha_original,omitempty"`
	OriginalTime string            `gorm:"size:5" json:"hora_original,omitempty"`
	CaseNote     string            `gorm:"type:text" json:"nota_medica,omitempty"`

	Patient   User      `gorm:"foreignKey:PatientID" json:"-"`
	Doctor    Doctor    `gorm:"foreignKey:DoctorID" json:"-"`
	Specialty Specialty `gorm:"foreignKey:SpecialtyID" json:"-"`
}
