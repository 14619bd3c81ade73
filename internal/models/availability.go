package models

// AvailabilityWindow is a recurring weekly time range in which a doctor
// accepts appointments. Weekday holds an English day name ("Monday");
// times are zero-padded "15:04" strings so they compare lexically.
// Both bounds are inclusive.
type AvailabilityWindow struct {
	BaseModel
	DoctorID  string `gorm:"size:36;index;not null" json:"id_medico"`
	Weekday   string `gorm:"size:10;not null" json:"dia_semana"`
	StartTime string `gorm:"size:5;not null" json:"hora_inicio"`
	EndTime   string `gorm:"size:5;not null" json:"hora_fin"`

	Doctor Doctor `gorm:"foreignKey:DoctorID" json:"-"`
}
