package models

// Specialty is a medical discipline category grouping doctors.
type Specialty struct {
	BaseModel
	Name string `gorm:"uniqueIndex;size:100;not null" json:"nombre"`

	Doctors []Doctor `gorm:"foreignKey:SpecialtyID" json:"-"`
}

// Doctor is the professional profile of a user with the medico role.
// The account is an owned sub-record: profile and account writes always
// happen inside the same transaction so the two rows cannot drift apart.
type Doctor struct {
	BaseModel
	UserID      string `gorm:"size:36;uniqueIndex;not null" json:"id_usuario"`
	Name        string `gorm:"size:100;not null" json:"nombre"`
	NationalID  string `gorm:"column:national_id;size:20;not null" json:"cedula"`
	Email       string `gorm:"size:255;not null" json:"correo"`
	Phone       string `gorm:"size:30" json:"telefono,omitempty"`
	SpecialtyID string `gorm:"size:36;index;not null" json:"id_especialidad"`

	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Specialty Specialty `gorm:"foreignKey:SpecialtyID" json:"-"`
}
