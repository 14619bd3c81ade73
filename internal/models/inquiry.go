package models

// Inquiry is a free-form complaint or question left by a visitor. Pure
// log, no lifecycle.
type Inquiry struct {
	BaseModel
	Email        string `gorm:"size:255;not null" json:"correo"`
	Name         string `gorm:"size:100;not null" json:"nombre"`
	Observations string `gorm:"type:text" json:"observaciones,omitempty"`
}
