package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "medico"
	RolePatient Role = "paciente"
)

// User represents an account in the system. Doctors own an additional
// Doctor profile row linked through Doctor.UserID.
type User struct {
	BaseModel
	Name       string `gorm:"size:100;not null" json:"nombre"`
	NationalID string `gorm:"column:national_id;uniqueIndex;size:20;not null" json:"cedula"`
	Email      string `gorm:"uniqueIndex;size:255;not null" json:"correo"`
	Password   string `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	Gender     string `gorm:"size:20" json:"genero,omitempty"`
	Role       Role   `gorm:"size:20;default:'paciente'" json:"rol"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID           string    `json:"id"`
	Name         string    `json:"nombre"`
	NationalID   string    `json:"cedula"`
	Email        string    `json:"correo"`
	Gender       string    `json:"genero,omitempty"`
	Role         Role      `json:"rol"`
	RegisteredAt time.Time `json:"fecha_registro"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:           u.ID,
		Name:         u.Name,
		NationalID:   u.NationalID,
		Email:        u.Email,
		Gender:       u.Gender,
		Role:         u.Role,
		RegisteredAt: u.CreatedAt,
	}
}
