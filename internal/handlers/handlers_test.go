package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"medicicol-server/internal/config"
	"medicicol-server/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:            "test-secret",
		JWTExpirationMinutes: 15,
	}
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func performRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func seedSpecialty(t *testing.T, db *gorm.DB, name string) models.Specialty {
	t.Helper()
	specialty := models.Specialty{Name: name}
	require.NoError(t, db.Create(&specialty).Error)
	return specialty
}

func seedPatient(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	patient := models.User{
		Name:       "Paciente Prueba",
		NationalID: "c-" + email,
		Email:      email,
		Role:       models.RolePatient,
	}
	require.NoError(t, patient.SetPassword("secret123"))
	require.NoError(t, db.Create(&patient).Error)
	return patient
}

func seedDoctor(t *testing.T, db *gorm.DB, email, specialtyID string) models.Doctor {
	t.Helper()
	user := models.User{
		Name:       "Dr Prueba",
		NationalID: "d-" + email,
		Email:      email,
		Role:       models.RoleDoctor,
	}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, db.Create(&user).Error)

	doctor := models.Doctor{
		UserID:      user.ID,
		Name:        user.Name,
		NationalID:  user.NationalID,
		Email:       user.Email,
		Phone:       "3000000000",
		SpecialtyID: specialtyID,
	}
	require.NoError(t, db.Create(&doctor).Error)
	return doctor
}

func seedWindow(t *testing.T, db *gorm.DB, doctorID, weekday, start, end string) {
	t.Helper()
	window := models.AvailabilityWindow{
		DoctorID:  doctorID,
		Weekday:   weekday,
		StartTime: start,
		EndTime:   end,
	}
	require.NoError(t, db.Create(&window).Error)
}

func seedAppointment(t *testing.T, db *gorm.DB, patientID string, doctor models.Doctor, date, hour string) models.Appointment {
	t.Helper()
	appointment := models.Appointment{
		PatientID:   patientID,
		DoctorID:    doctor.ID,
		SpecialtyID: doctor.SpecialtyID,
		Date:        date,
		Time:        hour,
		Status:      models.StatusPending,
	}
	require.NoError(t, db.Create(&appointment).Error)
	return appointment
}
