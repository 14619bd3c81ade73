package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"medicicol-server/internal/models"
)

func adminRouter(t *testing.T) (*gorm.DB, http.Handler) {
	db := setupTestDB(t)
	handler := NewAdminHandler(db)
	router := newTestRouter()
	admin := router.Group("/admin")
	admin.GET("/usuarios", handler.ListUsers)
	admin.PUT("/usuarios/:id", handler.UpdateUser)
	admin.DELETE("/usuarios/:id", handler.DeleteUser)
	admin.GET("/medicos", handler.ListDoctors)
	admin.PUT("/medicos/:id", handler.UpdateDoctor)
	admin.DELETE("/medicos/:id", handler.DeleteDoctor)
	admin.GET("/citas", handler.ListAppointments)
	admin.GET("/estadisticas", handler.GetStatistics)
	return db, router
}

func TestListUsersRoleFilter(t *testing.T) {
	db, router := adminRouter(t)
	seedPatient(t, db, "ana@medicicol.test")
	specialty := seedSpecialty(t, db, "cardiologia")
	seedDoctor(t, db, "doc@medicicol.test", specialty.ID)

	w := performRequest(t, router, http.MethodGet, "/admin/usuarios?rol=paciente", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.UserSanitized `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, models.RolePatient, resp.Data[0].Role)
}

func TestUpdateUserRequiresFields(t *testing.T) {
	db, router := adminRouter(t)
	patient := seedPatient(t, db, "ana@medicicol.test")

	w := performRequest(t, router, http.MethodPut, "/admin/usuarios/"+patient.ID, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateUserSyncsDoctorProfile(t *testing.T) {
	db, router := adminRouter(t)
	specialty := seedSpecialty(t, db, "cardiologia")
	doctor := seedDoctor(t, db, "doc@medicicol.test", specialty.ID)

	w := performRequest(t, router, http.MethodPut, "/admin/usuarios/"+doctor.UserID, gin.H{
		"nombre": "Dr Renombrado",
		"correo": "nuevo@medicicol.test",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// The doctor profile mirrors the account after the update.
	var stored models.Doctor
	require.NoError(t, db.First(&stored, "id = ?", doctor.ID).Error)
	assert.Equal(t, "Dr Renombrado", stored.Name)
	assert.Equal(t, "nuevo@medicicol.test", stored.Email)
}

func TestUpdateDoctorSyncsAccount(t *testing.T) {
	db, router := adminRouter(t)
	specialty := seedSpecialty(t, db, "cardiologia")
	doctor := seedDoctor(t, db, "doc@medicicol.test", specialty.ID)

	w := performRequest(t, router, http.MethodPut, "/admin/medicos/"+doctor.ID, gin.H{
		"correo": "renamed@medicicol.test",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", doctor.UserID).Error)
	assert.Equal(t, "renamed@medicicol.test", user.Email)

	// Unknown specialty leaves both rows untouched.
	w = performRequest(t, router, http.MethodPut, "/admin/medicos/"+doctor.ID, gin.H{
		"id_especialidad": "nope",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var stored models.Doctor
	require.NoError(t, db.First(&stored, "id = ?", doctor.ID).Error)
	assert.Equal(t, specialty.ID, stored.SpecialtyID)
}

func TestDeleteDoctorRemovesAccount(t *testing.T) {
	db, router := adminRouter(t)
	specialty := seedSpecialty(t, db, "cardiologia")
	doctor := seedDoctor(t, db, "doc@medicicol.test", specialty.ID)

	w := performRequest(t, router, http.MethodDelete, "/admin/medicos/"+doctor.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Doctor{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", doctor.UserID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteUserNotFound(t *testing.T) {
	_, router := adminRouter(t)

	w := performRequest(t, router, http.MethodDelete, "/admin/usuarios/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAppointmentsFilters(t *testing.T) {
	db, router := adminRouter(t)
	specialty := seedSpecialty(t, db, "cardiologia")
	doctor := seedDoctor(t, db, "doc@medicicol.test", specialty.ID)
	patient := seedPatient(t, db, "ana@medicicol.test")
	first := seedAppointment(t, db, patient.ID, doctor, "2025-01-06", "09:00")
	seedAppointment(t, db, patient.ID, doctor, "2025-01-07", "10:00")
	require.NoError(t, db.Model(&first).Update("status", models.StatusCancelled).Error)

	w := performRequest(t, router, http.MethodGet, "/admin/citas?estado=Cancelada", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []AppointmentDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, models.StatusCancelled, resp.Data[0].Status)

	w = performRequest(t, router, http.MethodGet, "/admin/citas?fecha=2025-01-07", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "2025-01-07", resp.Data[0].Date)
}

func TestGetStatistics(t *testing.T) {
	db, router := adminRouter(t)
	specialty := seedSpecialty(t, db, "cardiologia")
	doctor := seedDoctor(t, db, "doc@medicicol.test", specialty.ID)
	patient := seedPatient(t, db, "ana@medicicol.test")
	attended := seedAppointment(t, db, patient.ID, doctor, "2025-01-06", "09:00")
	cancelled := seedAppointment(t, db, patient.ID, doctor, "2025-01-06", "10:00")
	seedAppointment(t, db, patient.ID, doctor, "2025-01-06", "11:00")
	require.NoError(t, db.Model(&attended).Update("status", models.StatusAttended).Error)
	require.NoError(t, db.Model(&cancelled).Update("status", models.StatusCancelled).Error)

	w := performRequest(t, router, http.MethodGet, "/admin/estadisticas", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data Statistics `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Data.Patients)
	assert.Equal(t, int64(1), resp.Data.Doctors)
	assert.Equal(t, int64(3), resp.Data.Total)
	assert.Equal(t, int64(1), resp.Data.Attended)
	assert.Equal(t, int64(1), resp.Data.Cancelled)
}
