package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medicicol-server/internal/mailer"
)

type fakeSender struct {
	sent []mailer.Message
	err  error
}

func (f *fakeSender) Send(msg mailer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func notificationRouter(sender mailer.Sender) http.Handler {
	handler := NewNotificationHandler(sender, zerolog.Nop())
	router := newTestRouter()
	notificaciones := router.Group("/notificaciones")
	notificaciones.POST("/cita-confirmada", handler.SendConfirmation)
	notificaciones.POST("/recordatorio", handler.SendReminder)
	notificaciones.POST("/cita-cambio", handler.SendChange)
	notificaciones.POST("/cita-cancelada", handler.SendCancellation)
	return router
}

func TestSendConfirmation(t *testing.T) {
	sender := &fakeSender{}
	router := notificationRouter(sender)

	w := performRequest(t, router, http.MethodPost, "/notificaciones/cita-confirmada", gin.H{
		"correo":         "ana@medicicol.test",
		"nombre_usuario": "Ana",
		"medico":         "Dr House",
		"fecha":          "2025-01-06",
		"hora":           "09:00",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ana@medicicol.test", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Body, "Dr House")
}

func TestSendChangeValidatesReason(t *testing.T) {
	sender := &fakeSender{}
	router := notificationRouter(sender)

	w := performRequest(t, router, http.MethodPost, "/notificaciones/cita-cambio", gin.H{
		"correo":         "ana@medicicol.test",
		"nombre_usuario": "Ana",
		"medico":         "Dr House",
		"motivo":         "perdida",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, sender.sent)
}

func TestDeliveryFailureSurfacesAsError(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	router := notificationRouter(sender)

	w := performRequest(t, router, http.MethodPost, "/notificaciones/recordatorio", gin.H{
		"correo":         "ana@medicicol.test",
		"nombre_usuario": "Ana",
		"medico":         "Dr House",
		"fecha":          "2025-01-06",
		"hora":           "09:00",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
