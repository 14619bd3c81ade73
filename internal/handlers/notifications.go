package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"medicicol-server/internal/mailer"
	"medicicol-server/internal/utils"
)

// NotificationHandler dispatches the appointment lifecycle emails. Sending
// is fire-and-forget with respect to appointment state: a delivery failure
// surfaces here and never rolls back the mutation that triggered it.
type NotificationHandler struct {
	Sender mailer.Sender
	Logger zerolog.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(sender mailer.Sender, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{Sender: sender, Logger: logger}
}

// AppointmentNotificationRequest carries the recipient and slot details for
// the confirmation, reminder and cancellation emails.
type AppointmentNotificationRequest struct {
	Email   string `json:"correo" binding:"required,email"`
	Patient string `json:"nombre_usuario" binding:"required"`
	Doctor  string `json:"medico" binding:"required"`
	Date    string `json:"fecha" binding:"required"`
	Time    string `json:"hora" binding:"required"`
}

// SendConfirmation dispatches the appointment-confirmed email.
func (h *NotificationHandler) SendConfirmation(c *gin.Context) {
	var req AppointmentNotificationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	h.dispatch(c, mailer.ConfirmationMessage(req.Email, req.Patient, req.Doctor, req.Date, req.Time),
		"Correo de confirmación enviado correctamente")
}

// SendReminder dispatches the appointment-reminder email.
func (h *NotificationHandler) SendReminder(c *gin.Context) {
	var req AppointmentNotificationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	h.dispatch(c, mailer.ReminderMessage(req.Email, req.Patient, req.Doctor, req.Date, req.Time),
		"Correo de recordatorio enviado correctamente")
}

// ChangeNotificationRequest carries the details for the appointment-changed
// email. Reason is "cancelada" or "reprogramada"; the new slot applies only
// to the latter.
type ChangeNotificationRequest struct {
	Email   string `json:"correo" binding:"required,email"`
	Patient string `json:"nombre_usuario" binding:"required"`
	Doctor  string `json:"medico" binding:"required"`
	Reason  string `json:"motivo" binding:"required,oneof=cancelada reprogramada"`
	NewDate string `json:"nueva_fecha"`
	NewTime string `json:"nueva_hora"`
}

// SendChange dispatches the appointment-changed email.
func (h *NotificationHandler) SendChange(c *gin.Context) {
	var req ChangeNotificationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	h.dispatch(c, mailer.ChangeMessage(req.Email, req.Patient, req.Doctor, req.Reason, req.NewDate, req.NewTime),
		"Correo de cita "+req.Reason+" enviado correctamente")
}

// SendCancellation dispatches the appointment-cancelled email.
func (h *NotificationHandler) SendCancellation(c *gin.Context) {
	var req AppointmentNotificationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	h.dispatch(c, mailer.CancellationMessage(req.Email, req.Patient, req.Doctor, req.Date, req.Time),
		"Notificación de cita cancelada enviada correctamente")
}

func (h *NotificationHandler) dispatch(c *gin.Context, msg mailer.Message, okMessage string) {
	if err := h.Sender.Send(msg); err != nil {
		h.Logger.Error().Err(err).Str("to", msg.To).Str("subject", msg.Subject).
			Msg("notification delivery failed")
		utils.InternalServerError(c, "Error al enviar correo: "+err.Error())
		return
	}
	utils.Success(c, okMessage, nil)
}
