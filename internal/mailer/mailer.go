package mailer

import (
	"fmt"

	"github.com/go-gomail/gomail"

	"medicicol-server/internal/config"
)

// Message is a rendered notification ready for delivery.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers notification messages. Satisfied by SMTPSender in
// production and by fakes in tests.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender delivers messages over SMTP using gomail.
type SMTPSender struct {
	cfg config.MailerConfig
}

// NewSMTPSender creates a sender from the mailer configuration.
func NewSMTPSender(cfg config.MailerConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send dials the SMTP server and delivers the message. A failure here is a
// delivery error only; it never affects the appointment mutation that
// triggered the notification.
func (s *SMTPSender) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.From, s.cfg.FromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}

// ConfirmationMessage renders the appointment-confirmed notification.
func ConfirmationMessage(to, patient, doctor, date, hour string) Message {
	return Message{
		To:      to,
		Subject: "Confirmación de cita médica - MediciCol",
		Body: fmt.Sprintf(`Hola %s,

Tu cita médica ha sido confirmada:
Médico: %s
Fecha: %s
Hora: %s

¡Te esperamos puntual!

Equipo MediciCol`, patient, doctor, date, hour),
	}
}

// ReminderMessage renders the appointment-reminder notification.
func ReminderMessage(to, patient, doctor, date, hour string) Message {
	return Message{
		To:      to,
		Subject: "Recordatorio de cita médica - MediciCol",
		Body: fmt.Sprintf(`Hola %s,

Este es un recordatorio de tu cita médica:
Médico: %s
Fecha: %s
Hora: %s

¡No faltes! Recuerda llegar unos minutos antes.

Equipo MediciCol`, patient, doctor, date, hour),
	}
}

// ChangeMessage renders the appointment-changed notification. The reason is
// either "cancelada" or "reprogramada"; the new slot only applies to the
// latter.
func ChangeMessage(to, patient, doctor, reason, newDate, newHour string) Message {
	var body string
	if reason == "cancelada" {
		body = fmt.Sprintf(`Hola %s,

Lamentamos informarte que tu cita médica con %s ha sido cancelada.
Por favor, comunícate con nosotros si deseas reagendarla.

Equipo MediciCol`, patient, doctor)
	} else {
		body = fmt.Sprintf(`Hola %s,

Tu cita médica con %s ha sido reprogramada:
Nueva fecha: %s
Nueva hora: %s

Equipo MediciCol`, patient, doctor, newDate, newHour)
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Cita %s - MediciCol", reason),
		Body:    body,
	}
}

// CancellationMessage renders the appointment-cancelled notification.
func CancellationMessage(to, patient, doctor, date, hour string) Message {
	return Message{
		To:      to,
		Subject: "Tu cita ha sido cancelada - MediciCol",
		Body: fmt.Sprintf(`Hola %s,

Queremos informarte que tu cita ha sido cancelada:
Médico: %s
Fecha: %s
Hora: %s

Si deseas volver a agendar la cita, puedes hacerlo desde nuestra plataforma
o contactando al equipo de soporte.

Equipo MediciCol`, patient, doctor, date, hour),
	}
}
