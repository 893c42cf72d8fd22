// Package mail implementa el puerto de correo sobre SMTP.
package mail

import (
	"fmt"
	"io"

	"github.com/tu-usuario/taller-erp/internal/application/dispatch"
	"github.com/tu-usuario/taller-erp/pkg/config"
	gomail "gopkg.in/gomail.v2"
)

var _ dispatch.Mailer = (*SMTPMailer)(nil)

// SMTPMailer implementa dispatch.Mailer con gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer construye el mailer con la configuración SMTP.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Send arma y despacha el mensaje con sus adjuntos.
func (m *SMTPMailer) Send(to, subject, body string, attachments []dispatch.Attachment) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	for _, att := range attachments {
		data := att.Data
		msg.Attach(att.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {att.ContentType}}),
		)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("enviar correo a %s: %w", to, err)
	}
	return nil
}
