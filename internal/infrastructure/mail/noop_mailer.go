package mail

import (
	"github.com/tu-usuario/taller-erp/internal/application/dispatch"
	"github.com/tu-usuario/taller-erp/pkg/logger"
)

var _ dispatch.Mailer = (*NoopMailer)(nil)

// NoopMailer descarta los correos y deja traza en el log. Se usa cuando no
// hay SMTP configurado (dev/test): la corrida de envío renderiza igual.
type NoopMailer struct {
	log *logger.Logger
}

// NewNoopMailer construye el mailer nulo.
func NewNoopMailer(log *logger.Logger) *NoopMailer {
	return &NoopMailer{log: log}
}

func (m *NoopMailer) Send(to, subject, body string, attachments []dispatch.Attachment) error {
	m.log.Info().
		Str("to", to).
		Str("subject", subject).
		Int("attachments", len(attachments)).
		Msg("SMTP deshabilitado; correo descartado")
	return nil
}
