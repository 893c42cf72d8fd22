package dispatch

import "github.com/tu-usuario/taller-erp/internal/application/billing"

// Attachment es un archivo adjunto ya renderizado.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DocumentRenderer define el puerto de renderizado de documentos a PDF.
type DocumentRenderer interface {
	Render(view *billing.DocumentView) ([]byte, error)
}

// DocumentExporter define el puerto de exportación del documento a un formato
// de intercambio (UBL/Peppol).
type DocumentExporter interface {
	Export(view *billing.DocumentView) ([]byte, error)
}

// Mailer define el puerto de salida de correo. Cualquier adaptador (SMTP,
// mock) debe implementar esta interfaz.
type Mailer interface {
	Send(to, subject, body string, attachments []Attachment) error
}
