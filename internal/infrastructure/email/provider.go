package email

import "context"

// Sender contrato mínimo de envío de correo que consume el caso de uso de
// invitaciones. La implementación real es SMTP; en desarrollo se usa NoOp.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// NoOpSender no envía nada. Se usa cuando SMTP_HOST no está configurado.
type NoOpSender struct{}

// Send descarta el correo.
func (NoOpSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	return nil
}
