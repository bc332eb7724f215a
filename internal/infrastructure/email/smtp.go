package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jhoicas/stocklane-api/pkg/config"
)

var _ Sender = (*SMTPSender)(nil)

// SMTPSender envía correos HTML vía SMTP con autenticación PLAIN.
type SMTPSender struct {
	cfg config.SMTPConfig
}

// NewSMTPSender construye el sender con la configuración de la app.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send envía un correo HTML a un destinatario.
func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	mime := "MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n"
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\n%s%s", to, subject, mime, htmlBody))

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
