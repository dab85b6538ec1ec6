package mail

import (
	"gopkg.in/gomail.v2"

	appmail "github.com/chpcstore/tienda-api/internal/application/mail"
	"github.com/chpcstore/tienda-api/pkg/config"
	"github.com/chpcstore/tienda-api/pkg/logger"
)

var _ appmail.Sender = (*SMTPSender)(nil)

// SMTPSender transporte de correo sobre SMTP (gomail). Si no hay host
// configurado opera en modo simulado: registra el envío y reporta éxito,
// útil en desarrollo sin servidor de correo.
type SMTPSender struct {
	cfg config.SMTPConfig
	log *logger.Logger
}

// NewSMTPSender construye el transporte.
func NewSMTPSender(cfg config.SMTPConfig, log *logger.Logger) *SMTPSender {
	if cfg.Host == "" {
		log.Warn().Msg("SMTP sin configurar: correos en modo simulado")
	}
	return &SMTPSender{cfg: cfg, log: log}
}

// Send envía un correo HTML. Devuelve true si el envío se aceptó.
func (s *SMTPSender) Send(to, subject, htmlBody string) bool {
	if s.cfg.Host == "" {
		s.log.Info().Str("to", to).Str("subject", subject).Msg("correo simulado")
		return true
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		s.log.Error().Err(err).Str("to", to).Msg("envío SMTP")
		return false
	}
	return true
}
