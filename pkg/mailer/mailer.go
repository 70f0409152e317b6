package mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Sender delivers a single email. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.Logger
}

// NewSMTPSender sends HTML mail through an SMTP relay.
func NewSMTPSender(host string, port int, user, password, from string, log *zap.Logger) Sender {
	return &smtpSender{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
		log:    log.With(zap.String("mailer", "smtp")),
	}
}

func (s *smtpSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.log.Error("Failed to send email",
			zap.Error(err),
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	s.log.Debug("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

type logSender struct {
	log *zap.Logger
}

// NewLogSender writes emails to the log instead of delivering them.
// Used in development when no SMTP host is configured. The body carries
// one-time codes, so it is only written at debug level.
func NewLogSender(log *zap.Logger) Sender {
	return &logSender{log: log.With(zap.String("mailer", "log"))}
}

func (s *logSender) Send(_ context.Context, to, subject, body string) error {
	s.log.Info("Email (not delivered)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)),
	)
	s.log.Debug("Email body", zap.String("to", to), zap.String("body", body))
	return nil
}
