// Package mail implements the MailSender domain service over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/go-mail/mail"
	"github.com/pkg/errors"

	"hyperstream/config"
	"hyperstream/internal/domain/service"
)

// smtpSender delivers transactional mail through a single SMTP account.
type smtpSender struct {
	host   string
	port   int
	user   string
	pass   string
	from   string
	logger *slog.Logger
}

// NewSMTPSender is the constructor for smtpSender.
func NewSMTPSender(cfg *config.Config, logger *slog.Logger) (service.MailSender, error) {
	if cfg.SMTP == nil {
		return nil, errors.New("smtp configuration must be provided")
	}

	return &smtpSender{
		host:   cfg.SMTP.Host,
		port:   cfg.SMTP.Port,
		user:   cfg.SMTP.Username,
		pass:   cfg.SMTP.Password,
		from:   fmt.Sprintf("%s <%s>", cfg.SMTP.FromName, cfg.SMTP.FromEmail),
		logger: logger,
	}, nil
}

// SendVerificationEmail delivers the account-verification mail.
func (s *smtpSender) SendVerificationEmail(ctx context.Context, to, verificationURL string) error {
	return s.send(ctx, to, "Welcome to HyperStream", verificationEmailBody(verificationURL))
}

// SendPasswordResetEmail delivers the password-recovery mail.
func (s *smtpSender) SendPasswordResetEmail(ctx context.Context, to, resetURL string) error {
	return s.send(ctx, to, "Reset your HyperStream account password", resetPasswordEmailBody(resetURL))
}

func (s *smtpSender) send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "mail send aborted")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.host, s.port, s.user, s.pass)
	d.StartTLSPolicy = gomail.MandatoryStartTLS

	if err := d.DialAndSend(m); err != nil {
		return errors.Wrapf(err, "failed to send %q email to %s", subject, to)
	}

	s.logger.Debug("Email sent", slog.String("to", to), slog.String("subject", subject))

	return nil
}
