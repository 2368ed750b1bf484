package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/config"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/models"
)

var _ Mailer = (*SMTPEmailService)(nil)

// SMTPEmailService implements Mailer over a single SMTP relay.
type SMTPEmailService struct {
	cfg  config.SmtpConfig
	opts []mail.Option
}

// NewSMTPEmailService checks the relay settings and prepares client options.
// No connection is made until the first Send.
func NewSMTPEmailService(smtpCfg *config.SmtpConfig) (*SMTPEmailService, error) {
	if smtpCfg == nil || smtpCfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if smtpCfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	opts := []mail.Option{
		mail.WithPort(smtpCfg.Port),
	}
	if smtpCfg.NOTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		// Implicit TLS on 465, STARTTLS elsewhere
		if smtpCfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	}
	if smtpCfg.User != "" && smtpCfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(smtpCfg.User),
			mail.WithPassword(smtpCfg.Password),
		)
	}

	return &SMTPEmailService{cfg: *smtpCfg, opts: opts}, nil
}

// Send delivers msg and returns the generated Message-ID.
func (s *SMTPEmailService) Send(ctx context.Context, msg *models.EmailMessage) (*models.SendResult, error) {
	m, err := s.buildMessage(msg)
	if err != nil {
		return nil, err
	}

	client, err := mail.NewClient(s.cfg.Host, s.opts...)
	if err != nil {
		return nil, fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		log.Error().Err(err).Str("toEmail", msg.To).Str("subject", msg.Subject).Msg("Failed to send email")
		return nil, fmt.Errorf("sending email: %w", err)
	}

	id := m.GetMessageID()
	log.Info().Str("toEmail", msg.To).Str("messageId", id).Msg("Email sent")
	return &models.SendResult{Status: models.SendStatusSent, ID: id}, nil
}

func (s *SMTPEmailService) buildMessage(msg *models.EmailMessage) (*mail.Msg, error) {
	m := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := m.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return nil, fmt.Errorf("setting from address: %w", err)
		}
	} else if err := m.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("setting from address: %w", err)
	}

	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("%w: setting to address: %v", ErrInvalidRecipient, err)
	}

	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}
	return m, nil
}
