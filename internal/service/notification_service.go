package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/metrics"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/models"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/templates"
)

var (
	ErrUnknownTemplate   = templates.ErrUnknownTemplate
	ErrRecipientRequired = errors.New("email address required")
	ErrInvalidRecipient  = errors.New("invalid recipient email")
	ErrMissingFields     = errors.New("missing fields")
	// ErrDeliveryFailed wraps transport failures so callers can tell them from input errors.
	ErrDeliveryFailed = errors.New("email delivery failed")
)

var strictRecipient = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const rawTemplateLabel = "raw"

var _ Notifier = (*NotificationService)(nil)

type NotificationOptions struct {
	FrontendURL string
	// AdminEmail receives admin copies when the request names no adminEmail.
	AdminEmail    string
	ResetTokenTTL time.Duration
}

// NotificationService renders catalogue templates and hands them to the Mailer.
type NotificationService struct {
	mailer      Mailer
	catalogue   *templates.Catalogue
	frontendURL string
	adminEmail  string
	resetTTL    time.Duration
}

func NewNotificationService(mailer Mailer, catalogue *templates.Catalogue, opts NotificationOptions) *NotificationService {
	if opts.ResetTokenTTL <= 0 {
		opts.ResetTokenTTL = DefaultResetTokenTTL
	}
	return &NotificationService{
		mailer:      mailer,
		catalogue:   catalogue,
		frontendURL: strings.TrimSuffix(opts.FrontendURL, "/"),
		adminEmail:  opts.AdminEmail,
		resetTTL:    opts.ResetTokenTTL,
	}
}

// Send renders templateName with fields and delivers it to the resolved recipient.
func (s *NotificationService) Send(ctx context.Context, templateName string, fields map[string]string) (*models.SendResult, error) {
	def, ok := s.catalogue.Lookup(templateName)
	if !ok || def.Internal {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, templateName)
	}

	to := def.Recipient(fields)
	if def.StrictRecipient {
		if !validStrictRecipient(to) {
			log.Warn().Str("template", templateName).Str("resolvedTo", to).Msg("Rejected recipient")
			return nil, ErrInvalidRecipient
		}
	} else if to == "" {
		return nil, ErrRecipientRequired
	}

	data := make(map[string]string, len(fields)+1)
	for k, v := range fields {
		data[k] = v
	}
	data["to"] = to

	result, err := s.deliver(ctx, templateName, to, data)
	if def.AdminTemplate != "" {
		s.sendAdminCopy(ctx, def.AdminTemplate, data)
	}
	return result, err
}

// SendRaw delivers a caller-composed message without a template.
func (s *NotificationService) SendRaw(ctx context.Context, msg *models.EmailMessage) (*models.SendResult, error) {
	if msg == nil || strings.TrimSpace(msg.To) == "" || msg.Subject == "" || msg.Text == "" {
		return nil, ErrMissingFields
	}

	result, err := s.mailer.Send(ctx, msg)
	if err != nil {
		metrics.EmailsSent.WithLabelValues(rawTemplateLabel, models.SendStatusError).Inc()
		return nil, deliveryError(err)
	}
	metrics.EmailsSent.WithLabelValues(rawTemplateLabel, models.SendStatusSent).Inc()
	return result, nil
}

// SendPasswordReset mails the reset link for token to email.
func (s *NotificationService) SendPasswordReset(ctx context.Context, email, userName, token string) error {
	fields := map[string]string{
		"to":            email,
		"userName":      userName,
		"resetLink":     s.ResetLink(token),
		"expiryMinutes": strconv.Itoa(int(s.resetTTL.Minutes())),
	}
	_, err := s.deliver(ctx, templates.PasswordReset, email, fields)
	return err
}

// SendPasswordResetSuccess confirms a completed reset.
func (s *NotificationService) SendPasswordResetSuccess(ctx context.Context, email, userName string) error {
	fields := map[string]string{
		"to":       email,
		"userName": userName,
	}
	_, err := s.deliver(ctx, templates.PasswordResetSuccess, email, fields)
	return err
}

// ResetLink builds the frontend URL that carries token.
func (s *NotificationService) ResetLink(token string) string {
	return s.frontendURL + "/reset-password?token=" + url.QueryEscape(token)
}

func (s *NotificationService) deliver(ctx context.Context, templateName, to string, fields map[string]string) (*models.SendResult, error) {
	rendered, err := s.catalogue.Render(templateName, fields)
	if err != nil {
		return nil, err
	}

	result, err := s.mailer.Send(ctx, &models.EmailMessage{
		To:      to,
		Subject: rendered.Subject,
		Text:    rendered.Text,
		HTML:    rendered.HTML,
	})
	if err != nil {
		metrics.EmailsSent.WithLabelValues(templateName, models.SendStatusError).Inc()
		log.Error().Err(err).Str("template", templateName).Str("toEmail", to).Msg("Failed to deliver templated email")
		return nil, deliveryError(err)
	}

	metrics.EmailsSent.WithLabelValues(templateName, models.SendStatusSent).Inc()
	log.Info().Str("template", templateName).Str("toEmail", to).Str("messageId", result.ID).Msg("Templated email sent")
	return result, nil
}

// deliveryError keeps address problems as input errors and wraps the rest as
// transport failures.
func deliveryError(err error) error {
	if errors.Is(err, ErrInvalidRecipient) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
}

func (s *NotificationService) sendAdminCopy(ctx context.Context, adminTemplate string, data map[string]string) {
	adminEmail := strings.TrimSpace(data["adminEmail"])
	if adminEmail == "" {
		adminEmail = s.adminEmail
	}
	if adminEmail == "" {
		return
	}
	if _, err := s.deliver(ctx, adminTemplate, adminEmail, data); err != nil {
		log.Warn().Err(err).Str("template", adminTemplate).Msg("Admin copy not delivered")
	}
}

func validStrictRecipient(addr string) bool {
	if !strictRecipient.MatchString(addr) {
		return false
	}
	return !strings.HasSuffix(strings.ToLower(addr), "@example.com")
}
