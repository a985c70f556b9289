// Package mail delivers account verification emails.
package mail

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	gomail "github.com/wneessen/go-mail"

	"github.com/phrazzld/contacts-api/internal/config"
	"github.com/phrazzld/contacts-api/internal/platform/logger"
)

const verificationSubject = "Verify your email"

// sender is the part of the go-mail client used here.
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// SMTPMailer sends verification emails through an SMTP relay.
type SMTPMailer struct {
	client   sender
	from     string
	fromName string
}

// NewSMTPMailer creates a mailer for cfg. SMTP auth is only configured when
// a username is set.
func NewSMTPMailer(cfg config.MailConfig) (*SMTPMailer, error) {
	opts := []gomail.Option{gomail.WithPort(cfg.Port)}
	if cfg.UseSSL {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From, fromName: cfg.FromName}, nil
}

// SendVerification mails verifyURL to the given address.
func (m *SMTPMailer) SendVerification(ctx context.Context, to, verifyURL string) error {
	msg, err := m.verificationMessage(to, verifyURL)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) verificationMessage(to, verifyURL string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()

	var err error
	if m.fromName != "" {
		err = msg.FromFormat(m.fromName, m.from)
	} else {
		err = msg.From(m.from)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}

	msg.Subject(verificationSubject)
	msg.SetBodyString(gomail.TypeTextHTML, verificationBody(verifyURL))
	return msg, nil
}

func verificationBody(verifyURL string) string {
	link := html.EscapeString(verifyURL)
	return fmt.Sprintf(
		`<p>Please click the link to verify your email:</p><p><a href="%s">%s</a></p>`,
		link, link,
	)
}

// LogMailer writes verification links to the log instead of sending them.
// It is used when no SMTP host is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger.With(slog.String("component", "log_mailer"))}
}

// SendVerification logs the link at info level.
func (m *LogMailer) SendVerification(ctx context.Context, to, verifyURL string) error {
	logger.FromContextOrDefault(ctx, m.logger).Info("verification email not sent, smtp disabled",
		slog.String("to", to),
		slog.String("verify_url", verifyURL))
	return nil
}
