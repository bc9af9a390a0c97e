package notifiers

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/neonlabs/contact-backend/internal/config"
	"github.com/neonlabs/contact-backend/internal/domain/model"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

const (
	// smtpTimeout bounds the dial and, when the caller's context has no
	// deadline of its own, the whole session.
	smtpTimeout     = 15 * time.Second
	smtpDefaultPort = 587
)

// Dialer abstracts net.Dialer to simplify testing.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// SMTPOption configures the behaviour of the SMTP sender.
type SMTPOption func(*SMTPSender)

// WithSMTPDialer swaps the network dialer used to establish connections.
func WithSMTPDialer(d Dialer) SMTPOption {
	return func(s *SMTPSender) {
		if d != nil {
			s.dialer = d
		}
	}
}

// WithSMTPTimeout overrides the session deadline applied when the
// caller's context carries none.
func WithSMTPTimeout(d time.Duration) SMTPOption {
	return func(s *SMTPSender) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithSMTPTLSConfig overrides the TLS configuration used for STARTTLS.
func WithSMTPTLSConfig(cfg *tls.Config) SMTPOption {
	return func(s *SMTPSender) {
		s.tlsConfig = cfg
	}
}

// SMTPSender delivers email over an authenticated SMTP session.
// STARTTLS is attempted by default when the server advertises it and can
// be disabled through configuration.
type SMTPSender struct {
	cfg       config.SMTPConfig
	from      string
	port      int
	timeout   time.Duration
	dialer    Dialer
	tlsConfig *tls.Config
	logger    zerolog.Logger
}

// NewSMTPSender creates a new instance of SMTPSender. The sender address
// falls back to the authenticated username when EMAIL_FROM is not set.
func NewSMTPSender(cfg *config.Config, logger *zerolog.Logger, opts ...SMTPOption) *SMTPSender {
	from := cfg.Email.From
	if from == "" {
		from = cfg.SMTP.Username
	}
	if from == "" {
		from = defaultFromAddress
	}

	port := cfg.SMTP.Port
	if port == 0 {
		port = smtpDefaultPort
	}

	s := &SMTPSender{
		cfg:     cfg.SMTP,
		from:    from,
		port:    port,
		timeout: smtpTimeout,
		dialer:  &net.Dialer{Timeout: smtpTimeout},
		tlsConfig: &tls.Config{
			ServerName: cfg.SMTP.Host,
			MinVersion: tls.VersionTLS12,
		},
		logger: logger.With().Str("component", "smtp_sender").Logger(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Name implements the Sender interface.
func (s *SMTPSender) Name() string { return "smtp" }

// Configured implements the Sender interface.
func (s *SMTPSender) Configured() bool { return s.cfg.Configured() }

// Send implements the Sender interface. The message is built with gomail
// and delivered over a single SMTP session; any failure at any stage of
// the session comes back as an error.
func (s *SMTPSender) Send(ctx context.Context, msg *model.EmailMessage) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	var raw bytes.Buffer
	if _, err := m.WriteTo(&raw); err != nil {
		return fmt.Errorf("smtp: build message: %w", err)
	}

	if err := s.deliver(ctx, msg.To, raw.Bytes()); err != nil {
		s.logger.Error().Err(err).Str("recipient", msg.To).Msg("failed to send email")
		return err
	}

	s.logger.Info().Str("recipient", msg.To).Msg("email sent successfully")
	return nil
}

// deliver runs the full session: connect, optional STARTTLS, auth,
// exactly one recipient, data, quit. The session is terminated on every
// path via the deferred closes.
func (s *SMTPSender) deliver(ctx context.Context, recipient string, raw []byte) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.port))
	conn, err := s.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp: dial: %w", err)
	}
	defer conn.Close()

	// Every read and write on the session must be bounded, even for
	// callers whose context carries no deadline.
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(s.timeout)
	}
	_ = conn.SetDeadline(deadline)

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return fmt.Errorf("smtp: new client: %w", err)
	}
	defer client.Close()

	if s.cfg.StartTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(s.sessionTLSConfig()); err != nil {
				return fmt.Errorf("smtp: starttls: %w", err)
			}
		}
	}

	if ok, _ := client.Extension("AUTH"); ok {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp: auth: %w", err)
		}
	}

	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("smtp: mail from: %w", err)
	}
	if err := client.Rcpt(recipient); err != nil {
		return fmt.Errorf("smtp: rcpt to %s: %w", recipient, err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp: data: %w", err)
	}
	if _, err := writer.Write(raw); err != nil {
		_ = writer.Close()
		return fmt.Errorf("smtp: data write: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("smtp: data close: %w", err)
	}

	if err := client.Quit(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("smtp: quit: %w", err)
	}

	return ctx.Err()
}

func (s *SMTPSender) sessionTLSConfig() *tls.Config {
	if s.tlsConfig == nil {
		return &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
	}
	cfg := s.tlsConfig.Clone()
	if cfg.ServerName == "" {
		cfg.ServerName = s.cfg.Host
	}
	return cfg
}
