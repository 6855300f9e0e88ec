package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/wneessen/go-mail"
)

//go:generate mockgen -destination=../mocks/mock_mailer.go -package=pkgmocks github.com/Notifuse/campaign-builder/pkg/mailer Mailer

// Mailer delivers rendered campaign previews
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a single HTML email with an optional plain-text part
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

func (m Message) validate() error {
	if len(m.To) == 0 {
		return errors.New("at least one recipient is required")
	}
	if strings.TrimSpace(m.Subject) == "" {
		return errors.New("subject is required")
	}
	if m.HTML == "" {
		return errors.New("html body is required")
	}
	return nil
}

// Config holds the configuration for the mailer
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
	Timeout      time.Duration
}

// SMTPMailer sends through a relay with go-mail
type SMTPMailer struct {
	config *Config
}

func NewSMTPMailer(config *Config) *SMTPMailer {
	return &SMTPMailer{config: config}
}

func (m *SMTPMailer) Send(ctx context.Context, message Message) error {
	if err := message.validate(); err != nil {
		return err
	}

	msg := mail.NewMsg(mail.WithNoDefaultUserAgent())
	if err := msg.FromFormat(m.config.FromName, m.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set email from address: %w", err)
	}
	if err := msg.To(message.To...); err != nil {
		return fmt.Errorf("failed to set email recipient: %w", err)
	}
	msg.Subject(message.Subject)
	msg.SetBodyString(mail.TypeTextHTML, message.HTML)
	if message.Text != "" {
		msg.AddAlternativeString(mail.TypeTextPlain, message.Text)
	}

	client, err := m.createSMTPClient()
	if err != nil {
		return err
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) createSMTPClient() (*mail.Client, error) {
	timeout := m.config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	clientOptions := []mail.Option{
		mail.WithPort(m.config.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(timeout),
	}

	// unauthenticated relays (local MTA, port 25) are allowed
	if m.config.SMTPUsername != "" && m.config.SMTPPassword != "" {
		clientOptions = append(clientOptions,
			mail.WithUsername(m.config.SMTPUsername),
			mail.WithPassword(m.config.SMTPPassword),
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
		)
	}

	client, err := mail.NewClient(m.config.SMTPHost, clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return client, nil
}

// ConsoleMailer prints messages instead of sending them. Used in development
// when no SMTP host is configured.
type ConsoleMailer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleMailer() *ConsoleMailer {
	return &ConsoleMailer{out: os.Stdout}
}

// NewConsoleMailerWithWriter prints to w
func NewConsoleMailerWithWriter(w io.Writer) *ConsoleMailer {
	return &ConsoleMailer{out: w}
}

func (m *ConsoleMailer) Send(_ context.Context, message Message) error {
	if err := message.validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	fmt.Fprintln(m.out, "==============================================================")
	fmt.Fprintln(m.out, "                     CAMPAIGN TEST EMAIL                      ")
	fmt.Fprintln(m.out, "==============================================================")
	fmt.Fprintf(m.out, "To: %s\n", strings.Join(message.To, ", "))
	fmt.Fprintf(m.out, "Subject: %s\n", message.Subject)
	fmt.Fprintf(m.out, "HTML size: %d bytes\n", len(message.HTML))
	fmt.Fprintln(m.out, "==============================================================")
	return nil
}
