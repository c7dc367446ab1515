package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/servis-automat/servis/internal/shared/logger"
)

var ErrNoRecipients = errors.New("email has no recipients")

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// Message is one outgoing email. HTMLBody is sent as an alternative part when
// set.
type Message struct {
	To        []string
	Subject   string
	PlainBody string
	HTMLBody  string
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	return &SMTPEmailService{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

// Send delivers one message through one SMTP session. gomail does not take a
// context, so cancellation is only checked before dialing.
func (s *SMTPEmailService) Send(ctx context.Context, to []string, subject, plainBody, htmlBody string) error {
	m, err := s.buildMessage(Message{To: to, Subject: subject, PlainBody: plainBody, HTMLBody: htmlBody})
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *SMTPEmailService) buildMessage(msg Message) (*gomail.Message, error) {
	recipients := dedupeRecipients(msg.To)
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", recipients...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.PlainBody)
	if msg.HTMLBody != "" {
		m.AddAlternative("text/html", msg.HTMLBody)
	}
	return m, nil
}

func dedupeRecipients(to []string) []string {
	seen := make(map[string]struct{}, len(to))
	out := make([]string, 0, len(to))
	for _, addr := range to {
		addr = strings.TrimSpace(addr)
		key := strings.ToLower(addr)
		if addr == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, addr)
	}
	return out
}

// LogEmailService stands in when email is disabled and only logs what would
// have been sent.
type LogEmailService struct {
	logger logger.Interface
}

func NewLogEmailService(logger logger.Interface) *LogEmailService {
	return &LogEmailService{logger: logger}
}

func (s *LogEmailService) Send(_ context.Context, to []string, subject, _, _ string) error {
	recipients := dedupeRecipients(to)
	if len(recipients) == 0 {
		return ErrNoRecipients
	}
	s.logger.Infow("email disabled, skipping send",
		"to", recipients,
		"subject", subject,
	)
	return nil
}
