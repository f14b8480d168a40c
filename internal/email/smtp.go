package emails

import (
	"fmt"
	"net/smtp"
	"strings"

	"go-briefing/internal/config"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewSMTPConfig builds the sender config from process configuration
func NewSMTPConfig(cfg *config.Config) SMTPConfig {
	return SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	}
}

// Message is a single outbound HTML email
type Message struct {
	To       []string
	Subject  string
	HtmlBody string
}

// Sender delivers a message to a recipient batch. Declared as an interface so
// the dispatcher can be tested without an SMTP server.
type Sender interface {
	Send(msg *Message) error
}

type smtpSender struct {
	cfg SMTPConfig
}

func NewSender(cfg SMTPConfig) Sender {
	return &smtpSender{cfg: cfg}
}

func (s *smtpSender) Send(msg *Message) error {
	return SendSMTP(s.cfg, msg)
}

func SendSMTP(cfg SMTPConfig, msg *Message) error {
	auth := smtp.PlainAuth(
		"",
		cfg.Username,
		cfg.Password,
		cfg.Host,
	)

	headers := map[string]string{
		"From":         cfg.From,
		"To":           strings.Join(msg.To, ", "),
		"Subject":      msg.Subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=\"UTF-8\"",
	}

	raw := ""
	for k, v := range headers {
		raw += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	raw += "\r\n" + msg.HtmlBody

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	return smtp.SendMail(addr, auth, cfg.From, msg.To, []byte(raw))
}
