package notify

import (
	"errors"
	"fmt"
	"net/smtp"

	"github.com/sakthimugupython/Vetri-Training-Final/app/config"
)

// Message is one constructed outbound email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// MailSender submits a batch of constructed messages in one transport call.
// The call either fully succeeds or returns an error covering the whole batch;
// per-recipient acceptance is not reported.
type MailSender interface {
	SendBatch(messages []*Message) error
}

// SMTPSender delivers through a plain SMTP submission endpoint.
type SMTPSender struct {
	cfg config.SMTPConfig
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) SendBatch(messages []*Message) error {
	if !s.cfg.Configured() {
		return errors.New("smtp transport is not configured")
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	for _, msg := range messages {
		payload := []byte("From: " + msg.From + "\r\n" +
			"To: " + msg.To + "\r\n" +
			"Subject: " + msg.Subject + "\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
			"\r\n" +
			msg.Body)
		if err := smtp.SendMail(addr, auth, msg.From, []string{msg.To}, payload); err != nil {
			return err
		}
	}
	return nil
}
