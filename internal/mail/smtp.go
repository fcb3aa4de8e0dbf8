package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/bookly/internal/config"
)

type SMTPSender struct {
	Addr     string
	Auth     smtp.Auth
	From     string
	FromName string

	// send is smtp.SendMail unless a test swaps it.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Server)
	}
	return &SMTPSender{
		Addr:     net.JoinHostPort(cfg.Server, strconv.Itoa(cfg.Port)),
		Auth:     auth,
		From:     cfg.From,
		FromName: cfg.FromName,
		send:     smtp.SendMail,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if len(msg.Recipients) == 0 {
		return errors.New("mail: no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	raw := s.build(msg, time.Now())
	send := s.send
	if send == nil {
		send = smtp.SendMail
	}
	if err := send(s.Addr, s.Auth, s.From, msg.Recipients, raw); err != nil {
		return fmt.Errorf("smtp send to %s: %w", strings.Join(msg.Recipients, ","), err)
	}
	return nil
}

func (s *SMTPSender) build(msg Message, now time.Time) []byte {
	from := (&mail.Address{Name: s.FromName, Address: s.From}).String()

	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.Recipients, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return b.Bytes()
}
