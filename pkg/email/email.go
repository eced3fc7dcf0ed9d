package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strings"
	"time"

	"bookmark-backend/pkg/logger"

	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Config holds SMTP settings
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	Sender   string
	Timeout  time.Duration
}

// SMTPSender delivers multipart text/html mail over SMTP
type SMTPSender struct {
	cfg Config
	now func() time.Time
}

func NewSMTPSender(cfg Config) *SMTPSender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SMTPSender{cfg: cfg, now: time.Now}
}

// Send delivers one message and returns its Message-ID
func (s *SMTPSender) Send(ctx context.Context, to, subject, textBody, htmlBody string) (string, error) {
	if s.cfg.Host == "" {
		return "", fmt.Errorf("smtp host not configured")
	}

	messageID := fmt.Sprintf("%s@%s", uuid.New().String(), senderDomain(s.cfg.Sender))
	msg, err := buildMessage(s.cfg.Sender, to, subject, textBody, htmlBody, messageID, s.now())
	if err != nil {
		return "", err
	}

	if err := s.deliver(ctx, to, msg); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	logger.Component("email").WithFields(logrus.Fields{
		"to":         to,
		"message_id": messageID,
	}).Debug("Email delivered")
	return messageID, nil
}

func (s *SMTPSender) deliver(ctx context.Context, to string, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return err
		}
	}
	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return err
		}
	}
	if err := c.Mail(s.cfg.Sender); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// buildMessage renders a multipart/alternative message with a plain text and an html part
func buildMessage(from, to, subject, textBody, htmlBody, messageID string, date time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(date)
	h.SetSubject(subject)
	h.SetMessageID(messageID)
	h.SetAddressList("From", []*mail.Address{{Address: from}})
	h.SetAddressList("To", []*mail.Address{{Address: to}})

	var buf bytes.Buffer
	iw, err := mail.CreateInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if err := writePart(iw, "text/plain", textBody); err != nil {
		return nil, err
	}
	if htmlBody != "" {
		if err := writePart(iw, "text/html", htmlBody); err != nil {
			return nil, err
		}
	}
	if err := iw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize message: %w", err)
	}
	return buf.Bytes(), nil
}

func writePart(iw *mail.InlineWriter, contentType, body string) error {
	var ph mail.InlineHeader
	ph.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	w, err := iw.CreatePart(ph)
	if err != nil {
		return fmt.Errorf("failed to create %s part: %w", contentType, err)
	}
	if _, err := io.WriteString(w, body); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func senderDomain(sender string) string {
	if i := strings.LastIndex(sender, "@"); i >= 0 && i < len(sender)-1 {
		return sender[i+1:]
	}
	return "localhost"
}
