// AngelaMos | 2026
// mailer.go

package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/carterperez-dev/hotel-maintenance/internal/config"
)

var ErrNoRecipients = errors.New("no recipients")

type Client struct {
	dialer *gomail.Dialer
	from   string
	l      *slog.Logger
}

func New(l *slog.Logger, cfg config.MailConfig) *Client {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.TLSConfig = &tls.Config{
		ServerName: cfg.Host,
		MinVersion: tls.VersionTLS12,
	}

	return &Client{
		dialer: dialer,
		from:   cfg.From,
		l:      l.WithGroup("mail"),
	}
}

// Send delivers a plain text message. The SMTP exchange itself is not
// cancellable, so ctx is only checked before dialing.
func (c *Client) Send(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return ErrNoRecipients
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	if err := c.dialer.DialAndSend(c.compose(to, subject, body)); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	c.l.Debug("email sent", "subject", subject, "recipients", len(to))
	return nil
}

func (c *Client) compose(to []string, subject, body string) *gomail.Message {
	msg := gomail.NewMessage(
		gomail.SetCharset("UTF-8"),
		gomail.SetEncoding(gomail.Base64),
	)

	msg.SetHeader("From", c.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return msg
}
