package email

import (
	"context"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"time"

	"github.com/KiloProjects/cfp"
	"github.com/KiloProjects/cfp/internal/config"
	"github.com/jordan-wright/email"
)

var _ cfp.Mailer = &Mailer{}

type Mailer struct {
	pool    *email.Pool
	timeout time.Duration
}

func (e *Mailer) SendEmail(ctx context.Context, msg *cfp.MailerMessage) error {
	em := email.NewEmail()

	from := mail.Address{Name: msg.FromName, Address: msg.From}
	em.From = from.String()
	em.To = []string{msg.To}
	if msg.ReplyTo != "" {
		em.ReplyTo = []string{msg.ReplyTo}
	}

	em.Subject = msg.Subject
	em.Text = []byte(msg.PlainContent)
	if msg.HTMLContent != "" {
		em.HTML = []byte(msg.HTMLContent)
	}

	timeout := e.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}
	if timeout <= 0 {
		return context.DeadlineExceeded
	}
	if err := e.pool.Send(em, timeout); err != nil {
		return fmt.Errorf("could not send email: %w", err)
	}
	return nil
}

// Close releases the pooled SMTP connections.
func (e *Mailer) Close() {
	e.pool.Close()
}

// NewMailer builds a pooled SMTP mailer from the [email] configuration section.
func NewMailer() (*Mailer, error) {
	host, _, err := net.SplitHostPort(config.Email.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid email host: %w", err)
	}
	var auth smtp.Auth
	if config.Email.Username != "" {
		auth = smtp.PlainAuth("", config.Email.Username, config.Email.Password, host)
	}
	poolSize := max(config.Email.PoolSize, 1)
	pool, err := email.NewPool(config.Email.Host, poolSize, auth)
	if err != nil {
		return nil, err
	}
	return &Mailer{pool: pool, timeout: config.Email.Timeout()}, nil
}
