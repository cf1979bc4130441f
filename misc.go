package cfp

import "context"

type Mailer interface {
	SendEmail(ctx context.Context, msg *MailerMessage) error
}

type MailerMessage struct {
	From     string
	FromName string

	To      string
	Subject string
	ReplyTo string

	PlainContent string
	HTMLContent  string
}
