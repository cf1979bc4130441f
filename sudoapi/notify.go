package sudoapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmlTemplate "html/template"
	"log/slog"
	"strings"
	textTemplate "text/template"

	_ "embed"

	"github.com/KiloProjects/cfp"
	"github.com/KiloProjects/cfp/integrations/prometheus"
	"github.com/KiloProjects/cfp/internal/config"
	"github.com/KiloProjects/cfp/sudoapi/flags"
)

//go:embed emails/talk_submit.tmpl
var talkSubmitText string

var (
	talkSubmitTextTempl = textTemplate.Must(textTemplate.New("talk_submit").Parse(talkSubmitText))
	talkSubmitHTMLTempl = htmlTemplate.Must(htmlTemplate.New("talk_submit").Parse(talkSubmitText))
)

// talkSubmitParams are the values available to the talk_submit email template
type talkSubmitParams struct {
	Email   string
	Title   string
	Talk    string
	EndDate string
}

// renderSubmitEmail builds the confirmation message sent to the speaker at `to`.
func renderSubmitEmail(to string, params talkSubmitParams) (*cfp.MailerMessage, error) {
	block := func(name string) (string, error) {
		var buf bytes.Buffer
		if err := talkSubmitTextTempl.ExecuteTemplate(&buf, name, params); err != nil {
			return "", fmt.Errorf("could not render %q block: %w", name, err)
		}
		return buf.String(), nil
	}

	msg := &cfp.MailerMessage{To: to}
	var err error
	if msg.From, err = block("from"); err != nil {
		return nil, err
	}
	if msg.FromName, err = block("from_name"); err != nil {
		return nil, err
	}
	if msg.Subject, err = block("subject"); err != nil {
		return nil, err
	}
	if msg.PlainContent, err = block("body_text"); err != nil {
		return nil, err
	}
	msg.From = strings.TrimSpace(msg.From)
	msg.FromName = strings.TrimSpace(msg.FromName)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.ReplyTo = msg.From

	var buf bytes.Buffer
	if err := talkSubmitHTMLTempl.ExecuteTemplate(&buf, "body_html", params); err != nil {
		return nil, fmt.Errorf("could not render %q block: %w", "body_html", err)
	}
	msg.HTMLContent = buf.String()

	if msg.From == "" {
		return nil, errors.New("email template produced an empty sender")
	}
	return msg, nil
}

// SendSubmitEmail tells the speaker at `email` that their talk was received.
// It returns ErrMailerDisabled if emails are turned off, so callers can tell that apart from a failure.
func (s *BaseAPI) SendSubmitEmail(ctx context.Context, email string, talkID int) error {
	if !s.MailerEnabled() || !flags.NotifySpeaker.Value() {
		prometheus.EmailsSent.WithLabelValues("disabled").Inc()
		return ErrMailerDisabled
	}
	talk, err := s.Talk(ctx, talkID)
	if err != nil {
		prometheus.EmailsSent.WithLabelValues("failed").Inc()
		return fmt.Errorf("could not find talk %d: %w", talkID, err)
	}
	return s.sendTalkEmail(ctx, email, talk)
}

func (s *BaseAPI) sendTalkEmail(ctx context.Context, email string, talk *cfp.Talk) error {
	msg, err := renderSubmitEmail(email, talkSubmitParams{
		Email:   config.Application.Email,
		Title:   config.Application.Title,
		Talk:    talk.Title,
		EndDate: config.Application.FormattedEndDate(),
	})
	if err != nil {
		prometheus.EmailsSent.WithLabelValues("failed").Inc()
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, config.Email.Timeout())
	defer cancel()
	if err := s.mailer.SendEmail(ctx, msg); err != nil {
		prometheus.EmailsSent.WithLabelValues("failed").Inc()
		return err
	}
	prometheus.EmailsSent.WithLabelValues("sent").Inc()
	slog.DebugContext(ctx, "Sent talk confirmation", slog.Int("talk_id", talk.ID))
	return nil
}

func (s *BaseAPI) MailerEnabled() bool {
	return config.Email.Enabled && s.mailer != nil
}
