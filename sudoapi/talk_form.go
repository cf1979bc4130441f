package sudoapi

import (
	"errors"
	"html"
	"strings"

	"github.com/KiloProjects/cfp"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/microcosm-cc/bluemonday"
)

const MaxTitleLength = 100

var strictPolicy = bluemonday.StrictPolicy()

// TalkForm is a talk submission, as posted by the speaker.
// Any user_id sent along with it is deliberately not part of the struct.
type TalkForm struct {
	Title       string `schema:"title" json:"title"`
	Description string `schema:"description" json:"description"`
	Type        string `schema:"type" json:"type"`
	Level       string `schema:"level" json:"level"`
	Category    string `schema:"category" json:"category"`
	Desired     string `schema:"desired" json:"desired"`
	Slides      string `schema:"slides" json:"slides"`
	Other       string `schema:"other" json:"other"`
	Sponsor     string `schema:"sponsor" json:"sponsor"`
}

// Order in which validation messages are reported
var talkFormFields = []string{"title", "description", "type", "level", "category", "desired", "slides", "other", "sponsor"}

// maxSanitizeRounds bounds how many layers of entity encoding are peeled off
const maxSanitizeRounds = 16

// sanitizeText strips markup and leaves plain, unescaped text.
// Unescaping can reveal new markup (e.g. "&lt;b&gt;"), so it runs until nothing changes.
func sanitizeText(s string) string {
	for range maxSanitizeRounds {
		next := strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
		if next == s {
			return s
		}
		s = next
	}
	// Too deeply encoded to be honest text
	return strings.TrimSpace(strings.NewReplacer("<", "", ">", "", "&", "").Replace(s))
}

// Sanitize returns a copy of the form with all markup stripped from every field.
func (f TalkForm) Sanitize() TalkForm {
	return TalkForm{
		Title:       sanitizeText(f.Title),
		Description: sanitizeText(f.Description),
		Type:        sanitizeText(f.Type),
		Level:       sanitizeText(f.Level),
		Category:    sanitizeText(f.Category),
		Desired:     sanitizeText(f.Desired),
		Slides:      sanitizeText(f.Slides),
		Other:       sanitizeText(f.Other),
		Sponsor:     sanitizeText(f.Sponsor),
	}
}

// Validate returns the user-facing problems with the form, in field order.
// A nil result means the form is valid.
func (f *TalkForm) Validate(opts *cfp.TalkOptions) []string {
	err := validation.ValidateStruct(f,
		validation.Field(&f.Title,
			validation.Required.Error("Please fill in the title"),
			validation.RuneLength(0, MaxTitleLength).Error("Your talk title has to be 100 characters or less"),
		),
		validation.Field(&f.Type,
			validation.Required.Error("You did not choose a valid talk type"),
			validation.In(opts.TypeKeys()...).Error("You did not choose a valid talk type"),
		),
		validation.Field(&f.Level,
			validation.Required.Error("You did not choose a valid talk level"),
			validation.In(opts.LevelKeys()...).Error("You did not choose a valid talk level"),
		),
		validation.Field(&f.Category,
			validation.Required.Error("You did not choose a valid talk category"),
			validation.In(opts.CategoryKeys()...).Error("You did not choose a valid talk category"),
		),
	)
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		// Internal errors mean the rules themselves are broken
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, field := range talkFormFields {
		if ferr, ok := verrs[field]; ok && ferr != nil {
			msgs = append(msgs, ferr.Error())
		}
	}
	return msgs
}

// Talk builds the talk to be saved. The owner always comes from the caller, never from the form.
func (f TalkForm) Talk(userID int) *cfp.Talk {
	return &cfp.Talk{
		UserID:      userID,
		Title:       f.Title,
		Description: f.Description,
		Type:        f.Type,
		Level:       f.Level,
		Category:    f.Category,
		Desired:     f.Desired,
		Slides:      f.Slides,
		Other:       f.Other,
		Sponsor:     f.Sponsor,
	}
}

// JoinMessages escapes every message and joins them with line breaks, ready to be shown as flash HTML.
func JoinMessages(msgs []string) string {
	escaped := make([]string, len(msgs))
	for i, msg := range msgs {
		escaped[i] = html.EscapeString(msg)
	}
	return strings.Join(escaped, "<br>")
}
