package cfp

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	ErrMissingRequired = Statusf(400, "Missing required fields")
	ErrNotFound        = Statusf(404, "Not found")
	ErrUnknownError    = Statusf(500, "Unknown error occured")

	ErrCFPClosed      = Statusf(403, "You cannot create talks once the call for papers has ended")
	ErrMailerDisabled = Statusf(503, "Mailer is disabled")
)

var _ error = &StatusError{}

// StatusError is an error that also carries the HTTP status code that should be shown to the user.
type StatusError struct {
	Code int
	Text string

	WrappedError error
}

func (s *StatusError) LogValue() slog.Value {
	if s == nil {
		return slog.Value{}
	}
	if s.WrappedError != nil {
		return slog.GroupValue(slog.String("text", s.Text), slog.Any("wrapped", s.WrappedError))
	}
	return slog.StringValue(s.Text)
}

func (s *StatusError) Error() string {
	return s.Text
}

func (s *StatusError) Unwrap() error {
	return s.WrappedError
}

func (s *StatusError) Is(target error) bool {
	if err, ok := target.(*StatusError); ok {
		return err.Text == s.Text
	}
	return false
}

func Statusf(status int, format string, args ...any) *StatusError {
	return &StatusError{Code: status, Text: fmt.Sprintf(format, args...)}
}

// WrapError keeps err around for logging, but only shows text to the user.
func WrapError(err error, text string) *StatusError {
	if err == nil {
		return nil
	}
	var serr *StatusError
	if errors.As(err, &serr) && serr.Code != 500 {
		return serr
	}
	return &StatusError{Code: 500, Text: text, WrappedError: err}
}

func ErrorCode(err error) int {
	if err == nil {
		return 200
	}
	var err2 *StatusError
	if errors.As(err, &err2) {
		return err2.Code
	}
	return 500
}
