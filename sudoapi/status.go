package sudoapi

import (
	"github.com/KiloProjects/cfp"
)

var (
	ErrMissingRequired = cfp.ErrMissingRequired

	ErrNotFound       = cfp.ErrNotFound
	ErrUnknownError   = cfp.ErrUnknownError
	ErrCFPClosed      = cfp.ErrCFPClosed
	ErrMailerDisabled = cfp.ErrMailerDisabled
)

type StatusError = cfp.StatusError

// Reimplement Statusf and WrapError functions here for faster reference

func Statusf(status int, format string, args ...any) *StatusError {
	return cfp.Statusf(status, format, args...)
}

func WrapError(err error, text string) *StatusError {
	return cfp.WrapError(err, text)
}
