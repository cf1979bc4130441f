package sudoapi

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/KiloProjects/cfp"
	"github.com/asaskevich/govalidator"
	"golang.org/x/crypto/bcrypt"
)

// Login checks the credentials and returns the user's ID.
func (s *BaseAPI) Login(ctx context.Context, email, pwd string) (int, *StatusError) {
	email = strings.TrimSpace(email)
	if !govalidator.IsEmail(email) {
		return -1, Statusf(400, "Invalid email or password")
	}
	user, err := s.db.UserByEmail(ctx, email)
	if err != nil || user == nil {
		return -1, Statusf(400, "Invalid email or password")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(pwd))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return -1, Statusf(400, "Invalid email or password")
	} else if err != nil {
		// This should never happen. It means that bcrypt suffered something
		slog.WarnContext(ctx, "bcrypt error", slog.Any("err", err))
		return -1, ErrUnknownError
	}

	return user.ID, nil
}

// CreateUser registers a new speaker account. It is used by the administration CLI.
func (s *BaseAPI) CreateUser(ctx context.Context, email, name, pwd string, admin bool) (int, *StatusError) {
	email = strings.TrimSpace(email)
	if !govalidator.IsEmail(email) {
		return -1, Statusf(400, "Invalid email.")
	}
	if len(pwd) < 6 || len(pwd) > 72 {
		return -1, Statusf(400, "Invalid password length.")
	}
	if name = strings.TrimSpace(name); len(name) > 64 {
		return -1, Statusf(400, "Invalid name.")
	}

	if user, err := s.db.UserByEmail(ctx, email); err != nil {
		return -1, WrapError(err, "Couldn't check if email is in use")
	} else if user != nil {
		return -1, Statusf(400, "User with that email already exists!")
	}

	hash, err := cfp.HashPassword(pwd)
	if err != nil {
		return -1, WrapError(err, "Couldn't hash password")
	}
	id, err := s.db.CreateUser(ctx, email, name, hash, admin)
	if err != nil {
		return -1, WrapError(err, "Couldn't create user")
	}
	return id, nil
}

func (s *BaseAPI) User(ctx context.Context, id int) (*cfp.User, error) {
	user, err := s.db.User(ctx, cfp.UserFilter{ID: &id})
	if err != nil {
		return nil, WrapError(err, "Couldn't get user")
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}
