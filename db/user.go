package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/KiloProjects/cfp"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

type User struct {
	ID        int       `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	Email     string    `db:"email"`
	Name      string    `db:"name"`
	Password  string    `db:"password"`
	Admin     bool      `db:"admin"`
}

func (user *User) toUser() *cfp.User {
	if user == nil {
		return nil
	}
	return &cfp.User{
		ID:        user.ID,
		CreatedAt: user.CreatedAt,
		Email:     user.Email,
		Name:      user.Name,
		Password:  user.Password,
		Admin:     user.Admin,
	}
}

// User looks up a single user. A nil user with no error is returned if nothing matches.
func (s *DB) User(ctx context.Context, filter cfp.UserFilter) (*cfp.User, error) {
	filter.Limit = 1
	return toSingular(ctx, filter, s.Users)
}

// Users retrieves users based on a filter.
func (s *DB) Users(ctx context.Context, filter cfp.UserFilter) ([]*cfp.User, error) {
	sb := userFilterQuery(&filter, sq.Select("users.*").From("users"))
	sb = sb.OrderBy("users.id ASC")
	if filter.Limit > 0 {
		sb = sb.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		sb = sb.Offset(uint64(filter.Offset))
	}
	query, args, err := sb.ToSql()
	if err != nil {
		return nil, err
	}

	rows, _ := s.conn.Query(ctx, query, args...)
	users, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[User])
	if errors.Is(err, pgx.ErrNoRows) {
		return []*cfp.User{}, nil
	}
	if err != nil {
		return nil, err
	}
	return mapper(users, (*User).toUser), nil
}

// UserByEmail is case insensitive.
func (s *DB) UserByEmail(ctx context.Context, email string) (*cfp.User, error) {
	return s.User(ctx, cfp.UserFilter{Email: &email})
}

func (s *DB) CreateUser(ctx context.Context, email, name, passwordHash string, admin bool) (int, error) {
	if email == "" || passwordHash == "" {
		return -1, cfp.ErrMissingRequired
	}
	query, args, err := sq.Insert("users").
		Columns("email", "name", "password", "admin").
		Values(strings.TrimSpace(email), strings.TrimSpace(name), passwordHash, admin).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return -1, err
	}
	var id int
	err = s.conn.QueryRow(ctx, query, args...).Scan(&id)
	return id, err
}

func userFilterQuery(filter *cfp.UserFilter, sb sq.SelectBuilder) sq.SelectBuilder {
	if v := filter.ID; v != nil {
		sb = sb.Where(sq.Eq{"users.id": *v})
	}
	if v := filter.Email; v != nil {
		sb = sb.Where("lower(users.email) = lower(?)", *v)
	}
	if v := filter.SessionID; v != nil {
		sb = sb.Where("EXISTS (SELECT 1 FROM sessions WHERE sessions.user_id = users.id AND sessions.id = ? AND sessions.expires_at > NOW())", *v)
	}
	return sb
}
