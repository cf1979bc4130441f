package db

import (
	"testing"

	"github.com/KiloProjects/cfp"
	sq "github.com/Masterminds/squirrel"
	"github.com/matryer/is"
)

func TestFilterBuilder(t *testing.T) {
	is := is.New(t)

	fb := newFilterBuilder()
	is.Equal(fb.Where(), "1 = 1")

	fb.AddConstraint("user_id = %s", 7)
	fb.AddConstraint("created_at BETWEEN %s AND %s", "a", "b")
	fb.AddConstraint(" deleted = false ")

	is.Equal(fb.Where(), "user_id = $1 AND created_at BETWEEN $2 AND $3 AND deleted = false")
	is.Equal(fb.Args(), []any{7, "a", "b"})
}

func TestTalkFilterQuery(t *testing.T) {
	is := is.New(t)
	uid, cat := 3, "go"

	fb := newFilterBuilder()
	talkFilterQuery(&cfp.TalkFilter{UserID: &uid, Category: &cat}, fb)

	is.Equal(fb.Where(), "user_id = $1 AND category = $2")
	is.Equal(fb.Args(), []any{3, "go"})
}

func TestUserFilterQuery(t *testing.T) {
	is := is.New(t)
	email, sid := "Speaker@Example.org", "abc"

	query, args, err := userFilterQuery(&cfp.UserFilter{Email: &email, SessionID: &sid}, sq.Select("users.*").From("users")).ToSql()
	is.NoErr(err)
	is.Equal(query, "SELECT users.* FROM users WHERE lower(users.email) = lower($1) AND EXISTS (SELECT 1 FROM sessions WHERE sessions.user_id = users.id AND sessions.id = $2 AND sessions.expires_at > NOW())")
	is.Equal(args, []any{"Speaker@Example.org", "abc"})
}

func TestFormatLimitOffset(t *testing.T) {
	is := is.New(t)

	is.Equal(FormatLimitOffset(0, 0), "")
	is.Equal(FormatLimitOffset(10, 0), "LIMIT 10")
	is.Equal(FormatLimitOffset(0, 5), "OFFSET 5")
	is.Equal(FormatLimitOffset(10, 5), "LIMIT 10 OFFSET 5")
}
