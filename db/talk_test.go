package db

import (
	"context"
	"flag"
	"os"
	"testing"
	"time"

	"github.com/KiloProjects/cfp"
	"github.com/matryer/is"
)

var testDB = flag.Bool("testDB", false, "Run tests against the database in CFP_TEST_DSN")

func newTestDB(t *testing.T) *DB {
	t.Helper()
	if !*testDB {
		t.SkipNow()
	}
	dsn := os.Getenv("CFP_TEST_DSN")
	if dsn == "" {
		t.Skip("CFP_TEST_DSN is not set")
	}
	ctx := context.Background()
	conn, err := NewPSQL(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := conn.RunMigrations(ctx); err != nil {
		t.Fatal(err)
	}
	return conn
}

func createTestUser(t *testing.T, conn *DB) int {
	t.Helper()
	email := "speaker-" + time.Now().Format("150405.000000000") + "@example.org"
	id, err := conn.CreateUser(context.Background(), email, "Speaker", "$2a$10$notarealhash", false)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestCreateTalk(t *testing.T) {
	conn := newTestDB(t)
	is := is.New(t)
	ctx := context.Background()

	uid := createTestUser(t, conn)
	id, err := conn.CreateTalk(ctx, &cfp.Talk{
		UserID:   uid,
		Title:    "Go in Production",
		Type:     "talk",
		Level:    "beginner",
		Category: "go",
		Sponsor:  "1",
	})
	is.NoErr(err)
	is.True(id > 0)

	talk, err := conn.Talk(ctx, id)
	is.NoErr(err)
	is.True(talk != nil)
	is.Equal(talk.UserID, uid)
	is.Equal(talk.Title, "Go in Production")
	is.Equal(talk.Description, "")
	is.Equal(talk.Sponsor, "1")

	talks, err := conn.Talks(ctx, cfp.TalkFilter{UserID: &uid})
	is.NoErr(err)
	is.Equal(len(talks), 1)

	cnt, err := conn.CountTalks(ctx, cfp.TalkFilter{UserID: &uid})
	is.NoErr(err)
	is.Equal(cnt, 1)
}

func TestCreateTalkMissingFields(t *testing.T) {
	is := is.New(t)
	var conn DB // never touches the pool

	_, err := conn.CreateTalk(context.Background(), nil)
	is.Equal(err, cfp.ErrMissingRequired)
	_, err = conn.CreateTalk(context.Background(), &cfp.Talk{UserID: 1})
	is.Equal(err, cfp.ErrMissingRequired)
}

func TestTalkNotFound(t *testing.T) {
	conn := newTestDB(t)
	is := is.New(t)

	talk, err := conn.Talk(context.Background(), -1)
	is.NoErr(err)
	is.True(talk == nil)
}

func TestSessions(t *testing.T) {
	conn := newTestDB(t)
	is := is.New(t)
	ctx := context.Background()

	uid := createTestUser(t, conn)
	sid, err := conn.CreateSession(ctx, uid, time.Hour)
	is.NoErr(err)

	user, err := conn.User(ctx, cfp.UserFilter{SessionID: &sid})
	is.NoErr(err)
	is.Equal(user.ID, uid)

	is.NoErr(conn.RemoveSession(ctx, sid))
	user, err = conn.User(ctx, cfp.UserFilter{SessionID: &sid})
	is.NoErr(err)
	is.True(user == nil)

	expired, err := conn.CreateSession(ctx, uid, -time.Minute)
	is.NoErr(err)
	user, err = conn.User(ctx, cfp.UserFilter{SessionID: &expired})
	is.NoErr(err)
	is.True(user == nil) // expired sessions do not resolve
	removed, err := conn.RemoveExpiredSessions(ctx)
	is.NoErr(err)
	is.True(removed >= 1)
}
