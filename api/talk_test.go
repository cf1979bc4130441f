package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KiloProjects/cfp"
	"github.com/KiloProjects/cfp/sudoapi"
	"github.com/matryer/is"
)

type fakeBackend struct {
	open    bool
	talks   []*cfp.Talk
	mailErr error
}

func (b *fakeBackend) CFPOpen() bool { return b.open }
func (b *fakeBackend) CallForPapers() *cfp.CallForPapers {
	return &cfp.CallForPapers{}
}
func (b *fakeBackend) TalkOptions() *cfp.TalkOptions {
	return &cfp.TalkOptions{
		Types:      map[string]string{"talk": "Regular talk"},
		Levels:     map[string]string{"beginner": "Beginner"},
		Categories: map[string]string{"php": "PHP"},
	}
}

func (b *fakeBackend) CreateTalk(_ context.Context, userID int, form sudoapi.TalkForm) (int, error) {
	talk := form.Talk(userID)
	talk.ID = len(b.talks) + 1
	b.talks = append(b.talks, talk)
	return talk.ID, nil
}

func (b *fakeBackend) Talk(_ context.Context, id int) (*cfp.Talk, error) {
	for _, t := range b.talks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, cfp.ErrNotFound
}

func (b *fakeBackend) UserTalks(context.Context, int) ([]*cfp.Talk, error) {
	return b.talks, nil
}

func (b *fakeBackend) SendSubmitEmail(context.Context, string, int) error {
	return b.mailErr
}

func (b *fakeBackend) Login(context.Context, string, string) (int, *cfp.StatusError) {
	return 7, nil
}
func (b *fakeBackend) CreateSession(context.Context, int) (string, error) { return "sid-7", nil }
func (b *fakeBackend) RemoveSession(context.Context, string) error        { return nil }
func (b *fakeBackend) GetSessCookie(r *http.Request) string               { return r.Header.Get("Authorization") }

func (b *fakeBackend) SessionUser(_ context.Context, sid string) (*cfp.User, error) {
	switch sid {
	case "sid-7":
		return &cfp.User{ID: 7, Email: "speaker@example.org"}, nil
	case "sid-admin":
		return &cfp.User{ID: 1, Email: "admin@example.org", Admin: true}, nil
	}
	return nil, nil
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, h http.Handler, method, path, sid, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.Header.Set("Authorization", sid)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	return rec.Code, env
}

const exampleTalk = `{"title": "My Talk", "type": "talk", "level": "beginner", "category": "php", "desired": "x", "user_id": 1}`

func TestAPICreateTalk(t *testing.T) {
	is := is.New(t)
	b := &fakeBackend{open: true}
	h := (&API{base: b}).Handler()

	code, env := doRequest(t, h, http.MethodPost, "/talk/create", "sid-7", exampleTalk)
	is.Equal(code, http.StatusOK)
	is.Equal(env.Status, "success")
	var resp createTalkResponse
	is.NoErr(json.Unmarshal(env.Data, &resp))
	is.Equal(resp, createTalkResponse{ID: 1, Notified: true})
	is.Equal(len(b.talks), 1)
	is.Equal(b.talks[0].UserID, 7) // the posted user_id is ignored
}

func TestAPICreateTalkRejections(t *testing.T) {
	tests := []struct {
		name string
		open bool
		sid  string
		body string
		code int
		msg  string
	}{
		{"anonymous", true, "", exampleTalk, http.StatusUnauthorized, "You must be authenticated to do this"},
		{"closed", false, "sid-7", exampleTalk, http.StatusForbidden, "You cannot create talks once the call for papers has ended"},
		{"invalid", true, "sid-7", `{"title": "", "type": "talk", "level": "expert", "category": "php"}`, http.StatusBadRequest, "Please fill in the title<br>You did not choose a valid talk level"},
		{"bad json", true, "sid-7", `{"title": `, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			b := &fakeBackend{open: tt.open}
			h := (&API{base: b}).Handler()

			code, env := doRequest(t, h, http.MethodPost, "/talk/create", tt.sid, tt.body)
			is.Equal(code, tt.code)
			is.Equal(env.Status, "error")
			is.Equal(len(b.talks), 0)
			if tt.msg != "" {
				var msg string
				is.NoErr(json.Unmarshal(env.Data, &msg))
				is.Equal(msg, tt.msg)
			}
		})
	}
}

func TestAPICreateTalkMailFailure(t *testing.T) {
	is := is.New(t)
	b := &fakeBackend{open: true, mailErr: errors.New("smtp down")}
	h := (&API{base: b}).Handler()

	code, env := doRequest(t, h, http.MethodPost, "/talk/create", "sid-7", exampleTalk)
	is.Equal(code, http.StatusOK)
	var resp createTalkResponse
	is.NoErr(json.Unmarshal(env.Data, &resp))
	is.Equal(resp.Notified, false)
	is.Equal(len(b.talks), 1)
}

func TestAPICFPStatus(t *testing.T) {
	is := is.New(t)
	h := (&API{base: &fakeBackend{open: true}}).Handler()

	code, env := doRequest(t, h, http.MethodGet, "/cfp", "", "")
	is.Equal(code, http.StatusOK)
	var status cfpStatus
	is.NoErr(json.Unmarshal(env.Data, &status))
	is.True(status.Open)
	is.Equal(status.Types, []cfp.TalkOption{{Key: "talk", Label: "Regular talk"}})
}

func TestAPIAdminOnly(t *testing.T) {
	is := is.New(t)
	h := (&API{base: &fakeBackend{}}).Handler()

	code, _ := doRequest(t, h, http.MethodGet, "/admin/flags", "sid-7", "")
	is.Equal(code, http.StatusForbidden)
	code, env := doRequest(t, h, http.MethodGet, "/admin/flags", "sid-admin", "")
	is.Equal(code, http.StatusOK)
	is.Equal(env.Status, "success")
}
