package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KiloProjects/cfp"
	"github.com/gorilla/securecookie"
	"github.com/matryer/is"
)

func TestCookieFlashesAcrossRequests(t *testing.T) {
	is := is.New(t)
	store, err := newCookieFlashes(securecookie.GenerateRandomKey(32), securecookie.GenerateRandomKey(32), false)
	is.NoErr(err)

	set := withFlashSlot(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store.Set(w, r, cfp.SuccessFlash("Successfully saved talk."))
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}))
	rec := httptest.NewRecorder()
	set.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/talk/create", nil))
	cookies := rec.Result().Cookies()
	is.Equal(len(cookies), 1)
	is.Equal(cookies[0].Name, flashCookie)

	var popped *cfp.Flash
	pop := withFlashSlot(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		popped = store.Pop(w, r)
	}))
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	pop.ServeHTTP(rec, req)

	is.Equal(popped, cfp.SuccessFlash("Successfully saved talk."))
	cleared := rec.Result().Cookies()
	is.Equal(len(cleared), 1)
	is.Equal(cleared[0].MaxAge, -1) // cookie is removed once shown
}

func TestCookieFlashesSameRequest(t *testing.T) {
	is := is.New(t)
	store, err := newCookieFlashes(securecookie.GenerateRandomKey(32), nil, false)
	is.NoErr(err)

	var first, second *cfp.Flash
	h := withFlashSlot(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store.Set(w, r, cfp.ErrorFlash("Please fill in the title"))
		first = store.Pop(w, r)
		second = store.Pop(w, r)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/talk/create", nil))

	is.Equal(first, cfp.ErrorFlash("Please fill in the title"))
	is.Equal(second, nil)

	cookies := rec.Result().Cookies()
	is.True(len(cookies) > 0)
	is.Equal(cookies[len(cookies)-1].MaxAge, -1) // the last word is to delete it
}

func TestCookieFlashesTampered(t *testing.T) {
	is := is.New(t)
	store, err := newCookieFlashes(securecookie.GenerateRandomKey(32), nil, false)
	is.NoErr(err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: flashCookie, Value: "forged"})
	is.Equal(store.Pop(httptest.NewRecorder(), req), nil)
}

func TestCookieFlashesBadKeys(t *testing.T) {
	is := is.New(t)

	_, err := newCookieFlashes(nil, nil, false)
	is.True(err != nil) // hash key is required

	_, err = newCookieFlashes(securecookie.GenerateRandomKey(32), []byte("not an aes key"), false)
	is.True(err != nil)
}
