package web

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/KiloProjects/cfp/internal/util"
	"github.com/go-chi/chi/v5"
)

func trimNonDigits(s string) string {
	return strings.TrimRightFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
}

// ValidateTalkID loads the talk in the URL and makes sure the user may see it
func (rt *Web) ValidateTalkID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		talkID, err := strconv.Atoi(trimNonDigits(chi.URLParam(r, "id")))
		if err != nil {
			rt.statusPage(w, r, http.StatusBadRequest, "Invalid ID")
			return
		}
		talk, err := rt.base.Talk(r.Context(), talkID)
		if err != nil || talk == nil {
			rt.statusPage(w, r, http.StatusNotFound, "Talk not found")
			return
		}
		if !util.User(r).CanView(talk) {
			// Other people's talks look like they do not exist
			rt.statusPage(w, r, http.StatusNotFound, "Talk not found")
			return
		}
		next.ServeHTTP(w, r.WithContext(util.WithTalk(r.Context(), talk)))
	})
}

func (rt *Web) mustBeAuthed(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !util.User(r).IsAuthed() {
			http.Redirect(w, r, routeURL("login")+"?back="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rt *Web) mustBeVisitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if util.User(r).IsAuthed() {
			rt.redirectTo(w, r, "dashboard")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rt *Web) initSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := rt.base.SessionUser(r.Context(), rt.base.GetSessCookie(r))
		if err != nil || user == nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), util.UserKey, user)))
	})
}
