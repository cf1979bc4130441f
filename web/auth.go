package web

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/KiloProjects/cfp"
	"github.com/KiloProjects/cfp/sudoapi"
)

type loginParams struct {
	Back  string
	Email string
}

// safeBack only allows local paths, so the login page can't be used as an open redirect
func safeBack(back string) string {
	if !strings.HasPrefix(back, "/") || strings.HasPrefix(back, "//") || strings.HasPrefix(back, "/\\") {
		return routeURL("dashboard")
	}
	return back
}

func (rt *Web) getLogin(w http.ResponseWriter, r *http.Request) {
	rt.runLayout(w, r, http.StatusOK, "login", "Log in", &loginParams{
		Back: safeBack(r.URL.Query().Get("back")),
	})
}

func (rt *Web) postLogin(w http.ResponseWriter, r *http.Request) {
	email, back := r.FormValue("email"), safeBack(r.FormValue("back"))

	uid, status := rt.base.Login(r.Context(), email, r.FormValue("password"))
	if status != nil {
		rt.flashes.Set(w, r, cfp.ErrorFlash(template.HTMLEscapeString(status.Text)))
		rt.runLayout(w, r, status.Code, "login", "Log in", &loginParams{Back: back, Email: email})
		return
	}

	sid, err := rt.base.CreateSession(r.Context(), uid)
	if err != nil {
		slog.WarnContext(r.Context(), "Could not create session", slog.Any("err", err))
		rt.statusPage(w, r, http.StatusInternalServerError, "Could not log in")
		return
	}
	http.SetCookie(w, sudoapi.SessionCookieFor(sid))
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (rt *Web) logout(w http.ResponseWriter, r *http.Request) {
	if sid := rt.base.GetSessCookie(r); sid != "" {
		if err := rt.base.RemoveSession(r.Context(), sid); err != nil {
			slog.WarnContext(r.Context(), "Could not remove session", slog.Any("err", err))
		}
	}
	http.SetCookie(w, sudoapi.SessionCookieFor(""))
	rt.redirectTo(w, r, "login")
}
