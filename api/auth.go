package api

import (
	"log/slog"
	"net/http"

	"github.com/KiloProjects/cfp/internal/config"
	"github.com/KiloProjects/cfp/sudoapi"
)

type loginForm struct {
	Email    string `json:"email" schema:"email"`
	Password string `json:"password" schema:"password"`
}

// login returns the session ID, which can be passed in the Authorization header afterwards
func (s *API) login(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := parseRequest(r, &form); err != nil {
		errorData(w, err, http.StatusBadRequest)
		return
	}
	uid, status := s.base.Login(r.Context(), form.Email, form.Password)
	if status != nil {
		errorData(w, status, status.Code)
		return
	}
	sid, err := s.base.CreateSession(r.Context(), uid)
	if err != nil {
		errorData(w, err, http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, sudoapi.SessionCookieFor(sid))
	returnData(w, sid)
}

func (s *API) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.base.RemoveSession(r.Context(), s.base.GetSessCookie(r)); err != nil {
		slog.WarnContext(r.Context(), "Could not remove session", slog.Any("err", err))
		errorData(w, err, http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, sudoapi.SessionCookieFor(""))
	returnData(w, "Logged out")
}

func (s *API) flags(w http.ResponseWriter, r *http.Request) {
	returnData(w, config.AllFlags())
}
