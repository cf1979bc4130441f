package api

import (
	"net/http"

	"github.com/KiloProjects/cfp/internal/util"
)

// SetupSession attaches the user behind the session cookie or Authorization header, if any
func (s *API) SetupSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.base.SessionUser(r.Context(), s.base.GetSessCookie(r))
		if err != nil || user == nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(util.WithUser(r.Context(), user)))
	})
}

func (s *API) MustBeAuthed(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !util.User(r).IsAuthed() {
			errorData(w, "You must be authenticated to do this", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *API) MustBeAdmin(next http.Handler) http.Handler {
	return s.MustBeAuthed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !util.User(r).IsAdmin() {
			errorData(w, "You must be an admin to do this", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}
