// Package api is the JSON counterpart of the web pages, for scripts and frontends.
package api

import (
	"context"
	"net/http"

	"github.com/KiloProjects/cfp"
	"github.com/KiloProjects/cfp/internal/config"
	"github.com/KiloProjects/cfp/sudoapi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/schema"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type backend interface {
	CFPOpen() bool
	CallForPapers() *cfp.CallForPapers
	TalkOptions() *cfp.TalkOptions

	CreateTalk(ctx context.Context, userID int, form sudoapi.TalkForm) (int, error)
	Talk(ctx context.Context, id int) (*cfp.Talk, error)
	UserTalks(ctx context.Context, userID int) ([]*cfp.Talk, error)
	SendSubmitEmail(ctx context.Context, email string, talkID int) error

	Login(ctx context.Context, email, pwd string) (int, *cfp.StatusError)
	CreateSession(ctx context.Context, uid int) (string, error)
	RemoveSession(ctx context.Context, sid string) error
	SessionUser(ctx context.Context, sid string) (*cfp.User, error)
	GetSessCookie(r *http.Request) string
}

var _ backend = &sudoapi.BaseAPI{}

// API is the base struct for the JSON API
type API struct {
	base backend
}

func New(base *sudoapi.BaseAPI) *API {
	return &API{base: base}
}

// Handler returns the router, meant to be mounted at /api
func (s *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{config.Common.HostPrefix},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(s.SetupSession)

	r.Get("/cfp", s.cfpStatus)
	r.Post("/login", s.login)
	r.With(s.MustBeAuthed).Post("/logout", s.logout)

	r.Group(func(r chi.Router) {
		r.Use(s.MustBeAuthed)
		r.Get("/talks", s.userTalks)
		r.Get("/talk/{id}", s.talk)
		r.Post("/talk/create", s.createTalk)
	})

	r.With(s.MustBeAdmin).Get("/admin/flags", s.flags)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errorData(w, "Endpoint not found", http.StatusNotFound)
	})
	return r
}
