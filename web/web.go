// Package web serves the HTML pages speakers use to log in and submit talks.
package web

import (
	"cmp"
	"context"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/KiloProjects/cfp"
	"github.com/KiloProjects/cfp/internal/config"
	"github.com/KiloProjects/cfp/internal/util"
	"github.com/KiloProjects/cfp/sudoapi"
	"github.com/benbjohnson/hashfs"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
	"github.com/gorilla/securecookie"
)

//go:embed static
var embedded embed.FS

// backend is everything the pages need from the API layer. It is satisfied by *sudoapi.BaseAPI.
type backend interface {
	CFPOpen() bool
	CallForPapers() *cfp.CallForPapers
	TalkOptions() *cfp.TalkOptions

	CreateTalk(ctx context.Context, userID int, form sudoapi.TalkForm) (int, error)
	Talk(ctx context.Context, id int) (*cfp.Talk, error)
	UserTalks(ctx context.Context, userID int) ([]*cfp.Talk, error)
	TalkCount(ctx context.Context) (int, error)
	RenderTalkDescription(talk *cfp.Talk) ([]byte, error)
	SendSubmitEmail(ctx context.Context, email string, talkID int) error

	Login(ctx context.Context, email, pwd string) (int, *cfp.StatusError)
	CreateSession(ctx context.Context, uid int) (string, error)
	RemoveSession(ctx context.Context, sid string) error
	SessionUser(ctx context.Context, sid string) (*cfp.User, error)
	GetSessCookie(r *http.Request) string
}

var _ backend = &sudoapi.BaseAPI{}

// routes maps route names to their paths
var routes = map[string]string{
	"index":       "/",
	"login":       "/login",
	"logout":      "/logout",
	"dashboard":   "/dashboard",
	"talk_create": "/talk/create",
}

func routeURL(name string) string {
	if p, ok := routes[name]; ok {
		return p
	}
	slog.Warn("Unknown route name", slog.String("name", name))
	return "/"
}

// Web is the struct representing this whole package
type Web struct {
	base    backend
	flashes FlashStore
	views   viewRenderer
	decoder *schema.Decoder

	staticFS *hashfs.FS
}

// LayoutParams is what every page template receives. Content holds the page-specific data.
type LayoutParams struct {
	Title    string
	AppTitle string
	User     *cfp.User
	LoggedIn bool
	Flash    *cfp.Flash

	Content any
}

func (rt *Web) runLayout(w http.ResponseWriter, r *http.Request, status int, page string, title string, content any) {
	user := util.User(r)
	params := &LayoutParams{
		Title:    title,
		AppTitle: config.Application.Title,
		User:     user,
		LoggedIn: user.IsAuthed(),
		Flash:    rt.flashes.Pop(w, r),
		Content:  content,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := rt.views.Render(w, page, params); err != nil {
		slog.WarnContext(r.Context(), "Could not render page", slog.String("page", page), slog.Any("err", err))
	}
}

type statusParams struct {
	Code    int
	Message string
}

func (rt *Web) statusPage(w http.ResponseWriter, r *http.Request, code int, message string) {
	rt.runLayout(w, r, code, "status", http.StatusText(code), &statusParams{Code: code, Message: message})
}

func (rt *Web) redirectTo(w http.ResponseWriter, r *http.Request, route string) {
	http.Redirect(w, r, routeURL(route), http.StatusSeeOther)
}

// Handler returns the router with every page mounted
func (rt *Web) Handler() http.Handler {
	r := chi.NewRouter()

	r.Handle("/static/*", http.StripPrefix("/static/", hashfs.FileServer(rt.staticFS)))

	r.Group(func(r chi.Router) {
		r.Use(rt.initSession)
		r.Use(withFlashSlot)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			rt.redirectTo(w, r, "dashboard")
		})

		r.With(rt.mustBeVisitor).Get("/login", rt.getLogin)
		r.With(rt.mustBeVisitor).Post("/login", rt.postLogin)
		r.Post("/logout", rt.logout)

		r.Group(func(r chi.Router) {
			r.Use(rt.mustBeAuthed)
			r.Get("/dashboard", rt.dashboard)
			r.Get("/talk/create", rt.getCreateTalk)
			r.Post("/talk/create", rt.processCreateTalk)
			r.With(rt.ValidateTalkID).Get("/talk/{id}", rt.viewTalk)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			rt.statusPage(w, r, 404, "Page not found")
		})
	})

	return r
}

func (rt *Web) funcs() template.FuncMap {
	return template.FuncMap{
		"version": func() string { return cfp.Version },
		// flash texts are built by the server and already escaped
		"flashHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
		"humanTime": humanize.Time,
		"formatTime": func(t time.Time) string {
			return t.Format(cmp.Or(config.Application.DateFormat, "January 2, 2006"))
		},
		"assetURL": func(name string) string {
			return "/static/" + rt.staticFS.HashName(name)
		},
	}
}

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	dec.ZeroEmpty(true)
	return dec
}

// NewWeb builds the web server on top of the API. Flash cookies use the [session] keys, or random ones if unset.
func NewWeb(base *sudoapi.BaseAPI) (*Web, error) {
	staticDir, err := fs.Sub(embedded, "static")
	if err != nil {
		return nil, err
	}

	hashKey, blockKey := []byte(config.Session.HashKey), []byte(config.Session.BlockKey)
	if len(hashKey) == 0 {
		slog.Warn("No session hash key set, flash messages will not survive restarts")
		hashKey = securecookie.GenerateRandomKey(32)
	}
	if len(blockKey) == 0 {
		blockKey = nil
	}

	flashes, err := newCookieFlashes(hashKey, blockKey, config.Session.Secure)
	if err != nil {
		return nil, err
	}

	rt := &Web{
		base:     base,
		flashes:  flashes,
		decoder:  newDecoder(),
		staticFS: hashfs.NewFS(staticDir),
	}
	views, err := parseTemplates(rt.funcs())
	if err != nil {
		return nil, err
	}
	rt.views = views
	return rt, nil
}
