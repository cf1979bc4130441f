package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KiloProjects/cfp"
	"github.com/KiloProjects/cfp/internal/util"
	"github.com/matryer/is"
)

func TestRouting(t *testing.T) {
	tw := newTestWeb(true)
	h := tw.Handler()

	tests := []struct {
		name     string
		method   string
		path     string
		code     int
		location string
	}{
		{"index", http.MethodGet, "/", http.StatusSeeOther, "/dashboard"},
		{"dashboard needs login", http.MethodGet, "/dashboard", http.StatusSeeOther, "/login?back=%2Fdashboard"},
		{"create needs login", http.MethodPost, "/talk/create", http.StatusSeeOther, "/login?back=%2Ftalk%2Fcreate"},
		{"logout", http.MethodPost, "/logout", http.StatusSeeOther, "/login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			is.Equal(rec.Code, tt.code)
			is.Equal(rec.Header().Get("Location"), tt.location)
		})
	}
}

func TestLoginPageAndFailure(t *testing.T) {
	is := is.New(t)
	tw := newTestWeb(true)
	h := tw.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login?back=//evil.example.org", nil))
	is.Equal(rec.Code, http.StatusOK)
	is.Equal(tw.views.views[0].name, "login")
	is.Equal(tw.views.views[0].params.Content.(*loginParams).Back, "/dashboard")

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.PostForm = map[string][]string{"email": {"a@b.c"}, "password": {"nope"}, "back": {"/talk/create"}}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	is.Equal(rec.Code, http.StatusBadRequest)
	view := tw.views.views[1]
	is.Equal(view.name, "login")
	is.Equal(view.params.Flash, cfp.ErrorFlash("Invalid email or password"))
	is.Equal(view.params.Content.(*loginParams).Back, "/talk/create")
}

func TestSafeBack(t *testing.T) {
	is := is.New(t)
	is.Equal(safeBack("/talk/3"), "/talk/3")
	is.Equal(safeBack(""), "/dashboard")
	is.Equal(safeBack("https://evil.example.org"), "/dashboard")
	is.Equal(safeBack("//evil.example.org"), "/dashboard")
}

func TestTemplatesParse(t *testing.T) {
	is := is.New(t)
	rt := &Web{}
	views, err := parseTemplates(rt.funcs())
	is.NoErr(err)
	for _, page := range []string{"login", "dashboard", "status", "talk/create", "talk/view"} {
		_, ok := views.pages[page]
		is.True(ok) // every page must be parsed
	}
}

func TestDashboardTotalTalks(t *testing.T) {
	tests := []struct {
		name     string
		user     *cfp.User
		countErr error
		want     int
	}{
		{"speaker", speaker, nil, -1},
		{"admin", &cfp.User{ID: 1, Admin: true}, nil, 2},
		{"admin, count fails", &cfp.User{ID: 1, Admin: true}, errors.New("db down"), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			tw := newTestWeb(true)
			tw.backend.talks = []*cfp.Talk{{ID: 1, UserID: 7}, {ID: 2, UserID: 8}}
			tw.backend.countErr = tt.countErr

			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			req = req.WithContext(util.WithUser(req.Context(), tt.user))
			rec := httptest.NewRecorder()
			tw.dashboard(rec, req)

			is.Equal(rec.Code, http.StatusOK)
			params := tw.views.views[0].params.Content.(*dashboardParams)
			is.Equal(params.TotalTalks, tt.want)
		})
	}
}
