package web

import (
	"log/slog"
	"net/http"

	"github.com/KiloProjects/cfp"
	"github.com/KiloProjects/cfp/internal/util"
)

type dashboardParams struct {
	User    *cfp.User
	CFP     *cfp.CallForPapers
	CFPOpen bool
	Talks   []*cfp.Talk

	// TotalTalks is only filled in for admins, -1 otherwise
	TotalTalks int
}

func (rt *Web) dashboard(w http.ResponseWriter, r *http.Request) {
	user := util.User(r)
	talks, err := rt.base.UserTalks(r.Context(), user.ID)
	if err != nil {
		slog.WarnContext(r.Context(), "Could not load talks", slog.Int("user_id", user.ID), slog.Any("err", err))
		rt.statusPage(w, r, cfp.ErrorCode(err), "Could not load your talks")
		return
	}
	total := -1
	if user.IsAdmin() {
		total, err = rt.base.TalkCount(r.Context())
		if err != nil {
			slog.WarnContext(r.Context(), "Could not count talks", slog.Any("err", err))
			total = -1
		}
	}
	rt.runLayout(w, r, http.StatusOK, "dashboard", "Dashboard", &dashboardParams{
		User:    user,
		CFP:     rt.base.CallForPapers(),
		CFPOpen: rt.base.CFPOpen(),
		Talks:   talks,

		TotalTalks: total,
	})
}
