package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/KiloProjects/cfp"
	"github.com/KiloProjects/cfp/integrations/prometheus"
	"github.com/KiloProjects/cfp/internal/config"
	"github.com/KiloProjects/cfp/internal/util"
	"github.com/KiloProjects/cfp/sudoapi"
	"github.com/go-chi/chi/v5"
)

type cfpStatus struct {
	Open      bool             `json:"open"`
	Start     time.Time        `json:"start"`
	End       time.Time        `json:"end"`
	Remaining int64            `json:"remaining_seconds"`
	Title     string           `json:"title"`
	Types     []cfp.TalkOption `json:"types"`
	Levels    []cfp.TalkOption `json:"levels"`
	Category  []cfp.TalkOption `json:"categories"`
}

func (s *API) cfpStatus(w http.ResponseWriter, r *http.Request) {
	window := s.base.CallForPapers()
	opts := s.base.TalkOptions()
	returnData(w, cfpStatus{
		Open:      s.base.CFPOpen(),
		Start:     window.Start,
		End:       window.End,
		Remaining: int64(window.Remaining(time.Now()).Seconds()),
		Title:     config.Application.Title,
		Types:     opts.TypeList(),
		Levels:    opts.LevelList(),
		Category:  opts.CategoryList(),
	})
}

type createTalkResponse struct {
	ID int `json:"id"`
	// Notified is false if the confirmation email could not be sent
	Notified bool `json:"notified"`
}

func (s *API) createTalk(w http.ResponseWriter, r *http.Request) {
	if !s.base.CFPOpen() {
		prometheus.SubmissionsRejected.WithLabelValues("closed").Inc()
		errorData(w, cfp.ErrCFPClosed, http.StatusForbidden)
		return
	}
	user := util.User(r)

	var form sudoapi.TalkForm
	if err := parseRequest(r, &form); err != nil {
		errorData(w, err, http.StatusBadRequest)
		return
	}
	clean := form.Sanitize()
	if msgs := clean.Validate(s.base.TalkOptions()); len(msgs) > 0 {
		prometheus.SubmissionsRejected.WithLabelValues("invalid").Inc()
		errorData(w, sudoapi.JoinMessages(msgs), http.StatusBadRequest)
		return
	}

	id, err := s.base.CreateTalk(r.Context(), user.ID, clean)
	if err != nil {
		if !errors.Is(err, cfp.ErrCFPClosed) {
			prometheus.SubmissionsRejected.WithLabelValues("storage").Inc()
		}
		errorData(w, err, cfp.ErrorCode(err))
		return
	}
	prometheus.TalksSubmitted.Inc()

	notified := true
	if err := s.base.SendSubmitEmail(r.Context(), user.Email, id); err != nil {
		notified = false
		if !errors.Is(err, cfp.ErrMailerDisabled) {
			slog.WarnContext(r.Context(), "Could not send talk confirmation email", slog.Int("talk_id", id), slog.Any("err", err))
		}
	}
	returnData(w, createTalkResponse{ID: id, Notified: notified})
}

func (s *API) userTalks(w http.ResponseWriter, r *http.Request) {
	talks, err := s.base.UserTalks(r.Context(), util.User(r).ID)
	if err != nil {
		errorData(w, err, cfp.ErrorCode(err))
		return
	}
	returnData(w, talks)
}

func (s *API) talk(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		errorData(w, "Invalid talk ID", http.StatusBadRequest)
		return
	}
	talk, err := s.base.Talk(r.Context(), id)
	if err != nil || !util.User(r).CanView(talk) {
		errorData(w, cfp.ErrNotFound, http.StatusNotFound)
		return
	}
	returnData(w, talk)
}
