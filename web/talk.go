package web

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/KiloProjects/cfp"
	"github.com/KiloProjects/cfp/integrations/prometheus"
	"github.com/KiloProjects/cfp/internal/util"
	"github.com/KiloProjects/cfp/sudoapi"
)

const (
	msgTalkSaved       = "Successfully saved talk."
	msgTalkSavedNoMail = "Successfully saved talk, but we could not send the confirmation email."
	msgTalkNotSaved    = "Could not save talk. Please try again."
)

type talkFormParams struct {
	FormAction string

	TalkCategories []cfp.TalkOption
	TalkTypes      []cfp.TalkOption
	TalkLevels     []cfp.TalkOption

	// Form holds the values exactly as the speaker typed them
	Form       sudoapi.TalkForm
	ButtonInfo string
}

func (rt *Web) renderTalkForm(w http.ResponseWriter, r *http.Request, status int, form sudoapi.TalkForm) {
	opts := rt.base.TalkOptions()
	rt.runLayout(w, r, status, "talk/create", "Submit a talk", &talkFormParams{
		FormAction:     routeURL("talk_create"),
		TalkCategories: opts.CategoryList(),
		TalkTypes:      opts.TypeList(),
		TalkLevels:     opts.LevelList(),
		Form:           form,
		ButtonInfo:     "Submit my talk!",
	})
}

func (rt *Web) getCreateTalk(w http.ResponseWriter, r *http.Request) {
	if !rt.base.CFPOpen() {
		rt.flashes.Set(w, r, cfp.ErrorFlash(cfp.ErrCFPClosed.Text))
		rt.redirectTo(w, r, "dashboard")
		return
	}
	rt.renderTalkForm(w, r, http.StatusOK, sudoapi.TalkForm{})
}

func (rt *Web) rejectClosed(w http.ResponseWriter, r *http.Request) {
	prometheus.SubmissionsRejected.WithLabelValues("closed").Inc()
	rt.flashes.Set(w, r, cfp.ErrorFlash(cfp.ErrCFPClosed.Text))
	rt.redirectTo(w, r, "dashboard")
}

func (rt *Web) processCreateTalk(w http.ResponseWriter, r *http.Request) {
	if !rt.base.CFPOpen() {
		rt.rejectClosed(w, r)
		return
	}
	user := util.User(r)

	if err := r.ParseForm(); err != nil {
		rt.statusPage(w, r, http.StatusBadRequest, "Invalid form")
		return
	}
	var form sudoapi.TalkForm
	if err := rt.decoder.Decode(&form, r.PostForm); err != nil {
		slog.DebugContext(r.Context(), "Could not decode talk form", slog.Any("err", err))
		rt.statusPage(w, r, http.StatusBadRequest, "Invalid form")
		return
	}

	clean := form.Sanitize()
	if msgs := clean.Validate(rt.base.TalkOptions()); len(msgs) > 0 {
		prometheus.SubmissionsRejected.WithLabelValues("invalid").Inc()
		rt.flashes.Set(w, r, cfp.ErrorFlash(sudoapi.JoinMessages(msgs)))
		rt.renderTalkForm(w, r, http.StatusOK, form)
		return
	}

	talkID, err := rt.base.CreateTalk(r.Context(), user.ID, clean)
	if err != nil {
		if errors.Is(err, cfp.ErrCFPClosed) {
			// The window closed while the form was being checked
			rt.rejectClosed(w, r)
			return
		}
		slog.ErrorContext(r.Context(), "Could not save talk", slog.Int("user_id", user.ID), slog.Any("err", err))
		prometheus.SubmissionsRejected.WithLabelValues("storage").Inc()
		rt.flashes.Set(w, r, cfp.ErrorFlash(msgTalkNotSaved))
		rt.renderTalkForm(w, r, http.StatusInternalServerError, form)
		return
	}
	prometheus.TalksSubmitted.Inc()

	flash := cfp.SuccessFlash(msgTalkSaved)
	if err := rt.base.SendSubmitEmail(r.Context(), user.Email, talkID); err != nil {
		if errors.Is(err, cfp.ErrMailerDisabled) {
			slog.InfoContext(r.Context(), "Skipping talk confirmation email", slog.Int("talk_id", talkID))
		} else {
			slog.WarnContext(r.Context(), "Could not send talk confirmation email", slog.Int("talk_id", talkID), slog.Any("err", err))
			flash = cfp.WarningFlash(msgTalkSavedNoMail)
		}
	}
	rt.flashes.Set(w, r, flash)
	rt.redirectTo(w, r, "dashboard")
}

type talkViewParams struct {
	Talk        *cfp.Talk
	Description template.HTML
}

func (rt *Web) viewTalk(w http.ResponseWriter, r *http.Request) {
	talk := util.Talk(r)
	desc, err := rt.base.RenderTalkDescription(talk)
	if err != nil {
		slog.WarnContext(r.Context(), "Could not render talk description", slog.Int("talk_id", talk.ID), slog.Any("err", err))
		desc = []byte(template.HTMLEscapeString(talk.Description))
	}
	rt.runLayout(w, r, http.StatusOK, "talk/view", talk.Title, &talkViewParams{
		Talk:        talk,
		Description: template.HTML(desc),
	})
}
