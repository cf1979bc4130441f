package sudoapi

import (
	"context"
	"log/slog"

	"github.com/KiloProjects/cfp"
)

// CFPOpen reports whether talks may be submitted right now.
func (s *BaseAPI) CFPOpen() bool {
	return s.cfp.IsOpen(s.now())
}

func (s *BaseAPI) CallForPapers() *cfp.CallForPapers {
	return s.cfp
}

func (s *BaseAPI) TalkOptions() *cfp.TalkOptions {
	return s.talkOpts
}

// CreateTalk saves an already sanitized and validated form as a talk owned by userID.
func (s *BaseAPI) CreateTalk(ctx context.Context, userID int, form TalkForm) (int, error) {
	if !s.CFPOpen() {
		return -1, ErrCFPClosed
	}
	id, err := s.talks.CreateTalk(ctx, form.Talk(userID))
	if err != nil {
		slog.WarnContext(ctx, "Couldn't create talk", slog.Int("user_id", userID), slog.Any("err", err))
		return -1, WrapError(err, "Could not save talk")
	}
	return id, nil
}

func (s *BaseAPI) Talk(ctx context.Context, id int) (*cfp.Talk, error) {
	talk, err := s.talks.Talk(ctx, id)
	if err != nil {
		return nil, WrapError(err, "Couldn't get talk")
	}
	if talk == nil {
		return nil, ErrNotFound
	}
	return talk, nil
}

func (s *BaseAPI) UserTalks(ctx context.Context, userID int) ([]*cfp.Talk, error) {
	talks, err := s.talks.Talks(ctx, cfp.TalkFilter{UserID: &userID})
	if err != nil {
		return nil, WrapError(err, "Couldn't get talks")
	}
	return talks, nil
}

// TalkCount returns how many talks were submitted so far, by all speakers.
func (s *BaseAPI) TalkCount(ctx context.Context) (int, error) {
	cnt, err := s.talks.CountTalks(ctx, cfp.TalkFilter{})
	if err != nil {
		return -1, WrapError(err, "Couldn't count talks")
	}
	return cnt, nil
}

// RenderTalkDescription renders the markdown description as sanitized HTML.
func (s *BaseAPI) RenderTalkDescription(talk *cfp.Talk) ([]byte, error) {
	out, err := s.rd.Render([]byte(talk.Description))
	if err != nil {
		return nil, WrapError(err, "Couldn't render description")
	}
	return out, nil
}
