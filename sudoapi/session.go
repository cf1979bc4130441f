package sudoapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/KiloProjects/cfp"
	"github.com/KiloProjects/cfp/internal/config"
)

const SessionCookie = "cfp-sessionid"

func (s *BaseAPI) CreateSession(ctx context.Context, uid int) (string, error) {
	sid, err := s.db.CreateSession(ctx, uid, config.Session.MaxAge())
	if err != nil {
		slog.WarnContext(ctx, "Failed to create session", slog.Any("err", err))
		return "", WrapError(err, "Failed to create session")
	}
	return sid, nil
}

// Uncached function
func (s *BaseAPI) sessionUser(ctx context.Context, sid string) (*cfp.User, error) {
	user, err := s.db.User(ctx, cfp.UserFilter{SessionID: &sid})
	if err != nil {
		return nil, WrapError(err, "Failed to get session user")
	}
	return user, nil
}

// SessionUser returns the user behind the session, or nil if the session is invalid.
// Results are cached for a short while.
func (s *BaseAPI) SessionUser(ctx context.Context, sid string) (*cfp.User, error) {
	if sid == "" {
		return nil, nil
	}
	user, err := s.sessionUserCache.Get(ctx, sid)
	if err != nil {
		slog.WarnContext(ctx, "session user cache error", slog.Any("err", err))
		return s.sessionUser(ctx, sid)
	}
	return user, nil
}

func (s *BaseAPI) RemoveSession(ctx context.Context, sid string) error {
	if err := s.db.RemoveSession(ctx, sid); err != nil {
		slog.WarnContext(ctx, "Failed to remove session", slog.Any("err", err))
		return WrapError(err, "Failed to remove session")
	}
	s.sessionUserCache.Delete(sid)
	return nil
}

// GetSessCookie reads the session ID from the cookie, falling back to the Authorization header for API clients.
func (s *BaseAPI) GetSessCookie(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
}

// SessionCookieFor builds the cookie that logs the browser in. An empty sid clears it.
func SessionCookieFor(sid string) *http.Cookie {
	cookie := &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   config.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if sid == "" {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	} else {
		cookie.Expires = time.Now().Add(config.Session.MaxAge())
	}
	return cookie
}

func (s *BaseAPI) cleanupSessionsJob(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			cnt, err := s.db.RemoveExpiredSessions(ctx)
			if err != nil {
				slog.WarnContext(ctx, "Couldn't remove expired sessions", slog.Any("err", err))
				continue
			}
			if cnt > 0 {
				slog.DebugContext(ctx, "Removed expired sessions", slog.Int64("count", cnt))
			}
		}
	}
}
