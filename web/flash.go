package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/KiloProjects/cfp"
	"github.com/KiloProjects/cfp/internal/util"
	"github.com/gorilla/securecookie"
)

const flashCookie = "cfp-flash"

// FlashStore keeps the one-shot notice shown on the next rendered page.
type FlashStore interface {
	Set(w http.ResponseWriter, r *http.Request, flash *cfp.Flash)
	// Pop returns the pending flash (or nil) and forgets about it.
	Pop(w http.ResponseWriter, r *http.Request) *cfp.Flash
}

// flashSlot lets a flash set during a request be shown by that same request
type flashSlot struct {
	flash *cfp.Flash
}

func withFlashSlot(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), util.FlashKey, &flashSlot{})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getFlashSlot(r *http.Request) *flashSlot {
	slot, _ := r.Context().Value(util.FlashKey).(*flashSlot)
	return slot
}

var _ FlashStore = &cookieFlashes{}

// cookieFlashes stores the flash in a signed (and, if a block key is set, encrypted) cookie
type cookieFlashes struct {
	sc     *securecookie.SecureCookie
	secure bool
}

// newCookieFlashes fails early on bad keys, which securecookie would otherwise only report on Encode
func newCookieFlashes(hashKey, blockKey []byte, secure bool) (*cookieFlashes, error) {
	sc := securecookie.New(hashKey, blockKey)
	sc.SetSerializer(securecookie.JSONEncoder{})
	sc.MaxAge(3600)
	if _, err := sc.Encode(flashCookie, cfp.Flash{}); err != nil {
		return nil, fmt.Errorf("invalid flash cookie keys: %w", err)
	}
	return &cookieFlashes{sc: sc, secure: secure}, nil
}

func (c *cookieFlashes) Set(w http.ResponseWriter, r *http.Request, flash *cfp.Flash) {
	if slot := getFlashSlot(r); slot != nil {
		slot.flash = flash
	}
	encoded, err := c.sc.Encode(flashCookie, flash)
	if err != nil {
		slog.WarnContext(r.Context(), "Could not encode flash", slog.Any("err", err))
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *cookieFlashes) Pop(w http.ResponseWriter, r *http.Request) *cfp.Flash {
	if slot := getFlashSlot(r); slot != nil && slot.flash != nil {
		flash := slot.flash
		slot.flash = nil
		c.clear(w)
		return flash
	}
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	c.clear(w)
	var flash cfp.Flash
	if err := c.sc.Decode(flashCookie, cookie.Value, &flash); err != nil {
		slog.DebugContext(r.Context(), "Discarding invalid flash cookie", slog.Any("err", err))
		return nil
	}
	return &flash
}

func (c *cookieFlashes) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
