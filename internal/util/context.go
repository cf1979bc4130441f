package util

import (
	"context"
	"net/http"

	"github.com/KiloProjects/cfp"
)

// CFPContextType is the string type for all context values
type CFPContextType string

const (
	// UserKey is the key to be used for adding user objects to context
	UserKey = CFPContextType("user")
	// TalkKey is the key to be used for adding talks to context
	TalkKey = CFPContextType("talk")
	// FlashKey holds the request-scoped flash slot
	FlashKey = CFPContextType("flash")
)

// UserContext returns the user from the context
func UserContext(ctx context.Context) *cfp.User {
	switch v := ctx.Value(UserKey).(type) {
	case cfp.User:
		return &v
	case *cfp.User:
		return v
	default:
		return nil
	}
}

// User returns the user from request context
func User(r *http.Request) *cfp.User {
	return UserContext(r.Context())
}

// Talk returns the talk from request context
func Talk(r *http.Request) *cfp.Talk {
	switch v := r.Context().Value(TalkKey).(type) {
	case cfp.Talk:
		return &v
	case *cfp.Talk:
		return v
	default:
		return nil
	}
}

func WithUser(ctx context.Context, user *cfp.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

func WithTalk(ctx context.Context, talk *cfp.Talk) context.Context {
	return context.WithValue(ctx, TalkKey, talk)
}
