package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/dotpay-gateway/internal/auth"
	"github.com/josh-kwaku/dotpay-gateway/internal/handler"
	"github.com/josh-kwaku/dotpay-gateway/internal/logging"
)

const SessionCookie = "dotpay_session"

type SessionOptions struct {
	Secret string
	TTL    time.Duration
	Secure bool
}

// Session resolves the checkout session from its signed cookie. A missing or
// invalid cookie starts a new session.
func Session(opts SessionOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, ok := sessionFromCookie(r, opts.Secret)
			if !ok {
				sessionID = uuid.New()
				token, err := auth.GenerateToken(sessionID, opts.Secret, opts.TTL)
				if err != nil {
					logging.FromContext(r.Context()).Error("failed to issue session token", "error", err)
					handler.RespondAppError(w, handler.ErrInternalError, nil)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    token,
					Path:     "/",
					MaxAge:   int(opts.TTL.Seconds()),
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := auth.ContextWithSessionID(r.Context(), sessionID)
			ctx = logging.With(ctx, "session_id", sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromCookie(r *http.Request, secret string) (uuid.UUID, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return uuid.Nil, false
	}
	claims, err := auth.ValidateToken(c.Value, secret)
	if err != nil {
		return uuid.Nil, false
	}
	return claims.SessionID, true
}
