package middleware

import (
	"net/http"
	"time"

	"github.com/shadowstrength/storefront/api/responses"
	"github.com/shadowstrength/storefront/pkg/config"
	pkgerrors "github.com/shadowstrength/storefront/pkg/errors"
	"github.com/shadowstrength/storefront/pkg/logger"
	"github.com/shadowstrength/storefront/pkg/session"
)

// Session binds every request to a storefront session. A missing, expired or
// tampered cookie starts a new session and sets a fresh cookie.
func Session(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sessionID := ""
			if cookie, err := r.Cookie(cfg.CookieName); err == nil && cookie.Value != "" {
				claims, parseErr := session.Parse(cfg, cookie.Value)
				if parseErr == nil {
					sessionID = claims.SessionID()
				} else if logg != nil {
					logg.Debug(logg.WithField(ctx, "reason", parseErr.Error()), "session.cookie_rejected")
				}
			}

			if sessionID == "" {
				now := time.Now().UTC()
				sessionID = session.NewID()
				token, err := session.Mint(cfg, now, sessionID)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "start session"))
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    token,
					Path:     "/",
					Expires:  now.Add(cfg.TTL),
					MaxAge:   int(cfg.TTL.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx = WithSessionID(ctx, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
