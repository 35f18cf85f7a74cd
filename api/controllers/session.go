package controllers

import (
	"net/http"

	"github.com/shadowstrength/storefront/api/middleware"
	pkgerrors "github.com/shadowstrength/storefront/pkg/errors"
)

// SessionID returns the session bound to the request by middleware.Session.
func SessionID(r *http.Request) (string, error) {
	if r == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "request missing")
	}
	id := middleware.SessionIDFromContext(r.Context())
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "session context missing")
	}
	return id, nil
}
