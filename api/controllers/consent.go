package controllers

import (
	"net/http"

	"github.com/shadowstrength/storefront/api/responses"
	"github.com/shadowstrength/storefront/api/validators"
	"github.com/shadowstrength/storefront/internal/consent"
	"github.com/shadowstrength/storefront/pkg/enums"
	pkgerrors "github.com/shadowstrength/storefront/pkg/errors"
	"github.com/shadowstrength/storefront/pkg/logger"
)

type consentRequest struct {
	Decision string `json:"decision" validate:"required,oneof=accepted rejected"`
}

// ConsentFetch returns the banner state for the session.
func ConsentFetch(svc consent.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "consent service unavailable"))
			return
		}
		sessionID, err := SessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Banner(r.Context(), sessionID))
	}
}

// ConsentRecord stores an accept or reject choice and hides the banner.
func ConsentRecord(svc consent.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "consent service unavailable"))
			return
		}
		sessionID, err := SessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload consentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		decision, err := enums.ParseConsentDecision(payload.Decision)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid decision"))
			return
		}

		if err := svc.RecordDecision(r.Context(), sessionID, decision); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, consent.BannerState{Visible: false, Decision: decision})
	}
}
