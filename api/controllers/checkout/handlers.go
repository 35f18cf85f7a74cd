package checkout

import (
	"net/http"

	"github.com/shadowstrength/storefront/api/controllers"
	"github.com/shadowstrength/storefront/api/responses"
	"github.com/shadowstrength/storefront/api/validators"
	checkoutsvc "github.com/shadowstrength/storefront/internal/checkout"
	pkgerrors "github.com/shadowstrength/storefront/pkg/errors"
	"github.com/shadowstrength/storefront/pkg/logger"
)

// CheckoutBegin resets the session checkout to the Delivery step.
func CheckoutBegin(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		sessionID, err := controllers.SessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		flow, err := svc.Begin(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, flow)
	}
}

// CheckoutCurrent reports the current step and, on Payment, the order summary.
func CheckoutCurrent(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		sessionID, err := controllers.SessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		flow, err := svc.Current(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, flow)
	}
}

// CheckoutDelivery submits the delivery form and advances to Payment.
func CheckoutDelivery(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		sessionID, err := controllers.SessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// The service validates the form before touching storage.
		var form checkoutsvc.DeliveryForm
		if err := validators.DecodeJSONBodyNoValidate(r, &form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flow, err := svc.SubmitDeliveryInfo(r.Context(), sessionID, form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, flow)
	}
}

// CheckoutPlaceOrder submits the payment form and completes the order.
func CheckoutPlaceOrder(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		sessionID, err := controllers.SessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// The service checks the step before validating card fields.
		var form checkoutsvc.PaymentForm
		if err := validators.DecodeJSONBodyNoValidate(r, &form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		completion, err := svc.PlaceOrder(r.Context(), sessionID, form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, completion)
	}
}
