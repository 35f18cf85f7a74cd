package cart

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/shadowstrength/storefront/api/controllers"
	"github.com/shadowstrength/storefront/api/responses"
	"github.com/shadowstrength/storefront/api/validators"
	cartsvc "github.com/shadowstrength/storefront/internal/cart"
	pkgerrors "github.com/shadowstrength/storefront/pkg/errors"
	"github.com/shadowstrength/storefront/pkg/logger"
)

const (
	maxItemIDRunes   = 128
	maxItemNameRunes = 200
)

// CartFetch returns the render-ready cart of the session.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		sessionID, err := controllers.SessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.View(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartAddItem adds one unit of the posted product.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		sessionID, err := controllers.SessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.AddItem(r.Context(), sessionID, cartsvc.AddItemInput{
			ID:    validators.CleanText(payload.ID, maxItemIDRunes),
			Name:  validators.CleanText(payload.Name, maxItemNameRunes),
			Price: payload.Price,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartIncrement adds one unit to the line named in the path.
func CartIncrement(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return itemHandler(svc, logg, func(svc cartsvc.Service) itemOp { return svc.IncrementQuantity })
}

// CartDecrement removes one unit from the line, never below one.
func CartDecrement(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return itemHandler(svc, logg, func(svc cartsvc.Service) itemOp { return svc.DecrementQuantity })
}

// CartRemove deletes the line named in the path.
func CartRemove(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return itemHandler(svc, logg, func(svc cartsvc.Service) itemOp { return svc.RemoveItem })
}

type itemOp func(ctx context.Context, sessionID, itemID string) (cartsvc.View, error)

func itemHandler(svc cartsvc.Service, logg *logger.Logger, pick func(cartsvc.Service) itemOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		sessionID, err := controllers.SessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID := validators.CleanText(itemIDParam(r), maxItemIDRunes)
		if itemID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id required"))
			return
		}

		view, err := pick(svc)(r.Context(), sessionID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// itemIDParam returns the decoded {itemId} segment. chi matches against
// RawPath when the request carries one, leaving escapes such as %2F in place.
func itemIDParam(r *http.Request) string {
	raw := chi.URLParam(r, "itemId")
	if r.URL.RawPath == "" {
		return raw
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}
