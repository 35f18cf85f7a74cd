package controllers

import (
	"net/http"

	"github.com/shadowstrength/storefront/api/responses"
	"github.com/shadowstrength/storefront/api/validators"
	"github.com/shadowstrength/storefront/internal/catalog"
	pkgerrors "github.com/shadowstrength/storefront/pkg/errors"
	"github.com/shadowstrength/storefront/pkg/logger"
)

type productListResponse struct {
	Filter     string            `json:"filter"`
	Categories []string          `json:"categories"`
	Products   []catalog.Product `json:"products"`
}

// ProductList lists the catalog, optionally narrowed by ?category=.
func ProductList(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		filter, err := validators.ParseQuerySlug(r, "category", 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter == "" {
			filter = catalog.FilterAll
		}
		responses.WriteSuccess(w, productListResponse{
			Filter:     filter,
			Categories: cat.Categories(),
			Products:   cat.List(filter),
		})
	}
}
