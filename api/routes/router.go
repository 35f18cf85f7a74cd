package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shadowstrength/storefront/api/controllers"
	cartcontrollers "github.com/shadowstrength/storefront/api/controllers/cart"
	checkoutcontrollers "github.com/shadowstrength/storefront/api/controllers/checkout"
	"github.com/shadowstrength/storefront/api/middleware"
	"github.com/shadowstrength/storefront/internal/cart"
	"github.com/shadowstrength/storefront/internal/catalog"
	checkoutsvc "github.com/shadowstrength/storefront/internal/checkout"
	"github.com/shadowstrength/storefront/internal/consent"
	"github.com/shadowstrength/storefront/internal/inquiries"
	"github.com/shadowstrength/storefront/pkg/config"
	"github.com/shadowstrength/storefront/pkg/logger"
)

// Dependencies are the services mounted by NewRouter.
type Dependencies struct {
	Cart      cart.Service
	Checkout  checkoutsvc.Service
	Consent   consent.Service
	Catalog   *catalog.Catalog
	Inquiries inquiries.Service

	// RateLimiter throttles the demo forms; leave nil to disable throttling.
	RateLimiter middleware.RateLimiter
	// Ready lists the dependencies checked by /health/ready.
	Ready   map[string]controllers.Pinger
	Metrics http.Handler
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Ready))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	contactPolicy := middleware.NewFormRateLimitPolicy("contact", cfg.Forms.RateWindow, cfg.Forms.IPLimit, cfg.Forms.EmailLimit)
	designPolicy := middleware.NewFormRateLimitPolicy("design", cfg.Forms.RateWindow, cfg.Forms.IPLimit, cfg.Forms.EmailLimit)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductList(deps.Catalog, logg))

		r.Route("/forms", func(r chi.Router) {
			r.With(middleware.FormRateLimit(contactPolicy, deps.RateLimiter, logg)).Post("/contact", controllers.ContactSubmit(deps.Inquiries, logg))
			r.With(middleware.FormRateLimit(designPolicy, deps.RateLimiter, logg)).Post("/design", controllers.DesignSubmit(deps.Inquiries, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(cfg.Session, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartcontrollers.CartFetch(deps.Cart, logg))
				r.Post("/items", cartcontrollers.CartAddItem(deps.Cart, logg))
				r.Post("/items/{itemId}/increment", cartcontrollers.CartIncrement(deps.Cart, logg))
				r.Post("/items/{itemId}/decrement", cartcontrollers.CartDecrement(deps.Cart, logg))
				r.Delete("/items/{itemId}", cartcontrollers.CartRemove(deps.Cart, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", checkoutcontrollers.CheckoutCurrent(deps.Checkout, logg))
				r.Post("/begin", checkoutcontrollers.CheckoutBegin(deps.Checkout, logg))
				r.Post("/delivery", checkoutcontrollers.CheckoutDelivery(deps.Checkout, logg))
				r.Post("/payment", checkoutcontrollers.CheckoutPlaceOrder(deps.Checkout, logg))
			})

			r.Get("/consent", controllers.ConsentFetch(deps.Consent, logg))
			r.Post("/consent", controllers.ConsentRecord(deps.Consent, logg))
		})
	})

	return r
}
