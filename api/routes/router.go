package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hamnakhalid/kitchenia-backend/api/controllers"
	"github.com/hamnakhalid/kitchenia-backend/api/middleware"
	cartstore "github.com/hamnakhalid/kitchenia-backend/internal/cart"
	checkoutsvc "github.com/hamnakhalid/kitchenia-backend/internal/checkout"
	"github.com/hamnakhalid/kitchenia-backend/internal/menu"
	"github.com/hamnakhalid/kitchenia-backend/internal/orders"
	"github.com/hamnakhalid/kitchenia-backend/pkg/config"
	"github.com/hamnakhalid/kitchenia-backend/pkg/logger"
)

// Pinger reports dependency liveness for the readiness endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       Pinger
	Redis    Pinger
	Gatherer prometheus.Gatherer

	Menu     menu.Service
	Cart     *cartstore.Store
	Checkout checkoutsvc.Service
	Orders   orders.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readinessDeps(deps)))
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", controllers.Login(cfg, logg))

		r.Route("/menu", func(r chi.Router) {
			r.Get("/", controllers.MenuList(deps.Menu, logg))
			r.Get("/{id}", controllers.MenuGet(deps.Menu, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Cart, logg))
			r.Post("/items", controllers.CartAdd(deps.Cart, deps.Menu, logg))
			r.Put("/items/{itemID}", controllers.CartSetQuantity(deps.Cart, logg))
			r.Delete("/items/{itemID}", controllers.CartRemoveItem(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
		})

		r.Post("/checkout", controllers.CheckoutSubmit(deps.Checkout, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/track/{identifier}", controllers.OrderTrack(deps.Orders, logg))
			r.Get("/{id}/status", controllers.OrderStatusPoll(deps.Orders, logg))
			r.Get("/{id}/events", controllers.OrderEvents(deps.Orders, logg, cfg.Tracking.PollInterval))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.JWT, logg))

		r.Route("/menu", func(r chi.Router) {
			r.Get("/", controllers.AdminMenuList(deps.Menu, logg))
			r.Post("/", controllers.AdminMenuCreate(deps.Menu, logg))
			r.Put("/{id}", controllers.AdminMenuUpdate(deps.Menu, logg))
			r.Delete("/{id}", controllers.AdminMenuDelete(deps.Menu, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(deps.Orders, logg))
			r.Post("/{id}/status", controllers.AdminOrderStatusUpdate(deps.Orders, logg))
			r.Put("/{id}/tracking", controllers.AdminOrderTracking(deps.Orders, logg))
		})
	})

	return r
}

func readinessDeps(deps Deps) map[string]controllers.Pinger {
	out := map[string]controllers.Pinger{}
	if deps.DB != nil {
		out["postgres"] = deps.DB
	}
	if deps.Redis != nil {
		out["redis"] = deps.Redis
	}
	return out
}
