package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/feastly-app/feastly-backend/api/controllers"
	"github.com/feastly-app/feastly-backend/api/middleware"
	adminsvc "github.com/feastly-app/feastly-backend/internal/admin"
	"github.com/feastly-app/feastly-backend/internal/auth"
	cartsvc "github.com/feastly-app/feastly-backend/internal/cart"
	checkoutsvc "github.com/feastly-app/feastly-backend/internal/checkout"
	deliverysvc "github.com/feastly-app/feastly-backend/internal/deliveries"
	ordersvc "github.com/feastly-app/feastly-backend/internal/orders"
	restaurantsvc "github.com/feastly-app/feastly-backend/internal/restaurants"
	"github.com/feastly-app/feastly-backend/internal/users"
	"github.com/feastly-app/feastly-backend/pkg/auth/session"
	"github.com/feastly-app/feastly-backend/pkg/config"
	"github.com/feastly-app/feastly-backend/pkg/db"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	"github.com/feastly-app/feastly-backend/pkg/logger"
	"github.com/feastly-app/feastly-backend/pkg/redis"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	Sessions    *session.Manager
	Users       *users.Repository
	AuthService auth.Service
	Register    auth.RegisterService
	Restaurants restaurantsvc.Service
	Cart        cartsvc.Service
	Checkout    checkoutsvc.Service
	Orders      ordersvc.Service
	Deliveries  deliverysvc.Service
	Admin       adminsvc.Service
}

// NewRouter assembles the full HTTP surface with role-gated route groups.
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

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Register, deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
	})

	r.Route("/api/v1/restaurants", func(r chi.Router) {
		r.Get("/", controllers.ListRestaurants(deps.Restaurants, logg))
		r.Get("/{restaurantId}", controllers.GetRestaurant(deps.Restaurants, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Get("/me", controllers.Profile(deps.Users, logg))
		r.Get("/orders/{orderId}", controllers.GetOrder(deps.Orders, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleCustomer))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.Cart, logg))
				r.Post("/items", controllers.AddCartItem(deps.Cart, logg))
				r.Patch("/items/{menuItemId}", controllers.SetCartItemQuantity(deps.Cart, logg))
				r.Delete("/items/{menuItemId}", controllers.RemoveCartItem(deps.Cart, logg))
				r.Delete("/", controllers.ClearCart(deps.Cart, logg))
			})

			r.Post("/checkout", controllers.SubmitCheckout(deps.Checkout, logg))
			r.Get("/orders", controllers.ListMyOrders(deps.Orders, logg))
			r.Post("/orders/{orderId}/cancel", controllers.CancelOrder(deps.Orders, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleRestaurantOwner))

			r.Route("/restaurant", func(r chi.Router) {
				r.Post("/", controllers.OwnerCreateRestaurant(deps.Restaurants, logg))
				r.Get("/", controllers.OwnerGetRestaurant(deps.Restaurants, logg))
				r.Patch("/", controllers.OwnerUpdateRestaurant(deps.Restaurants, logg))
				r.Post("/categories", controllers.OwnerCreateCategory(deps.Restaurants, logg))
				r.Patch("/categories/{categoryId}", controllers.OwnerUpdateCategory(deps.Restaurants, logg))
				r.Delete("/categories/{categoryId}", controllers.OwnerDeleteCategory(deps.Restaurants, logg))
				r.Post("/menu-items", controllers.OwnerCreateMenuItem(deps.Restaurants, logg))
				r.Patch("/menu-items/{menuItemId}", controllers.OwnerUpdateMenuItem(deps.Restaurants, logg))
				r.Delete("/menu-items/{menuItemId}", controllers.OwnerDeleteMenuItem(deps.Restaurants, logg))
				r.Get("/orders", controllers.ListRestaurantOrders(deps.Orders, logg))
			})

			r.Post("/orders/{orderId}/status", controllers.UpdateOrderStatus(deps.Orders, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleDeliveryPartner))

			r.Route("/deliveries", func(r chi.Router) {
				r.Get("/available", controllers.ListAvailableDeliveries(deps.Deliveries, logg))
				r.Get("/mine", controllers.ListMyDeliveries(deps.Deliveries, logg))
				r.Post("/{deliveryId}/claim", controllers.ClaimDelivery(deps.Deliveries, logg))
				r.Post("/{deliveryId}/pickup", controllers.MarkDeliveryPickedUp(deps.Deliveries, logg))
				r.Post("/{deliveryId}/delivered", controllers.MarkDeliveryDelivered(deps.Deliveries, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))

			r.Route("/admin", func(r chi.Router) {
				r.Get("/overview", controllers.AdminOverview(deps.Admin, logg))
				r.Post("/restaurants/{restaurantId}/suspend", controllers.AdminSuspendRestaurant(deps.Admin, logg))
				r.Post("/restaurants/{restaurantId}/reinstate", controllers.AdminReinstateRestaurant(deps.Admin, logg))
				r.Post("/users/{userId}/active", controllers.AdminSetUserActive(deps.Admin, logg))
				r.Post("/orders/{orderId}/cancel", controllers.CancelOrder(deps.Orders, logg))
			})
		})
	})

	return r
}
