package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/coupon-engine/api/controllers"
	"github.com/angelmondragon/coupon-engine/api/middleware"
	"github.com/angelmondragon/coupon-engine/internal/coupons"
	"github.com/angelmondragon/coupon-engine/internal/discounts"
	"github.com/angelmondragon/coupon-engine/pkg/config"
	"github.com/angelmondragon/coupon-engine/pkg/db"
	"github.com/angelmondragon/coupon-engine/pkg/logger"
	"github.com/angelmondragon/coupon-engine/pkg/redis"
)

// NewRouter wires the HTTP surface. redisClient and metricsHandler may be nil;
// without redis the evaluation routes are not rate limited.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	couponService coupons.Service,
	discountService discounts.Service,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	checks := []controllers.ReadinessCheck{{Name: "db", Pinger: dbP}}
	var limiter middleware.RateLimiter
	if redisClient != nil {
		checks = append(checks, controllers.ReadinessCheck{Name: "redis", Pinger: redisClient})
		limiter = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, checks...))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	evaluationLimit := middleware.NewRateLimitPolicy("evaluation", cfg.RateLimit.Window, cfg.RateLimit.Limit)

	r.Route("/api", func(r chi.Router) {
		r.Route("/coupons", func(r chi.Router) {
			r.Post("/", controllers.CouponCreate(couponService, logg))
			r.Get("/", controllers.CouponList(couponService, logg))
			r.Get("/{id}", controllers.CouponGet(couponService, logg))
			r.Put("/{id}", controllers.CouponUpdate(couponService, logg))
			r.Delete("/{id}", controllers.CouponDelete(couponService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(evaluationLimit, limiter, logg))
			r.Post("/applicable-coupons", controllers.ApplicableCoupons(discountService, logg))
			r.Post("/apply-coupon/{id}", controllers.ApplyCoupon(discountService, logg))
		})
	})

	return r
}
