package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velomart/velomart-backend/api/controllers"
	"github.com/velomart/velomart-backend/api/middleware"
	"github.com/velomart/velomart-backend/internal/assignments"
	"github.com/velomart/velomart-backend/internal/coupons"
	"github.com/velomart/velomart-backend/internal/dashboard"
	"github.com/velomart/velomart-backend/internal/favorites"
	"github.com/velomart/velomart-backend/internal/notifications"
	"github.com/velomart/velomart-backend/internal/orders"
	"github.com/velomart/velomart-backend/internal/reviews"
	"github.com/velomart/velomart-backend/internal/riders"
	"github.com/velomart/velomart-backend/internal/stores"
	"github.com/velomart/velomart-backend/internal/support"
	"github.com/velomart/velomart-backend/pkg/config"
	"github.com/velomart/velomart-backend/pkg/db"
	"github.com/velomart/velomart-backend/pkg/logger"
	"github.com/velomart/velomart-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	metricsRegistry *prometheus.Registry,
	riderService riders.Service,
	orderService orders.Service,
	assignmentService assignments.Service,
	storeService stores.Service,
	reviewService reviews.Service,
	couponService coupons.Service,
	notificationService notifications.Service,
	supportService support.Service,
	favoriteService favorites.Service,
	dashboardService dashboard.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var redisP redis.Pinger
	if redisClient != nil {
		redisP = redisClient
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/riders", func(r chi.Router) {
			r.Post("/", controllers.CreateRider(riderService, logg))
			r.Get("/", controllers.ListRiders(riderService, logg))
			r.Get("/{id}", controllers.GetRider(riderService, logg))
			r.Put("/{id}", controllers.UpdateRider(riderService, logg))
			r.Delete("/{id}", controllers.DeleteRider(riderService, logg))
			r.Patch("/{id}/status", controllers.SetRiderStatus(riderService, logg))
			r.Put("/{id}/location", controllers.UpdateRiderLocation(riderService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(orderService, logg))
			r.Get("/", controllers.ListOrders(orderService, logg))
			r.Get("/{id}", controllers.GetOrder(orderService, logg))
			r.Patch("/{id}", controllers.UpdateOrder(orderService, logg))
			r.Post("/{id}/cancel", controllers.CancelOrder(orderService, logg))
		})

		r.Route("/assigned-orders", func(r chi.Router) {
			r.Get("/", controllers.ListAssignments(assignmentService, logg))
			r.Get("/stats", controllers.AssignmentStats(assignmentService, logg))
			r.Post("/assign", controllers.AssignOrder(assignmentService, logg))
			r.Post("/assign-bulk", controllers.BulkAssignOrders(assignmentService, logg))
			r.Get("/rider/{riderId}", controllers.ListRiderAssignments(assignmentService, logg))
			r.Get("/user/{userId}", controllers.ListUserAssignments(assignmentService, logg))
			r.Get("/{id}", controllers.GetAssignment(assignmentService, logg))
			r.Get("/{id}/tracking", controllers.TrackAssignment(assignmentService, logg))
			r.Patch("/{id}/status", controllers.UpdateAssignmentStatus(assignmentService, logg))
			r.Patch("/{id}/reassign", controllers.ReassignOrder(assignmentService, logg))
			r.Post("/{id}/delivery-proof", controllers.AddDeliveryProof(assignmentService, logg))
			r.Post("/{id}/verify-pickup", controllers.VerifyPickup(assignmentService, logg))
			r.Patch("/{id}", controllers.UpdateAssignment(assignmentService, logg))
			r.Delete("/{id}", controllers.DeleteAssignment(assignmentService, logg))
		})

		r.Route("/stores", func(r chi.Router) {
			r.Post("/", controllers.CreateStore(storeService, logg))
			r.Get("/", controllers.ListStores(storeService, logg))
			r.Get("/{id}", controllers.GetStore(storeService, logg))
			r.Patch("/{id}", controllers.UpdateStore(storeService, logg))
			r.Delete("/{id}", controllers.DeleteStore(storeService, logg))
			r.Route("/{id}/items", func(r chi.Router) {
				r.Post("/", controllers.CreateStoreItem(storeService, logg))
				r.Get("/", controllers.ListStoreItems(storeService, logg))
			})
		})
		r.Route("/store-items", func(r chi.Router) {
			r.Get("/{itemId}", controllers.GetStoreItem(storeService, logg))
			r.Patch("/{itemId}", controllers.UpdateStoreItem(storeService, logg))
			r.Delete("/{itemId}", controllers.DeleteStoreItem(storeService, logg))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Post("/", controllers.CreateReview(reviewService, logg))
			r.Get("/{id}", controllers.GetReview(reviewService, logg))
			r.Delete("/{id}", controllers.DeleteReview(reviewService, logg))
			r.Get("/target/{targetType}/{targetId}", controllers.ListTargetReviews(reviewService, logg))
			r.Get("/target/{targetType}/{targetId}/summary", controllers.TargetReviewSummary(reviewService, logg))
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Post("/", controllers.CreateCoupon(couponService, logg))
			r.Get("/", controllers.ListCoupons(couponService, logg))
			r.Post("/validate", controllers.ValidateCoupon(couponService, logg))
			r.Get("/{id}", controllers.GetCoupon(couponService, logg))
			r.Patch("/{id}", controllers.UpdateCoupon(couponService, logg))
			r.Delete("/{id}", controllers.DeleteCoupon(couponService, logg))
		})

		r.Route("/users/{userId}/notifications", func(r chi.Router) {
			r.Get("/", controllers.NotificationFeed(notificationService, logg))
			r.Post("/{id}/read", controllers.MarkNotificationRead(notificationService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationService, logg))
		})

		r.Route("/users/{userId}/favorites", func(r chi.Router) {
			r.Post("/", controllers.AddFavorite(favoriteService, logg))
			r.Get("/", controllers.ListFavorites(favoriteService, logg))
			r.Post("/toggle", controllers.ToggleFavorite(favoriteService, logg))
			r.Get("/check", controllers.CheckFavorite(favoriteService, logg))
			r.Get("/{id}", controllers.GetFavorite(favoriteService, logg))
			r.Delete("/{id}", controllers.RemoveFavorite(favoriteService, logg))
		})

		r.Get("/dashboard/summary", controllers.DashboardSummary(dashboardService, logg))

		r.Route("/support/tickets", func(r chi.Router) {
			r.Post("/", controllers.CreateTicket(supportService, logg))
			r.Get("/", controllers.ListTickets(supportService, logg))
			r.Get("/{id}", controllers.GetTicket(supportService, logg))
			r.Post("/{id}/replies", controllers.ReplyToTicket(supportService, logg))
			r.Patch("/{id}", controllers.UpdateTicket(supportService, logg))
		})
	})

	return r
}
