package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"restaurant-backend/internal/analytics"
	"restaurant-backend/internal/catalog"
	"restaurant-backend/internal/clock"
	"restaurant-backend/internal/middleware"
	"restaurant-backend/internal/orders"
)

// Dependencies carries what the HTTP layer needs.
type Dependencies struct {
	Catalog   *catalog.Store
	Orders    *orders.Store
	Analytics *analytics.Aggregator
	// Database is nil when running on in-memory storage.
	Database       Pinger
	Auth           AuthConfig
	Clock          clock.Clock
	Location       *time.Location
	RequestTimeout time.Duration
}

// RegisterRoutes mounts the API under /api. Reads are public; writes pass
// through the staff guard.
func RegisterRoutes(r *gin.Engine, d Dependencies) {
	if d.Clock == nil {
		d.Clock = clock.System()
	}
	if d.Auth.Clock == nil {
		d.Auth.Clock = d.Clock
	}

	staff := middleware.StaffAuth(d.Auth.Secret)

	r.GET("/", Home())
	r.NoRoute(NotFound())

	api := r.Group("/api", requestSettings(d.RequestTimeout, d.Location))
	api.GET("/health", Health(d.Database, d.Clock))
	api.POST("/auth/login", Login(d.Auth))

	menu := api.Group("/menu")
	{
		menu.GET("", GetMenuItems(d.Catalog))
		menu.GET("/:id", GetMenuItem(d.Catalog))
		menu.POST("", staff, CreateMenuItem(d.Catalog))
		menu.PUT("/:id", staff, UpdateMenuItem(d.Catalog))
		menu.DELETE("/:id", staff, DeleteMenuItem(d.Catalog))
	}

	ord := api.Group("/orders")
	{
		ord.GET("", GetOrders(d.Orders))
		ord.GET("/:id", GetOrder(d.Orders))
		ord.POST("", staff, CreateOrder(d.Orders))
		ord.PUT("/:id/status", staff, UpdateOrderStatus(d.Orders))
		ord.PUT("/:id/items", staff, UpdateOrderItems(d.Orders))
		ord.PUT("/:id/payment", staff, UpdatePaymentStatus(d.Orders))
		ord.DELETE("/:id", staff, CancelOrder(d.Orders))
	}

	stats := api.Group("/analytics")
	{
		stats.GET("/sales", GetSalesAnalytics(d.Analytics))
		stats.GET("/popular-items", GetPopularItems(d.Analytics))
		stats.GET("/category-revenue", GetCategoryRevenue(d.Analytics))
		stats.GET("/peak-hours", GetPeakHours(d.Analytics))
		stats.GET("/summary", GetSummary(d.Analytics))
		stats.GET("/trends", GetTrends(d.Analytics))
		stats.GET("/status-breakdown", GetStatusBreakdown(d.Analytics))
		stats.GET("/realtime", GetRealtime(d.Analytics))
	}
}
