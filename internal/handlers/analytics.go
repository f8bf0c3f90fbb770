package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-backend/internal/analytics"
)

func respondData(c *gin.Context, data any, results int) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "results": results, "data": data})
}

func GetSalesAnalytics(agg *analytics.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/analytics/sales"
		defer handlePanic(c, route)

		q := newQueryParser(c)
		from := q.date("startDate", false)
		to := q.date("endDate", true)
		if err := q.err(); err != nil {
			respondError(c, route, err)
			return
		}
		period, err := analytics.ParsePeriod(q.str("period"))
		if err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		buckets, err := agg.SalesOverTime(ctx, period, from, to)
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondData(c, buckets, len(buckets))
	}
}

func GetPopularItems(agg *analytics.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/analytics/popular-items"
		defer handlePanic(c, route)

		q := newQueryParser(c)
		limit := q.integer("limit", analytics.DefaultPopularLimit)
		if err := q.err(); err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		items, err := agg.PopularItems(ctx, limit)
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondData(c, items, len(items))
	}
}

func GetCategoryRevenue(agg *analytics.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/analytics/category-revenue"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		stats, err := agg.CategoryRevenue(ctx)
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondData(c, stats, len(stats))
	}
}

func GetPeakHours(agg *analytics.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/analytics/peak-hours"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		hours, err := agg.PeakHours(ctx)
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondData(c, hours, len(hours))
	}
}

func GetSummary(agg *analytics.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/analytics/summary"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		summary, err := agg.Summary(ctx)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "data": summary})
	}
}

func GetTrends(agg *analytics.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/analytics/trends"
		defer handlePanic(c, route)

		q := newQueryParser(c)
		days := q.integer("days", analytics.DefaultTrendDays)
		if err := q.err(); err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		points, err := agg.Trends(ctx, days)
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondData(c, points, len(points))
	}
}

func GetStatusBreakdown(agg *analytics.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/analytics/status-breakdown"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		breakdown, err := agg.StatusBreakdown(ctx)
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondData(c, breakdown, len(breakdown))
	}
}

func GetRealtime(agg *analytics.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/analytics/realtime"
		defer handlePanic(c, route)

		q := newQueryParser(c)
		window := q.duration("window", analytics.DefaultRecentWindow)
		if err := q.err(); err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		stats, err := agg.RecentActivity(ctx, window)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "data": stats})
	}
}
