package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/models"
	"restaurant-backend/internal/orders"
)

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// updateItemsRequest accepts a client total for compatibility; it is
// recomputed server-side and never stored as sent.
type updateItemsRequest struct {
	Items       []orders.LineDraft `json:"items"`
	TotalAmount *float64           `json:"totalAmount"`
}

type updatePaymentRequest struct {
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
}

func GetOrders(store *orders.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders"
		defer handlePanic(c, route)

		q := newQueryParser(c)
		filter := orders.Filter{
			Status:     models.OrderStatus(q.str("status")),
			OrderType:  models.OrderType(q.str("orderType")),
			CustomerID: q.str("customerId"),
			From:       q.date("startDate", false),
			To:         q.date("endDate", true),
			SortBy:     q.str("sortBy"),
			Ascending:  !q.descending(true),
			Page:       q.page(),
		}
		if err := q.err(); err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		list, page, err := store.List(ctx, filter)
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     "success",
			"results":    len(list),
			"orders":     list,
			"pagination": page,
		})
	}
}

func GetOrder(store *orders.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/:id"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := store.Get(ctx, c.Param("id"))
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "order": order})
	}
}

func CreateOrder(store *orders.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, route)

		var draft orders.Draft
		if err := bindJSON(c, &draft); err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := store.Create(ctx, draft)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"status":  "success",
			"message": "Order created successfully",
			"order":   order,
		})
	}
}

func UpdateOrderStatus(store *orders.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id/status"
		defer handlePanic(c, route)

		var req updateStatusRequest
		if err := bindJSON(c, &req); err != nil {
			respondError(c, route, err)
			return
		}
		if req.Status == "" {
			respondError(c, route, apperr.Validation("status is required"))
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := store.TransitionStatus(ctx, c.Param("id"), req.Status)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Order status updated successfully",
			"order":   order,
		})
	}
}

func UpdateOrderItems(store *orders.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id/items"
		defer handlePanic(c, route)

		var req updateItemsRequest
		if err := bindJSON(c, &req); err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := store.ReplaceItems(ctx, c.Param("id"), req.Items)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Order items updated successfully",
			"order":   order,
		})
	}
}

func UpdatePaymentStatus(store *orders.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id/payment"
		defer handlePanic(c, route)

		var req updatePaymentRequest
		if err := bindJSON(c, &req); err != nil {
			respondError(c, route, err)
			return
		}
		if req.PaymentStatus == "" {
			respondError(c, route, apperr.Validation("paymentStatus is required"))
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := store.SetPaymentStatus(ctx, c.Param("id"), req.PaymentStatus)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Payment status updated successfully",
			"order":   order,
		})
	}
}

// CancelOrder backs DELETE; orders are never removed.
func CancelOrder(store *orders.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/orders/:id"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := store.Cancel(ctx, c.Param("id"))
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Order cancelled successfully",
			"order":   order,
		})
	}
}
