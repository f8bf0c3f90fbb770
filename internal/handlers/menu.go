package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-backend/internal/catalog"
	"restaurant-backend/internal/models"
)

func GetMenuItems(menu *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/menu"
		defer handlePanic(c, route)

		q := newQueryParser(c)
		filter := catalog.Filter{
			Search:       q.str("search"),
			Category:     models.Category(q.str("category")),
			Tags:         q.list("tags"),
			MinPrice:     q.float("minPrice"),
			MaxPrice:     q.float("maxPrice"),
			Availability: q.boolean("availability"),
			SortBy:       q.str("sortBy"),
			Descending:   q.descending(false),
			Page:         q.page(),
		}
		if err := q.err(); err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		items, page, err := menu.Search(ctx, filter)
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     "success",
			"results":    len(items),
			"menuItems":  items,
			"pagination": page,
		})
	}
}

func GetMenuItem(menu *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/menu/:id"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		item, err := menu.Get(ctx, c.Param("id"))
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "menuItem": item})
	}
}

func CreateMenuItem(menu *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/menu"
		defer handlePanic(c, route)

		var draft catalog.Draft
		if err := bindJSON(c, &draft); err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		item, err := menu.Create(ctx, draft)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"status":   "success",
			"message":  "Menu item created successfully",
			"menuItem": item,
		})
	}
}

func UpdateMenuItem(menu *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/menu/:id"
		defer handlePanic(c, route)

		var patch catalog.Patch
		if err := bindJSON(c, &patch); err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		item, err := menu.Update(ctx, c.Param("id"), patch)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "success",
			"message":  "Menu item updated successfully",
			"menuItem": item,
		})
	}
}

// DeleteMenuItem marks the item unavailable; the record stays for order history.
func DeleteMenuItem(menu *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/menu/:id"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		item, err := menu.SoftDelete(ctx, c.Param("id"))
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "success",
			"message":  "Menu item marked as unavailable",
			"menuItem": item,
		})
	}
}
