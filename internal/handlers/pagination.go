package handlers

import (
	"errors"
	"strconv"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/models"
)

// parsePaginationParams reads page and limit. Missing values take the
// defaults; oversized limits are capped later by PageRequest.Normalize.
func parsePaginationParams(pageStr, limitStr string) (models.PageRequest, error) {
	req := models.PageRequest{Page: 1, Limit: models.DefaultPageSize}
	verr := &apperr.ValidationError{}

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			verr.Add("page must be a positive integer")
		} else {
			req.Page = p
		}
	}

	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 {
			verr.Add("limit must be a positive integer")
		} else {
			req.Limit = l
		}
	}

	if err := verr.OrNil(); err != nil {
		return models.PageRequest{}, err
	}
	return req.Normalize(), nil
}

func (q *queryParser) page() models.PageRequest {
	req, err := parsePaginationParams(q.str("page"), q.str("limit"))
	if err != nil {
		var verr *apperr.ValidationError
		if errors.As(err, &verr) {
			q.verr.Fields = append(q.verr.Fields, verr.Fields...)
		}
		return models.PageRequest{Page: 1, Limit: models.DefaultPageSize}
	}
	return req
}
