package orders

import (
	"time"

	"restaurant-backend/internal/models"
)

// validTransitions is the order state machine. Statuses mapping to an empty
// list are terminal.
var validTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPlaced:    {models.StatusPreparing, models.StatusCancelled},
	models.StatusPreparing: {models.StatusReady, models.StatusCancelled},
	models.StatusReady:     {models.StatusDelivered, models.StatusCancelled},
	models.StatusDelivered: {},
	models.StatusCancelled: {},
}

// KnownStatus reports whether s is part of the status vocabulary.
func KnownStatus(s models.OrderStatus) bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransition reports whether an order in from may move to to.
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses lists the legal successors of s.
func NextStatuses(s models.OrderStatus) []models.OrderStatus {
	return append([]models.OrderStatus(nil), validTransitions[s]...)
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s models.OrderStatus) bool {
	next, ok := validTransitions[s]
	return ok && len(next) == 0
}

// Stamp records at as the instant status was reached. Placed is set at
// creation and never restamped.
func Stamp(ts *models.StatusTimestamps, status models.OrderStatus, at time.Time) {
	switch status {
	case models.StatusPreparing:
		ts.Preparing = &at
	case models.StatusReady:
		ts.Ready = &at
	case models.StatusDelivered:
		ts.Delivered = &at
	case models.StatusCancelled:
		ts.Cancelled = &at
	}
}

func timestampField(status models.OrderStatus) string {
	return "timestamps." + string(status)
}
