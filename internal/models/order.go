package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusPlaced    OrderStatus = "placed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine-in"
	OrderTypeTakeout  OrderType = "takeout"
	OrderTypeDelivery OrderType = "delivery"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Customization is a chosen option on an order line, priced per unit.
type Customization struct {
	Name            string  `bson:"name" json:"name"`
	Value           string  `bson:"value" json:"value"`
	AdditionalPrice float64 `bson:"additionalPrice" json:"additionalPrice" validate:"min=0"`
}

// MenuItemRef is the catalog's current view of a line's menu item. It is
// joined at read time and never stored.
type MenuItemRef struct {
	ID       primitive.ObjectID `json:"id"`
	Name     string             `json:"name"`
	Price    float64            `json:"price"`
	Category Category           `json:"category"`
}

// OrderItem captures name and price at order time so catalog edits cannot
// alter historical orders.
type OrderItem struct {
	MenuItemID     primitive.ObjectID `bson:"menuItemId" json:"menuItemId"`
	Name           string             `bson:"name" json:"name" validate:"required"`
	Price          float64            `bson:"price" json:"price" validate:"min=0"`
	Quantity       int                `bson:"quantity" json:"quantity" validate:"min=1"`
	Customizations []Customization    `bson:"customizations" json:"customizations" validate:"dive"`
	SpecialNotes   string             `bson:"specialNotes,omitempty" json:"specialNotes,omitempty" validate:"max=200"`
	MenuItem       *MenuItemRef       `bson:"-" json:"menuItem"`
}

// StatusTimestamps records when each lifecycle stage was reached.
type StatusTimestamps struct {
	Placed    time.Time  `bson:"placed" json:"placed"`
	Preparing *time.Time `bson:"preparing,omitempty" json:"preparing,omitempty"`
	Ready     *time.Time `bson:"ready,omitempty" json:"ready,omitempty"`
	Delivered *time.Time `bson:"delivered,omitempty" json:"delivered,omitempty"`
	Cancelled *time.Time `bson:"cancelled,omitempty" json:"cancelled,omitempty"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber     string             `bson:"orderNumber" json:"orderNumber"`
	CustomerID      string             `bson:"customerId,omitempty" json:"customerId,omitempty"`
	CustomerName    string             `bson:"customerName" json:"customerName" validate:"required,max=100"`
	CustomerPhone   string             `bson:"customerPhone" json:"customerPhone" validate:"required"`
	OrderType       OrderType          `bson:"orderType" json:"orderType" validate:"required,oneof=dine-in takeout delivery"`
	Items           []OrderItem        `bson:"items" json:"items" validate:"min=1,dive"`
	Status          OrderStatus        `bson:"status" json:"status"`
	TotalAmount     float64            `bson:"totalAmount" json:"totalAmount" validate:"min=0"`
	PaymentStatus   PaymentStatus      `bson:"paymentStatus" json:"paymentStatus" validate:"oneof=pending paid refunded"`
	Timestamps      StatusTimestamps   `bson:"timestamps" json:"timestamps"`
	DeliveryAddress string             `bson:"deliveryAddress,omitempty" json:"deliveryAddress,omitempty" validate:"max=300"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
