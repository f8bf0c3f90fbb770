package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category string

const (
	CategoryAppetizer Category = "appetizer"
	CategoryMain      Category = "main"
	CategoryDessert   Category = "dessert"
	CategoryBeverage  Category = "beverage"
	CategorySalad     Category = "salad"
)

// Categories is the fixed menu category enumeration.
var Categories = []Category{CategoryAppetizer, CategoryMain, CategoryDessert, CategoryBeverage, CategorySalad}

type NutritionalInfo struct {
	Calories *float64 `bson:"calories,omitempty" json:"calories,omitempty" validate:"omitempty,min=0"`
	Protein  *float64 `bson:"protein,omitempty" json:"protein,omitempty" validate:"omitempty,min=0"`
	Carbs    *float64 `bson:"carbs,omitempty" json:"carbs,omitempty" validate:"omitempty,min=0"`
	Fat      *float64 `bson:"fat,omitempty" json:"fat,omitempty" validate:"omitempty,min=0"`
}

type CustomizationOption struct {
	Name            string   `bson:"name" json:"name" validate:"required"`
	Options         []string `bson:"options" json:"options"`
	AdditionalPrice float64  `bson:"additionalPrice" json:"additionalPrice" validate:"min=0"`
}

// MenuItem is a catalog entry. Records are never removed; availability=false
// hides them from the default search.
type MenuItem struct {
	ID                   primitive.ObjectID    `bson:"_id,omitempty" json:"id"`
	Name                 string                `bson:"name" json:"name" validate:"required,max=100"`
	Description          string                `bson:"description" json:"description" validate:"required,max=500"`
	Category             Category              `bson:"category" json:"category" validate:"required,oneof=appetizer main dessert beverage salad"`
	Price                float64               `bson:"price" json:"price" validate:"min=0"`
	Ingredients          StringList            `bson:"ingredients" json:"ingredients"`
	Tags                 StringList            `bson:"tags" json:"tags"`
	Availability         bool                  `bson:"availability" json:"availability"`
	ImageURL             string                `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	NutritionalInfo      *NutritionalInfo      `bson:"nutritionalInfo,omitempty" json:"nutritionalInfo,omitempty"`
	CustomizationOptions []CustomizationOption `bson:"customizationOptions" json:"customizationOptions" validate:"dive"`
	CreatedAt            time.Time             `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time             `bson:"updatedAt" json:"updatedAt"`
}
