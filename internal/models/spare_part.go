package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SparePart is a catalog entry owned by the seller who added it. AddedBy is
// set once at creation and never updated; deletion only flips IsDeleted.
// The warrentyPeriod spelling is the established wire format.
type SparePart struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name,omitempty" json:"name,omitempty"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Price          float64            `bson:"price,omitempty" json:"price,omitempty"`
	Discount       float64            `bson:"discount,omitempty" json:"discount,omitempty"`
	Quantity       int                `bson:"quantity" json:"quantity"`
	Weight         float64            `bson:"weight,omitempty" json:"weight,omitempty"`
	Dimension      string             `bson:"dimension,omitempty" json:"dimension,omitempty"`
	Color          string             `bson:"color,omitempty" json:"color,omitempty"`
	Brand          string             `bson:"brand,omitempty" json:"brand,omitempty"`
	GadgetType     string             `bson:"gadgetType,omitempty" json:"gadgetType,omitempty"`
	WarrentyPeriod string             `bson:"warrentyPeriod,omitempty" json:"warrentyPeriod,omitempty"`
	Images         []string           `bson:"images,omitempty" json:"images,omitempty"`
	AddedBy        primitive.ObjectID `bson:"addedBy,omitempty" json:"addedBy,omitempty"`
	IsDeleted      bool               `bson:"isDeleted" json:"isDeleted,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
