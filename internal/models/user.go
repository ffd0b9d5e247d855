package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// Image holds the stored path of a profile picture upload.
type Image struct {
	Path string `bson:"path,omitempty" json:"path,omitempty"`
}

// Address is the embedded address sub-document of a user.
type Address struct {
	HouseNo    string `bson:"houseNo,omitempty" json:"houseNo,omitempty"`
	Street     string `bson:"street,omitempty" json:"street,omitempty"`
	PostalCode string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	City       string `bson:"city,omitempty" json:"city,omitempty"`
	State      string `bson:"state,omitempty" json:"state,omitempty"`
}

// User represents the application user account. A record starts as an
// unverified pending signup created by the OTP request and is finalized at
// registration. Token and ResetTokenExpires only exist while an OTP is
// outstanding.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name,omitempty" json:"name,omitempty"`
	Email             string             `bson:"email" json:"email"`
	PhoneNumber       string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	PasswordHash      string             `bson:"passwordHash,omitempty" json:"-"`
	Role              string             `bson:"role,omitempty" json:"role,omitempty"`
	IsVerified        bool               `bson:"isVerified" json:"-"`
	IsDeleted         bool               `bson:"isDeleted" json:"isDeleted,omitempty"`
	Image             *Image             `bson:"image,omitempty" json:"image,omitempty"`
	Address           *Address           `bson:"address,omitempty" json:"address,omitempty"`
	Token             string             `bson:"token,omitempty" json:"-"`
	ResetTokenExpires *time.Time         `bson:"resetTokenExpires,omitempty" json:"-"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
