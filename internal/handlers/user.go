package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

// ProfileUpdateRequest applies a field iff it is present in the body, so
// empty strings and false are settable values rather than "leave unchanged".
type ProfileUpdateRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
	Role        *string `json:"role"`
	ImagePath   *string `json:"imagePath"`
	HouseNo     *string `json:"houseNo"`
	Street      *string `json:"street"`
	PostalCode  *string `json:"postalCode"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	IsDeleted   *bool   `json:"isDeleted"`
}

type UserDeletionRequest struct {
	IsDeleted *bool `json:"isDeleted" binding:"required"`
}

// sanitizedUserProjection drops the credential and OTP internals from any
// profile read.
var sanitizedUserProjection = bson.M{
	"passwordHash":      0,
	"token":             0,
	"resetTokenExpires": 0,
}

func buildProfileUpdate(req ProfileUpdateRequest) bson.M {
	// Any profile edit reasserts the verified state.
	set := bson.M{"isVerified": true}

	if req.Name != nil {
		set["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		set["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.PhoneNumber != nil {
		set["phoneNumber"] = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.Role != nil {
		set["role"] = *req.Role
	}
	if req.ImagePath != nil {
		set["image"] = models.Image{Path: *req.ImagePath}
	}
	if req.IsDeleted != nil {
		set["isDeleted"] = *req.IsDeleted
	}

	address := bson.M{}
	if req.HouseNo != nil {
		address["houseNo"] = *req.HouseNo
	}
	if req.Street != nil {
		address["street"] = *req.Street
	}
	if req.PostalCode != nil {
		address["postalCode"] = *req.PostalCode
	}
	if req.City != nil {
		address["city"] = *req.City
	}
	if req.State != nil {
		address["state"] = *req.State
	}
	if len(address) > 0 {
		set["address"] = address
	}

	return set
}

func GetProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDValue, ok := c.Get("userId")
		if !ok {
			log.Println("[USER] [ERROR] userId missing in context")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		userID := userIDValue.(primitive.ObjectID)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.FindOne().SetProjection(sanitizedUserProjection)
		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}, opts).Decode(&user)
		if err == mongo.ErrNoDocuments || (err == nil && user.IsDeleted) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err != nil {
			log.Println("[USER] [ERROR] get profile failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

func EditProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDValue, ok := c.Get("userId")
		if !ok {
			log.Println("[USER] [ERROR] userId missing in context")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		userID := userIDValue.(primitive.ObjectID)

		var req ProfileUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.Role != nil && !isValidRole(*req.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "role must be \"buyer\" or \"seller\""})
			return
		}

		update := buildProfileUpdate(req)
		update["updatedAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(sanitizedUserProjection)
		var user models.User
		err := db.Collection("users").FindOneAndUpdate(ctx,
			bson.M{"_id": userID},
			bson.M{"$set": update},
			opts,
		).Decode(&user)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err != nil {
			log.Println("[USER] [ERROR] edit profile failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if user.IsDeleted {
			c.JSON(http.StatusGone, gin.H{"message": "Profile has been deleted."})
			return
		}

		log.Println("[USER] [INFO] profile updated:", userID.Hex())
		c.JSON(http.StatusOK, gin.H{
			"message": "Profile updated successfully.",
			"user":    user,
		})
	}
}

// ListUsers returns verified, undeleted accounts, optionally narrowed to one
// role via ?role=.
func ListUsers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := bson.M{
			"isDeleted":  false,
			"isVerified": true,
		}
		if role := strings.TrimSpace(c.Query("role")); role != "" {
			filter["role"] = role
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetProjection(sanitizedUserProjection)
		cursor, err := db.Collection("users").Find(ctx, filter, opts)
		if err != nil {
			log.Println("[USER] [ERROR] list users failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		users := make([]models.User, 0)
		if err := cursor.All(ctx, &users); err != nil {
			log.Println("[USER] [ERROR] decode users failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Users fetched successfully.",
			"users":   users,
		})
	}
}

// SetUserDeletion flips the soft-delete flag on a user record. The record is
// never physically removed.
func SetUserDeletion(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}

		var req UserDeletionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(sanitizedUserProjection)
		var user models.User
		err = db.Collection("users").FindOneAndUpdate(ctx,
			bson.M{"_id": targetID},
			bson.M{"$set": bson.M{"isDeleted": *req.IsDeleted, "updatedAt": time.Now()}},
			opts,
		).Decode(&user)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err != nil {
			log.Println("[USER] [ERROR] set deletion failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if user.IsDeleted {
			c.JSON(http.StatusGone, gin.H{"message": "User deleted successfully."})
			return
		}

		log.Println("[USER] [INFO] user restored:", targetID.Hex())
		c.JSON(http.StatusOK, gin.H{
			"message": "User updated successfully.",
			"user":    user,
		})
	}
}
