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

// SparePartRequest covers both create and update bodies. Scalar fields are
// applied iff present, so quantity 0 or discount 0 are stored as written.
// ImagePaths is applied when non-empty; IsDeleted only matters on update.
type SparePartRequest struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	Price          *float64 `json:"price"`
	Discount       *float64 `json:"discount"`
	Quantity       *int     `json:"quantity"`
	Weight         *float64 `json:"weight"`
	Dimension      *string  `json:"dimension"`
	Color          *string  `json:"color"`
	Brand          *string  `json:"brand"`
	GadgetType     *string  `json:"gadgetType"`
	WarrentyPeriod *string  `json:"warrentyPeriod"`
	ImagePaths     []string `json:"imagePaths"`
	IsDeleted      *bool    `json:"isDeleted"`
}

func buildSparePartFields(req SparePartRequest) bson.M {
	fields := bson.M{}

	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Discount != nil {
		fields["discount"] = *req.Discount
	}
	if req.Quantity != nil {
		fields["quantity"] = *req.Quantity
	}
	if req.Weight != nil {
		fields["weight"] = *req.Weight
	}
	if req.Dimension != nil {
		fields["dimension"] = *req.Dimension
	}
	if req.Color != nil {
		fields["color"] = *req.Color
	}
	if req.Brand != nil {
		fields["brand"] = *req.Brand
	}
	if req.GadgetType != nil {
		fields["gadgetType"] = *req.GadgetType
	}
	if req.WarrentyPeriod != nil {
		fields["warrentyPeriod"] = *req.WarrentyPeriod
	}
	if len(req.ImagePaths) > 0 {
		fields["images"] = req.ImagePaths
	}

	return fields
}

// buildSparePartListFilter scopes the catalog query: sellers only see their
// own entries, every caller only sees undeleted records.
func buildSparePartListFilter(userID primitive.ObjectID, role string) bson.M {
	filter := bson.M{"isDeleted": false}
	if role == models.RoleSeller {
		filter["addedBy"] = userID
	}
	return filter
}

func bindSparePartRequest(c *gin.Context) (SparePartRequest, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return parseMultipartSparePartRequest(c)
	}

	var req SparePartRequest
	err := c.ShouldBindJSON(&req)
	return req, err
}

// AddSparePart creates a catalog entry owned by the calling seller.
func AddSparePart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDValue, ok := c.Get("userId")
		if !ok {
			log.Println("[SPAREPART] [ERROR] userId missing in context")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		userID := userIDValue.(primitive.ObjectID)

		req, err := bindSparePartRequest(c)
		if err != nil {
			respondValidationError(c, err)
			return
		}

		now := time.Now()
		fields := buildSparePartFields(req)
		fields["_id"] = primitive.NewObjectID()
		fields["addedBy"] = userID
		fields["isDeleted"] = false
		fields["createdAt"] = now
		fields["updatedAt"] = now

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := db.Collection("spareparts").InsertOne(ctx, fields); err != nil {
			log.Println("[SPAREPART] [ERROR] insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Println("[SPAREPART] [INFO] spare part added by:", userID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"message":          "Added spare part successfully",
			"createdSparePart": fields,
		})
	}
}

// EditSparePart sparse-updates a catalog entry. addedBy is never part of the
// update document. Replaced image files are removed from disk after the
// update lands.
func EditSparePart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		partID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid spare part id"})
			return
		}

		req, err := bindSparePartRequest(c)
		if err != nil {
			respondValidationError(c, err)
			return
		}

		update := buildSparePartFields(req)
		if req.IsDeleted != nil {
			update["isDeleted"] = *req.IsDeleted
		}
		update["updatedAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var replacedImages []string
		if len(req.ImagePaths) > 0 {
			var previous models.SparePart
			if err := db.Collection("spareparts").FindOne(ctx, bson.M{"_id": partID}).Decode(&previous); err == nil {
				replacedImages = previous.Images
			}
		}

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var part models.SparePart
		err = db.Collection("spareparts").FindOneAndUpdate(ctx,
			bson.M{"_id": partID},
			bson.M{"$set": update},
			opts,
		).Decode(&part)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "spare part not found"})
			return
		}
		if err != nil {
			log.Println("[SPAREPART] [ERROR] update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		deleteReplacedUploads(replacedImages, part.Images)

		if part.IsDeleted {
			c.JSON(http.StatusOK, gin.H{"message": "Spare part deleted successfully"})
			return
		}

		log.Println("[SPAREPART] [INFO] spare part updated:", partID.Hex())
		c.JSON(http.StatusOK, gin.H{
			"message":   "Spare part edited successfully",
			"sparePart": part,
		})
	}
}

// ListSpareParts returns the undeleted catalog. Sellers only see their own
// entries; every other role sees everything.
func ListSpareParts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDValue, ok := c.Get("userId")
		if !ok {
			log.Println("[SPAREPART] [ERROR] userId missing in context")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		userID := userIDValue.(primitive.ObjectID)
		role, _ := c.Get("role")
		roleValue, _ := role.(string)

		filter := buildSparePartListFilter(userID, roleValue)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("spareparts").Find(ctx, filter)
		if err != nil {
			log.Println("[SPAREPART] [ERROR] list failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		parts := make([]models.SparePart, 0)
		if err := cursor.All(ctx, &parts); err != nil {
			log.Println("[SPAREPART] [ERROR] decode failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":    "Spare parts fetched successfully",
			"spareParts": parts,
		})
	}
}

// deleteReplacedUploads removes image files that were overwritten by an
// update and are no longer referenced by the record.
func deleteReplacedUploads(previous, current []string) {
	kept := make(map[string]struct{}, len(current))
	for _, path := range current {
		kept[path] = struct{}{}
	}

	for _, path := range previous {
		if _, ok := kept[path]; ok {
			continue
		}
		if err := safeDeleteUpload(path); err != nil {
			log.Println("[SPAREPART] [ERROR] stale upload cleanup failed:", err)
		}
	}
}
