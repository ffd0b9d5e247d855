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
	"golang.org/x/crypto/bcrypt"

	"backend/internal/mailer"
	"backend/internal/models"
)

type OTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type RegisterRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Role        string `json:"role" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type PasswordUpdateRequest struct {
	Email           string `json:"email"`
	OTP             string `json:"otp"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// RequestOTP starts a signup: it refuses verified emails, mails a fresh code
// and upserts the pending record. A pending record hit again simply gets a
// new code and expiry.
func RequestOTP(db *mongo.Database, sender mailer.OTPSender, otpTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))

		lookupCtx, cancelLookup := context.WithTimeout(c.Request.Context(), 5*time.Second)
		var existing models.User
		err := db.Collection("users").FindOne(lookupCtx, bson.M{"email": email}).Decode(&existing)
		cancelLookup()
		if err == nil && existing.IsVerified {
			log.Println("[AUTH] [ERROR] otp request for verified email:", email)
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		if err != nil && err != mongo.ErrNoDocuments {
			log.Println("[AUTH] [ERROR] otp request lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		code, err := sender.SendOTP(email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send OTP"})
			return
		}

		// The SMTP round trip can be slow; the upsert gets its own deadline
		// so a delivered code always lands in the store.
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		_, err = db.Collection("users").UpdateOne(ctx,
			bson.M{"email": email},
			bson.M{
				"$set": otpAssignment(code, now, otpTTL),
				"$setOnInsert": bson.M{
					"email":      email,
					"isVerified": false,
					"isDeleted":  false,
					"createdAt":  now,
				},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			log.Println("[AUTH] [ERROR] otp request persist failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Println("[AUTH] [INFO] otp issued for:", email)
		c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully."})
	}
}

// Register finalizes a pending signup whose email has already been verified
// through the OTP flow. The matching record gets its profile fields and loses
// the transient token fields in a single atomic update.
func Register(db *mongo.Database, jwtSecret string, sessionTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !isValidRole(req.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "role must be \"buyer\" or \"seller\""})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Println("[AUTH] [ERROR] register password hash failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "password hash failed"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var user models.User
		err = db.Collection("users").FindOneAndUpdate(ctx,
			bson.M{"email": email, "isVerified": true},
			bson.M{
				"$set": bson.M{
					"name":         strings.TrimSpace(req.Name),
					"phoneNumber":  strings.TrimSpace(req.PhoneNumber),
					"passwordHash": string(hash),
					"role":         req.Role,
					"updatedAt":    time.Now(),
				},
				"$unset": bson.M{"token": "", "resetTokenExpires": ""},
			},
			opts,
		).Decode(&user)
		if err == mongo.ErrNoDocuments {
			log.Println("[AUTH] [ERROR] register without verified signup:", email)
			c.JSON(http.StatusNotFound, gin.H{"error": "no verified signup found for this email"})
			return
		}
		if err != nil {
			log.Println("[AUTH] [ERROR] register update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "user could not be registered"})
			return
		}

		token, err := issueSessionToken(user.ID, user.Role, jwtSecret, sessionTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] register token generation failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}

		log.Println("[AUTH] [INFO] user registered:", email)
		c.JSON(http.StatusOK, gin.H{
			"message": "User registered successfully.",
			"token":   token,
			"role":    user.Role,
		})
	}
}

func Login(db *mongo.Database, jwtSecret string, sessionTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err == mongo.ErrNoDocuments || (err == nil && user.IsDeleted) {
			log.Println("[AUTH] [ERROR] login unknown or deleted user:", email)
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err != nil {
			log.Println("[AUTH] [ERROR] login lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			log.Println("[AUTH] [ERROR] login invalid credentials for:", email)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
			return
		}

		token, err := issueSessionToken(user.ID, user.Role, jwtSecret, sessionTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] login token generation failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}

		log.Println("[AUTH] [INFO] login succeeded:", email)
		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"token":   token,
			"role":    user.Role,
		})
	}
}

// ForgotPassword mails a reset code to a known account and stores it with the
// usual short expiry.
func ForgotPassword(db *mongo.Database, sender mailer.OTPSender, otpTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))

		lookupCtx, cancelLookup := context.WithTimeout(c.Request.Context(), 5*time.Second)
		err := db.Collection("users").FindOne(lookupCtx, bson.M{"email": email}).Err()
		cancelLookup()
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "email doesn't exist"})
			return
		}
		if err != nil {
			log.Println("[AUTH] [ERROR] forgot password lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		code, err := sender.SendOTP(email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send OTP"})
			return
		}

		// Fresh deadline after the SMTP round trip, as in RequestOTP.
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		_, err = db.Collection("users").UpdateOne(ctx,
			bson.M{"email": email},
			bson.M{"$set": otpAssignment(code, now, otpTTL)},
		)
		if err != nil {
			log.Println("[AUTH] [ERROR] forgot password persist failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Println("[AUTH] [INFO] reset otp issued for:", email)
		c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully."})
	}
}

// UpdatePassword replaces the password hash after proving either the current
// password or a live OTP. The caller is matched by session identity, email,
// or both.
func UpdatePassword(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PasswordUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var userID primitive.ObjectID
		if value, ok := c.Get("userId"); ok {
			userID, _ = value.(primitive.ObjectID)
		}

		filter := idOrEmailFilter(userID, req.Email)
		if filter == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email or session is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, filter).Decode(&user)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err != nil {
			log.Println("[AUTH] [ERROR] password update lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if req.CurrentPassword != "" {
			if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
				log.Println("[AUTH] [ERROR] password update invalid credentials")
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
				return
			}
		}

		if req.OTP != "" {
			if err := checkOTP(req.OTP, user.Token, user.ResetTokenExpires, time.Now()); err != nil {
				log.Println("[AUTH] [ERROR] password update otp rejected:", err)
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid OTP or OTP expired"})
				return
			}
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Println("[AUTH] [ERROR] password update hash failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "password hash failed"})
			return
		}

		result, err := db.Collection("users").UpdateOne(ctx, filter, bson.M{
			"$set":   bson.M{"passwordHash": string(hash), "updatedAt": time.Now()},
			"$unset": bson.M{"token": "", "resetTokenExpires": ""},
		})
		if err != nil {
			log.Println("[AUTH] [ERROR] password update persist failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if result.ModifiedCount == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password failed to update"})
			return
		}

		log.Println("[AUTH] [INFO] password updated")
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "User password updated successfully."})
	}
}

// VerifyEmail marks a pending signup as verified when the submitted code is
// still live, and drops the token fields.
func VerifyEmail(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err != nil {
			log.Println("[AUTH] [ERROR] verify email lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if err := checkOTP(req.OTP, user.Token, user.ResetTokenExpires, time.Now()); err != nil {
			log.Println("[AUTH] [ERROR] verify email otp rejected:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid OTP or OTP expired"})
			return
		}

		result, err := db.Collection("users").UpdateOne(ctx,
			bson.M{"email": email},
			bson.M{
				"$set":   bson.M{"isVerified": true, "updatedAt": time.Now()},
				"$unset": bson.M{"token": "", "resetTokenExpires": ""},
			},
		)
		if err != nil {
			log.Println("[AUTH] [ERROR] verify email persist failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if result.ModifiedCount == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email verification failed"})
			return
		}

		log.Println("[AUTH] [INFO] email verified:", email)
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Email verified successfully."})
	}
}
