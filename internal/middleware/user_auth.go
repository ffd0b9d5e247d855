package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserAuth validates user JWT tokens and injects userId and role into the
// context.
func UserAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			log.Println("[AUTH] [ERROR] missing token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		userID, role, ok := parseBearer(raw, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set("userId", userID)
		c.Set("role", role)
		c.Next()
	}
}

// OptionalUserAuth injects the caller identity when a bearer token is
// present but lets anonymous requests through. Used by the password update
// path, reachable both from a session and from an emailed OTP.
func OptionalUserAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			c.Next()
			return
		}

		userID, role, ok := parseBearer(raw, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set("userId", userID)
		c.Set("role", role)
		c.Next()
	}
}

// RoleGuard allows only the listed roles past. Must run after UserAuth.
func RoleGuard(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		roleValue, _ := role.(string)

		match := false
		for _, r := range allowedRoles {
			if roleValue == r {
				match = true
				break
			}
		}
		if !match {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}

func parseBearer(raw, secret string) (primitive.ObjectID, string, bool) {
	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		log.Println("[AUTH] [ERROR] invalid token format")
		return primitive.NilObjectID, "", false
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		log.Println("[AUTH] [ERROR] token validation failed:", err)
		return primitive.NilObjectID, "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		log.Println("[AUTH] [ERROR] token claims invalid")
		return primitive.NilObjectID, "", false
	}

	userIDValue, ok := claims["userId"].(string)
	if !ok || strings.TrimSpace(userIDValue) == "" {
		log.Println("[AUTH] [ERROR] userId claim missing")
		return primitive.NilObjectID, "", false
	}

	userID, err := primitive.ObjectIDFromHex(userIDValue)
	if err != nil {
		log.Println("[AUTH] [ERROR] invalid userId claim")
		return primitive.NilObjectID, "", false
	}

	role, _ := claims["role"].(string)
	return userID, role, true
}
