package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

var (
	errInvalidOTP = errors.New("invalid OTP")
	errExpiredOTP = errors.New("OTP expired")
)

func isValidRole(role string) bool {
	return role == models.RoleBuyer || role == models.RoleSeller
}

func issueSessionToken(userID primitive.ObjectID, role, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID.Hex(),
		"role":   role,
		"exp":    time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// checkOTP accepts the code only when it matches the stored token and now is
// strictly before the expiry. At the expiry instant the code is already dead.
func checkOTP(provided, stored string, expires *time.Time, now time.Time) error {
	if provided == "" || stored == "" || provided != stored {
		return errInvalidOTP
	}
	if expires == nil || !now.Before(*expires) {
		return errExpiredOTP
	}
	return nil
}

// otpAssignment is the $set document that arms a record with a fresh code.
// The expiry window starts at now, not at delivery time.
func otpAssignment(code string, now time.Time, ttl time.Duration) bson.M {
	return bson.M{
		"token":             code,
		"resetTokenExpires": now.Add(ttl),
		"updatedAt":         now,
	}
}

// idOrEmailFilter matches a user by session identity, email, or either when
// both are known.
func idOrEmailFilter(userID primitive.ObjectID, email string) bson.M {
	email = strings.ToLower(strings.TrimSpace(email))

	clauses := make([]bson.M, 0, 2)
	if !userID.IsZero() {
		clauses = append(clauses, bson.M{"_id": userID})
	}
	if email != "" {
		clauses = append(clauses, bson.M{"email": email})
	}

	switch len(clauses) {
	case 0:
		return nil
	case 1:
		return clauses[0]
	default:
		return bson.M{"$or": clauses}
	}
}
