package handlers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

func TestCheckOTPAcceptsLiveMatchingCode(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	expires := now.Add(2 * time.Minute)

	require.NoError(t, checkOTP("123456", "123456", &expires, now))
	require.NoError(t, checkOTP("123456", "123456", &expires, expires.Add(-time.Nanosecond)))
}

func TestCheckOTPRejectsAtExpiryInstant(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	expires := now.Add(2 * time.Minute)

	assert.ErrorIs(t, checkOTP("123456", "123456", &expires, expires), errExpiredOTP)
	assert.ErrorIs(t, checkOTP("123456", "123456", &expires, expires.Add(time.Second)), errExpiredOTP)
}

func TestCheckOTPRejectsMismatchAndEmpty(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	expires := now.Add(2 * time.Minute)

	assert.ErrorIs(t, checkOTP("123456", "654321", &expires, now), errInvalidOTP)
	assert.ErrorIs(t, checkOTP("", "", &expires, now), errInvalidOTP)
	assert.ErrorIs(t, checkOTP("123456", "", &expires, now), errInvalidOTP)
}

func TestCheckOTPRejectsMissingExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.ErrorIs(t, checkOTP("123456", "123456", nil, now), errExpiredOTP)
}

func TestIssueSessionTokenCarriesIdentityAndRole(t *testing.T) {
	userID := primitive.NewObjectID()
	ttl := 10 * 24 * time.Hour

	signed, err := issueSessionToken(userID, models.RoleSeller, "test-secret", ttl)
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, userID.Hex(), claims["userId"])
	assert.Equal(t, models.RoleSeller, claims["role"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(ttl), exp.Time, time.Minute)
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, isValidRole(models.RoleBuyer))
	assert.True(t, isValidRole(models.RoleSeller))
	assert.False(t, isValidRole("admin"))
	assert.False(t, isValidRole(""))
}

func TestOTPAssignmentWindowStartsAtNow(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	set := otpAssignment("424242", now, 2*time.Minute)

	assert.Equal(t, "424242", set["token"])
	assert.Equal(t, now.Add(2*time.Minute), set["resetTokenExpires"])
	assert.Equal(t, now, set["updatedAt"])
	assert.Len(t, set, 3)
}

func TestIDOrEmailFilter(t *testing.T) {
	userID := primitive.NewObjectID()

	assert.Nil(t, idOrEmailFilter(primitive.NilObjectID, "  "))

	assert.Equal(t, bson.M{"_id": userID}, idOrEmailFilter(userID, ""))
	assert.Equal(t, bson.M{"email": "a@x.com"}, idOrEmailFilter(primitive.NilObjectID, " A@X.com "))

	both := idOrEmailFilter(userID, "a@x.com")
	require.Contains(t, both, "$or")
	clauses := both["$or"].([]bson.M)
	assert.Equal(t, []bson.M{{"_id": userID}, {"email": "a@x.com"}}, clauses)
}
