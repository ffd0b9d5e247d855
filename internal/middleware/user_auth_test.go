package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func signedTestToken(t *testing.T, userID primitive.ObjectID, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"userId": userID.Hex(),
		"role":   role,
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func testContext(t *testing.T, authorization string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/users/me", nil)
	if authorization != "" {
		c.Request.Header.Set("Authorization", authorization)
	}
	return c, w
}

func TestUserAuthInjectsIdentity(t *testing.T) {
	userID := primitive.NewObjectID()
	c, _ := testContext(t, "Bearer "+signedTestToken(t, userID, "seller"))

	UserAuth(testSecret)(c)

	require.False(t, c.IsAborted())
	gotID, ok := c.Get("userId")
	require.True(t, ok)
	assert.Equal(t, userID, gotID)
	gotRole, ok := c.Get("role")
	require.True(t, ok)
	assert.Equal(t, "seller", gotRole)
}

func TestUserAuthRejectsMissingHeader(t *testing.T) {
	c, w := testContext(t, "")

	UserAuth(testSecret)(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserAuthRejectsWrongSecret(t *testing.T) {
	claims := jwt.MapClaims{
		"userId": primitive.NewObjectID().Hex(),
		"role":   "buyer",
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	c, w := testContext(t, "Bearer "+signed)

	UserAuth(testSecret)(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalUserAuthAllowsAnonymous(t *testing.T) {
	c, _ := testContext(t, "")

	OptionalUserAuth(testSecret)(c)

	assert.False(t, c.IsAborted())
	_, ok := c.Get("userId")
	assert.False(t, ok)
}

func TestOptionalUserAuthStillRejectsBadToken(t *testing.T) {
	c, w := testContext(t, "Bearer not-a-token")

	OptionalUserAuth(testSecret)(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGuard(t *testing.T) {
	c, w := testContext(t, "")
	c.Set("role", "buyer")

	RoleGuard("seller")(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)

	c2, _ := testContext(t, "")
	c2.Set("role", "seller")

	RoleGuard("seller")(c2)

	assert.False(t, c2.IsAborted())
}
