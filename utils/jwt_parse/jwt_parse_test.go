package jwt_parse

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func runMiddleware(authHeader string) (*httptest.ResponseRecorder, *gin.Context) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}
	ParseJWTToken()(c)
	return w, c
}

func TestParseJWTTokenSetsUserID(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "0198a6e2-0000-7000-8000-000000000001",
		"role":    "vendor",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	_, c := runMiddleware("Bearer " + token)

	assert.False(t, c.IsAborted())
	assert.Equal(t, "0198a6e2-0000-7000-8000-000000000001", c.GetString("user_id"))
	assert.Equal(t, "vendor", c.GetString("role"))
}

func TestParseJWTTokenFallsBackToSub(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token := signToken(t, "test-secret", jwt.MapClaims{
		"sub": "some-user",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, c := runMiddleware("Bearer " + token)

	assert.False(t, c.IsAborted())
	assert.Equal(t, "some-user", c.GetString("user_id"))
}

func TestParseJWTTokenRejectsMissingHeader(t *testing.T) {
	w, c := runMiddleware("")
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestParseJWTTokenRejectsBadFormat(t *testing.T) {
	w, c := runMiddleware("Token abc")
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestParseJWTTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "right-secret")

	token := signToken(t, "wrong-secret", jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w, c := runMiddleware("Bearer " + token)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestParseJWTTokenInlineRunsBeforeDownstream(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	token := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	// Wrapping middleware must regain control after the inline parse so its
	// own checks run before the handler, not after the response went out.
	var order []string
	router := gin.New()
	router.Use(func(c *gin.Context) {
		ParseJWTToken()(c)
		if c.IsAborted() {
			return
		}
		order = append(order, "auth")
	})
	router.GET("/", func(c *gin.Context) {
		order = append(order, "handler")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"auth", "handler"}, order)
}

func TestParseJWTTokenRejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	w, c := runMiddleware("Bearer " + token)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
