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

	"entregas_tracker/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
	Configure("test-secret", time.Hour)
}

func TestTokenRoundTripNormalisesRole(t *testing.T) {
	tok, err := GenerateToken(models.Identity{ID: 4, Email: "a@b.c", Role: "administrador"})
	require.NoError(t, err)

	claims, err := ValidateToken("Bearer " + tok)
	require.NoError(t, err)
	assert.Equal(t, models.Identity{ID: 4, Email: "a@b.c", Role: models.RoleAdmin}, claims.Identity())
}

func TestValidateTokenRejectsForeignSignatures(t *testing.T) {
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{ID: 1, Role: models.RoleAdmin})
	s, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = ValidateToken(s)
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{ID: 1, Role: models.RoleAdmin})
	s, err = none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ValidateToken(s)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ID:   1,
		Role: models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	s, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = ValidateToken(s)
	assert.Error(t, err)
}

func serveWithRole(t *testing.T, header string, roles ...string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.GET("/x", RequireRole(roles...), func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, id)
	})
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRole(t *testing.T) {
	driver, err := GenerateToken(models.Identity{ID: 7, Role: models.RoleDriver})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, serveWithRole(t, "", models.RoleAdmin).Code)
	assert.Equal(t, http.StatusUnauthorized, serveWithRole(t, "Bearer junk", models.RoleAdmin).Code)
	assert.Equal(t, http.StatusForbidden, serveWithRole(t, "Bearer "+driver, models.RoleAdmin).Code)
	assert.Equal(t, http.StatusOK, serveWithRole(t, "Bearer "+driver, models.RoleAdmin, models.RoleDriver).Code)
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
