package middleware

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"entregas_tracker/internal/models"
)

const identityKey = "identity"

var (
	mu     sync.RWMutex
	secret = []byte("supersecret")
	ttl    = 72 * time.Hour
)

// Claims is the bearer token payload: {id, email, rol, exp}.
type Claims struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"rol"`
	jwt.RegisteredClaims
}

// Configure sets the signing secret and token lifetime.
func Configure(jwtSecret string, tokenTTL time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	secret = []byte(jwtSecret)
	if tokenTTL > 0 {
		ttl = tokenTTL
	}
}

func signingKey() ([]byte, time.Duration) {
	mu.RLock()
	defer mu.RUnlock()
	return secret, ttl
}

func GenerateToken(id models.Identity) (string, error) {
	key, lifetime := signingKey()
	now := time.Now()
	claims := Claims{
		ID:    id.ID,
		Email: id.Email,
		Role:  id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// ValidateToken checks signature and expiry and returns the claims with the
// role normalised.
func ValidateToken(tokenStr string) (*Claims, error) {
	key, _ := signingKey()
	tokenStr = strings.TrimPrefix(tokenStr, "Bearer ")
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims.Role = models.NormalizeRole(claims.Role)
	if claims.ID == 0 || claims.Role == "" {
		return nil, errors.New("token has no usable identity")
	}
	return claims, nil
}

func (c *Claims) Identity() models.Identity {
	return models.Identity{ID: c.ID, Email: c.Email, Role: c.Role}
}

// RequireAuth ensures a valid JWT is present
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}
		c.Next()
	}
}

// RequireRole ensures the JWT is valid and the caller has one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(identityKey); !ok && !authenticate(c) {
			return
		}

		id, _ := CurrentIdentity(c)
		for _, r := range roles {
			if id.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// authenticate validates the bearer header and stores the caller. It
// aborts the request and returns false on failure.
func authenticate(c *gin.Context) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
		return false
	}

	claims, err := ValidateToken(authHeader)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return false
	}
	c.Set(identityKey, claims.Identity())
	return true
}

// CurrentIdentity returns the caller stored by RequireAuth.
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}

// SetIdentity stores the caller on the context; used by the websocket
// upgrade path, which authenticates from the query string.
func SetIdentity(c *gin.Context, id models.Identity) {
	c.Set(identityKey, id)
}
