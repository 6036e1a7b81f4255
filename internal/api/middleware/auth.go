package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "bookingcurve"

// Claims represents JWT claims for an operator of the admin routes
type Claims struct {
	Operator string `json:"operator"`
	jwt.RegisteredClaims
}

func authError(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":       code,
			"message":    message,
			"request_id": c.GetString(RequestIDKey),
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// JWTAuth requires an HS256 bearer token signed with secretKey.
// An empty secret disables the check.
func JWTAuth(secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			authError(c, "MISSING_TOKEN", "Authorization token is required")
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			authError(c, "INVALID_TOKEN_FORMAT", "Authorization token must be in format: Bearer <token>")
			return
		}

		tokenString := tokenParts[1]

		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secretKey), nil
		})

		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
				authError(c, "INVALID_SIGNATURE", "Invalid token signature")
			case errors.Is(err, jwt.ErrTokenExpired):
				authError(c, "TOKEN_EXPIRED", "Token has expired")
			case errors.Is(err, jwt.ErrTokenNotValidYet):
				authError(c, "TOKEN_NOT_VALID_YET", "Token is not valid yet")
			default:
				authError(c, "INVALID_TOKEN", "Invalid token")
			}
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || !token.Valid {
			authError(c, "INVALID_CLAIMS", "Invalid token claims")
			return
		}

		c.Set("operator", claims.Operator)

		c.Next()
	}
}

// GenerateToken signs an admin token valid for ttl
func GenerateToken(operator, secretKey string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Operator: operator,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   operator,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}
