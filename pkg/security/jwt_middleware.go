package security

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ActorKey is the context key holding the acting operator's signature.
const ActorKey = "actor"

// jwtSecret reads JWT_SECRET at call time, after the .env file has been
// loaded. An empty secret would validate any HMAC-signed token, so it is
// treated as missing configuration, never as a usable key.
func jwtSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	return []byte(secret), nil
}

// JWTMiddleware validates the bearer token and extracts the operator
// signature from its name claim. Every mutating call threads this actor
// explicitly; there is no process-wide current operator.
func JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret, err := jwtSecret()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication is not configured"})
			c.Abort()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return secret, nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims := token.Claims.(jwt.MapClaims)
		name, _ := claims["name"].(string)
		if name == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token carries no operator name"})
			c.Abort()
			return
		}

		c.Set(ActorKey, name)
		c.Next()
	}
}

// Actor returns the operator signature set by JWTMiddleware.
func Actor(c *gin.Context) string {
	actor, _ := c.Get(ActorKey)
	name, _ := actor.(string)
	return name
}
