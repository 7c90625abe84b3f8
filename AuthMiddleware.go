package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware guards the ambient EventsAPI routes with a
// golang-jwt/jwt/v5 bearer flow. The chat REST/WS surface uses the
// opaque session token instead (see chatauth.go, sessionMiddleware
// below); both are minted together by Login.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token format"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "details": err.Error()})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			c.Abort()
			return
		}

		userID, ok := getUserIDFromClaim(claims["user_id"])
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// getUserIDFromClaim handles the fact that jwt.Parse decodes numeric
// claims into jwt.MapClaims as float64 regardless of how they were
// minted, so callers must accept uint/int/float64 interchangeably.
func getUserIDFromClaim(v interface{}) (uint, bool) {
	switch t := v.(type) {
	case uint:
		return t, true
	case int:
		return uint(t), true
	case float64:
		return uint(t), true
	default:
		return 0, false
	}
}

// sessionMiddleware guards chat REST routes with the opaque
// base64url(payload).base64url(hmac) token instead of the JWT above,
// grounded on the middleware that originally shipped this token
// format.
func sessionMiddleware(signer *tokenSigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := bearerTokenFromHeader(header)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			c.Abort()
			return
		}

		claims, appErr := signer.verify(token)
		if appErr != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": appErr.Error()})
			c.Abort()
			return
		}

		c.Set(sessionContextKey, claims)
		c.Next()
	}
}

func bearerTokenFromHeader(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

const sessionContextKey = "chat_session_claims"

func sessionFromContext(c *gin.Context) (*sessionClaims, bool) {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*sessionClaims)
	return claims, ok
}
