package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hackathon-api/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actorKey = "actor"

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims carries the caller identity. Subject is the team, judge or admin id.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// IssueToken signs an HS256 token for actor
func IssueToken(secret string, actor services.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role: string(actor.Role),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates tokenString and returns the actor it names
func ParseToken(secret, tokenString string) (services.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return services.Actor{}, ErrExpiredToken
		}
		return services.Actor{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return services.Actor{}, ErrInvalidToken
	}
	role, err := services.ParseRole(claims.Role)
	if err != nil {
		return services.Actor{}, ErrInvalidToken
	}
	return services.Actor{ID: claims.Subject, Role: role}, nil
}

// AuthMiddleware rejects requests without a valid bearer token and stores the actor in the context
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrMissingToken.Error()})
			return
		}

		actor, err := ParseToken(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireRoles lets through only actors holding one of roles. Mount after AuthMiddleware.
func RequireRoles(roles ...services.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := GetActorFromRequest(c)
		if err != nil {
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this resource"})
	}
}

// GetActorFromRequest returns the authenticated actor, answering 401 when there is none
func GetActorFromRequest(c *gin.Context) (services.Actor, error) {
	value, exists := c.Get(actorKey)
	if actor, ok := value.(services.Actor); exists && ok {
		return actor, nil
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrMissingToken.Error()})
	return services.Actor{}, ErrMissingToken
}
