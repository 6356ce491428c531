package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hackathon-api/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AuthMiddleware(testSecret), RequireRoles(services.RoleAdmin), func(c *gin.Context) {
		actor, _ := GetActorFromRequest(c)
		c.String(http.StatusOK, actor.ID)
	})
	return r
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := IssueToken(testSecret, services.Actor{ID: "judge-1", Role: services.RoleJudge}, time.Hour)
	require.NoError(t, err)

	actor, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, services.Actor{ID: "judge-1", Role: services.RoleJudge}, actor)
}

func TestParseTokenRejects(t *testing.T) {
	expired, err := IssueToken(testSecret, services.Actor{ID: "t1", Role: services.RoleTeam}, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(testSecret, expired)
	assert.ErrorIs(t, err, ErrExpiredToken)

	other, err := IssueToken("other-secret", services.Actor{ID: "t1", Role: services.RoleTeam}, time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(testSecret, other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unknownRole, err := IssueToken(testSecret, services.Actor{ID: "t1", Role: "spectator"}, time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(testSecret, unknownRole)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthMiddleware(t *testing.T) {
	r := newAuthRouter()
	adminToken, err := IssueToken(testSecret, services.Actor{ID: "admin-1", Role: services.RoleAdmin}, time.Hour)
	require.NoError(t, err)
	teamToken, err := IssueToken(testSecret, services.Actor{ID: "team-1", Role: services.RoleTeam}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"wrong role", "Bearer " + teamToken, http.StatusForbidden},
		{"admin", "Bearer " + adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
