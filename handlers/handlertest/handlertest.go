// Package handlertest serves handler packages over an in-memory database for tests.
package handlertest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"hackathon-api/config"
	"hackathon-api/database/dbtest"
	"hackathon-api/middleware"
	"hackathon-api/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const Secret = "test-secret"

// Now is the clock every test server runs on
var Now = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

// Server is a gin engine with one handler package mounted under /api/v1
type Server struct {
	t      *testing.T
	Engine *gin.Engine
	DB     *gorm.DB
	Svc    *services.Services
}

// New mounts register behind the auth middleware
func New(t *testing.T, register func(*gin.RouterGroup, *services.Services), opts ...services.Option) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	binding.EnableDecoderDisallowUnknownFields = true

	db := dbtest.Open(t)
	opts = append([]services.Option{
		services.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		services.WithClock(func() time.Time { return Now }),
	}, opts...)
	svc := services.New(db, config.DefaultRoundPolicy, opts...)

	r := gin.New()
	register(r.Group("/api/v1", middleware.AuthMiddleware(Secret)), svc)
	return &Server{t: t, Engine: r, DB: db, Svc: svc}
}

// Token signs a bearer token for actor
func (s *Server) Token(actor services.Actor) string {
	s.t.Helper()
	token, err := middleware.IssueToken(Secret, actor, time.Hour)
	require.NoError(s.t, err)
	return token
}

// Do sends body as JSON on behalf of actor. A nil body sends no payload.
func (s *Server) Do(actor services.Actor, method, path string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		payload = bytes.NewReader(raw)
	}
	return s.Raw(actor, method, path, "application/json", payload)
}

// Raw sends payload unchanged with the given content type
func (s *Server) Raw(actor services.Actor, method, path, contentType string, payload io.Reader) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, path, payload)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer "+s.Token(actor))
	w := httptest.NewRecorder()
	s.Engine.ServeHTTP(w, req)
	return w
}

// Decode unmarshals the recorded body into v
func Decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// ErrorOf returns the "error" message of a failed response
func ErrorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	Decode(t, w, &body)
	return body.Error
}
