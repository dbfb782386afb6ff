package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateToken(secret, "admin-1", "Ops Admin", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := ParseClaims(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.Subject)
	assert.Equal(t, "Ops Admin", claims.Name)
	assert.Equal(t, "admin", claims.Role)

	_, err = ParseClaims([]byte("other"), token)
	assert.Error(t, err)
}

func TestParseClaims_Expired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateToken(secret, "admin-1", "", "admin", -time.Minute)
	require.NoError(t, err)
	_, err = ParseClaims(secret, token)
	assert.Error(t, err)
}

func TestErrorHandler_RecoversPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Logger = zap.NewNop()

	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal Server Error")
}

func TestCheckHealth_NothingConfigured(t *testing.T) {
	s := CheckHealth(context.Background(), nil, nil)
	assert.True(t, s.Healthy())
	assert.Nil(t, s.Mongo)
	assert.Equal(t, s.CheckedAt, GetHealthStatus().CheckedAt)

	down := false
	assert.False(t, HealthStatus{Mongo: &down}.Healthy())
	assert.False(t, HealthStatus{Redis: []bool{true, false}}.Healthy())
}

func TestReportInMemoryStore(t *testing.T) {
	ReportInMemoryStore()
	s := GetHealthStatus()
	assert.Equal(t, "memory", s.Store)
	assert.Nil(t, s.Mongo)
	assert.True(t, s.Healthy())
}
