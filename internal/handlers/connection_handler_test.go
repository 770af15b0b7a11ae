package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lakebase-connect/internal/config"
	"lakebase-connect/internal/database"
	"lakebase-connect/internal/models"
	"lakebase-connect/internal/services"
)

type stubTokens struct{}

func (stubTokens) AcquireToken(ctx context.Context) (*models.BearerToken, error) {
	return &models.BearerToken{Token: "bearer", Expiry: time.Now().Add(time.Hour)}, nil
}

type stubInstances struct{ err error }

func (s stubInstances) ResolveInstance(ctx context.Context, token *models.BearerToken, name string) (*models.DatabaseInstance, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.DatabaseInstance{Name: name, ReadWriteDNS: name + ".example.internal", Port: 5432}, nil
}

type stubCredentials struct{}

func (stubCredentials) MintCredential(ctx context.Context, token *models.BearerToken, names []string) (*models.DatabaseCredential, error) {
	return &models.DatabaseCredential{InstanceNames: names, Token: "secret", Expiry: time.Now().Add(time.Hour)}, nil
}

func testBootstrap(resolveErr error, open services.ConnectionOpener) *services.BootstrapService {
	cfg := &config.Config{
		InstanceName: "db1",
		Database:     "databricks_postgres",
		Username:     "app-client",
		SSLMode:      "require",
		FlowTimeout:  5 * time.Second,
	}
	return services.NewBootstrapService(cfg, stubTokens{}, stubInstances{err: resolveErr}, stubCredentials{}).WithOpener(open)
}

func testRouter(bootstrap *services.BootstrapService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewConnectionHandler(bootstrap)
	router.POST("/api/v1/connections/test", handler.TestConnection)
	return router
}

func TestTestConnection(t *testing.T) {
	open := func(ctx context.Context, d *models.ConnectionDescriptor) (*database.Conn, error) {
		return &database.Conn{ServerVersion: "PostgreSQL 16.4"}, nil
	}
	router := testRouter(testBootstrap(nil, open))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/connections/test", strings.NewReader(`{"instance":"db1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "PostgreSQL 16.4")
	assert.Contains(t, w.Body.String(), `"instance":"db1"`)
}

func TestTestConnectionInstanceNotFound(t *testing.T) {
	router := testRouter(testBootstrap(&services.InstanceNotFoundError{Instance: "missing"}, nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/connections/test", strings.NewReader(`{"instance":"missing"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTestConnectionUpstreamFailure(t *testing.T) {
	open := func(ctx context.Context, d *models.ConnectionDescriptor) (*database.Conn, error) {
		return nil, &database.AuthenticationRejectedError{Username: d.Username, Host: d.Host, Err: errors.New("SQLSTATE 28P01")}
	}
	router := testRouter(testBootstrap(nil, open))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/connections/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "connection")
}

func TestStatusForFlowError(t *testing.T) {
	notFound := &services.FlowError{Stage: services.StageInstanceMetadata, Err: &services.InstanceNotFoundError{Instance: "x"}}
	assert.Equal(t, http.StatusNotFound, statusForFlowError(notFound))

	authFailed := &services.FlowError{Stage: services.StageIdentityToken, Err: &services.AuthenticationError{TenantID: "t", Err: errors.New("nope")}}
	assert.Equal(t, http.StatusBadGateway, statusForFlowError(authFailed))
}
