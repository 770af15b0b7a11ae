package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"lakebase-connect/internal/models"
)

func TestOpenConnectionRefused(t *testing.T) {
	descriptor := &models.ConnectionDescriptor{
		Host:     "127.0.0.1",
		Port:     1,
		Database: "appdb",
		Username: "app-client",
		Password: "irrelevant",
		SSLMode:  "disable",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := Open(ctx, descriptor)
	assert.Nil(t, conn)

	var refused *ConnectionRefusedError
	require.ErrorAs(t, err, &refused)
	assert.Equal(t, "127.0.0.1", refused.Host)
}

func TestOpenIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("appdb"),
		tcpostgres.WithUsername("app-client"),
		tcpostgres.WithPassword("minted-secret"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(ctr))
	})

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	descriptor := &models.ConnectionDescriptor{
		Host:     host,
		Port:     port.Int(),
		Database: "appdb",
		Username: "app-client",
		Password: "minted-secret",
		SSLMode:  "disable", // the throwaway container speaks plaintext only
	}

	conn, err := Open(ctx, descriptor)
	require.NoError(t, err)
	defer conn.Close()

	assert.Contains(t, conn.ServerVersion, "PostgreSQL")

	var one int
	require.NoError(t, conn.Pool().QueryRow(ctx, "SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)

	// A rotated/expired credential shows up as a rejected password.
	rotated := *descriptor
	rotated.Password = "already-rotated"
	conn2, err := Open(ctx, &rotated)
	assert.Nil(t, conn2)

	var rejected *AuthenticationRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "app-client", rejected.Username)
}
