package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionDescriptorDSN(t *testing.T) {
	d := &ConnectionDescriptor{
		Host:     "db1.example.internal",
		Database: "databricks_postgres",
		Username: "app-client@example.com",
		Password: "s3cret/with:odd@chars",
	}
	d.Prepare()

	assert.Equal(t, 5432, d.Port)
	assert.Equal(t, "require", d.SSLMode)

	dsn := d.DSN()
	assert.Equal(t, "postgres://app-client%40example.com:s3cret%2Fwith:odd%40chars@db1.example.internal:5432/databricks_postgres?sslmode=require", dsn)
}

func TestConnectionDescriptorRedacted(t *testing.T) {
	d := &ConnectionDescriptor{
		Host:     "db1.example.internal",
		Port:     5432,
		Database: "appdb",
		Username: "app-client",
		Password: "supersecret",
		SSLMode:  "require",
	}

	redacted := d.Redacted()
	assert.NotContains(t, redacted, "supersecret")
	assert.Contains(t, redacted, "app-client")
	assert.Contains(t, redacted, "db1.example.internal")
}
