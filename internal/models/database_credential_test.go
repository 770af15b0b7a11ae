package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDatabaseCredentialPrepare(t *testing.T) {
	c := &DatabaseCredential{InstanceNames: []string{"db1"}, Token: "tok"}
	c.Prepare()

	assert.NotEqual(t, uuid.Nil, c.RequestID)
	assert.True(t, c.Expiry.After(time.Now()), "default expiry must be in the future")
}

func TestDatabaseCredentialCovers(t *testing.T) {
	c := &DatabaseCredential{InstanceNames: []string{"db1", "db2"}}

	assert.True(t, c.Covers("db1"))
	assert.True(t, c.Covers("db2"))
	assert.False(t, c.Covers("db3"))
}

func TestDatabaseCredentialExpired(t *testing.T) {
	fresh := &DatabaseCredential{Expiry: time.Now().Add(time.Hour)}
	stale := &DatabaseCredential{Expiry: time.Now().Add(-time.Minute)}

	assert.False(t, fresh.Expired())
	assert.True(t, stale.Expired())
}

func TestBearerTokenValid(t *testing.T) {
	assert.False(t, (*BearerToken)(nil).Valid())
	assert.False(t, (&BearerToken{Token: "", Expiry: time.Now().Add(time.Hour)}).Valid())
	assert.False(t, (&BearerToken{Token: "t", Expiry: time.Now().Add(-time.Minute)}).Valid())
	assert.True(t, (&BearerToken{Token: "t", Expiry: time.Now().Add(time.Hour)}).Valid())
}
