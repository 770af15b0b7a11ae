package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCredentialLifetime is assumed when the control plane omits an
// expiration time. Lakebase rotates minted credentials server-side; one hour
// is the conservative lower bound of the observed validity window.
const DefaultCredentialLifetime = time.Hour

// DatabaseCredential is a freshly minted, short-lived Postgres password
// scoped to a set of instance names. The secret token is never serialized,
// persisted, or logged.
type DatabaseCredential struct {
	RequestID     uuid.UUID `json:"request_id"`
	InstanceNames []string  `json:"instance_names"`
	Token         string    `json:"-"`
	Expiry        time.Time `json:"expiry"`
}

func (c *DatabaseCredential) Prepare() {
	if c.RequestID == uuid.Nil {
		c.RequestID = uuid.New()
	}
	if c.Expiry.IsZero() {
		c.Expiry = time.Now().Add(DefaultCredentialLifetime)
	}
}

// Covers reports whether the credential was minted for the given instance.
func (c *DatabaseCredential) Covers(instanceName string) bool {
	for _, name := range c.InstanceNames {
		if name == instanceName {
			return true
		}
	}
	return false
}

// Expired reports whether the credential's validity window has elapsed.
func (c *DatabaseCredential) Expired() bool {
	return !c.Expiry.After(time.Now())
}
