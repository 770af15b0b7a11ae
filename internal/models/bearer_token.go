package models

import "time"

// BearerToken is the short-lived identity token presented on every
// control-plane request. The raw token is never serialized or logged.
type BearerToken struct {
	Token  string    `json:"-"`
	Expiry time.Time `json:"expiry"`
}

// Valid reports whether the token exists and has not expired.
func (t *BearerToken) Valid() bool {
	if t == nil || t.Token == "" {
		return false
	}
	return t.Expiry.After(time.Now())
}
