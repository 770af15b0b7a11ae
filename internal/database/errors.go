package database

import "fmt"

// ConnectionRefusedError indicates a network-level failure before the server
// evaluated the credential at all.
type ConnectionRefusedError struct {
	Host string
	Port int
	Err  error
}

func (e *ConnectionRefusedError) Error() string {
	return fmt.Sprintf("could not reach %s:%d: %v", e.Host, e.Port, e.Err)
}

func (e *ConnectionRefusedError) Unwrap() error { return e.Err }

// AuthenticationRejectedError indicates the server refused the password,
// most commonly because the minted credential expired or was rotated. The
// caller must restart the whole flow from token acquisition; redialing with
// the same stale credential cannot succeed.
type AuthenticationRejectedError struct {
	Username string
	Host     string
	Err      error
}

func (e *AuthenticationRejectedError) Error() string {
	return fmt.Sprintf("server at %s rejected password for %q (credential likely expired or rotated): %v", e.Host, e.Username, e.Err)
}

func (e *AuthenticationRejectedError) Unwrap() error { return e.Err }
