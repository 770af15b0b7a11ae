package services

// Error types for the bootstrap flow. Every failure is terminal to the
// current attempt; the type tells the caller which stage failed and whether
// re-running the whole flow can help.

import (
	"fmt"

	"github.com/google/uuid"
)

// AuthenticationError indicates the client-credentials exchange with the
// identity provider failed. Retrying with the same credentials is pointless.
type AuthenticationError struct {
	TenantID string
	Err      error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("identity provider rejected client credentials for tenant %s: %v", e.TenantID, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// InstanceNotFoundError indicates the control plane has no instance with the
// requested name.
type InstanceNotFoundError struct {
	Instance string
}

func (e *InstanceNotFoundError) Error() string {
	return fmt.Sprintf("database instance %q not found", e.Instance)
}

// MetadataParseError indicates the instance metadata response was missing a
// field every downstream step depends on.
type MetadataParseError struct {
	Instance string
	Field    string
}

func (e *MetadataParseError) Error() string {
	return fmt.Sprintf("instance %q metadata is missing required field %q", e.Instance, e.Field)
}

// CredentialGenerationError indicates the credential-mint request failed.
type CredentialGenerationError struct {
	RequestID  uuid.UUID
	StatusCode int
	Message    string
}

func (e *CredentialGenerationError) Error() string {
	return fmt.Sprintf("credential mint request %s failed with status %d: %s", e.RequestID, e.StatusCode, e.Message)
}

// CredentialMissingError indicates the mint response succeeded but carried no
// secret token, which must never be silently accepted as an empty password.
type CredentialMissingError struct {
	RequestID uuid.UUID
}

func (e *CredentialMissingError) Error() string {
	return fmt.Sprintf("credential mint request %s succeeded but the response has no token", e.RequestID)
}

// Stage names label flow errors so callers know where a run died.
const (
	StageIdentityToken    = "identity-token"
	StageInstanceMetadata = "instance-metadata"
	StageCredentialMint   = "credential-mint"
	StageConnection       = "connection"
)

// FlowError wraps a stage failure with its stage label.
type FlowError struct {
	Stage string
	Err   error
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *FlowError) Unwrap() error { return e.Err }
