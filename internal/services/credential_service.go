package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"lakebase-connect/internal/config"
	"lakebase-connect/internal/models"
)

// CredentialService mints short-lived database passwords from the control
// plane. Minting mutates server-side state, so this layer never retries: a
// retry without reusing the original request_id would break at-most-one-mint
// semantics. Callers that add retries MUST reuse the request_id.
type CredentialService struct {
	workspaceURL string
	client       *http.Client
}

func NewCredentialService(cfg *config.Config) *CredentialService {
	return &CredentialService{
		workspaceURL: strings.TrimRight(cfg.WorkspaceURL, "/"),
		client:       &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

type mintCredentialRequest struct {
	RequestID     string   `json:"request_id"`
	InstanceNames []string `json:"instance_names"`
}

type mintCredentialResponse struct {
	Token          string `json:"token"`
	ExpirationTime string `json:"expiration_time,omitempty"`
}

// MintCredential provisions a fresh database credential valid for the given
// instance names. A new request_id is generated per call; the same id is
// never reused across distinct mint attempts.
func (s *CredentialService) MintCredential(ctx context.Context, token *models.BearerToken, instanceNames []string) (*models.DatabaseCredential, error) {
	if len(instanceNames) == 0 {
		return nil, fmt.Errorf("at least one instance name is required")
	}
	if !token.Valid() {
		return nil, fmt.Errorf("bearer token is missing or expired")
	}

	requestID := uuid.New()
	payload, err := json.Marshal(mintCredentialRequest{
		RequestID:     requestID.String(),
		InstanceNames: instanceNames,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode credential request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/2.0/database/credentials", s.workspaceURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create credential request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token.Token))
	req.Header.Set("Content-Type", "application/json")

	response, err := s.client.Do(req)
	if err != nil {
		return nil, &CredentialGenerationError{RequestID: requestID, StatusCode: 0, Message: err.Error()}
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential response: %w", err)
	}

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusCreated {
		return nil, &CredentialGenerationError{
			RequestID:  requestID,
			StatusCode: response.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	var minted mintCredentialResponse
	if err := json.Unmarshal(body, &minted); err != nil {
		return nil, fmt.Errorf("failed to parse credential response: %w", err)
	}
	if minted.Token == "" {
		return nil, &CredentialMissingError{RequestID: requestID}
	}

	cred := &models.DatabaseCredential{
		RequestID:     requestID,
		InstanceNames: instanceNames,
		Token:         minted.Token,
	}
	if minted.ExpirationTime != "" {
		if expiry, parseErr := time.Parse(time.RFC3339, minted.ExpirationTime); parseErr == nil {
			cred.Expiry = expiry
		}
	}
	cred.Prepare()

	return cred, nil
}
