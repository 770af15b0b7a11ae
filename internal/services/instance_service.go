package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"lakebase-connect/internal/config"
	"lakebase-connect/internal/models"
)

// InstanceService resolves a named database instance to its network endpoint
// via the control-plane metadata API. Reads are idempotent and never
// memoized; every run fetches fresh metadata.
type InstanceService struct {
	workspaceURL string
	client       *http.Client
}

func NewInstanceService(cfg *config.Config) *InstanceService {
	return &InstanceService{
		workspaceURL: strings.TrimRight(cfg.WorkspaceURL, "/"),
		client:       &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

// ResolveInstance fetches the instance descriptor for the given name. The
// read-write endpoint field is mandatory for all downstream use; its absence
// is unrecoverable.
func (s *InstanceService) ResolveInstance(ctx context.Context, token *models.BearerToken, instanceName string) (*models.DatabaseInstance, error) {
	if instanceName == "" {
		return nil, fmt.Errorf("instance name cannot be empty")
	}
	if !token.Valid() {
		return nil, fmt.Errorf("bearer token is missing or expired")
	}

	endpoint := fmt.Sprintf("%s/api/2.0/database/instances/%s", s.workspaceURL, url.PathEscape(instanceName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create instance metadata request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token.Token))

	response, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch instance metadata: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read instance metadata response: %w", err)
	}

	if response.StatusCode == http.StatusNotFound {
		return nil, &InstanceNotFoundError{Instance: instanceName}
	}
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instance metadata request failed with status %d: %s", response.StatusCode, strings.TrimSpace(string(body)))
	}

	var instance models.DatabaseInstance
	if err := json.Unmarshal(body, &instance); err != nil {
		return nil, fmt.Errorf("failed to parse instance metadata: %w", err)
	}

	if instance.ReadWriteDNS == "" {
		return nil, &MetadataParseError{Instance: instanceName, Field: "read_write_dns"}
	}
	if instance.Name == "" {
		instance.Name = instanceName
	}
	instance.Prepare()

	return &instance, nil
}
