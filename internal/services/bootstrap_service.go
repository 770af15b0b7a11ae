package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"lakebase-connect/internal/config"
	"lakebase-connect/internal/database"
	"lakebase-connect/internal/models"
)

// TokenProvider acquires a bearer token for the control-plane audience.
type TokenProvider interface {
	AcquireToken(ctx context.Context) (*models.BearerToken, error)
}

// InstanceResolver resolves an instance name to its network endpoint.
type InstanceResolver interface {
	ResolveInstance(ctx context.Context, token *models.BearerToken, instanceName string) (*models.DatabaseInstance, error)
}

// CredentialMinter provisions a short-lived database credential.
type CredentialMinter interface {
	MintCredential(ctx context.Context, token *models.BearerToken, instanceNames []string) (*models.DatabaseCredential, error)
}

// ConnectionOpener opens and verifies a database connection.
type ConnectionOpener func(ctx context.Context, descriptor *models.ConnectionDescriptor) (*database.Conn, error)

// BootstrapReport summarizes a successful bootstrap run.
type BootstrapReport struct {
	Instance      string `json:"instance"`
	Host          string `json:"host"`
	Port          int    `json:"port"`
	Database      string `json:"database"`
	Username      string `json:"username"`
	ServerVersion string `json:"server_version"`
	ElapsedMS     int64  `json:"elapsed_ms"`
}

// BootstrapService runs the full connection bootstrap pipeline: bearer token,
// then endpoint and credential, then a verified connection. Steps run
// strictly in order under one flow deadline; there is no partial-progress
// resume, and no step retries internally. Either the caller gets a usable
// open connection or a stage-labeled error.
type BootstrapService struct {
	cfg         *config.Config
	tokens      TokenProvider
	instances   InstanceResolver
	credentials CredentialMinter
	open        ConnectionOpener
}

func NewBootstrapService(cfg *config.Config, tokens TokenProvider, instances InstanceResolver, credentials CredentialMinter) *BootstrapService {
	return &BootstrapService{
		cfg:         cfg,
		tokens:      tokens,
		instances:   instances,
		credentials: credentials,
		open:        database.Open,
	}
}

// WithOpener swaps the connection opener. Tests use this to avoid dialing a
// real database.
func (s *BootstrapService) WithOpener(open ConnectionOpener) *BootstrapService {
	s.open = open
	return s
}

// Connect runs the pipeline for the given instance and database. Empty
// arguments fall back to the configured defaults.
func (s *BootstrapService) Connect(ctx context.Context, instanceName, databaseName string) (*database.Conn, *BootstrapReport, error) {
	if instanceName == "" {
		instanceName = s.cfg.InstanceName
	}
	if databaseName == "" {
		databaseName = s.cfg.Database
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.FlowTimeout)
	defer cancel()

	start := time.Now()

	token, err := s.tokens.AcquireToken(ctx)
	if err != nil {
		return nil, nil, &FlowError{Stage: StageIdentityToken, Err: err}
	}
	log.Printf("Acquired bearer token, expires at %s", token.Expiry.Format(time.RFC3339))

	instance, err := s.instances.ResolveInstance(ctx, token, instanceName)
	if err != nil {
		return nil, nil, &FlowError{Stage: StageInstanceMetadata, Err: err}
	}
	log.Printf("Resolved instance %q to %s:%d", instance.Name, instance.ReadWriteDNS, instance.Port)

	credential, err := s.credentials.MintCredential(ctx, token, []string{instance.Name})
	if err != nil {
		return nil, nil, &FlowError{Stage: StageCredentialMint, Err: err}
	}

	// The credential must actually cover the instance we are about to dial;
	// trusting caller discipline here silently connects with a password the
	// server will reject.
	if !credential.Covers(instance.Name) {
		return nil, nil, &FlowError{
			Stage: StageCredentialMint,
			Err:   fmt.Errorf("minted credential does not cover instance %q", instance.Name),
		}
	}
	if credential.Expired() {
		return nil, nil, &FlowError{
			Stage: StageCredentialMint,
			Err:   fmt.Errorf("minted credential expired before the connection was attempted"),
		}
	}

	descriptor := &models.ConnectionDescriptor{
		Host:     instance.ReadWriteDNS,
		Port:     instance.Port,
		Database: databaseName,
		Username: s.cfg.Username,
		Password: credential.Token,
		SSLMode:  s.cfg.SSLMode,
	}

	conn, err := s.open(ctx, descriptor)
	if err != nil {
		return nil, nil, &FlowError{Stage: StageConnection, Err: err}
	}

	report := &BootstrapReport{
		Instance:      instance.Name,
		Host:          instance.ReadWriteDNS,
		Port:          instance.Port,
		Database:      databaseName,
		Username:      s.cfg.Username,
		ServerVersion: conn.ServerVersion,
		ElapsedMS:     time.Since(start).Milliseconds(),
	}
	return conn, report, nil
}
