package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"lakebase-connect/internal/config"
	"lakebase-connect/internal/models"
	"lakebase-connect/internal/utils"
)

const defaultAuthorityURL = "https://login.microsoftonline.com"

// IdentityTokenService exchanges service-principal credentials for a
// short-lived bearer token scoped to the control-plane audience. Each call
// re-authenticates; tokens are never cached beyond the current flow.
type IdentityTokenService struct {
	tenantID     string
	clientID     string
	clientSecret string
	scope        string
	tokenURL     string
	timeout      time.Duration
}

func NewIdentityTokenService(cfg *config.Config) *IdentityTokenService {
	authority := cfg.AuthorityURL
	if authority == "" {
		authority = defaultAuthorityURL
	}
	return &IdentityTokenService{
		tenantID:     cfg.TenantID,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		scope:        cfg.Scope,
		tokenURL:     fmt.Sprintf("%s/%s/oauth2/v2.0/token", authority, cfg.TenantID),
		timeout:      cfg.HTTPTimeout,
	}
}

// AcquireToken performs the client-credentials exchange. Failure is fatal to
// the flow; no retry happens here because retrying with known-bad credentials
// cannot succeed.
func (s *IdentityTokenService) AcquireToken(ctx context.Context) (*models.BearerToken, error) {
	cc := clientcredentials.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		TokenURL:     s.tokenURL,
		Scopes:       []string{s.scope},
	}

	httpClient := &http.Client{Timeout: s.timeout}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)

	tok, err := cc.Token(ctx)
	if err != nil {
		return nil, &AuthenticationError{TenantID: s.tenantID, Err: err}
	}
	if tok.AccessToken == "" {
		return nil, &AuthenticationError{TenantID: s.tenantID, Err: fmt.Errorf("token response has no access token")}
	}

	expiry := tok.Expiry
	if expiry.IsZero() {
		// Some token endpoints omit expires_in; the access token itself still
		// carries an exp claim we can read without verifying the signature.
		if exp, expErr := utils.TokenExpiry(tok.AccessToken); expErr == nil {
			expiry = exp
		}
	}
	if !expiry.IsZero() && !expiry.After(time.Now()) {
		return nil, &AuthenticationError{TenantID: s.tenantID, Err: fmt.Errorf("token is already expired at %s", expiry)}
	}

	return &models.BearerToken{Token: tok.AccessToken, Expiry: expiry}, nil
}
