package identity

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

// Claims carries the token fields the service consumes. Subject must be the
// auth provider's stable user identifier (a UUID for supported providers).
type Claims struct {
	Subject string
	Email   string
	Name    string
}

// TokenVerifier validates a raw bearer token and extracts claims.
// Implemented by OIDCVerifier in production and by fakes in tests.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Claims, error)
}

// OIDCVerifier verifies bearer tokens against the managed auth provider
// using OIDC discovery.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier discovers the provider configuration and constructs a
// verifier for the configured audience.
func NewOIDCVerifier(ctx context.Context, issuer, audience string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("discover oidc provider: %w", err)
	}

	return &OIDCVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: audience}),
	}, nil
}

func (v *OIDCVerifier) Verify(ctx context.Context, rawToken string) (*Claims, error) {
	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	var extra struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := token.Claims(&extra); err != nil {
		return nil, fmt.Errorf("%w: decode claims: %w", ErrUnauthorized, err)
	}

	return &Claims{
		Subject: token.Subject,
		Email:   extra.Email,
		Name:    extra.Name,
	}, nil
}
