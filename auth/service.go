package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/viant/mcp-protocol/authorization"
)

// Service derives the caller namespace from a JWT placed in context by the
// MCP auth middleware. Credentials are stored per namespace so independent
// callers never share a token. Without a token the default namespace is used.
type Service struct {
	// DefaultNamespace is returned when no token is present or the claims
	// carry no usable identity.
	DefaultNamespace string
	// Parse turns a token string into claims (unverified parse by default;
	// verification is the auth middleware's job).
	Parse func(token string) (jwt.MapClaims, error)
	// Extract picks the namespace out of the claims.
	Extract func(jwt.MapClaims) (string, bool)
}

// Namespace resolves the caller identity scoping for credential storage.
func (s *Service) Namespace(ctx context.Context) (string, error) {
	if s == nil {
		return "default", nil
	}
	value := ctx.Value(authorization.TokenKey)
	if value == nil {
		return s.DefaultNamespace, nil
	}
	var tokenString string
	switch v := value.(type) {
	case string:
		tokenString = v
	case *authorization.Token:
		tokenString = v.Token
	default:
		return "", fmt.Errorf("unsupported token type %T", value)
	}
	if s.Parse != nil && s.Extract != nil {
		if claims, err := s.Parse(tokenString); err == nil {
			if ns, ok := s.Extract(claims); ok && ns != "" {
				return ns, nil
			}
		}
	}
	return s.DefaultNamespace, nil
}

// New returns a Service extracting "email" then "sub" from unverified claims.
func New() *Service {
	return &Service{
		DefaultNamespace: "default",
		Parse: func(tokenString string) (jwt.MapClaims, error) {
			var claims jwt.MapClaims
			_, _, err := new(jwt.Parser).ParseUnverified(tokenString, &claims)
			return claims, err
		},
		Extract: func(claims jwt.MapClaims) (string, bool) {
			if email, _ := claims["email"].(string); email != "" {
				return email, true
			}
			if sub, _ := claims["sub"].(string); sub != "" {
				return sub, true
			}
			return "", false
		},
	}
}
