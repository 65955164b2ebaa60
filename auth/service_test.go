package auth

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/viant/mcp-protocol/authorization"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestService_Namespace(t *testing.T) {
	svc := New()

	t.Run("no token falls back to default", func(t *testing.T) {
		ns, err := svc.Namespace(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ns != "default" {
			t.Fatalf("expected default namespace, got %q", ns)
		}
	})

	t.Run("email claim wins", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"email": "alice@example.com", "sub": "user-1"})
		ctx := context.WithValue(context.Background(), authorization.TokenKey, token)
		ns, err := svc.Namespace(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ns != "alice@example.com" {
			t.Fatalf("expected email namespace, got %q", ns)
		}
	})

	t.Run("sub claim when email absent", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"sub": "user-1"})
		ctx := context.WithValue(context.Background(), authorization.TokenKey, token)
		ns, err := svc.Namespace(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ns != "user-1" {
			t.Fatalf("expected sub namespace, got %q", ns)
		}
	})

	t.Run("structured token value", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"email": "bob@example.com"})
		ctx := context.WithValue(context.Background(), authorization.TokenKey, &authorization.Token{Token: token})
		ns, err := svc.Namespace(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ns != "bob@example.com" {
			t.Fatalf("expected email namespace, got %q", ns)
		}
	})

	t.Run("malformed token falls back to default", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), authorization.TokenKey, "not-a-jwt")
		ns, err := svc.Namespace(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ns != "default" {
			t.Fatalf("expected default namespace, got %q", ns)
		}
	})

	t.Run("nil service", func(t *testing.T) {
		var nilSvc *Service
		ns, err := nilSvc.Namespace(context.Background())
		if err != nil || ns != "default" {
			t.Fatalf("expected default for nil service, got %q %v", ns, err)
		}
	})
}
