package jwt

import (
	"testing"
	"time"

	"hanafiyah/contexts/identity-access/account-service/ports"
)

func TestIssueAndParseRoundTrip(t *testing.T) {
	tokens, err := NewHMACTokens("0123456789abcdef-secret", "hanafiyah")
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	now := time.Now().UTC().Truncate(time.Second)
	raw, err := tokens.Issue(ports.TokenClaims{
		TokenID:   "jti-1",
		UserID:    42,
		Kind:      ports.TokenRefresh,
		IsUstaz:   true,
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.Kind != ports.TokenRefresh || claims.TokenID != "jti-1" || !claims.IsUstaz {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseRejectsForeignSecretAndExpired(t *testing.T) {
	issuer, _ := NewHMACTokens("0123456789abcdef-secret", "hanafiyah")
	other, _ := NewHMACTokens("another-secret-0123456789", "hanafiyah")
	now := time.Now().UTC()

	raw, _ := issuer.Issue(ports.TokenClaims{TokenID: "a", UserID: 1, Kind: ports.TokenAccess, IssuedAt: now, ExpiresAt: now.Add(time.Minute)})
	if _, err := other.Parse(raw); err == nil {
		t.Fatalf("expected signature failure")
	}

	expired, _ := issuer.Issue(ports.TokenClaims{TokenID: "b", UserID: 1, Kind: ports.TokenAccess, IssuedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)})
	if _, err := issuer.Parse(expired); err == nil {
		t.Fatalf("expected expiry failure")
	}
}

func TestNewHMACTokensRequiresLongSecret(t *testing.T) {
	if _, err := NewHMACTokens("short", ""); err == nil {
		t.Fatalf("expected short secret to be rejected")
	}
}
