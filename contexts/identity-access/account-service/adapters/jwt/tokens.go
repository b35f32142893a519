package jwt

import (
	"errors"
	"fmt"
	"strconv"

	"hanafiyah/contexts/identity-access/account-service/ports"

	gojwt "github.com/golang-jwt/jwt/v5"
)

type claims struct {
	Type    string `json:"typ"`
	IsStaff bool   `json:"is_staff,omitempty"`
	IsUstaz bool   `json:"is_ustaz,omitempty"`
	gojwt.RegisteredClaims
}

// HMACTokens signs HS256 tokens with a shared secret.
type HMACTokens struct {
	Secret []byte
	Issuer string
}

func NewHMACTokens(secret string, issuer string) (HMACTokens, error) {
	if len(secret) < 16 {
		return HMACTokens{}, errors.New("jwt secret must be at least 16 bytes")
	}
	return HMACTokens{Secret: []byte(secret), Issuer: issuer}, nil
}

func (t HMACTokens) Issue(in ports.TokenClaims) (string, error) {
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims{
		Type:    string(in.Kind),
		IsStaff: in.IsStaff,
		IsUstaz: in.IsUstaz,
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        in.TokenID,
			Issuer:    t.Issuer,
			Subject:   strconv.FormatInt(in.UserID, 10),
			IssuedAt:  gojwt.NewNumericDate(in.IssuedAt),
			ExpiresAt: gojwt.NewNumericDate(in.ExpiresAt),
		},
	})
	return token.SignedString(t.Secret)
}

func (t HMACTokens) Parse(raw string) (ports.TokenClaims, error) {
	var parsed claims
	options := []gojwt.ParserOption{gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()})}
	if t.Issuer != "" {
		options = append(options, gojwt.WithIssuer(t.Issuer))
	}
	_, err := gojwt.ParseWithClaims(raw, &parsed, func(*gojwt.Token) (interface{}, error) {
		return t.Secret, nil
	}, options...)
	if err != nil {
		return ports.TokenClaims{}, fmt.Errorf("parse jwt: %w", err)
	}
	userID, err := strconv.ParseInt(parsed.Subject, 10, 64)
	if err != nil {
		return ports.TokenClaims{}, fmt.Errorf("parse jwt subject: %w", err)
	}
	out := ports.TokenClaims{
		TokenID: parsed.ID,
		UserID:  userID,
		Kind:    ports.TokenKind(parsed.Type),
		IsStaff: parsed.IsStaff,
		IsUstaz: parsed.IsUstaz,
	}
	if parsed.IssuedAt != nil {
		out.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	if parsed.ExpiresAt != nil {
		out.ExpiresAt = parsed.ExpiresAt.Time.UTC()
	}
	return out, nil
}

var _ ports.TokenIssuer = HMACTokens{}
