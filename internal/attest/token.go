package attest

import (
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token is the parsed form of an execution attestation. The authority signs
// these with EdDSA; the jti feeds replay prevention via the revocation cache.
type Token struct {
	JTI       string
	Subject   string
	ExpiresAt time.Time
	Raw       string
}

// ParseToken extracts claims without verifying the signature. Use this when
// only the jti or expiry is needed, e.g. to seed a revocation lookup.
func ParseToken(raw string) (Token, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return Token{}, fmt.Errorf("parse attestation token: %w", err)
	}
	return fromClaims(raw, claims), nil
}

// VerifyToken parses and verifies an execution attestation against the
// authority's Ed25519 public key.
func VerifyToken(raw string, publicKey ed25519.PublicKey) (Token, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}))
	if err != nil {
		return Token{}, fmt.Errorf("verify attestation token: %w", err)
	}
	return fromClaims(raw, claims), nil
}

func fromClaims(raw string, claims *jwt.RegisteredClaims) Token {
	tok := Token{
		JTI:     claims.ID,
		Subject: claims.Subject,
		Raw:     raw,
	}
	if claims.ExpiresAt != nil {
		tok.ExpiresAt = claims.ExpiresAt.Time
	}
	return tok
}
