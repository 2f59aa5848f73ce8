package attest

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
)

// =============================================================================
// Attestation Token Test Suite
// =============================================================================

type TokenSuite struct {
	suite.Suite
	public  ed25519.PublicKey
	private ed25519.PrivateKey
}

func TestTokenSuite(t *testing.T) {
	suite.Run(t, new(TokenSuite))
}

func (s *TokenSuite) SetupSuite() {
	var err error
	s.public, s.private, err = ed25519.GenerateKey(rand.Reader)
	s.Require().NoError(err)
}

func (s *TokenSuite) sign(claims jwt.RegisteredClaims) string {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(s.private)
	s.Require().NoError(err)
	return raw
}

func (s *TokenSuite) TestParseToken() {
	expiry := time.Now().Add(5 * time.Minute).Truncate(time.Second)
	raw := s.sign(jwt.RegisteredClaims{
		ID:        "jti-42",
		Subject:   "agent:click",
		ExpiresAt: jwt.NewNumericDate(expiry),
	})

	tok, err := ParseToken(raw)
	s.NoError(err)
	s.Equal("jti-42", tok.JTI)
	s.Equal("agent:click", tok.Subject)
	s.True(tok.ExpiresAt.Equal(expiry))
	s.Equal(raw, tok.Raw)
}

func (s *TokenSuite) TestParseTokenGarbage() {
	_, err := ParseToken("not-a-jwt")
	s.Error(err)
}

func (s *TokenSuite) TestVerifyToken() {
	raw := s.sign(jwt.RegisteredClaims{
		ID:        "jti-7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})

	s.Run("valid signature verifies", func() {
		tok, err := VerifyToken(raw, s.public)
		s.NoError(err)
		s.Equal("jti-7", tok.JTI)
	})

	s.Run("wrong key fails", func() {
		otherPub, _, err := ed25519.GenerateKey(rand.Reader)
		s.Require().NoError(err)
		_, err = VerifyToken(raw, otherPub)
		s.Error(err)
	})

	s.Run("expired token fails verification", func() {
		expired := s.sign(jwt.RegisteredClaims{
			ID:        "jti-old",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		})
		_, err := VerifyToken(expired, s.public)
		s.Error(err)
	})

	s.Run("non-EdDSA algorithm rejected", func() {
		hmacToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ID: "jti-x"}).
			SignedString([]byte("secret"))
		s.Require().NoError(err)
		_, err = VerifyToken(hmacToken, s.public)
		s.Error(err)
	})
}
