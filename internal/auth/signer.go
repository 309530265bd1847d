package auth

import (
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Errors returned by VerifyAccessToken / VerifyAppToken.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// UserClaims are carried by a user-access token.
type UserClaims struct {
	Scopes []string `json:"scopes"`
	Role   string   `json:"role"`
	jwt.RegisteredClaims
}

// AppClaims are carried by a client_credentials app-access token.
type AppClaims struct {
	GrantType string `json:"grant_type"`
	jwt.RegisteredClaims
}

// TokenSigner loads an RSA key pair once at start-up and issues/verifies
// RS256 JWTs for the two claim shapes the OAuth2 engine needs. Keys are
// immutable after NewTokenSigner returns — safe for concurrent use
// without synchronization.
type TokenSigner struct {
	privateKey    *rsa.PrivateKey
	publicKey     *rsa.PublicKey
	issuer        string
	accessExpiry  time.Duration
}

// LoadTokenSigner reads the PEM-encoded private/public key pair from the
// given file paths.
func LoadTokenSigner(privateKeyPath, publicKeyPath, issuer string, accessExpiry time.Duration) (*TokenSigner, error) {
	privPEM, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}
	pubPEM, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key: %w", err)
	}
	return NewTokenSigner(privPEM, pubPEM, issuer, accessExpiry)
}

// NewTokenSigner parses PEM bytes directly — used by LoadTokenSigner and
// by tests that generate an in-memory key pair.
func NewTokenSigner(privPEM, pubPEM []byte, issuer string, accessExpiry time.Duration) (*TokenSigner, error) {
	priv, err := parseRSAPrivateKey(privPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	pub, err := parseRSAPublicKey(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	return &TokenSigner{
		privateKey:   priv,
		publicKey:    pub,
		issuer:       issuer,
		accessExpiry: accessExpiry,
	}, nil
}

func parseRSAPrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("key is not an RSA private key")
	}
	return rsaKey, nil
}

func parseRSAPublicKey(pemBytes []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}
	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("key is not an RSA public key")
	}
	return rsaKey, nil
}

// IssueAccessToken issues a user-access JWT.
func (s *TokenSigner) IssueAccessToken(userID, clientID string, scopes []string, role string) (string, error) {
	now := time.Now()
	claims := UserClaims{
		Scopes: scopes,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Audience:  jwt.ClaimStrings{clientID},
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(s.privateKey)
}

// IssueAppToken issues a client_credentials app-access JWT.
func (s *TokenSigner) IssueAppToken(appID string) (string, error) {
	now := time.Now()
	claims := AppClaims{
		GrantType: "client_credentials",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   appID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(s.privateKey)
}

// VerifyAccessToken parses and verifies a user-access token. Audience is
// intentionally NOT checked here: the issuer is this central service, and
// the audience names the relying application the token was issued for,
// not the verifier.
func (s *TokenSigner) VerifyAccessToken(tokenString string) (*UserClaims, error) {
	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, classifyJWTError(err)
	}
	if !token.Valid || claims.Subject == "" || len(claims.Audience) == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyAppToken parses and verifies an app-access token issued via
// client_credentials.
func (s *TokenSigner) VerifyAppToken(tokenString string) (*AppClaims, error) {
	claims := &AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, classifyJWTError(err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// PublicJWK renders the signer's public key as a single RFC 7517 JWK for
// GET /.well-known/jwks.json. The key id is the hex encoding of the first
// 8 bytes of a SHA-256 hash of the key's modulus, so it changes if the key
// pair is ever rotated.
func (s *TokenSigner) PublicJWK() map[string]any {
	n := base64.RawURLEncoding.EncodeToString(s.publicKey.N.Bytes())
	e := base64.RawURLEncoding.EncodeToString(big.NewInt(int64(s.publicKey.E)).Bytes())
	sum := sha256.Sum256(s.publicKey.N.Bytes())
	return map[string]any{
		"kty": "RSA",
		"use": "sig",
		"alg": "RS256",
		"kid": hex.EncodeToString(sum[:8]),
		"n":   n,
		"e":   e,
	}
}

func (s *TokenSigner) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return s.publicKey, nil
}

func classifyJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrExpiredToken
	}
	return ErrInvalidToken
}
