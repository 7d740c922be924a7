// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Verification Failures

// Verification failures are split into two sub-reasons so the authentication
// gate can answer with distinct messages. Both map to a 401.
var (
	// ErrTokenMalformed covers bad structure, wrong algorithm, and invalid signatures.
	ErrTokenMalformed = errors.New("sec: malformed or tampered token")

	// ErrTokenExpired covers credentials past their expiry claim.
	ErrTokenExpired = errors.New("sec: token has expired")
)

// Claims is the payload embedded inside a session credential.
//
// Only the subject (user ID) and timestamps are carried. Role and password
// state are deliberately NOT embedded: the gate re-resolves the identity from
// storage on every request so that role changes and the password-staleness
// invariant take effect immediately.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService handles generation and verification of JWT credentials using RS256.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	ttl        time.Duration
}

// NewTokenService creates a new TokenService.
// It reads RSA keys from the provided filesystem paths.
func NewTokenService(privateKeyPath, publicKeyPath, issuer string, ttl time.Duration) (*TokenService, error) {
	privateKeyData, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read private key from %s: %w", privateKeyPath, err)
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
	}

	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		ttl:        ttl,
	}, nil
}

// NewTokenServiceFromKeys constructs a TokenService from in-memory keys.
// Used by tests and by deployments that inject keys without a filesystem.
func NewTokenServiceFromKeys(privateKey *rsa.PrivateKey, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{
		privateKey: privateKey,
		publicKey:  &privateKey.PublicKey,
		issuer:     issuer,
		ttl:        ttl,
	}
}

// Issue creates a signed session credential for the given user ID.
//
// The credential is immutable once issued: it carries the subject,
// issued-at, and expiry, and is only ever verified afterwards.
func (service *TokenService) Issue(userID string) (string, error) {
	return service.IssueAt(userID, time.Now())
}

// IssueAt creates a credential with an explicit issue time.
// Exposed for staleness-invariant tests; production code uses [TokenService.Issue].
func (service *TokenService) IssueAt(userID string, issuedAt time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(service.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signedToken, err := token.SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// TTL returns the configured credential lifetime.
func (service *TokenService) TTL() time.Duration {
	return service.ttl
}

// Verify checks the signature and validity of a credential string.
//
// # Failure Modes
//   - [ErrTokenExpired] for credentials past their expiry.
//   - [ErrTokenMalformed] for everything else (bad structure, wrong
//     algorithm, invalid signature, wrong issuer).
func (service *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.publicKey, nil
	}, jwt.WithIssuer(service.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
