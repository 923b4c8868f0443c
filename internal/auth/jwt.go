package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTManager issues and validates the HS256 access tokens used by the API.
// Every token is scoped to one workspace; the workspace id travels as a
// custom claim next to the user id subject.
type JWTManager struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
}

// NewJWTManager creates a new JWT manager.
// secret must be at least 32 characters for HS256 security.
func NewJWTManager(secret string, issuer string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:    []byte(secret),
		issuer:    issuer,
		accessTTL: accessTTL,
	}
}

// accessClaims extends standard JWT claims with the workspace scope.
type accessClaims struct {
	jwt.RegisteredClaims
	WorkspaceID string `json:"workspace_id"`
}

// GenerateAccessToken creates a signed HS256 JWT with the user id as subject
// and the workspace id as a custom claim.
func (m *JWTManager) GenerateAccessToken(userID, workspaceID uuid.UUID) (string, error) {
	now := time.Now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		WorkspaceID: workspaceID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ValidateAccessToken parses and validates a JWT access token.
// Returns the user ID and workspace ID if valid.
func (m *JWTManager) ValidateAccessToken(tokenString string) (uuid.UUID, uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, uuid.Nil, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})

	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid token claims")
	}

	if claims.Issuer != m.issuer {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid issuer: expected %s, got %s", m.issuer, claims.Issuer)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid subject UUID: %w", err)
	}

	workspaceID, err := uuid.Parse(claims.WorkspaceID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid workspace UUID: %w", err)
	}

	return userID, workspaceID, nil
}
