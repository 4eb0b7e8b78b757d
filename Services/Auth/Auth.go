package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// JWTClaims represents the JWT token claims
type JWTClaims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

var (
	JWTSecret     []byte
	TokenValidity = 24 * time.Hour // Token expires in 24 hours
)

// Initauth initializes the JWT authentication system
func Initauth() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// Generate a random secret if not provided (for development only)
		// In production, JWT_SECRET should be set in environment
		zap.S().Warn("JWT_SECRET not set, generating random secret (not recommended for production)")
		secretBytes := make([]byte, 32)
		if _, err := rand.Read(secretBytes); err != nil {
			zap.S().Fatalf("Failed to generate JWT secret: %v", err)
		}
		secret = base64.URLEncoding.EncodeToString(secretBytes)
	}
	JWTSecret = []byte(secret)

	if validityStr := os.Getenv("JWT_TOKEN_VALIDITY_HOURS"); validityStr != "" {
		if hours, err := time.ParseDuration(validityStr + "h"); err == nil {
			TokenValidity = hours
		}
	}
}

// GenerateToken creates a new JWT token for a user
func GenerateToken(uid string) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenValidity)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "chai-backend",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(JWTSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// VerifyToken verifies and parses a JWT token
func VerifyToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return JWTSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// GetClaims extracts and verifies the JWT token from the Authorization
// header. The second return is false when no valid acting user is attached.
func GetClaims(r *http.Request) (*Token, bool) {
	tokenString := GetAuthToken(r)
	if tokenString == "" {
		return nil, false
	}

	claims, err := VerifyToken(tokenString)
	if err != nil {
		return nil, false
	}

	return &Token{UID: claims.UID}, true
}

// Token represents the acting user attached to a request
type Token struct {
	UID string
}
