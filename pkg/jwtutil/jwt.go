package jwtutil

import (
	"time"

	"grow-service/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	signingKey     []byte
	expirationTime time.Duration
)

// MemberClaims represents the JWT claims identifying the acting club member
type MemberClaims struct {
	Email    string `json:"email"`
	MemberID uint   `json:"member_id"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Initialize configures the JWT utility from the application config
func Initialize(cfg *config.JWTConfig) {
	signingKey = []byte(cfg.SigningKey)
	expirationTime = cfg.ExpirationTime
}

// GenerateToken creates a signed token for a member. The dashboard's auth
// service is the real issuer; this is used for service-local tooling and tests.
func GenerateToken(memberID uint, email, role string) (string, error) {
	claims := MemberClaims{
		Email:    email,
		MemberID: memberID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expirationTime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*MemberClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &MemberClaims{}, func(token *jwt.Token) (interface{}, error) {
		return signingKey, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*MemberClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
