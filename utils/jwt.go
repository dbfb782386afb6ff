package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// TokenClaims is the subset of a bearer token the API acts on.
type TokenClaims struct {
	Subject string
	Name    string
	Role    string
}

// GenerateToken creates a signed HS256 token for subject with the given role.
func GenerateToken(secret []byte, subject, name, role string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"name": name,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(secret []byte, tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
}

// ParseClaims validates tokenString and extracts its subject, name and role.
func ParseClaims(secret []byte, tokenString string) (*TokenClaims, error) {
	token, err := ValidateToken(secret, tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)
	return &TokenClaims{Subject: sub, Name: name, Role: role}, nil
}
