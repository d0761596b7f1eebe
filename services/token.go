package services

import (
	"errors"
	"fmt"
	"time"

	"notekeeper/utils"

	"github.com/golang-jwt/jwt/v5"
)

const TokenIssuer = "notekeeper"

// GenerateToken issues a signed access token carrying the user identity.
func GenerateToken(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user ID is required")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iss":     TokenIssuer,
		"iat":     now.Unix(),
		"exp":     now.Add(time.Duration(utils.JWTExpirationTime) * time.Second).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(utils.JWTSecretKey))
}

// ParseToken verifies the signature, issuer and expiry of a token and
// returns the user ID it carries.
func ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(utils.JWTSecretKey), nil
	}, jwt.WithIssuer(TokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.New("invalid user ID in token")
	}
	return userID, nil
}
