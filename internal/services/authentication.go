package services

import (
	"errors"
	"time"

	"cheshired/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const SESSION_TOKEN_TTL = 24 * time.Hour

type CustomClaims struct {
	WalletAddress string `json:"wallet_address"`
	jwt.RegisteredClaims
}

type Authentication struct {
	secret string
}

func NewAuthentication(secret string) (*Authentication, error) {
	if secret == "" {
		return nil, errors.New("empty jwt secret")
	}

	return &Authentication{secret}, nil
}

// CreateToken mints a wallet session token. The wallet address is the only
// identity we carry; everything else lives in the users table.
func (authentication *Authentication) CreateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := CustomClaims{
		WalletAddress: user.WalletAddress,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SESSION_TOKEN_TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(authentication.secret))
}

func (authentication *Authentication) Validate(token string) (string, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		return []byte(authentication.secret), nil
	}
	jwtToken, err := jwt.ParseWithClaims(token, &CustomClaims{}, keyFunc)
	if err != nil {
		return "", err
	}

	claims, ok := jwtToken.Claims.(*CustomClaims)
	if !ok || claims.WalletAddress == "" {
		return "", errors.New("invalid token claims")
	}

	return claims.WalletAddress, nil
}
