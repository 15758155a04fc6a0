package services

import (
	"errors"
	"time"

	"charmtap/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type CustomClaims struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsBot        bool   `json:"is_bot"`
	IsPremium    bool   `json:"is_premium"`
	LanguageCode string `json:"language_code"`
	PhotoURL     string `json:"photo_url"`
	jwt.RegisteredClaims
}

type Authentication struct {
	secret string
}

func NewAuthentication(secret string) (*Authentication, error) {
	return &Authentication{secret}, nil
}

func (authentication *Authentication) CreateToken(user *models.UserFromAuth) (string, error) {
	claims := CustomClaims{
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsBot:        user.IsBot,
		IsPremium:    user.IsPremium,
		LanguageCode: user.LanguageCode,
		PhotoURL:     user.PhotoURL,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(authentication.secret))
}

// ValidateInitData satisfies the same verifier shape as the bot; the "init
// data" on authenticated routes is the JWT issued by /user/me.
func (authentication *Authentication) ValidateInitData(token string) (*models.UserFromAuth, error) {
	return authentication.Validate(token)
}

func (authentication *Authentication) Validate(token string) (*models.UserFromAuth, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		return []byte(authentication.secret), nil
	}
	jwtToken, err := jwt.ParseWithClaims(token, &CustomClaims{}, keyFunc)
	if err != nil {
		return nil, err
	}

	claims, ok := jwtToken.Claims.(*CustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	return &models.UserFromAuth{
		ID:           claims.ID,
		Username:     claims.Username,
		FirstName:    claims.FirstName,
		LastName:     claims.LastName,
		IsBot:        claims.IsBot,
		IsPremium:    claims.IsPremium,
		LanguageCode: claims.LanguageCode,
		PhotoURL:     claims.PhotoURL,
	}, nil
}
