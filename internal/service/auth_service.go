package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"quizlive/internal/config"
	"quizlive/internal/model"
)

var (
	ErrInvalidPIN   = errors.New("invalid admin PIN")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// AuthService gates the presenter area behind the shared admin PIN and hands
// out the JWTs both roles use on the wire. The PIN is the only credential; it
// is compared in plain text, which is as far as this game's security goes.
type AuthService struct {
	adminPIN  string
	jwtSecret []byte
}

// NewAuthService creates an auth service. An empty PIN falls back to the
// built-in default, with a warning so operators notice.
func NewAuthService(adminPIN, jwtSecret string) *AuthService {
	if adminPIN == "" {
		adminPIN = config.DefaultAdminPIN
		log.Warn().Msg("ADMIN_PIN not set, using built-in default")
	}
	return &AuthService{
		adminPIN:  adminPIN,
		jwtSecret: []byte(jwtSecret),
	}
}

// LoginPIN validates the presenter PIN and returns a host token.
func (s *AuthService) LoginPIN(pin string) (*model.LoginResponse, error) {
	if pin != s.adminPIN {
		return nil, ErrInvalidPIN
	}

	hostID := "host_" + uuid.New().String()[:8]
	claims := &model.HostClaims{
		HostID: hostID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{Token: tokenString, HostID: hostID}, nil
}

// ValidateHostToken validates a presenter JWT and returns its claims.
func (s *AuthService) ValidateHostToken(tokenString string) (*model.HostClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.HostClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*model.HostClaims)
	if !ok || !token.Valid || claims.HostID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GeneratePlayerToken creates a participant-scoped token at registration.
func (s *AuthService) GeneratePlayerToken(participantID, name string) (string, error) {
	claims := &model.PlayerClaims{
		ParticipantID: participantID,
		Name:          name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidatePlayerToken validates a participant JWT and returns its claims.
func (s *AuthService) ValidatePlayerToken(tokenString string) (*model.PlayerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.PlayerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*model.PlayerClaims)
	if !ok || !token.Valid || claims.ParticipantID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
