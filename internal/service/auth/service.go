package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/medhub/ambulatorio-api/internal/config"
	"github.com/medhub/ambulatorio-api/internal/model"
	apperrors "github.com/medhub/ambulatorio-api/pkg/errors"
)

// Claims carried in the access token. Ambulatori is copied in so site access
// can be checked without touching configuration on every request.
type Claims struct {
	Username   string   `json:"username"`
	Ambulatori []string `json:"ambulatori"`
	jwt.RegisteredClaims
}

// Service authenticates the clinic's operator accounts. Accounts live in
// configuration; there is no registration or password change flow.
type Service struct {
	users  map[string]model.User
	secret []byte
	expiry time.Duration
}

func NewService(cfg config.JWTConfig, users []model.User) *Service {
	byName := make(map[string]model.User, len(users))
	for _, u := range users {
		byName[u.Username] = u
	}
	return &Service{
		users:  byName,
		secret: []byte(cfg.Secret),
		expiry: time.Duration(cfg.ExpiryHours) * time.Hour,
	}
}

func (s *Service) Login(req *model.LoginRequest) (*model.TokenResponse, error) {
	user, ok := s.users[req.Username]
	if !ok {
		return nil, apperrors.Unauthorized(fmt.Errorf("unknown user %q", req.Username))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username:   user.Username,
		Ambulatori: user.Ambulatori,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		User: model.UserResponse{
			Username:   user.Username,
			Ambulatori: user.Ambulatori,
		},
	}, nil
}

// ParseToken validates the token signature and expiry and returns its claims.
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.Unauthorized(fmt.Errorf("invalid token"))
	}
	return claims, nil
}

// HasAmbulatorio reports whether the claims grant access to the site.
func (c *Claims) HasAmbulatorio(site model.Ambulatorio) bool {
	for _, a := range c.Ambulatori {
		if a == string(site) {
			return true
		}
	}
	return false
}
