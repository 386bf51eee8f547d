package service

import (
	"chosung_quiz_backend/internal/config"
	"chosung_quiz_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
)

// AuthService exchanges the operator token for an admin JWT. The config
// holds only a bcrypt hash of the token; an empty hash disables the whole
// admin surface.
type AuthService struct {
	cfg *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

func (s *AuthService) AdminLogin(token string) (string, error) {
	if s.cfg.Admin.TokenHash == "" {
		return "", util.ErrAdminDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.Admin.TokenHash), []byte(token)); err != nil {
		return "", util.ErrInvalidAdminToken
	}

	return util.GenerateJWT(util.RoleAdmin, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
}
