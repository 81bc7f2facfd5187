package services

import (
	"github.com/ishow/feedback-backend/pkg/utils"
)

// AdminAuth compares submitted keys against the configured admin secret.
// The secret is either plain text or an argon2id hash from utils.HashPassword.
type AdminAuth struct {
	secret string
}

func NewAdminAuth(secret string) *AdminAuth {
	return &AdminAuth{secret: secret}
}

// Check returns ErrMissingKey for an empty key and ErrUnauthorized for any mismatch.
// An unset secret rejects every key.
func (a *AdminAuth) Check(key string) error {
	if key == "" {
		return ErrMissingKey
	}
	if a.secret == "" {
		return ErrUnauthorized
	}
	if utils.IsPasswordHash(a.secret) {
		ok, err := utils.VerifyPassword(key, a.secret)
		if err != nil || !ok {
			return ErrUnauthorized
		}
		return nil
	}
	if !utils.SecureCompare(key, a.secret) {
		return ErrUnauthorized
	}
	return nil
}
