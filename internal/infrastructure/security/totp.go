package security

import (
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "AI Hub"

// TOTPService wraps the time-based one-time password flow used as the
// optional second factor.
type TOTPService struct{}

func NewTOTPService() *TOTPService {
	return &TOTPService{}
}

// GenerateSecret creates a fresh base32 secret for a user and returns it
// together with the otpauth:// provisioning URL for authenticator apps.
func (s *TOTPService) GenerateSecret(username string) (secret, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: username,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

// Validate checks a 6-digit code against the stored secret. The default
// validation window allows one 30s period of clock skew either way.
func (s *TOTPService) Validate(code, secret string) bool {
	return totp.Validate(code, secret)
}
