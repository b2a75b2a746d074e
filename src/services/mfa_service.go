// backend/src/services/mfa_service.go
package services

import (
	"bytes"
	"encoding/base64"
	"image/png"

	"github.com/pquerna/otp/totp"
)

type MFAService struct{}

func NewMFAService() *MFAService {
	return &MFAService{}
}

// GenerateMFASecret creates a new TOTP secret and returns it together with
// a base64 PNG QR code for the frontend to display.
func (s *MFAService) GenerateMFASecret(username string) (secret string, qrCodeBase64 string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "DiviLog",
		AccountName: username,
	})
	if err != nil {
		return "", "", err
	}

	var buf bytes.Buffer
	img, err := key.Image(200, 200)
	if err != nil {
		return "", "", err
	}

	if err := png.Encode(&buf, img); err != nil {
		return "", "", err
	}

	qrCodeBase64 = base64.StdEncoding.EncodeToString(buf.Bytes())
	return key.Secret(), qrCodeBase64, nil
}

// ValidateToken checks a TOTP code against the stored secret, allowing for
// slight clock skew.
func (s *MFAService) ValidateToken(secret string, token string) bool {
	return totp.Validate(token, secret)
}
