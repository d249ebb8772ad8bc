package pass

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"campus-portal/internal/models"

	"github.com/skip2/go-qrcode"
)

var ErrInvalidPass = errors.New("invalid registration pass")

type Generator struct {
	secret []byte
}

func NewGenerator(secret string) *Generator {
	hashed := sha256.Sum256([]byte(secret))
	return &Generator{secret: hashed[:]}
}

// Payload is the signed text encoded in the QR image.
func (g *Generator) Payload(reg models.Registration) (string, error) {
	data, err := json.Marshal(reg)
	if err != nil {
		return "", err
	}
	body := base64.RawURLEncoding.EncodeToString(data)
	return body + "." + base64.RawURLEncoding.EncodeToString(g.sign([]byte(body))), nil
}

// GeneratePNG renders the signed payload as a 256px QR code.
func (g *Generator) GeneratePNG(reg models.Registration) ([]byte, error) {
	payload, err := g.Payload(reg)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(payload, qrcode.Medium, 256)
}

// Verify checks the signature and returns the registration it carries.
func (g *Generator) Verify(payload string) (models.Registration, error) {
	body, sig, ok := strings.Cut(payload, ".")
	if !ok {
		return models.Registration{}, ErrInvalidPass
	}
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(got, g.sign([]byte(body))) {
		return models.Registration{}, ErrInvalidPass
	}
	data, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return models.Registration{}, ErrInvalidPass
	}
	var reg models.Registration
	if err := json.Unmarshal(data, &reg); err != nil {
		return models.Registration{}, ErrInvalidPass
	}
	return reg, nil
}

func (g *Generator) sign(body []byte) []byte {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write(body)
	return mac.Sum(nil)
}
