// Package apikey generates integration credentials. A key is shown exactly
// once at provisioning time and only its stored copy is ever compared.
package apikey

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// Prefix marks gateway keys so they are recognizable in logs and configs
// without exposing the secret part.
const Prefix = "qk_"

const secretBytes = 32

// New generates a fresh API key: the prefix plus 32 random bytes in URL-safe
// base64 without padding.
func New() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("apikey: %w", err)
	}
	return Prefix + base64.RawURLEncoding.EncodeToString(buf), nil
}

// Looks reports whether raw is shaped like one of our keys. It does not
// validate the secret, only the format.
func Looks(raw string) bool {
	if !strings.HasPrefix(raw, Prefix) {
		return false
	}
	secret := raw[len(Prefix):]
	if len(secret) < 40 {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(secret)
	return err == nil
}

// Mask renders a key safe for display: prefix and last four characters.
func Mask(raw string) string {
	if len(raw) <= len(Prefix)+4 {
		return Prefix + "****"
	}
	return Prefix + "****" + raw[len(raw)-4:]
}
