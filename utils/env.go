package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
	"os"
	"strings"
)

// EnvOrDefault returns ENV value or fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// IsDevelopment reports whether detailed upstream errors may be exposed in
// responses.
func IsDevelopment() bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv("APP_ENV")), "development")
}

const referenceCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomCode builds an A-Z0-9 string using crypto/rand + rand.Int to avoid
// modulo bias.
func randomCode(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid length")
	}
	var sb strings.Builder
	alphaLen := big.NewInt(int64(len(referenceCharset)))
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, alphaLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(referenceCharset[num.Int64()])
	}
	return sb.String(), nil
}

// GenerateReservationCode returns a reference like "RSV-K4D93KF2".
func GenerateReservationCode() (string, error) {
	code, err := randomCode(8)
	if err != nil {
		return "", err
	}
	return "RSV-" + code, nil
}
