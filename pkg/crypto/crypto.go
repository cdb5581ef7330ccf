package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash of the supplied password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares the hashed password with the plaintext candidate.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// GenerateToken returns a random URL-safe token of the requested byte length.
func GenerateToken(length int) (string, error) {
	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// GenerateNumericCode returns a fixed-width numeric code drawn uniformly from
// [10^(digits-1), 10^digits). A 6-digit code therefore spans 100000-999999 and
// never carries a leading zero.
func GenerateNumericCode(digits int) (string, error) {
	if digits < 4 || digits > 9 {
		return "", errors.New("crypto: code width must be between 4 and 9 digits")
	}

	low := uint64(1)
	for i := 1; i < digits; i++ {
		low *= 10
	}
	span := low*10 - low

	// Rejection sampling keeps the draw uniform over the span.
	limit := (^uint64(0) / span) * span
	var buf [8]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			return "", err
		}
		v := binary.BigEndian.Uint64(buf[:])
		if v >= limit {
			continue
		}
		return strconv.FormatUint(low+v%span, 10), nil
	}
}
