// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	usernamePrefix   = "user_"
	usernameLength   = 8
	usernameAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// GenerateUsername returns an identity-provider username that never
// collides with an email address: "user_" plus eight base36 characters.
func GenerateUsername() (string, error) {
	limit := big.NewInt(int64(len(usernameAlphabet)))
	buf := make([]byte, usernameLength)

	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate username: %w", err)
		}
		buf[i] = usernameAlphabet[n.Int64()]
	}

	return usernamePrefix + string(buf), nil
}

func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// IsStrongPassword wants at least eight characters with an upper case
// letter, a digit and a non word character. Lower case is not required.
func IsStrongPassword(password string) bool {
	if utf8.RuneCountInString(password) < 8 {
		return false
	}

	var upper, digit, symbol bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsDigit(c):
			digit = true
		case c != '_' && !unicode.IsLetter(c):
			symbol = true
		}
	}

	return upper && digit && symbol
}

// HashToken keys revocation entries without storing bearer tokens.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func IsValidID(id string) bool {
	return uuid.Validate(id) == nil
}
