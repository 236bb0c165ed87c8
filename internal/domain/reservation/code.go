package reservation

import (
	"crypto/rand"
	"errors"
	"math/big"
	"regexp"
)

const codeLength = 8

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var codePattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

var ErrInvalidConfirmationCode = errors.New("invalid confirmation code")

// GenerateConfirmationCode returns a random 8-character uppercase
// alphanumeric code. Uniqueness is the ledger's job; callers must re-draw on
// collision.
func GenerateConfirmationCode() (string, error) {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

func ValidateConfirmationCode(code string) error {
	if !codePattern.MatchString(code) {
		return ErrInvalidConfirmationCode
	}
	return nil
}
