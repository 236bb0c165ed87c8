package order

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
)

const numberSuffixBytes = 4 // 8 hex characters

var numberSuffixPattern = regexp.MustCompile(`^[0-9A-F]{8}$`)

var ErrInvalidOrderNumber = errors.New("invalid order number")

// NumberGenerator issues human-readable order numbers: a fixed prefix plus
// 8 uppercase hex characters. Global uniqueness is enforced by the store;
// callers re-draw on collision.
type NumberGenerator struct {
	prefix string
}

func NewNumberGenerator(prefix string) *NumberGenerator {
	return &NumberGenerator{prefix: prefix}
}

func (g *NumberGenerator) Generate() (string, error) {
	buf := make([]byte, numberSuffixBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return g.prefix + strings.ToUpper(hex.EncodeToString(buf)), nil
}

func (g *NumberGenerator) Validate(number string) error {
	suffix, ok := strings.CutPrefix(number, g.prefix)
	if !ok || !numberSuffixPattern.MatchString(suffix) {
		return ErrInvalidOrderNumber
	}
	return nil
}

// ValidateOrderNumber checks shape without knowing the configured prefix:
// non-empty prefix followed by an 8-char uppercase hex suffix.
func ValidateOrderNumber(number string) error {
	if len(number) <= 8 {
		return ErrInvalidOrderNumber
	}
	if !numberSuffixPattern.MatchString(number[len(number)-8:]) {
		return ErrInvalidOrderNumber
	}
	return nil
}
