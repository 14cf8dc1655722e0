// Package giftcode generates the unique human-shareable codes printed on
// gift cards. The wire format is fixed: PO-XXXX-XXXX-XXXX, 12 uppercase hex
// digits derived from 8 cryptographically random bytes. Uniqueness is
// ultimately enforced by the store's unique constraint on the code column.
package giftcode

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const Prefix = "PO"

var codePattern = regexp.MustCompile(`^PO-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}$`)

// Generator produces gift card codes from an entropy source
type Generator struct {
	rand io.Reader
}

// NewGenerator creates a generator backed by crypto/rand
func NewGenerator() *Generator {
	return &Generator{rand: rand.Reader}
}

// NewGeneratorWithSource creates a generator with a custom entropy source,
// used by tests that need deterministic codes
func NewGeneratorWithSource(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// Generate returns a new code in the form PO-XXXX-XXXX-XXXX
func (g *Generator) Generate() (string, error) {
	buf := make([]byte, 8)
	if _, err := io.ReadFull(g.rand, buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	// 8 bytes hex-encode to 16 digits; the code uses the first 12,
	// grouped in 4s
	digits := strings.ToUpper(hex.EncodeToString(buf))[:12]

	return fmt.Sprintf("%s-%s-%s-%s", Prefix, digits[0:4], digits[4:8], digits[8:12]), nil
}

// Valid reports whether s matches the gift card code format
func Valid(s string) bool {
	return codePattern.MatchString(s)
}
