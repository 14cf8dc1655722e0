package giftcode

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^PO-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}$`)

	gen := NewGenerator()
	for i := 0; i < 1000; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestGenerateDeterministicWithSeededSource(t *testing.T) {
	source := bytes.NewReader([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02, 0x03, 0x04})
	gen := NewGeneratorWithSource(source)

	code, err := gen.Generate()
	require.NoError(t, err)
	assert.Equal(t, "PO-DEAD-BEEF-0102", code)
}

func TestGenerateNoCollisions(t *testing.T) {
	gen := NewGenerator()
	seen := make(map[string]struct{}, 20000)

	for i := 0; i < 20000; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		_, dup := seen[code]
		require.False(t, dup, "collision on %s after %d codes", code, i)
		seen[code] = struct{}{}
	}
}

func TestGenerateExhaustedSource(t *testing.T) {
	source := bytes.NewReader([]byte{0x01, 0x02}) // too short
	gen := NewGeneratorWithSource(source)

	_, err := gen.Generate()
	assert.Error(t, err)
}

func TestValid(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{"PO-DEAD-BEEF-0102", true},
		{"PO-0000-0000-0000", true},
		{"PO-dead-beef-0102", false}, // lowercase
		{"XX-DEAD-BEEF-0102", false}, // wrong prefix
		{"PO-DEAD-BEEF", false},      // too short
		{"PO-DEAD-BEEF-0102-FFFF", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, Valid(tt.code), "code %q", tt.code)
	}
}
