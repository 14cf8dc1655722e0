// Package qrcode encodes and validates the small JSON envelope embedded in
// the scannable QR image printed on a gift card.
package qrcode

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	qr "github.com/skip2/go-qrcode"

	"github.com/perfumeoud/retailapi/internal/giftcode"
)

// EnvelopeType is the only payload type this codec accepts
const EnvelopeType = "gift_card"

// ErrInvalidPayload indicates the payload decoded as JSON but failed the
// schema or issuer check
type ErrInvalidPayload struct {
	Reason string
}

func (e *ErrInvalidPayload) Error() string {
	return fmt.Sprintf("invalid QR payload: %s", e.Reason)
}

// Envelope is the fixed schema carried inside a gift card QR code
type Envelope struct {
	Type      string          `json:"type"`
	Code      string          `json:"code"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Issuer    string          `json:"issuer"`
	Timestamp time.Time       `json:"timestamp"`
}

// Codec renders and validates gift card QR envelopes for a configured issuer
type Codec struct {
	issuer string
}

// NewCodec creates a codec bound to the configured issuer string
func NewCodec(issuer string) *Codec {
	return &Codec{issuer: issuer}
}

// Encode renders the envelope for a gift card as a QR PNG
func (c *Codec) Encode(code string, amount decimal.Decimal, currency string, issuedAt time.Time) ([]byte, error) {
	env := Envelope{
		Type:      EnvelopeType,
		Code:      code,
		Amount:    amount,
		Currency:  currency,
		Issuer:    c.issuer,
		Timestamp: issuedAt,
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR envelope: %w", err)
	}

	png, err := qr.Encode(string(payload), qr.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}

	return png, nil
}

// Decode parses a scanned payload and validates the envelope schema.
// A mismatch is a validation error, not a crash.
func (c *Codec) Decode(payload []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, &ErrInvalidPayload{Reason: "not valid JSON"}
	}

	if env.Type != EnvelopeType {
		return nil, &ErrInvalidPayload{Reason: fmt.Sprintf("unexpected type %q", env.Type)}
	}
	if !strings.HasPrefix(env.Code, giftcode.Prefix) {
		return nil, &ErrInvalidPayload{Reason: "code missing PO prefix"}
	}
	if env.Issuer != c.issuer {
		return nil, &ErrInvalidPayload{Reason: fmt.Sprintf("unknown issuer %q", env.Issuer)}
	}

	return &env, nil
}
